package poseidon

import (
	"fmt"

	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/params"
)

// ReferencePermutation evaluates the same round schedule the gadget
// constrains, directly on field elements with no variables or constraints.
// state must have length t; positions beyond the real input arity are the
// caller's responsibility to zero-pad (the gadget's first-round S-box on an
// absent input position reduces to "0 + c_i", which a zero-padded state
// position reproduces exactly). It is a test-and-CLI convenience and must
// never be called from GenerateConstraints or GenerateWitness.
func ReferencePermutation(constants *params.PoseidonConstants, t, c, fullRounds, partialRounds int, state []field.Fe) ([]field.Fe, error) {
	if len(state) != t {
		return nil, fmt.Errorf("poseidon: reference permutation expected state of length %d, got %d", t, len(state))
	}
	if len(constants.C) != fullRounds+partialRounds {
		return nil, fmt.Errorf("poseidon: constants.C has %d entries, want %d", len(constants.C), fullRounds+partialRounds)
	}
	if len(constants.M) != t*t {
		return nil, fmt.Errorf("poseidon: constants.M has %d entries, want %d", len(constants.M), t*t)
	}

	f := state[0].Field()
	cur := append([]field.Fe(nil), state...)

	rounds := fullRounds + partialRounds
	for i := 0; i < rounds; i++ {
		nSBox := t
		if i >= fullRounds/2 && i < fullRounds/2+partialRounds {
			nSBox = c
		}

		ci := constants.C[i]
		sboxOut := make([]field.Fe, nSBox)
		for h := 0; h < nSBox; h++ {
			in := cur[h].Add(ci)
			sq := in.Square()
			quad := sq.Square()
			sboxOut[h] = quad.Mul(in)
		}

		next := make([]field.Fe, t)
		for row := 0; row < t; row++ {
			mRow := constants.M[row*t : row*t+t]
			sum := f.Zero()
			for s := 0; s < nSBox; s++ {
				sum = sum.Add(mRow[s].Mul(sboxOut[s]))
			}
			for k := nSBox; k < t; k++ {
				sum = sum.Add(mRow[k].Mul(cur[k]))
			}
			if nSBox < t {
				rowConst := f.Zero()
				for j := nSBox; j < t; j++ {
					rowConst = rowConst.Add(ci.Mul(mRow[j]))
				}
				sum = sum.Add(rowConst)
			}
			next[row] = sum
		}
		cur = next
	}

	return cur, nil
}

// ReferenceHash pads inputs to the permutation's full state width with
// zeros, runs ReferencePermutation, and returns the first nOutputs elements
// of the resulting state.
func ReferenceHash(constants *params.PoseidonConstants, p Params, inputs []field.Fe) ([]field.Fe, error) {
	if len(inputs) != p.NInputs {
		return nil, fmt.Errorf("poseidon: expected %d inputs, got %d", p.NInputs, len(inputs))
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("poseidon: at least one input is required")
	}

	f := inputs[0].Field()
	state := make([]field.Fe, p.T)
	copy(state, inputs)
	for i := len(inputs); i < p.T; i++ {
		state[i] = f.Zero()
	}

	out, err := ReferencePermutation(constants, p.T, p.C, p.F, p.P, state)
	if err != nil {
		return nil, err
	}
	return out[:p.NOutputs], nil
}
