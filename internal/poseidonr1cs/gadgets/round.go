package gadgets

import (
	"fmt"

	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/r1cs"
)

// Round is one Poseidon round: nSBox S-box applications driven by the round
// constant and the (possibly partial) input state, followed by an MDS
// mixing step folded directly into the output linear combinations at zero
// constraint cost.
type Round struct {
	t, nSBox, nInputs, nOutputs int
	sboxes                      []*SBox
	outputs                     []r1cs.LC
}

// NewRound allocates this round's S-box sub-gadgets on pb and computes its
// nOutputs output linear combinations. c is this round's constant, m is the
// full t*t MDS matrix (row-major), state is the nInputs-long input.
//
// When nSBox < t, positions [nSBox, nInputs) pass state straight through
// (scaled by the relevant MDS row entry) and positions [nSBox, t) contribute
// a constant term of c*row[j], since an absent state variable is implicitly
// c_i after constant-addition.
func NewRound(pb *r1cs.Protoboard, t, nSBox, nInputs, nOutputs int, c field.Fe, m []field.Fe, state []r1cs.LC) (*Round, error) {
	if nSBox > t || nInputs > t || nOutputs > t {
		return nil, fmt.Errorf("gadgets: round parameters exceed state width t=%d: nSBox=%d nInputs=%d nOutputs=%d", t, nSBox, nInputs, nOutputs)
	}
	if len(state) != nInputs {
		return nil, fmt.Errorf("gadgets: round expected %d input linear combinations, got %d", nInputs, len(state))
	}
	if len(m) != t*t {
		return nil, fmt.Errorf("gadgets: MDS matrix has %d entries, want %d", len(m), t*t)
	}

	f := pb.Field()
	r := &Round{t: t, nSBox: nSBox, nInputs: nInputs, nOutputs: nOutputs}

	r.sboxes = make([]*SBox, nSBox)
	for h := 0; h < nSBox; h++ {
		var input r1cs.LC
		if h < nInputs {
			input = state[h].AddConstant(c)
		} else {
			input = r1cs.Constant(c)
		}
		r.sboxes[h] = NewSBox(pb, input)
	}

	r.outputs = make([]r1cs.LC, nOutputs)
	for i := 0; i < nOutputs; i++ {
		row := m[i*t : i*t+t]
		terms := make([]r1cs.Term, 0, t+1)

		for s := 0; s < nSBox; s++ {
			terms = append(terms, r1cs.Term{Var: r.sboxes[s].Result(), Coeff: row[s]})
		}
		for k := nSBox; k < nInputs; k++ {
			for _, term := range state[k].Terms {
				terms = append(terms, r1cs.Term{Var: term.Var, Coeff: term.Coeff.Mul(row[k])})
			}
		}
		if nSBox < t {
			constTerm := f.Zero()
			for j := nSBox; j < t; j++ {
				constTerm = constTerm.Add(c.Mul(row[j]))
			}
			terms = append(terms, r1cs.Term{Var: r1cs.One, Coeff: constTerm})
		}

		r.outputs[i] = r1cs.LC{Terms: terms}
	}

	return r, nil
}

// Outputs returns this round's nOutputs output linear combinations.
func (r *Round) Outputs() []r1cs.LC {
	return r.outputs
}

// GenerateWitness evaluates every S-box sub-gadget's witness. Must run after
// the caller has assigned every variable this round's input state depends
// on.
func (r *Round) GenerateWitness(pb *r1cs.Protoboard) {
	for _, sb := range r.sboxes {
		sb.GenerateWitness(pb)
	}
}
