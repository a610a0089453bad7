// Package poseidon chains the round gadgets into a full permutation, builds
// one master instance per parameter tuple, and stamps translated copies of
// it into caller protoboards.
package poseidon

import (
	"fmt"
	"sync"

	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/gadgets"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/params"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/r1cs"
)

// Params is the construction-time parameter tuple identifying one Poseidon
// permutation shape. It is comparable so it can key the master and constant
// memoization tables directly.
type Params struct {
	T, C, F, P       int
	NInputs          int
	NOutputs         int
	ConstrainOutputs bool
	ConstantSeed     string
	MatrixSeed       string
}

// Validate checks the construction-time preconditions from the error-handling
// design: nInputs/nOutputs must fit the state width, F must be even, and the
// partial S-box count must be in range.
func (p Params) Validate() error {
	if p.NInputs > p.T {
		return fmt.Errorf("nInputs=%d exceeds state width t=%d", p.NInputs, p.T)
	}
	if p.NOutputs > p.T {
		return fmt.Errorf("nOutputs=%d exceeds state width t=%d", p.NOutputs, p.T)
	}
	if p.F%2 != 0 {
		return fmt.Errorf("full round count F=%d must be even", p.F)
	}
	if p.C < 1 || p.C > p.T {
		return fmt.Errorf("partial S-box count c=%d must be in [1, t=%d]", p.C, p.T)
	}
	return nil
}

// Poseidon128 fixes the (t=6, c=1, F=8, P=57) tuple, matching the default
// 128-bit-security Poseidon instantiation.
func Poseidon128(nInputs, nOutputs int, constrainOutputs bool) Params {
	return Params{
		T: 6, C: 1, F: 8, P: 57,
		NInputs:          nInputs,
		NOutputs:         nOutputs,
		ConstrainOutputs: constrainOutputs,
		ConstantSeed:     params.ConstantSeed,
		MatrixSeed:       params.MatrixSeed,
	}
}

// Master is the one-per-tuple canonical constraint system: its protoboard
// uses placeholder variables for the permutation's inputs and is built
// exactly once per Params value, then stamped into caller protoboards by the
// instance stamper (see stamper.go).
type Master struct {
	mu sync.Mutex

	field     *field.Field
	params    Params
	constants *params.PoseidonConstants

	pb         *r1cs.Protoboard
	inputVars  []r1cs.Variable
	rounds     []*gadgets.Round
	outputVars []r1cs.Variable // populated only if ConstrainOutputs
	outputLCs  []r1cs.LC       // last round's raw output linear combinations
}

// roundPlan describes one round's S-box count and input/output arity, per
// the layout table: first round, F/2-1 prefix-full rounds, P partial
// rounds, F/2-1 suffix-full rounds, and one last round (F+P rounds in all).
type roundPlan struct {
	nSBox, nInputs, nOutputs int
}

func buildRoundPlan(p Params) []roundPlan {
	r := p.F + p.P
	plan := make([]roundPlan, r)

	plan[0] = roundPlan{nSBox: p.T, nInputs: p.NInputs, nOutputs: p.T}
	for i := 1; i < p.F/2; i++ {
		plan[i] = roundPlan{nSBox: p.T, nInputs: p.T, nOutputs: p.T}
	}
	for i := p.F / 2; i < p.F/2+p.P; i++ {
		plan[i] = roundPlan{nSBox: p.C, nInputs: p.T, nOutputs: p.T}
	}
	for i := p.F/2 + p.P; i < r-1; i++ {
		plan[i] = roundPlan{nSBox: p.T, nInputs: p.T, nOutputs: p.T}
	}
	plan[r-1] = roundPlan{nSBox: p.T, nInputs: p.T, nOutputs: p.NOutputs}

	return plan
}

// buildMaster constructs the scratch protoboard for p: nInputs placeholder
// input variables, the full round chain, and (if requested) output-pinning
// identity constraints.
func buildMaster(f *field.Field, p Params) (*Master, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	constants, err := params.GetConstants(f, p.T, p.F, p.P, p.ConstantSeed, p.MatrixSeed)
	if err != nil {
		return nil, fmt.Errorf("poseidon: deriving constants for t=%d F=%d P=%d: %w", p.T, p.F, p.P, err)
	}

	pb := r1cs.NewProtoboard(f)
	inputVars := pb.AllocateVariables(p.NInputs)

	state := make([]r1cs.LC, p.NInputs)
	for i, v := range inputVars {
		state[i] = r1cs.FromVariable(v, f)
	}

	plan := buildRoundPlan(p)
	rounds := make([]*gadgets.Round, len(plan))
	for i, rp := range plan {
		round, err := gadgets.NewRound(pb, p.T, rp.nSBox, rp.nInputs, rp.nOutputs, constants.C[i], constants.M, state)
		if err != nil {
			return nil, fmt.Errorf("poseidon: round %d: %w", i, err)
		}
		rounds[i] = round
		state = round.Outputs()
	}

	m := &Master{
		field:     f,
		params:    p,
		constants: constants,
		pb:        pb,
		inputVars: inputVars,
		rounds:    rounds,
		outputLCs: state,
	}

	if p.ConstrainOutputs {
		outputVars := pb.AllocateVariables(p.NOutputs)
		one := f.One()
		for k, v := range outputVars {
			pb.AddConstraint(state[k], r1cs.Constant(one), r1cs.FromVariable(v, f))
		}
		m.outputVars = outputVars
	}

	return m, nil
}

type masterEntry struct {
	once  sync.Once
	value *Master
	err   error
}

var (
	masterMu    sync.Mutex
	masterTable = map[string]map[Params]*masterEntry{}
)

// GetMaster returns the memoized Master for (f, p), building it on first
// access under a once-only guard so concurrent first callers share one
// build.
func GetMaster(f *field.Field, p Params) (*Master, error) {
	modKey := f.Modulus().String()

	masterMu.Lock()
	byParams, ok := masterTable[modKey]
	if !ok {
		byParams = map[Params]*masterEntry{}
		masterTable[modKey] = byParams
	}
	entry, ok := byParams[p]
	if !ok {
		entry = &masterEntry{}
		byParams[p] = entry
	}
	masterMu.Unlock()

	entry.once.Do(func() {
		entry.value, entry.err = buildMaster(f, p)
	})

	return entry.value, entry.err
}

// NumVariables returns the number of variables on the master's scratch
// protoboard, including the implicit constant-1 variable.
func (m *Master) NumVariables() int {
	return m.pb.NumVariables()
}

// Constraints returns the master's constraint list, shared (and, for
// SwapAB, mutated) across every stamped instance.
func (m *Master) Constraints() []r1cs.Constraint {
	return m.pb.Constraints()
}

// runWitness writes inputValues into the master's placeholder input
// variables, propagates every round's witness, and (if ConstrainOutputs)
// pins the output variables. Callers must hold m.mu: the master's witness
// vector is shared process-wide state, and two stamped instances witnessing
// concurrently would otherwise clobber each other's input values mid-run.
func (m *Master) runWitness(inputValues []field.Fe) error {
	if len(inputValues) != len(m.inputVars) {
		return fmt.Errorf("poseidon: expected %d input values, got %d", len(m.inputVars), len(inputValues))
	}

	for k, v := range m.inputVars {
		m.pb.SetVal(v, inputValues[k])
	}
	for _, round := range m.rounds {
		round.GenerateWitness(m.pb)
	}
	if m.params.ConstrainOutputs {
		for k, v := range m.outputVars {
			m.pb.SetVal(v, m.pb.Eval(m.outputLCs[k]))
		}
	}
	return nil
}
