package poseidonr1cs

import (
	"math/big"

	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/poseidon"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/r1cs"
)

// Re-exported constraint-system types, so callers never need to import the
// internal packages directly.
type (
	Fe         = field.Fe
	Field      = field.Field
	Variable   = r1cs.Variable
	LC         = r1cs.LC
	Protoboard = r1cs.Protoboard
	Params     = poseidon.Params
)

// One is the constant-1 variable every protoboard allocates at index 0.
const One = r1cs.One

// NewField builds a field adapter over modulus.
func NewField(modulus *big.Int) (*Field, error) {
	return field.New(modulus)
}

// NewProtoboard creates an empty protoboard over f.
func NewProtoboard(f *Field) *Protoboard {
	return r1cs.NewProtoboard(f)
}

// FromVariable returns the linear combination "1 * v".
func FromVariable(v Variable, f *Field) LC {
	return r1cs.FromVariable(v, f)
}

// Hash is a stamped Poseidon permutation/hash instance bound to a caller
// protoboard.
type Hash struct {
	master *poseidon.Master
	inst   *poseidon.Instance
}

// NewHash builds (or reuses the memoized) master for params, then stamps a
// fresh instance onto pb bound directly to inputs — the master's placeholder
// inputs translate onto these variables, not onto a freshly bound copy, so a
// stamped instance costs nothing beyond the master's own constraints. Per the
// error-handling design, every failure here is a construction-time
// *GadgetError.
func NewHash(pb *Protoboard, params Params, inputs []Variable) (*Hash, error) {
	if err := params.Validate(); err != nil {
		return nil, &GadgetError{Code: ErrParameterInvalid, Message: err.Error()}
	}

	master, err := poseidon.GetMaster(pb.Field(), params)
	if err != nil {
		return nil, &GadgetError{Code: ErrConstantDerivation, Message: "deriving poseidon constants and MDS matrix", Cause: err}
	}

	inst, err := poseidon.NewInstance(master, pb, inputs)
	if err != nil {
		return nil, &GadgetError{Code: ErrParameterInvalid, Message: err.Error(), Cause: err}
	}

	return &Hash{master: master, inst: inst}, nil
}

// Poseidon128 fixes (t=6, c=1, F=8, P=57) and stamps an instance with
// outputCount constrained outputs.
func Poseidon128(pb *Protoboard, inputs []Variable, outputCount int) (*Hash, error) {
	return NewHash(pb, poseidon.Poseidon128(len(inputs), outputCount, true), inputs)
}

// GenerateConstraints emits the stamped constraints onto the caller's
// protoboard.
func (h *Hash) GenerateConstraints() error {
	h.inst.GenerateConstraints()
	return nil
}

// GenerateWitness computes and writes the witness block for inputValues.
func (h *Hash) GenerateWitness(inputValues []Fe) error {
	if err := h.inst.GenerateWitness(inputValues); err != nil {
		return &GadgetError{Code: ErrWitnessUnassigned, Message: err.Error(), Cause: err}
	}
	return nil
}

// Result returns the single output variable; valid only when NOutputs=1 and
// ConstrainOutputs=true.
func (h *Hash) Result() (Variable, error) {
	v, err := h.inst.Result()
	if err != nil {
		return 0, &GadgetError{Code: ErrParameterInvalid, Message: err.Error(), Cause: err}
	}
	return v, nil
}

// Results returns every constrained output variable.
func (h *Hash) Results() ([]Variable, error) {
	vs, err := h.inst.Results()
	if err != nil {
		return nil, &GadgetError{Code: ErrParameterInvalid, Message: err.Error(), Cause: err}
	}
	return vs, nil
}

// SwapAB exchanges the A and B side of every constraint of the (field,
// params) master. Instances stamped from that master afterwards copy the
// swapped constraints; instances stamped before keep their copies as they
// were. Safe to call any number of times: only the first call, for a given
// master, has any effect.
func SwapAB(pb *Protoboard, params Params) error {
	master, err := poseidon.GetMaster(pb.Field(), params)
	if err != nil {
		return &GadgetError{Code: ErrConstantDerivation, Message: "deriving poseidon constants and MDS matrix", Cause: err}
	}
	poseidon.SwapAB(master)
	return nil
}
