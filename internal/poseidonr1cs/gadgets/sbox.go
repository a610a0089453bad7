// Package gadgets holds the nonlinear primitives the Poseidon permutation is
// built from: the x^5 S-box and the round that wraps it with the (free,
// linear) MDS mixing step.
package gadgets

import (
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/r1cs"
)

// SBox realizes y = x^5 over an arbitrary input linear combination using
// three fresh variables and three multiplication constraints:
//
//	x  * x  = x2
//	x2 * x2 = x4
//	x  * x4 = x5
//
// The MDS matrix never sees raw variables directly; it consumes sbox.Result()
// as a one-term linear combination instead.
type SBox struct {
	input      r1cs.LC
	x2, x4, x5 r1cs.Variable
}

// NewSBox allocates the S-box's three witness variables and emits its three
// constraints against input on pb. input is evaluated as-is; callers fold in
// the round constant before calling this.
func NewSBox(pb *r1cs.Protoboard, input r1cs.LC) *SBox {
	f := pb.Field()
	vars := pb.AllocateVariables(3)
	s := &SBox{input: input, x2: vars[0], x4: vars[1], x5: vars[2]}

	x2LC := r1cs.FromVariable(s.x2, f)
	x4LC := r1cs.FromVariable(s.x4, f)
	x5LC := r1cs.FromVariable(s.x5, f)

	pb.AddConstraint(input, input, x2LC)
	pb.AddConstraint(x2LC, x2LC, x4LC)
	pb.AddConstraint(input, x4LC, x5LC)

	return s
}

// Result returns the variable holding x^5.
func (s *SBox) Result() r1cs.Variable {
	return s.x5
}

// ResultLC returns Result() as a one-term linear combination, ready to be
// folded into an MDS row.
func (s *SBox) ResultLC(f *field.Field) r1cs.LC {
	return r1cs.FromVariable(s.x5, f)
}

// GenerateWitness evaluates input under pb's current witness and writes the
// three derived values. Must run after the caller has assigned every
// variable input depends on.
func (s *SBox) GenerateWitness(pb *r1cs.Protoboard) {
	x := pb.Eval(s.input)
	x2 := x.Square()
	x4 := x2.Square()
	x5 := x4.Mul(x)

	pb.SetVal(s.x2, x2)
	pb.SetVal(s.x4, x4)
	pb.SetVal(s.x5, x5)
}
