package r1cs

import (
	"fmt"

	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"
)

// Constraint is one row of the rank-1 constraint system: A*B=C over linear
// combinations of protoboard variables.
type Constraint struct {
	A, B, C LC
}

// swap exchanges the A and B sides of the constraint, exploiting the
// symmetry of A*B=C.
func (c *Constraint) swap() {
	c.A, c.B = c.B, c.A
}

// Protoboard is the constraint-system host: it owns the witness vector, the
// list of constraints, and variable allocation. Variable 0 always holds the
// field's One element.
type Protoboard struct {
	field       *field.Field
	witness     []field.Fe
	constraints []Constraint
}

// NewProtoboard creates an empty protoboard over f, with variable 0
// pre-allocated to the constant 1.
func NewProtoboard(f *field.Field) *Protoboard {
	return &Protoboard{
		field:   f,
		witness: []field.Fe{f.One()},
	}
}

// Field returns the field the protoboard operates over.
func (pb *Protoboard) Field() *field.Field {
	return pb.field
}

// NumVariables returns the number of allocated variables, including the
// implicit constant-1 variable at index 0.
func (pb *Protoboard) NumVariables() int {
	return len(pb.witness)
}

// AllocateVariable appends one fresh, zero-valued witness slot and returns
// its Variable id.
func (pb *Protoboard) AllocateVariable() Variable {
	pb.witness = append(pb.witness, pb.field.Zero())
	return Variable(len(pb.witness) - 1)
}

// AllocateVariables appends n fresh witness slots as one contiguous block
// and returns their Variable ids in order.
func (pb *Protoboard) AllocateVariables(n int) []Variable {
	vars := make([]Variable, n)
	for i := 0; i < n; i++ {
		vars[i] = pb.AllocateVariable()
	}
	return vars
}

// AddConstraint appends one R1CS constraint A*B=C.
func (pb *Protoboard) AddConstraint(a, b, c LC) {
	pb.constraints = append(pb.constraints, Constraint{A: a, B: b, C: c})
}

// Val reads the current witness value of v.
func (pb *Protoboard) Val(v Variable) field.Fe {
	return pb.witness[v]
}

// SetVal writes a witness value for v. Variable 0 cannot be reassigned.
func (pb *Protoboard) SetVal(v Variable, val field.Fe) {
	if v == One {
		panic("r1cs: cannot reassign the constant-1 variable")
	}
	pb.witness[v] = val
}

// Eval evaluates a linear combination under the current witness.
func (pb *Protoboard) Eval(lc LC) field.Fe {
	return lc.Eval(pb.Val, pb.field)
}

// Constraints returns the protoboard's constraint list. The returned slice
// aliases internal storage: SwapAB and the stamper's copy-with-translation
// step both rely on this to mutate or read constraints in place.
func (pb *Protoboard) Constraints() []Constraint {
	return pb.constraints
}

// NumConstraints returns the number of constraints added so far.
func (pb *Protoboard) NumConstraints() int {
	return len(pb.constraints)
}

// VerifyWitness checks that every constraint is satisfied by the current
// witness: eval(A) * eval(B) = eval(C). It never mutates the protoboard and
// is intended for tests, not for the proving/verification path (which is an
// external collaborator).
func (pb *Protoboard) VerifyWitness() error {
	for i, c := range pb.constraints {
		a := pb.Eval(c.A)
		b := pb.Eval(c.B)
		want := pb.Eval(c.C)
		if got := a.Mul(b); !got.Equal(want) {
			return fmt.Errorf("r1cs: constraint %d not satisfied: (%s)*(%s) = %s, want %s", i, a, b, got, want)
		}
	}
	return nil
}

// SwapAB exchanges the A and B linear combinations of every constraint in
// place, exploiting the symmetry of A*B=C. Idempotent callers should guard
// this with a sync.Once (see poseidon.SwapAB) so it runs exactly once
// per master protoboard; calling it twice directly undoes the first swap.
func (pb *Protoboard) SwapAB() {
	for i := range pb.constraints {
		pb.constraints[i].swap()
	}
}
