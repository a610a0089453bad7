// Package r1cs is the host constraint-system ("protoboard") the Poseidon
// gadgets are built against: variable allocation, linear-combination algebra,
// A*B=C constraint insertion, and a witness table indexed by variable id.
package r1cs

import "github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"

// Variable is an index into the protoboard's witness vector. Variable 0 is
// conventionally the constant 1.
type Variable int

// One is the constant-1 variable every protoboard allocates at index 0.
const One Variable = 0

// Term is a single coefficient * variable summand of a linear combination.
type Term struct {
	Var   Variable
	Coeff field.Fe
}

// LC is an ordered sum of Terms: a linear combination over the protoboard's
// variables plus the constant 1.
type LC struct {
	Terms []Term
}

// NewLC returns an empty linear combination with capacity pre-reserved, so
// that building a row of a t-wide MDS matrix does not incur O(n^2) slice
// growth.
func NewLC(capacity int) LC {
	return LC{Terms: make([]Term, 0, capacity)}
}

// FromVariable returns the linear combination "1 * v".
func FromVariable(v Variable, f *field.Field) LC {
	return LC{Terms: []Term{{Var: v, Coeff: f.One()}}}
}

// Constant returns the linear combination consisting solely of a constant
// term on the One variable.
func Constant(c field.Fe) LC {
	return LC{Terms: []Term{{Var: One, Coeff: c}}}
}

// Add appends a copy of other's terms, returning a new LC. The
// receiver's backing array is never mutated.
func (lc LC) Add(other LC) LC {
	out := LC{Terms: make([]Term, 0, len(lc.Terms)+len(other.Terms))}
	out.Terms = append(out.Terms, lc.Terms...)
	out.Terms = append(out.Terms, other.Terms...)
	return out
}

// AddTerm appends a single coefficient*variable term.
func (lc LC) AddTerm(v Variable, coeff field.Fe) LC {
	out := LC{Terms: make([]Term, len(lc.Terms), len(lc.Terms)+1)}
	copy(out.Terms, lc.Terms)
	out.Terms = append(out.Terms, Term{Var: v, Coeff: coeff})
	return out
}

// AddConstant folds a constant into the linear combination as a term on the
// One variable.
func (lc LC) AddConstant(c field.Fe) LC {
	return lc.AddTerm(One, c)
}

// ScalarMul multiplies every term's coefficient by c.
func (lc LC) ScalarMul(c field.Fe) LC {
	out := LC{Terms: make([]Term, len(lc.Terms))}
	for i, t := range lc.Terms {
		out.Terms[i] = Term{Var: t.Var, Coeff: t.Coeff.Mul(c)}
	}
	return out
}

// Eval evaluates the linear combination against a witness-reading function,
// typically Protoboard.Val.
func (lc LC) Eval(val func(Variable) field.Fe, f *field.Field) field.Fe {
	sum := f.Zero()
	for _, t := range lc.Terms {
		sum = sum.Add(t.Coeff.Mul(val(t.Var)))
	}
	return sum
}
