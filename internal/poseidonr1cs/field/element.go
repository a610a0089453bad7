// Package field adapts math/big into the prime-field interface the Poseidon
// gadget is built against: addition, subtraction, multiplication, inversion,
// and a canonical little-endian byte encoding.
package field

import (
	"fmt"
	"math/big"
)

// Field is a prime field F_p.
type Field struct {
	modulus *big.Int
}

// Fe is an element of a Field.
type Fe struct {
	field *Field
	value *big.Int
}

// New creates the field F_modulus. modulus must be greater than 2.
func New(modulus *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("field: modulus must be greater than 2")
	}
	return &Field{modulus: new(big.Int).Set(modulus)}, nil
}

// Modulus returns a copy of the field modulus.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// BitSize returns the bit-length of the modulus.
func (f *Field) BitSize() int {
	return f.modulus.BitLen()
}

// ByteLen returns the number of bytes in the canonical encoding, i.e.
// ceil(BitSize()/8).
func (f *Field) ByteLen() int {
	return (f.BitSize() + 7) / 8
}

// Equals reports whether two fields share the same modulus.
func (f *Field) Equals(other *Field) bool {
	return f.modulus.Cmp(other.modulus) == 0
}

// NewElement reduces value modulo the field and returns the resulting element.
func (f *Field) NewElement(value *big.Int) Fe {
	normalized := new(big.Int).Mod(value, f.modulus)
	return Fe{field: f, value: normalized}
}

// NewElementFromInt64 reduces a signed literal modulo the field.
func (f *Field) NewElementFromInt64(value int64) Fe {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 reduces an unsigned literal modulo the field.
func (f *Field) NewElementFromUint64(value uint64) Fe {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// FromBytesLE decodes a little-endian byte slice into a field element,
// reducing modulo the field if the value exceeds the modulus.
func (f *Field) FromBytesLE(data []byte) Fe {
	be := make([]byte, len(data))
	for i, b := range data {
		be[len(data)-1-i] = b
	}
	return f.NewElement(new(big.Int).SetBytes(be))
}

// Zero returns the additive identity.
func (f *Field) Zero() Fe {
	return f.NewElement(big.NewInt(0))
}

// One returns the multiplicative identity.
func (f *Field) One() Fe {
	return f.NewElement(big.NewInt(1))
}

// Field returns the field this element belongs to.
func (e Fe) Field() *Field {
	return e.field
}

// Big returns a copy of the element's value as a big.Int.
func (e Fe) Big() *big.Int {
	return new(big.Int).Set(e.value)
}

func (e Fe) requireSameField(other Fe) {
	if !e.field.Equals(other.field) {
		panic("field: operands belong to different fields")
	}
}

// Add returns e + other.
func (e Fe) Add(other Fe) Fe {
	e.requireSameField(other)
	return e.field.NewElement(new(big.Int).Add(e.value, other.value))
}

// Sub returns e - other.
func (e Fe) Sub(other Fe) Fe {
	e.requireSameField(other)
	return e.field.NewElement(new(big.Int).Sub(e.value, other.value))
}

// Neg returns -e.
func (e Fe) Neg() Fe {
	return e.field.NewElement(new(big.Int).Neg(e.value))
}

// Mul returns e * other.
func (e Fe) Mul(other Fe) Fe {
	e.requireSameField(other)
	return e.field.NewElement(new(big.Int).Mul(e.value, other.value))
}

// Square returns e * e.
func (e Fe) Square() Fe {
	return e.Mul(e)
}

// Inv returns the multiplicative inverse of e. It returns an error for the
// zero element; callers in this module never invert a value that can be zero
// without first checking (see params.generateMDSMatrix, which relies on
// distinct Cauchy sums).
func (e Fe) Inv() (Fe, error) {
	if e.value.Sign() == 0 {
		return Fe{}, fmt.Errorf("field: cannot invert zero element")
	}
	inv := new(big.Int).ModInverse(e.value, e.field.modulus)
	if inv == nil {
		return Fe{}, fmt.Errorf("field: inverse does not exist")
	}
	return e.field.NewElement(inv), nil
}

// Equal reports whether e and other hold the same value in the same field.
func (e Fe) Equal(other Fe) bool {
	return e.field.Equals(other.field) && e.value.Cmp(other.value) == 0
}

// IsZero reports whether e is the additive identity.
func (e Fe) IsZero() bool {
	return e.value.Sign() == 0
}

// String renders the element's decimal value.
func (e Fe) String() string {
	return e.value.String()
}

// Bytes returns the canonical little-endian encoding of e, zero-padded to
// the field's ByteLen.
func (e Fe) Bytes() []byte {
	be := e.value.FillBytes(make([]byte, e.field.ByteLen()))
	out := make([]byte, len(be))
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out
}

// BatchInverse inverts a slice of nonzero elements using Montgomery's trick:
// one inversion and O(n) multiplications instead of n inversions.
func BatchInverse(elements []Fe) ([]Fe, error) {
	n := len(elements)
	if n == 0 {
		return nil, nil
	}
	for i, e := range elements {
		if e.IsZero() {
			return nil, fmt.Errorf("field: cannot invert zero element at index %d", i)
		}
	}

	acc := make([]Fe, n)
	acc[0] = elements[0]
	for i := 1; i < n; i++ {
		acc[i] = acc[i-1].Mul(elements[i])
	}

	accInv, err := acc[n-1].Inv()
	if err != nil {
		return nil, fmt.Errorf("field: failed to invert accumulator: %w", err)
	}

	results := make([]Fe, n)
	for i := n - 1; i > 0; i-- {
		results[i] = accInv.Mul(acc[i-1])
		accInv = accInv.Mul(elements[i])
	}
	results[0] = accInv

	return results, nil
}
