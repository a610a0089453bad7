// Package params derives Poseidon's round constants and MDS matrix from
// fixed seed strings via BLAKE2b, memoizing the result per (field, t, F, P)
// behind a once-only guard so the expensive derivation runs at most once per
// process, regardless of how many gadget instances request it.
package params

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/blake2b"

	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"
)

// Bit-exact seed strings. Do not change: these bytes are part of the
// circuit's public identity and must match any existing proving/verification
// keys built against this gadget.
const (
	ConstantSeed = "poseidon_constants"
	MatrixSeed   = "poseidon_matrix_0000"
)

// PoseidonConstants holds the round-constant vector and MDS matrix for a
// fixed (field, t, F, P) tuple. Once produced it is immutable and shared by
// reference across every permutation built with the same tuple.
type PoseidonConstants struct {
	// C has length F+P.
	C []field.Fe
	// M is the t*t MDS matrix, row-major.
	M []field.Fe
	// T is the state width the matrix was generated for.
	T int
}

// outputLen computes L, the number of BLAKE2b output bytes consumed per
// derived element: the field's bit-length rounded up to a full extra byte
// when it is already a multiple of 8. This matches
// ceil_to_byte(b) = b + (8 - b mod 8), which is intentionally 8 bits larger
// than the conventional ceil(b/8) whenever b is already byte-aligned.
func outputLen(f *field.Field) int {
	bits := f.BitSize()
	return (bits + (8 - bits%8)) / 8
}

// GenerateConstants derives n field elements from seed by repeated BLAKE2b
// application: the first element's bytes come from BLAKE2b(seed); each
// subsequent element's bytes come from BLAKE2b(previous element's raw
// output bytes), not from the reduced field value.
func GenerateConstants(f *field.Field, seed string, n int) ([]field.Fe, error) {
	if n <= 0 {
		return nil, nil
	}

	outLen := outputLen(f)
	out := make([]field.Fe, n)

	data := []byte(seed)
	for i := 0; i < n; i++ {
		raw, err := blake2bSum(data, outLen)
		if err != nil {
			return nil, fmt.Errorf("params: blake2b constant derivation failed at index %d: %w", i, err)
		}
		out[i] = f.FromBytesLE(raw)
		data = raw
	}

	return out, nil
}

func blake2bSum(data []byte, outLen int) ([]byte, error) {
	h, err := blake2b.New(outLen, nil)
	if err != nil {
		return nil, err
	}
	h.Write(data)
	return h.Sum(nil), nil
}

// generateMDSMatrix builds a t*t Cauchy matrix M[i*t+j] = (c[i]-c[t+j])^-1
// from 2t elements derived from seed. A Cauchy matrix with distinct row and
// column generators is MDS by construction.
func generateMDSMatrix(f *field.Field, seed string, t int) ([]field.Fe, error) {
	c, err := GenerateConstants(f, seed, 2*t)
	if err != nil {
		return nil, err
	}

	diffs := make([]field.Fe, t*t)
	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			diffs[i*t+j] = c[i].Sub(c[t+j])
		}
	}

	inverses, err := field.BatchInverse(diffs)
	if err != nil {
		return nil, fmt.Errorf("params: MDS matrix entries must be pairwise distinct: %w", err)
	}
	return inverses, nil
}

type constantsKey struct {
	modulus                string
	t, fullRounds, partial int
	constantSeed           string
	matrixSeed             string
}

type constantsEntry struct {
	once  sync.Once
	value *PoseidonConstants
	err   error
}

var (
	constantsMu    sync.Mutex
	constantsTable = map[constantsKey]*constantsEntry{}
)

// GetConstants returns the memoized PoseidonConstants for the given
// (field, t, F, P, constantSeed, matrixSeed) tuple, deriving them on first
// access. Concurrent first callers for the same tuple block on one shared
// derivation; the constants are never observed partially initialized.
func GetConstants(f *field.Field, t, fullRounds, partialRounds int, constantSeed, matrixSeed string) (*PoseidonConstants, error) {
	key := constantsKey{
		modulus:      f.Modulus().String(),
		t:            t,
		fullRounds:   fullRounds,
		partial:      partialRounds,
		constantSeed: constantSeed,
		matrixSeed:   matrixSeed,
	}

	constantsMu.Lock()
	entry, ok := constantsTable[key]
	if !ok {
		entry = &constantsEntry{}
		constantsTable[key] = entry
	}
	constantsMu.Unlock()

	entry.once.Do(func() {
		c, err := GenerateConstants(f, constantSeed, fullRounds+partialRounds)
		if err != nil {
			entry.err = err
			return
		}
		m, err := generateMDSMatrix(f, matrixSeed, t)
		if err != nil {
			entry.err = err
			return
		}
		entry.value = &PoseidonConstants{C: c, M: m, T: t}
	})

	return entry.value, entry.err
}

// DefaultConstants fetches constants derived from the bit-exact default seed
// strings ConstantSeed and MatrixSeed.
func DefaultConstants(f *field.Field, t, fullRounds, partialRounds int) (*PoseidonConstants, error) {
	return GetConstants(f, t, fullRounds, partialRounds, ConstantSeed, MatrixSeed)
}
