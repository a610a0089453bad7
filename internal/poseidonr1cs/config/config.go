// Package config selects the parameter tuple and seed strings a Poseidon
// gadget instance is built from.
package config

import (
	"fmt"
	"math/big"
)

// Config represents the construction-time parameters for a Poseidon R1CS
// gadget instance.
type Config struct {
	// Field parameters
	FieldModulus *big.Int

	// Poseidon parameters
	T int // state width
	C int // number of S-boxes per partial round
	F int // number of full rounds (must be even)
	P int // number of partial rounds

	// Arity
	NInputs  int
	NOutputs int

	ConstrainOutputs bool

	// Seeds
	ConstantSeed string
	MatrixSeed   string
}

// DefaultConfig returns the Poseidon128 parameter tuple over the BN254
// scalar field: t=6, c=1, F=8, P=57, single-input single-output, outputs
// constrained.
func DefaultConfig() *Config {
	modulus, _ := new(big.Int).SetString(
		"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

	return &Config{
		FieldModulus:     modulus,
		T:                6,
		C:                1,
		F:                8,
		P:                57,
		NInputs:          1,
		NOutputs:         1,
		ConstrainOutputs: true,
		ConstantSeed:     "poseidon_constants",
		MatrixSeed:       "poseidon_matrix_0000",
	}
}

// Validate checks that the configuration describes a buildable Poseidon
// instance.
func (c *Config) Validate() error {
	if c.FieldModulus == nil || c.FieldModulus.Cmp(big.NewInt(2)) <= 0 {
		return fmt.Errorf("field modulus must be greater than 2")
	}
	if c.T <= 0 {
		return fmt.Errorf("state width T must be positive")
	}
	if c.F <= 0 || c.F%2 != 0 {
		return fmt.Errorf("full round count F must be positive and even, got %d", c.F)
	}
	if c.P <= 0 {
		return fmt.Errorf("partial round count P must be positive")
	}
	if c.C < 1 || c.C > c.T {
		return fmt.Errorf("partial S-box count C must be in [1, T], got C=%d T=%d", c.C, c.T)
	}
	if c.NInputs <= 0 || c.NInputs > c.T {
		return fmt.Errorf("NInputs must be in [1, T], got NInputs=%d T=%d", c.NInputs, c.T)
	}
	if c.NOutputs <= 0 || c.NOutputs > c.T {
		return fmt.Errorf("NOutputs must be in [1, T], got NOutputs=%d T=%d", c.NOutputs, c.T)
	}
	if c.ConstantSeed == "" || c.MatrixSeed == "" {
		return fmt.Errorf("constant and matrix seeds must be non-empty")
	}
	return nil
}

// WithFieldModulus sets the field modulus.
func (c *Config) WithFieldModulus(modulus *big.Int) *Config {
	c.FieldModulus = new(big.Int).Set(modulus)
	return c
}

// WithT sets the state width.
func (c *Config) WithT(t int) *Config {
	c.T = t
	return c
}

// WithC sets the partial round S-box count.
func (c *Config) WithC(cBox int) *Config {
	c.C = cBox
	return c
}

// WithRounds sets the full and partial round counts.
func (c *Config) WithRounds(fullRounds, partialRounds int) *Config {
	c.F = fullRounds
	c.P = partialRounds
	return c
}

// WithArity sets the input and output element counts.
func (c *Config) WithArity(nInputs, nOutputs int) *Config {
	c.NInputs = nInputs
	c.NOutputs = nOutputs
	return c
}

// WithConstrainOutputs sets whether the last round's outputs are pinned to
// dedicated output variables via identity constraints.
func (c *Config) WithConstrainOutputs(constrain bool) *Config {
	c.ConstrainOutputs = constrain
	return c
}

// WithSeeds sets the constant and matrix derivation seed strings.
func (c *Config) WithSeeds(constantSeed, matrixSeed string) *Config {
	c.ConstantSeed = constantSeed
	c.MatrixSeed = matrixSeed
	return c
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	return &Config{
		FieldModulus:     new(big.Int).Set(c.FieldModulus),
		T:                c.T,
		C:                c.C,
		F:                c.F,
		P:                c.P,
		NInputs:          c.NInputs,
		NOutputs:         c.NOutputs,
		ConstrainOutputs: c.ConstrainOutputs,
		ConstantSeed:     c.ConstantSeed,
		MatrixSeed:       c.MatrixSeed,
	}
}
