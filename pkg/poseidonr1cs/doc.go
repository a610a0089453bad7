// Package poseidonr1cs exposes the Poseidon permutation and hash as a rank-1
// constraint system (R1CS) gadget.
//
// # Quick Start
//
// Building and witnessing a default Poseidon128 instance:
//
//	f, err := poseidonr1cs.NewField(modulus)
//	if err != nil {
//		log.Fatal(err)
//	}
//	pb := poseidonr1cs.NewProtoboard(f)
//
//	x := pb.AllocateVariable()
//	h, err := poseidonr1cs.Poseidon128(pb, []poseidonr1cs.Variable{x}, 1)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := h.GenerateConstraints(); err != nil {
//		log.Fatal(err)
//	}
//	pb.SetVal(x, f.NewElementFromInt64(42))
//	if err := h.GenerateWitness([]poseidonr1cs.Fe{f.NewElementFromInt64(42)}); err != nil {
//		log.Fatal(err)
//	}
//	out, err := h.Result()
//
// # Architecture
//
//   - pkg/poseidonr1cs/: public API (this package)
//   - internal/poseidonr1cs/: field, r1cs, gadgets, params, and poseidon packages
//
// Implementation details in internal/ can be refactored without breaking the
// public API.
package poseidonr1cs
