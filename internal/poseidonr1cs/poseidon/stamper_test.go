package poseidon

import (
	"testing"

	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/field"
	"github.com/vybium/poseidon-r1cs/internal/poseidonr1cs/r1cs"
)

func TestStamperEquivalence(t *testing.T) {
	f := testField(t)
	p := Poseidon128(1, 1, true)

	master, err := GetMaster(f, p)
	if err != nil {
		t.Fatalf("GetMaster: %v", err)
	}

	pb := r1cs.NewProtoboard(f)
	x := pb.AllocateVariable()
	pb.SetVal(x, f.NewElementFromInt64(7))

	inst, err := NewInstance(master, pb, []r1cs.Variable{x})
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	inst.GenerateConstraints()
	if err := inst.GenerateWitness([]field.Fe{f.NewElementFromInt64(7)}); err != nil {
		t.Fatalf("GenerateWitness: %v", err)
	}

	if err := pb.VerifyWitness(); err != nil {
		t.Fatalf("VerifyWitness: %v", err)
	}

	result, err := inst.Result()
	if err != nil {
		t.Fatalf("Result: %v", err)
	}

	masterOut := master.pb.Val(master.outputVars[0])
	if got := pb.Val(result); !got.Equal(masterOut) {
		t.Errorf("stamped instance output = %s, want %s (master's own witness)", got, masterOut)
	}
}

func TestTwoStampedInstancesSameInputAgree(t *testing.T) {
	f := testField(t)
	p := Poseidon128(1, 1, true)

	master, err := GetMaster(f, p)
	if err != nil {
		t.Fatalf("GetMaster: %v", err)
	}

	pb := r1cs.NewProtoboard(f)

	x1 := pb.AllocateVariable()
	x2 := pb.AllocateVariable()
	pb.SetVal(x1, f.NewElementFromInt64(9))
	pb.SetVal(x2, f.NewElementFromInt64(9))

	inst1, err := NewInstance(master, pb, []r1cs.Variable{x1})
	if err != nil {
		t.Fatalf("NewInstance 1: %v", err)
	}
	inst1.GenerateConstraints()
	if err := inst1.GenerateWitness([]field.Fe{f.NewElementFromInt64(9)}); err != nil {
		t.Fatalf("GenerateWitness 1: %v", err)
	}

	inst2, err := NewInstance(master, pb, []r1cs.Variable{x2})
	if err != nil {
		t.Fatalf("NewInstance 2: %v", err)
	}
	inst2.GenerateConstraints()
	if err := inst2.GenerateWitness([]field.Fe{f.NewElementFromInt64(9)}); err != nil {
		t.Fatalf("GenerateWitness 2: %v", err)
	}

	if err := pb.VerifyWitness(); err != nil {
		t.Fatalf("VerifyWitness: %v", err)
	}

	r1, err := inst1.Result()
	if err != nil {
		t.Fatalf("Result 1: %v", err)
	}
	r2, err := inst2.Result()
	if err != nil {
		t.Fatalf("Result 2: %v", err)
	}
	if !pb.Val(r1).Equal(pb.Val(r2)) {
		t.Errorf("two instances on equal inputs disagree: %s vs %s", pb.Val(r1), pb.Val(r2))
	}
}

func TestTwoStampedInstancesDifferentInputDisagree(t *testing.T) {
	f := testField(t)
	p := Poseidon128(1, 1, true)

	master, err := GetMaster(f, p)
	if err != nil {
		t.Fatalf("GetMaster: %v", err)
	}

	pb := r1cs.NewProtoboard(f)
	x1 := pb.AllocateVariable()
	x2 := pb.AllocateVariable()
	pb.SetVal(x1, f.NewElementFromInt64(1))
	pb.SetVal(x2, f.NewElementFromInt64(2))

	inst1, _ := NewInstance(master, pb, []r1cs.Variable{x1})
	inst1.GenerateConstraints()
	if err := inst1.GenerateWitness([]field.Fe{f.NewElementFromInt64(1)}); err != nil {
		t.Fatalf("GenerateWitness 1: %v", err)
	}

	inst2, _ := NewInstance(master, pb, []r1cs.Variable{x2})
	inst2.GenerateConstraints()
	if err := inst2.GenerateWitness([]field.Fe{f.NewElementFromInt64(2)}); err != nil {
		t.Fatalf("GenerateWitness 2: %v", err)
	}

	r1, _ := inst1.Result()
	r2, _ := inst2.Result()
	if pb.Val(r1).Equal(pb.Val(r2)) {
		t.Errorf("instances on different inputs produced equal outputs")
	}
}

func TestGenerateWitnessBeforeConstraintsFails(t *testing.T) {
	f := testField(t)
	p := Poseidon128(1, 1, true)

	master, err := GetMaster(f, p)
	if err != nil {
		t.Fatalf("GetMaster: %v", err)
	}

	pb := r1cs.NewProtoboard(f)
	x := pb.AllocateVariable()
	pb.SetVal(x, f.NewElementFromInt64(1))

	inst, err := NewInstance(master, pb, []r1cs.Variable{x})
	if err != nil {
		t.Fatalf("NewInstance: %v", err)
	}
	if err := inst.GenerateWitness([]field.Fe{f.NewElementFromInt64(1)}); err == nil {
		t.Fatalf("expected GenerateWitness to fail before GenerateConstraints")
	}
}

func TestSwapABIsIdempotent(t *testing.T) {
	f := testField(t)
	p := Poseidon128(1, 1, true)
	p.ConstantSeed = "swap_test_constants"
	p.MatrixSeed = "swap_test_matrix"

	master, err := GetMaster(f, p)
	if err != nil {
		t.Fatalf("GetMaster: %v", err)
	}

	before := append([]r1cs.Constraint(nil), master.Constraints()...)

	SwapAB(master)
	afterFirst := append([]r1cs.Constraint(nil), master.Constraints()...)

	SwapAB(master)
	afterSecond := master.Constraints()

	for i := range before {
		if len(afterFirst[i].A.Terms) != len(before[i].B.Terms) {
			t.Fatalf("constraint %d: first SwapAB did not exchange A and B", i)
		}
	}
	for i := range afterFirst {
		if len(afterSecond[i].A.Terms) != len(afterFirst[i].A.Terms) ||
			len(afterSecond[i].B.Terms) != len(afterFirst[i].B.Terms) {
			t.Fatalf("constraint %d: second SwapAB call was not a no-op", i)
		}
	}
}
