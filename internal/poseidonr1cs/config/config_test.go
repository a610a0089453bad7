package config

import "testing"

func TestDefaultConfigValidates(t *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsNInputsAboveT(t *testing.T) {
	c := DefaultConfig().WithArity(2, 1).WithT(1)
	if err := c.Validate(); err == nil {
		t.Fatalf("expected Validate() to reject NInputs=%d > T=%d", c.NInputs, c.T)
	}
}

func TestValidateRejectsOddFullRounds(t *testing.T) {
	c := DefaultConfig().WithRounds(7, 57)
	if err := c.Validate(); err == nil {
		t.Fatalf("expected Validate() to reject an odd full-round count")
	}
}

func TestWithersChainAndClone(t *testing.T) {
	c := DefaultConfig().WithArity(2, 1).WithC(2)
	if c.NInputs != 2 || c.NOutputs != 1 || c.C != 2 {
		t.Fatalf("chained Withers did not apply: %+v", c)
	}

	clone := c.Clone()
	clone.T = 999
	if c.T == clone.T {
		t.Fatalf("Clone() aliased the original configuration")
	}
}
