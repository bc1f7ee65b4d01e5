package ibl_test

import (
	"testing"

	"pbr-ibl/ibl"
)

func TestPrefilterPlan(t *testing.T) {
	plan := ibl.PrefilterPlan(128, 5)
	if len(plan) != 5 {
		t.Fatalf("expected 5 passes, got %d", len(plan))
	}
	if plan[0].Roughness != 0 {
		t.Errorf("mip 0 should be a mirror, got roughness %v", plan[0].Roughness)
	}
	if plan[4].Roughness != 1 {
		t.Errorf("last mip should have roughness 1, got %v", plan[4].Roughness)
	}
	for i, pass := range plan {
		if pass.Mip != i {
			t.Errorf("pass %d targets mip %d", i, pass.Mip)
		}
		if pass.Size != 128>>i {
			t.Errorf("mip %d should be %d wide but is %d", i, 128>>i, pass.Size)
		}
		if expected := float32(i) / 4; pass.Roughness != expected {
			t.Errorf("mip %d should have roughness %v but has %v", i, expected, pass.Roughness)
		}
		if i > 0 && pass.Roughness <= plan[i-1].Roughness {
			t.Errorf("roughness must increase with the mip, %v after %v", pass.Roughness, plan[i-1].Roughness)
		}
	}
}

func TestPrefilterPlanSingleLevel(t *testing.T) {
	plan := ibl.PrefilterPlan(16, 1)
	if len(plan) != 1 || plan[0].Roughness != 0 || plan[0].Size != 16 {
		t.Errorf("single level should be a mirror at full size, got %+v", plan)
	}
}
