package region

import (
	"testing"
)

func TestAddRejectsOverlap(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Add("sensory", 0, 10, 0.01); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Add("overlap", 5, 15, 0.01); err == nil {
		t.Fatal("expected overlap error")
	}
}

func TestAddRejectsDuplicateName(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Add("sensory", 0, 10, 0.01); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.Add("sensory", 10, 20, 0.01); err == nil {
		t.Fatal("expected duplicate name error")
	}
}

func TestFindLocatesOwningRegion(t *testing.T) {
	reg := NewRegistry()
	reg.Add("sensory", 0, 10, 0.01)
	reg.Add("motor", 10, 20, 0.01)

	r, ok := reg.Find(15)
	if !ok || r.Name != "motor" {
		t.Fatalf("expected neuron 15 to belong to motor, got %+v, %v", r, ok)
	}
	if _, ok := reg.Find(100); ok {
		t.Fatal("expected no region to own neuron 100")
	}
}

func TestSetAttentionGainClampsToGMax(t *testing.T) {
	reg := NewRegistry()
	r, _ := reg.Add("sensory", 0, 10, 0.01)
	if err := reg.SetAttentionGain(r.ID, 999); err != nil {
		t.Fatal(err)
	}
	got, _ := reg.ByID(r.ID)
	if got.AttentionGain != GMax {
		t.Fatalf("expected gain clamped to %v, got %v", GMax, got.AttentionGain)
	}
}

func TestSetAttentionGainClampsNegative(t *testing.T) {
	reg := NewRegistry()
	r, _ := reg.Add("sensory", 0, 10, 0.01)
	if err := reg.SetAttentionGain(r.ID, -5); err != nil {
		t.Fatal(err)
	}
	got, _ := reg.ByID(r.ID)
	if got.AttentionGain != 0 {
		t.Fatalf("expected gain clamped to 0, got %v", got.AttentionGain)
	}
}

func TestContainsRespectsHalfOpenRange(t *testing.T) {
	r := Region{Start: 5, End: 10}
	if r.Contains(4) || r.Contains(10) {
		t.Fatal("expected range to be half-open [5,10)")
	}
	if !r.Contains(5) || !r.Contains(9) {
		t.Fatal("expected boundary neurons 5 and 9 included")
	}
}
