package testkit

import "testing"

func TestNewResultSet_ShapeAndDeterminism(t *testing.T) {
	cfg := DefaultResultSetConfig()
	rs := NewResultSet(cfg)

	if err := rs.Validate(); err != nil {
		t.Fatalf("Generated set failed validation: %v", err)
	}
	if rs.Scenarios() != cfg.Scenarios || rs.Reefs() != cfg.Reefs || rs.Years() != cfg.Years {
		t.Fatalf("Unexpected shape (%d,%d,%d)", rs.Scenarios(), rs.Reefs(), rs.Years())
	}

	// The juvenile peak is pinned so the hindcast baseline is known.
	if got := rs.JuvenileCount.At(0, 0, 0); got != cfg.JuvenilePeak {
		t.Errorf("Expected pinned juvenile peak %v, got %v", cfg.JuvenilePeak, got)
	}

	again := NewResultSet(cfg)
	for i, v := range rs.CoTS.Raw() {
		if again.CoTS.Raw()[i] != v {
			t.Fatal("Same config must generate identical data")
		}
	}
}

func TestNewResultSet_ValuesInModelRanges(t *testing.T) {
	rs := NewResultSet(DefaultResultSetConfig())
	for _, v := range rs.CoTS.Raw() {
		if v < 0 {
			t.Fatalf("Negative CoTS density %v", v)
		}
	}
	for _, v := range rs.Rubble.Raw() {
		if v < 0 || v > 100 {
			t.Fatalf("Rubble cover %v outside percent range", v)
		}
	}
}

func TestNewExpertPool(t *testing.T) {
	pool := NewExpertPool(8, 0.05)
	if pool.Experts != 8 {
		t.Fatalf("Expected 8 experts, got %d", pool.Experts)
	}
	// Expert columns shift monotonically with the offset.
	base := pool.Thresholds[0][0][0]
	if got := pool.Thresholds[0][4][0]; got != base+4*0.05 {
		t.Errorf("Expected expert 4 shifted by 0.2, got %v (base %v)", got, base)
	}
}

func TestSequenceRand_Scripts(t *testing.T) {
	r := &SequenceRand{
		Normals:  []float64{1, -1},
		Uniforms: []float64{0.25},
		Ints:     []int{3},
		Perm:     []int{5, 2, 4},
	}

	if got := r.Normal(10, 2); got != 12 {
		t.Errorf("Expected 12, got %v", got)
	}
	if got := r.Normal(10, 2); got != 8 {
		t.Errorf("Expected 8, got %v", got)
	}
	if got := r.Float64(); got != 0.25 {
		t.Errorf("Expected 0.25, got %v", got)
	}
	if got := r.Intn(2); got != 1 {
		t.Errorf("Expected 3 mod 2 = 1, got %d", got)
	}
	out, err := r.SampleWithoutReplacement(10, 2)
	if err != nil {
		t.Fatalf("SampleWithoutReplacement failed: %v", err)
	}
	if out[0] != 5 || out[1] != 2 {
		t.Errorf("Expected scripted perm prefix [5 2], got %v", out)
	}
}
