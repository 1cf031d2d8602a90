package cost

import (
	"math"
	"testing"

	"reefmetrics/domain/core"
	"reefmetrics/domain/cost"
	"reefmetrics/internal/testkit"
)

func TestDesignSize(t *testing.T) {
	// nDraws * (2k + 2)
	cases := []struct{ draws, factors, want int }{
		{4, 5, 48},
		{4, 4, 40},
		{1, 5, 12},
		{10, 1, 40},
	}
	for _, c := range cases {
		if got := DesignSize(c.draws, c.factors); got != c.want {
			t.Errorf("DesignSize(%d,%d): expected %d, got %d", c.draws, c.factors, c.want, got)
		}
	}
}

func TestSample_DesignShape(t *testing.T) {
	s := NewSampler(core.NewRand(42))
	spec := cost.DeploymentSpec()

	design, err := s.Sample(spec, 4)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if got, want := design.Rows(), DesignSize(4, len(spec.Factors)); got != want {
		t.Errorf("Expected %d design rows, got %d", want, got)
	}
}

func TestSample_BoundsAndCategoricals(t *testing.T) {
	s := NewSampler(core.NewRand(7))
	spec := cost.ProductionSpec()

	design, err := s.Sample(spec, 8)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	for col, f := range spec.Factors {
		for row := 0; row < design.Rows(); row++ {
			v := design.At(row, col)
			// Categorical rounding can land half a level outside the range.
			lo, hi := f.Min, f.Max
			if f.Categorical {
				lo, hi = math.Round(f.Min), math.Round(f.Max)
			}
			if v < lo || v > hi {
				t.Fatalf("factor %s row %d: value %v outside [%v,%v]", f.Name, row, v, lo, hi)
			}
			if f.Categorical && v != math.Round(v) {
				t.Fatalf("factor %s row %d: categorical value %v not integral", f.Name, row, v)
			}
		}
	}
}

func TestSample_SaltelliBlockStructure(t *testing.T) {
	// With a scripted uniform stream the A and B blocks are reproducible,
	// so the column-swapped blocks can be checked cell by cell.
	rng := &testkit.SequenceRand{Uniforms: []float64{0.1, 0.3, 0.5, 0.7, 0.9, 0.2, 0.4, 0.6, 0.8, 0.25}}
	s := NewSampler(rng)
	spec := cost.ModelSpec{
		Name: "toy",
		Factors: []cost.FactorSpec{
			{Name: "x", Min: 0, Max: 1},
			{Name: "y", Min: 0, Max: 1},
		},
	}

	nDraws := 2
	design, err := s.Sample(spec, nDraws)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	k := len(spec.Factors)
	if got := design.Rows(); got != DesignSize(nDraws, k) {
		t.Fatalf("Expected %d rows, got %d", DesignSize(nDraws, k), got)
	}

	// Block i of the A-swapped section must equal A except column i, which
	// comes from B; the B-swapped section mirrors that.
	for i := 0; i < k; i++ {
		for r := 0; r < nDraws; r++ {
			swapRow := 2*nDraws + i*nDraws + r
			for col := 0; col < k; col++ {
				want := design.At(r, col) // A block
				if col == i {
					want = design.At(nDraws+r, col) // B block
				}
				if got := design.At(swapRow, col); got != want {
					t.Errorf("A-swap block %d row %d col %d: expected %v, got %v", i, r, col, want, got)
				}
			}
			swapRow = 2*nDraws + k*nDraws + i*nDraws + r
			for col := 0; col < k; col++ {
				want := design.At(nDraws+r, col) // B block
				if col == i {
					want = design.At(r, col) // A block
				}
				if got := design.At(swapRow, col); got != want {
					t.Errorf("B-swap block %d row %d col %d: expected %v, got %v", i, r, col, want, got)
				}
			}
		}
	}
}

func TestSample_RejectsBadInputs(t *testing.T) {
	s := NewSampler(core.NewRand(1))

	if _, err := s.Sample(cost.DeploymentSpec(), 0); !core.IsConfigError(err) {
		t.Errorf("Expected config error for zero draws, got %v", err)
	}
	if _, err := s.Sample(cost.ModelSpec{Name: "empty"}, 4); !core.IsConfigError(err) {
		t.Errorf("Expected config error for empty spec, got %v", err)
	}
}
