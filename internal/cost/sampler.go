package cost

import (
	"reefmetrics/domain/core"
	"reefmetrics/domain/cost"
)

// DesignSize returns the Saltelli sample row count for a variance-based
// sensitivity design that supports second-order indices:
// nDraws * (2*nFactors + 2).
func DesignSize(nDraws, nFactors int) int {
	return nDraws * (2*nFactors + 2)
}

// Sampler draws Saltelli-style factor designs for the cost sub-models.
type Sampler struct {
	rng core.Rand
}

// NewSampler creates a sampler over a random source.
func NewSampler(rng core.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Sample builds the design for one sub-model: base blocks A and B of nDraws
// uniform rows, then one column-swapped block per factor in each direction
// (A with column i from B, then B with column i from A). Categorical columns
// are rounded to their levels afterwards.
func (s *Sampler) Sample(spec cost.ModelSpec, nDraws int) (*cost.FactorDesign, error) {
	if nDraws < 1 {
		return nil, core.NewConfigError("n_draws", "must be at least 1")
	}
	k := len(spec.Factors)
	if k == 0 {
		return nil, core.NewConfigError("factors", "model spec has no factors")
	}

	a := s.uniformBlock(spec, nDraws)
	b := s.uniformBlock(spec, nDraws)

	rows := make([][]float64, 0, DesignSize(nDraws, k))
	rows = append(rows, a...)
	rows = append(rows, b...)
	for i := 0; i < k; i++ {
		rows = append(rows, swapColumn(a, b, i)...)
	}
	for i := 0; i < k; i++ {
		rows = append(rows, swapColumn(b, a, i)...)
	}

	design, err := cost.NewFactorDesign(spec, rows)
	if err != nil {
		return nil, err
	}
	design.RoundCategoricals()
	return design, nil
}

// uniformBlock draws nDraws rows uniform within each factor's bounds.
func (s *Sampler) uniformBlock(spec cost.ModelSpec, nDraws int) [][]float64 {
	block := make([][]float64, nDraws)
	for i := range block {
		row := make([]float64, len(spec.Factors))
		for j, f := range spec.Factors {
			row[j] = f.Min + s.rng.Float64()*(f.Max-f.Min)
		}
		block[i] = row
	}
	return block
}

// swapColumn copies base rows with column col taken from other.
func swapColumn(base, other [][]float64, col int) [][]float64 {
	out := make([][]float64, len(base))
	for i, row := range base {
		dup := append([]float64(nil), row...)
		dup[col] = other[i][col]
		out[i] = dup
	}
	return out
}
