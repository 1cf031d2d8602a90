package cost

import (
	"fmt"
	"math"

	"reefmetrics/domain/core"
)

// FactorSpec describes one input factor of a cost sub-model.
type FactorSpec struct {
	Name string
	// Min and Max bound continuous factors; categorical factors are sampled
	// across the same range then rounded to integer levels.
	Min         float64
	Max         float64
	Categorical bool
}

// ModelSpec names a cost sub-model and its sampled factors.
type ModelSpec struct {
	Name    string
	Factors []FactorSpec
}

// FactorIndex returns the column index of a named factor, or -1.
func (m ModelSpec) FactorIndex(name string) int {
	for i, f := range m.Factors {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Deployment cost model factors. Scenario constants overwrite num_devices,
// port and distance_from_port per intervention year.
func DeploymentSpec() ModelSpec {
	return ModelSpec{
		Name: "deployment",
		Factors: []FactorSpec{
			{Name: "num_devices", Min: 0, Max: 1_000_000},
			{Name: "port", Min: 1, Max: 10, Categorical: true},
			{Name: "distance_from_port", Min: 0, Max: 200},
			{Name: "deployment_duration", Min: 7, Max: 180},
			{Name: "vessel_day_rate", Min: 4_000, Max: 35_000},
		},
	}
}

// Production cost model factors. Scenario constants overwrite num_devices
// and species_no.
func ProductionSpec() ModelSpec {
	return ModelSpec{
		Name: "production",
		Factors: []FactorSpec{
			{Name: "num_devices", Min: 0, Max: 1_000_000},
			{Name: "species_no", Min: 1, Max: 12, Categorical: true},
			{Name: "tank_volume", Min: 500, Max: 20_000},
			{Name: "labour_rate", Min: 30, Max: 120},
		},
	}
}

// FactorDesign is a rectangular sample of factor values: one row per design
// sample, one column per factor of the sub-model spec.
type FactorDesign struct {
	Spec   ModelSpec
	values [][]float64 // rows x factors
}

// NewFactorDesign wraps sampled rows after checking their width.
func NewFactorDesign(spec ModelSpec, rows [][]float64) (*FactorDesign, error) {
	for i, row := range rows {
		if len(row) != len(spec.Factors) {
			return nil, fmt.Errorf("design row %d has %d values, spec %q has %d factors",
				i, len(row), spec.Name, len(spec.Factors))
		}
	}
	return &FactorDesign{Spec: spec, values: rows}, nil
}

// Rows returns the design sample count.
func (d *FactorDesign) Rows() int {
	return len(d.values)
}

// At returns the value at (row, factor column).
func (d *FactorDesign) At(row, col int) float64 {
	return d.values[row][col]
}

// Column returns a copy of the named factor column.
func (d *FactorDesign) Column(name string) ([]float64, error) {
	idx := d.Spec.FactorIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s in model %q", core.ErrFactorMissing, name, d.Spec.Name)
	}
	out := make([]float64, len(d.values))
	for i, row := range d.values {
		out[i] = row[idx]
	}
	return out, nil
}

// SetConstant overwrites the named factor with a scenario constant in every
// row.
func (d *FactorDesign) SetConstant(name string, v float64) error {
	idx := d.Spec.FactorIndex(name)
	if idx < 0 {
		return fmt.Errorf("%w: %s in model %q", core.ErrFactorMissing, name, d.Spec.Name)
	}
	for _, row := range d.values {
		row[idx] = v
	}
	return nil
}

// Truncate drops rows beyond n, aligning a sub-model design with the shared
// design size.
func (d *FactorDesign) Truncate(n int) error {
	if n > len(d.values) {
		return core.NewSamplingError(d.Spec.Name, len(d.values), n)
	}
	d.values = d.values[:n]
	return nil
}

// RoundCategoricals converts categorical columns to their nearest integer
// level, after sampling on the continuous range.
func (d *FactorDesign) RoundCategoricals() {
	for col, f := range d.Spec.Factors {
		if !f.Categorical {
			continue
		}
		for _, row := range d.values {
			row[col] = math.Round(row[col])
		}
	}
}
