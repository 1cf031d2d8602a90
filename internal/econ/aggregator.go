package econ

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"reefmetrics/domain/core"
	"reefmetrics/domain/reef"
)

// MetersToNauticalMiles converts port distances for the cost models.
const MetersToNauticalMiles = 0.00053996

// RCIAreaThreshold is the condition level at and above which reef area
// counts as "saved".
const RCIAreaThreshold = 0.6

// ReefMeta is the static per-reef economics metadata joined into the
// long-form tables.
type ReefMeta struct {
	ReefID   int
	Name     string
	UniqueID string
	GBRMPAID string
	// AreaHa is the total reef area within the nine economic zones.
	AreaHa float64
	// PortDistanceM is the distance to the nearest port in meters.
	PortDistanceM float64
}

// PortDistanceNM returns the port distance in nautical miles.
func (m ReefMeta) PortDistanceNM() float64 {
	return m.PortDistanceM * MetersToNauticalMiles
}

// BaseTable is the shared long-form template: one row per (reef, year),
// reef-major with the year axis inner. Per-simulation value columns are
// produced per transform and never stored on the template, so it can be
// reused across scenarios.
type BaseTable struct {
	Reefs []ReefMeta
	// YearsAbsolute holds model years; YearsRelative is zeroed on the first
	// intervention year of the current scenario.
	YearsAbsolute []int
	YearsRelative []int
}

// Rows returns the long-form row count.
func (t *BaseTable) Rows() int {
	return len(t.Reefs) * len(t.YearsAbsolute)
}

// RowMeta returns the reef metadata and years for a long-form row index.
func (t *BaseTable) RowMeta(row int) (ReefMeta, int, int) {
	ny := len(t.YearsAbsolute)
	r, y := row/ny, row%ny
	return t.Reefs[r], t.YearsAbsolute[y], t.YearsRelative[y]
}

// Transform is a pure function from an indicator set and reef metadata to a
// long-form value block: one row per (reef, year), one column per
// simulation.
type Transform struct {
	Name string
	Fn   func(set *reef.IndicatorSet, reefs []ReefMeta) *mat.Dense
}

// Aggregator reshapes indicator grids into the long-form tables the
// economics model consumes. It holds only the reusable base-table template.
type Aggregator struct {
	reefs []ReefMeta
	years []int
}

// NewAggregator builds an aggregator for a fixed reef set and year axis.
func NewAggregator(reefs []ReefMeta, years []int) (*Aggregator, error) {
	if len(reefs) == 0 {
		return nil, core.NewDegenerateInputError("no reef metadata")
	}
	if len(years) == 0 {
		return nil, core.NewDegenerateInputError("no years")
	}
	return &Aggregator{reefs: reefs, years: years}, nil
}

// BaseTable builds the row template for a scenario, with relative years
// zeroed on its first intervention year.
func (a *Aggregator) BaseTable(firstInterventionYear int) *BaseTable {
	rel := make([]int, len(a.years))
	for i, y := range a.years {
		rel[i] = y - firstInterventionYear
	}
	return &BaseTable{Reefs: a.reefs, YearsAbsolute: a.years, YearsRelative: rel}
}

// Apply runs one transform over an indicator set after checking the grid
// matches the template's reef and year axes.
func (a *Aggregator) Apply(set *reef.IndicatorSet, t Transform) (*mat.Dense, error) {
	if set.Reefs() != len(a.reefs) {
		return nil, core.NewShapeMismatchError("indicator reefs", set.Reefs(), len(a.reefs))
	}
	if set.Years() < len(a.years) {
		return nil, core.NewShapeMismatchError("indicator years", set.Years(), len(a.years))
	}
	return t.Fn(set, a.reefs), nil
}

// DefaultTransforms are the named long-form outputs produced per scenario.
func DefaultTransforms() []Transform {
	return []Transform{
		{Name: "area_weighted_rti", Fn: AreaWeightedRTI},
		{Name: "area_saved_rci", Fn: ThresholdedRCIArea},
		{Name: "raw_rci", Fn: RawRCI},
		{Name: "raw_rti", Fn: RawRTI},
		{Name: "coral_area_ha", Fn: CoralAreaHectares},
		{Name: "thresholded_rfi", Fn: ThresholdedRFI},
	}
}

// longForm flattens a (sims, reefs, years) grid to (reefs*years) x sims,
// applying fn per cell.
func longForm(a *reef.Array3, reefs []ReefMeta, fn func(v float64, meta ReefMeta) float64) *mat.Dense {
	out := mat.NewDense(a.Reefs*a.Years, a.Sims, nil)
	for r := 0; r < a.Reefs; r++ {
		for y := 0; y < a.Years; y++ {
			row := r*a.Years + y
			for s := 0; s < a.Sims; s++ {
				out.Set(row, s, fn(a.At(s, r, y), reefs[r]))
			}
		}
	}
	return out
}

// AreaWeightedRTI weights each reef's RTI by its share of total area.
func AreaWeightedRTI(set *reef.IndicatorSet, reefs []ReefMeta) *mat.Dense {
	total := 0.0
	for _, m := range reefs {
		total += m.AreaHa
	}
	return longForm(set.RTI, reefs, func(v float64, meta ReefMeta) float64 {
		return v * meta.AreaHa / total
	})
}

// ThresholdedRCIArea returns reef area for cells at or above the condition
// threshold, zero below it.
func ThresholdedRCIArea(set *reef.IndicatorSet, reefs []ReefMeta) *mat.Dense {
	return longForm(set.Condition, reefs, func(v float64, meta ReefMeta) float64 {
		if v >= RCIAreaThreshold {
			return meta.AreaHa
		}
		return 0
	})
}

// RawRCI passes the discrete condition category through.
func RawRCI(set *reef.IndicatorSet, reefs []ReefMeta) *mat.Dense {
	return longForm(set.Condition, reefs, func(v float64, _ ReefMeta) float64 { return v })
}

// RawRTI passes the tourism index through.
func RawRTI(set *reef.IndicatorSet, reefs []ReefMeta) *mat.Dense {
	return longForm(set.RTI, reefs, func(v float64, _ ReefMeta) float64 { return v })
}

// CoralAreaHectares converts cover fraction to covered hectares per reef.
func CoralAreaHectares(set *reef.IndicatorSet, reefs []ReefMeta) *mat.Dense {
	return longForm(set.TotalCover, reefs, func(v float64, meta ReefMeta) float64 {
		return v * meta.AreaHa
	})
}

// ThresholdedRFI reports fish biomass only where the reef classifies at or
// above the condition threshold, floored at zero. The engine leaves RFI
// unclipped; this is the reporting-side cut.
func ThresholdedRFI(set *reef.IndicatorSet, reefs []ReefMeta) *mat.Dense {
	out := mat.NewDense(set.Reefs()*set.Years(), set.Sims(), nil)
	for r := 0; r < set.Reefs(); r++ {
		for y := 0; y < set.Years(); y++ {
			row := r*set.Years() + y
			for s := 0; s < set.Sims(); s++ {
				v := set.RFI.At(s, r, y)
				if v < 0 || set.Condition.At(s, r, y) < RCIAreaThreshold {
					v = 0
				}
				out.Set(row, s, v)
			}
		}
	}
	return out
}

// ColumnName returns the per-simulation column header used by the writers.
func ColumnName(sim int) string {
	return fmt.Sprintf("sim_%d", sim+1)
}
