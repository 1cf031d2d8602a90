package cost

import (
	"fmt"
)

// Component is a standardized cost code, 1-based to match the economics
// taxonomy the downstream model expects.
type Component int

const (
	ComponentCAPEX                 Component = 1
	ComponentCAPEXContingency      Component = 2
	ComponentOPEX                  Component = 3
	ComponentSustainingOPEX        Component = 4
	ComponentOPEXContingency       Component = 5
	ComponentVesselFuel            Component = 6
	ComponentCAPEXMonitoring       Component = 7
	ComponentCAPEXMonitoringCont   Component = 8
	ComponentOPEXMonitoring        Component = 9
	ComponentSustainingOPEXMonitor Component = 10
	ComponentOPEXMonitoringCont    Component = 11

	NumComponents = 11
)

// Ledger stores sampled monetary values for one intervention scenario:
// one row per (year, component), one column per (replicate, draw). Exactly
// NumComponents rows exist per year.
type Ledger struct {
	ScenarioID int
	Years      []int
	Reps       int
	// Draws is the design size N; total columns are Reps*Draws.
	Draws int

	values [][]float64 // len(Years)*NumComponents rows, Reps*Draws cols
	yearIx map[int]int
}

// NewLedger allocates a zeroed ledger.
func NewLedger(scenarioID int, years []int, reps, draws int) *Ledger {
	rows := len(years) * NumComponents
	values := make([][]float64, rows)
	for i := range values {
		values[i] = make([]float64, reps*draws)
	}
	ix := make(map[int]int, len(years))
	for i, y := range years {
		ix[y] = i
	}
	return &Ledger{ScenarioID: scenarioID, Years: years, Reps: reps, Draws: draws, values: values, yearIx: ix}
}

func (l *Ledger) row(year int, c Component) (int, error) {
	yi, ok := l.yearIx[year]
	if !ok {
		return 0, fmt.Errorf("year %d not in ledger", year)
	}
	if c < 1 || c > NumComponents {
		return 0, fmt.Errorf("component %d out of range [1,%d]", c, NumComponents)
	}
	return yi*NumComponents + int(c) - 1, nil
}

// Set stores a value for (year, component, replicate, draw).
func (l *Ledger) Set(year int, c Component, rep, draw int, v float64) error {
	r, err := l.row(year, c)
	if err != nil {
		return err
	}
	l.values[r][rep*l.Draws+draw] = v
	return nil
}

// Value returns the stored value for (year, component, replicate, draw).
func (l *Ledger) Value(year int, c Component, rep, draw int) (float64, error) {
	r, err := l.row(year, c)
	if err != nil {
		return 0, err
	}
	return l.values[r][rep*l.Draws+draw], nil
}

// Row returns the full (replicate x draw) slice for a (year, component) pair.
// Callers must not mutate it.
func (l *Ledger) Row(year int, c Component) ([]float64, error) {
	r, err := l.row(year, c)
	if err != nil {
		return nil, err
	}
	return l.values[r], nil
}

// EachRow visits rows in (year, component) order, the layout the CSV and
// database writers persist.
func (l *Ledger) EachRow(fn func(year int, c Component, draws []float64) error) error {
	for _, y := range l.Years {
		for c := Component(1); c <= NumComponents; c++ {
			r, err := l.row(y, c)
			if err != nil {
				return err
			}
			if err := fn(y, c, l.values[r]); err != nil {
				return err
			}
		}
	}
	return nil
}
