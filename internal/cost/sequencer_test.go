package cost

import (
	"errors"
	"math"
	"testing"

	"reefmetrics/domain/core"
	"reefmetrics/domain/cost"
)

// stubModel is a linear cost model over the num_devices column, with switches
// for the evaluation contract failures.
type stubModel struct {
	name      string
	base      float64
	perDevice float64
	setupBase float64
	setupPer  float64

	shortRows bool
	nonFinite bool
}

func (m stubModel) Name() string { return m.name }

func (m stubModel) Evaluate(d *cost.FactorDesign) ([]float64, []float64, error) {
	devices, err := d.Column("num_devices")
	if err != nil {
		return nil, nil, err
	}
	n := len(devices)
	if m.shortRows {
		n--
	}
	costs := make([]float64, n)
	setup := make([]float64, n)
	for i := 0; i < n; i++ {
		costs[i] = m.base + m.perDevice*devices[i]
		setup[i] = m.setupBase + m.setupPer*devices[i]
	}
	if m.nonFinite && n > 0 {
		costs[0] = math.NaN()
	}
	return costs, setup, nil
}

func flatScenario() *cost.InterventionScenario {
	return &cost.InterventionScenario{
		ID:           3,
		Years:        []int{0, 1},
		Replicates:   2,
		CoralsByYear: map[int]float64{0: 100, 1: 100},
		PortID:       2,
		Species:      4,
	}
}

func newTestSequencer(dep, prod Model) *Sequencer {
	return NewSequencer(NewSampler(core.NewRand(11)), dep, prod, 0.5)
}

func TestSequencer_FirstYearDecomposition(t *testing.T) {
	dep := stubModel{name: "deployment", base: 10, perDevice: 2, setupBase: 5, setupPer: 1}
	prod := stubModel{name: "production", base: 20, perDevice: 3, setupBase: 7, setupPer: 2}

	ledger, err := newTestSequencer(dep, prod).Run(flatScenario(), 1)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The production spec has four factors, so the shared design size is
	// 1 * (2*4 + 2).
	if ledger.Draws != 10 {
		t.Fatalf("Expected 10 draws, got %d", ledger.Draws)
	}

	// With 100 devices: cost = (10+200)+(20+300), setup = (5+100)+(7+200).
	wantCost, wantSetup := 530.0, 312.0
	for rep := 0; rep < 2; rep++ {
		for _, draw := range []int{0, 9} {
			checkValue(t, ledger, 0, cost.ComponentCAPEX, rep, draw, wantCost)
			checkValue(t, ledger, 0, cost.ComponentCAPEXContingency, rep, draw, wantCost*0.5)
			checkValue(t, ledger, 0, cost.ComponentOPEX, rep, draw, wantSetup)
			checkValue(t, ledger, 0, cost.ComponentOPEXContingency, rep, draw, wantSetup*0.5)
		}
	}

	// Placeholder components stay zero.
	for _, c := range []cost.Component{
		cost.ComponentSustainingOPEX, cost.ComponentVesselFuel,
		cost.ComponentCAPEXMonitoring, cost.ComponentCAPEXMonitoringCont,
		cost.ComponentOPEXMonitoring, cost.ComponentSustainingOPEXMonitor,
		cost.ComponentOPEXMonitoringCont,
	} {
		checkValue(t, ledger, 0, c, 0, 0, 0)
	}
}

func TestSequencer_FlatDeploymentZeroesSetup(t *testing.T) {
	dep := stubModel{name: "deployment", base: 10, perDevice: 2, setupBase: 5, setupPer: 1}
	prod := stubModel{name: "production", base: 20, perDevice: 3, setupBase: 7, setupPer: 2}

	ledger, err := newTestSequencer(dep, prod).Run(flatScenario(), 1)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Year 1 deploys no new devices: operational cost is still owed on the
	// full fleet, setup cost is exactly zero.
	for draw := 0; draw < ledger.Draws; draw++ {
		checkValue(t, ledger, 1, cost.ComponentCAPEX, 0, draw, 530)
		checkValue(t, ledger, 1, cost.ComponentOPEX, 0, draw, 0)
		checkValue(t, ledger, 1, cost.ComponentOPEXContingency, 0, draw, 0)
	}
}

func TestSequencer_IncrementalSetupResample(t *testing.T) {
	dep := stubModel{name: "deployment", base: 10, perDevice: 2, setupBase: 5, setupPer: 1}
	prod := stubModel{name: "production", base: 20, perDevice: 3, setupBase: 7, setupPer: 2}

	scen := flatScenario()
	scen.CoralsByYear = map[int]float64{0: 100, 1: 150}

	ledger, err := newTestSequencer(dep, prod).Run(scen, 1)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Year 1: operational cost covers all 150 devices, setup only the 50
	// added since year 0.
	wantCost := (10 + 2*150.0) + (20 + 3*150.0)
	wantSetup := (5 + 1*50.0) + (7 + 2*50.0)
	for rep := 0; rep < 2; rep++ {
		checkValue(t, ledger, 1, cost.ComponentCAPEX, rep, 0, wantCost)
		checkValue(t, ledger, 1, cost.ComponentOPEX, rep, 0, wantSetup)
		checkValue(t, ledger, 1, cost.ComponentOPEXContingency, rep, 0, wantSetup*0.5)
	}
}

func TestSequencer_StateCarryGuard(t *testing.T) {
	dep := stubModel{name: "deployment"}
	prod := stubModel{name: "production"}
	q := newTestSequencer(dep, prod)

	depDesign, err := q.sampler.Sample(cost.DeploymentSpec(), 1)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	prodDesign, err := q.sampler.Sample(cost.ProductionSpec(), 1)
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}

	err = q.carrySetup(depDesign, prodDesign, &yearCosts{}, 100, yearState{}, depDesign.Rows())
	if !errors.Is(err, core.ErrStateCarry) {
		t.Errorf("Expected state carry error without a prior year, got %v", err)
	}
}

func TestSequencer_RowCountMismatch(t *testing.T) {
	dep := stubModel{name: "deployment", shortRows: true}
	prod := stubModel{name: "production"}

	_, err := newTestSequencer(dep, prod).Run(flatScenario(), 1)
	if !core.IsSamplingError(err) {
		t.Errorf("Expected sampling inconsistency error, got %v", err)
	}
}

func TestSequencer_NonFiniteCost(t *testing.T) {
	dep := stubModel{name: "deployment", nonFinite: true}
	prod := stubModel{name: "production"}

	_, err := newTestSequencer(dep, prod).Run(flatScenario(), 1)
	if !errors.Is(err, core.ErrNonFiniteCost) {
		t.Errorf("Expected non-finite cost error, got %v", err)
	}
}

func TestSequencer_RejectsInvalidScenario(t *testing.T) {
	dep := stubModel{name: "deployment"}
	prod := stubModel{name: "production"}
	q := newTestSequencer(dep, prod)

	scen := flatScenario()
	scen.Years = []int{5, 2}
	if _, err := q.Run(scen, 1); err == nil {
		t.Error("Expected error for unsorted intervention years")
	}

	scen = flatScenario()
	delete(scen.CoralsByYear, 1)
	if _, err := q.Run(scen, 1); err == nil {
		t.Error("Expected error for a year without a deployment count")
	}
}

func TestSummarize(t *testing.T) {
	dep := stubModel{name: "deployment", base: 10, perDevice: 2, setupBase: 5, setupPer: 1}
	prod := stubModel{name: "production", base: 20, perDevice: 3, setupBase: 7, setupPer: 2}

	ledger, err := newTestSequencer(dep, prod).Run(flatScenario(), 1)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	summary, err := Summarize(ledger)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	// Four reported components per year.
	if len(summary) != 2*4 {
		t.Fatalf("Expected 8 summary rows, got %d", len(summary))
	}
	first := summary[0]
	if first.Year != 0 || first.Component != cost.ComponentCAPEX {
		t.Fatalf("Unexpected first summary row: %+v", first)
	}
	// Every draw is identical, so the stats collapse to the point value.
	if first.Mean != 530 || first.Median != 530 || first.P10 != 530 || first.P90 != 530 {
		t.Errorf("Expected degenerate stats at 530, got %+v", first)
	}
}

func checkValue(t *testing.T, l *cost.Ledger, year int, c cost.Component, rep, draw int, want float64) {
	t.Helper()
	got, err := l.Value(year, c, rep, draw)
	if err != nil {
		t.Fatalf("Value(%d,%d): %v", year, c, err)
	}
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("year %d component %d rep %d draw %d: expected %v, got %v", year, c, rep, draw, want, got)
	}
}
