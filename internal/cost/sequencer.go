package cost

import (
	"fmt"
	"math"

	"reefmetrics/domain/core"
	"reefmetrics/domain/cost"
)

// DefaultContingency is the contingency proportion applied to the CAPEX and
// OPEX component rows.
const DefaultContingency = 0.8

// Model is a black-box cost sub-model: given a sampled factor design it
// returns the operational cost and setup cost per design row.
type Model interface {
	Name() string
	Evaluate(design *cost.FactorDesign) (costs, setup []float64, err error)
}

// Sequencer samples the deployment and production cost models across the
// ordered intervention years of a scenario, carrying the year-over-year
// incremental deployment state, and writes the component-decomposed ledger.
type Sequencer struct {
	sampler     *Sampler
	deployment  Model
	production  Model
	contingency float64
}

// NewSequencer wires a sequencer over the two sub-models.
func NewSequencer(sampler *Sampler, deployment, production Model, contingency float64) *Sequencer {
	if contingency <= 0 {
		contingency = DefaultContingency
	}
	return &Sequencer{sampler: sampler, deployment: deployment, production: production, contingency: contingency}
}

// yearState is the fold state carried between intervention years.
type yearState struct {
	hasPrev     bool
	prevDevices float64
}

// yearCosts holds one year's evaluated draws for both sub-models.
type yearCosts struct {
	depCost, depSetup   []float64
	prodCost, prodSetup []float64
}

// Run produces the cost ledger for one intervention scenario. Fresh factor
// designs are sampled per call, so concurrent scenarios never share rows.
func (q *Sequencer) Run(scen *cost.InterventionScenario, nDraws int) (*cost.Ledger, error) {
	if err := scen.Validate(); err != nil {
		return nil, err
	}

	dep, err := q.sampler.Sample(cost.DeploymentSpec(), nDraws)
	if err != nil {
		return nil, err
	}
	prod, err := q.sampler.Sample(cost.ProductionSpec(), nDraws)
	if err != nil {
		return nil, err
	}

	// The shared design size uses the smaller factor count; the wider
	// model's design is truncated to match.
	nFactors := len(dep.Spec.Factors)
	if len(prod.Spec.Factors) < nFactors {
		nFactors = len(prod.Spec.Factors)
	}
	n := DesignSize(nDraws, nFactors)
	if err := dep.Truncate(n); err != nil {
		return nil, err
	}
	if err := prod.Truncate(n); err != nil {
		return nil, err
	}

	ledger := cost.NewLedger(scen.ID, scen.Years, scen.Replicates, n)
	for rep := 0; rep < scen.Replicates; rep++ {
		state := yearState{}
		for _, year := range scen.Years {
			devices := scen.CoralsByYear[year]
			if err := q.injectConstants(dep, prod, scen, devices); err != nil {
				return nil, err
			}

			yc, err := q.evaluateBoth(dep, prod, n)
			if err != nil {
				return nil, fmt.Errorf("scenario %d year %d: %w", scen.ID, year, err)
			}

			if state.hasPrev {
				if err := q.carrySetup(dep, prod, yc, devices, state, n); err != nil {
					return nil, fmt.Errorf("scenario %d year %d: %w", scen.ID, year, err)
				}
			}

			if err := writeComponents(ledger, year, rep, yc, q.contingency); err != nil {
				return nil, err
			}
			state = yearState{hasPrev: true, prevDevices: devices}
		}
	}
	return ledger, nil
}

// injectConstants overwrites the scenario-specific factor columns for one
// intervention year.
func (q *Sequencer) injectConstants(dep, prod *cost.FactorDesign, scen *cost.InterventionScenario, devices float64) error {
	if err := dep.SetConstant("num_devices", devices); err != nil {
		return err
	}
	if err := dep.SetConstant("port", float64(scen.PortID)); err != nil {
		return err
	}
	if err := dep.SetConstant("distance_from_port", scen.DistanceToPortNM); err != nil {
		return err
	}
	if err := prod.SetConstant("num_devices", devices); err != nil {
		return err
	}
	return prod.SetConstant("species_no", float64(scen.Species))
}

// carrySetup applies the incremental deployment rule for a year with a
// prior intervention year: setup cost is owed only on devices added since
// then. Operational cost always covers the full current deployment, so the
// already-evaluated cost draws in yc are kept either way.
func (q *Sequencer) carrySetup(dep, prod *cost.FactorDesign, yc *yearCosts, devices float64, state yearState, n int) error {
	if !state.hasPrev {
		return fmt.Errorf("%w", core.ErrStateCarry)
	}

	incremental := devices - state.prevDevices
	if err := dep.SetConstant("num_devices", incremental); err != nil {
		return err
	}
	if err := prod.SetConstant("num_devices", incremental); err != nil {
		return err
	}

	col, err := dep.Column("num_devices")
	if err != nil {
		return err
	}
	if allNonPositive(col) {
		// No new construction: setup cost is exactly zero for both models.
		yc.depSetup = make([]float64, n)
		yc.prodSetup = make([]float64, n)
		return nil
	}

	// Resample with the incremental count for a correct marginal setup
	// cost, then restore the saved full-deployment operational cost.
	saveDep, saveProd := yc.depCost, yc.prodCost
	resampled, err := q.evaluateBoth(dep, prod, n)
	if err != nil {
		return err
	}
	yc.depSetup = resampled.depSetup
	yc.prodSetup = resampled.prodSetup
	yc.depCost = saveDep
	yc.prodCost = saveProd
	return nil
}

func (q *Sequencer) evaluateBoth(dep, prod *cost.FactorDesign, n int) (*yearCosts, error) {
	depCost, depSetup, err := evaluateModel(q.deployment, dep, n)
	if err != nil {
		return nil, err
	}
	prodCost, prodSetup, err := evaluateModel(q.production, prod, n)
	if err != nil {
		return nil, err
	}
	return &yearCosts{depCost: depCost, depSetup: depSetup, prodCost: prodCost, prodSetup: prodSetup}, nil
}

// evaluateModel runs one sub-model and enforces the row-count and
// finiteness contracts.
func evaluateModel(m Model, design *cost.FactorDesign, n int) (costs, setup []float64, err error) {
	costs, setup, err = m.Evaluate(design)
	if err != nil {
		return nil, nil, fmt.Errorf("cost model %q: %w", m.Name(), err)
	}
	if len(costs) != n || len(setup) != n {
		return nil, nil, core.NewSamplingError(m.Name(), len(costs), n)
	}
	for i := range costs {
		if !isFinite(costs[i]) || !isFinite(setup[i]) {
			return nil, nil, fmt.Errorf("%w: model %q row %d", core.ErrNonFiniteCost, m.Name(), i)
		}
	}
	return costs, setup, nil
}

// writeComponents expands the combined cost and setup columns into the 11
// standardized component rows. The component taxonomy is fixed: setup cost
// lands on the OPEX rows, placeholder rows stay zero.
func writeComponents(ledger *cost.Ledger, year, rep int, yc *yearCosts, contingency float64) error {
	for draw := 0; draw < len(yc.depCost); draw++ {
		combined := yc.depCost[draw] + yc.prodCost[draw]
		setup := yc.depSetup[draw] + yc.prodSetup[draw]

		rows := map[cost.Component]float64{
			cost.ComponentCAPEX:            combined,
			cost.ComponentCAPEXContingency: combined * contingency,
			cost.ComponentOPEX:             setup,
			cost.ComponentOPEXContingency:  setup * contingency,
		}
		for c := cost.Component(1); c <= cost.NumComponents; c++ {
			if err := ledger.Set(year, c, rep, draw, rows[c]); err != nil {
				return err
			}
		}
	}
	return nil
}

func allNonPositive(col []float64) bool {
	for _, v := range col {
		if v > 0 {
			return false
		}
	}
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
