package runner

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"gonum.org/v1/gonum/mat"

	"reefmetrics/domain/core"
	costdom "reefmetrics/domain/cost"
	"reefmetrics/domain/reef"
	"reefmetrics/internal"
	costmc "reefmetrics/internal/cost"
	"reefmetrics/internal/econ"
	"reefmetrics/internal/indicator"
)

// Arm distinguishes the intervention and counterfactual runs of a scenario.
type Arm string

const (
	ArmIntervention   Arm = "intervention"
	ArmCounterfactual Arm = "counterfactual"
)

// ScenarioJob pairs an intervention scenario with the scenario ids of its
// intervention and counterfactual replicates in the result set.
type ScenarioJob struct {
	Scenario          *costdom.InterventionScenario
	InterventionIDs   []int
	CounterfactualIDs []int
}

// Sink receives computed tables and ledgers. Implementations persist to CSV
// or postgres; the runner itself keeps nothing.
type Sink interface {
	SaveTable(runID core.RunID, scenarioID int, arm Arm, transform string, table *econ.BaseTable, values *mat.Dense) error
	SaveLedger(runID core.RunID, ledger *costdom.Ledger) error
}

// Manifest records what a run computed.
type Manifest struct {
	RunID       core.RunID
	StartedAt   time.Time
	FinishedAt  time.Time
	Sims        int
	Draws       int
	Scenarios   int
	Uncertainty reef.UncertaintyConfig
}

// Runner executes the full pipeline: indicator extraction for both arms of
// each scenario, long-form transforms, and Monte Carlo cost ledgers.
// Scenarios are independent, so they fan out across workers; every worker
// builds its own random source and factor designs, sharing no mutable state.
type Runner struct {
	Criteria   indicator.CriteriaSource
	Deployment costmc.Model
	Production costmc.Model
	Aggregator *econ.Aggregator
	Transforms []econ.Transform
	Sink       Sink
	Log        *internal.Logger

	Sims        int
	Draws       int
	Contingency float64
	Workers     int
	Seed        uint64
	Uncertainty reef.UncertaintyConfig
}

// Run processes every scenario job against the result set.
func (r *Runner) Run(ctx context.Context, rs *reef.ResultSet, jobs []ScenarioJob) (*Manifest, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, core.NewDegenerateInputError("no scenario jobs")
	}

	manifest := &Manifest{
		RunID:       core.NewRunID(),
		StartedAt:   time.Now().UTC(),
		Sims:        r.Sims,
		Draws:       r.Draws,
		Scenarios:   len(jobs),
		Uncertainty: r.Uncertainty,
	}

	seed := r.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if r.Log != nil && r.Uncertainty.Deterministic() && r.Seed != 0 {
		r.Log.Info("uncertainty sampling disabled, run is repeatable for seed %d", seed)
	}

	workers := r.Workers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	g, ctx := errgroup.WithContext(ctx)

	for i, job := range jobs {
		// Per-job offset keeps draw streams disjoint across workers.
		jobSeed := seed + uint64(i)*0x9e3779b9
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)
			return r.runScenario(rs, job, jobSeed, manifest.RunID)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	manifest.FinishedAt = time.Now().UTC()
	return manifest, nil
}

// runScenario computes both arms of one scenario, then its cost ledger.
func (r *Runner) runScenario(rs *reef.ResultSet, job ScenarioJob, seed uint64, runID core.RunID) error {
	scen := job.Scenario
	rng := core.NewRand(seed)
	resolver := indicator.NewResolver(r.Criteria, rng)
	engine := indicator.NewEngine(rng)

	table := r.Aggregator.BaseTable(scen.Years[0])
	arms := []struct {
		arm Arm
		ids []int
	}{
		{ArmIntervention, job.InterventionIDs},
		{ArmCounterfactual, job.CounterfactualIDs},
	}
	for _, a := range arms {
		// Parameters are resolved per arm so perturbation draws stay
		// independent between intervention and counterfactual.
		params, err := resolver.Resolve(rs, indicator.ResolveRequest{ScenarioIDs: a.ids, Config: r.Uncertainty})
		if err != nil {
			return fmt.Errorf("scenario %d %s: %w", scen.ID, a.arm, err)
		}
		set, err := engine.Compute(rs, a.ids, r.Uncertainty.EcologicalReplicates, params, r.Sims)
		if err != nil {
			return fmt.Errorf("scenario %d %s: %w", scen.ID, a.arm, err)
		}
		for _, t := range r.Transforms {
			values, err := r.Aggregator.Apply(set, t)
			if err != nil {
				return fmt.Errorf("scenario %d %s %s: %w", scen.ID, a.arm, t.Name, err)
			}
			if err := r.Sink.SaveTable(runID, scen.ID, a.arm, t.Name, table, values); err != nil {
				return fmt.Errorf("scenario %d %s %s: %w", scen.ID, a.arm, t.Name, err)
			}
		}
	}

	sequencer := costmc.NewSequencer(costmc.NewSampler(rng), r.Deployment, r.Production, r.Contingency)
	ledger, err := sequencer.Run(scen, r.Draws)
	if err != nil {
		return fmt.Errorf("scenario %d costs: %w", scen.ID, err)
	}
	if err := r.Sink.SaveLedger(runID, ledger); err != nil {
		return fmt.Errorf("scenario %d costs: %w", scen.ID, err)
	}

	if r.Log != nil {
		if summary, err := costmc.Summarize(ledger); err == nil && len(summary) > 0 {
			first := summary[0]
			r.Log.Info("scenario %d: %d ledger rows, year %d CAPEX mean %.0f",
				scen.ID, len(summary), first.Year, first.Mean)
		}
	}
	return nil
}
