package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"reefmetrics/adapters/api"
	"reefmetrics/adapters/csvout"
	"reefmetrics/adapters/excel"
	"reefmetrics/adapters/postgres"
	costdom "reefmetrics/domain/cost"
	"reefmetrics/domain/reef"
	"reefmetrics/internal"
	"reefmetrics/internal/config"
	costmc "reefmetrics/internal/cost"
	"reefmetrics/internal/econ"
	"reefmetrics/internal/indicator"
	"reefmetrics/internal/runner"
	"reefmetrics/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "reefmetrics",
		Short: "Reef indicator extraction and intervention cost pipeline",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newServeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var resultsFile string
	var scenariosFile string
	var synthetic bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run indicator tables and Monte Carlo cost ledgers for every scenario",
		Long: `Run the full pipeline: resolve indicator parameters, compute condition
tables for the intervention and counterfactual arms of each scenario, apply
the long-form transforms, and sequence the deployment and production cost
models into per-year ledgers.

Input tables, draw counts and uncertainty toggles come from the environment
(see .env.example). --synthetic swaps every input for deterministic built-in
fixtures, which is handy for smoke-testing a deployment.

Example: reefmetrics run --results results.csv --scenarios scenarios.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, resultsFile, scenariosFile, synthetic)
		},
	}

	cmd.Flags().StringVar(&resultsFile, "results", "", "Ecological model extraction (CSV or xlsx)")
	cmd.Flags().StringVar(&scenariosFile, "scenarios", "", "Intervention scenario key table (CSV or xlsx)")
	cmd.Flags().BoolVar(&synthetic, "synthetic", false, "Use built-in synthetic inputs instead of files")

	return cmd
}

func runPipeline(cmd *cobra.Command, resultsFile, scenariosFile string, synthetic bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := internal.NewDefaultLogger()

	rs, jobs, criteria, deployment, production, reefs, err := loadInputs(cfg, resultsFile, scenariosFile, synthetic)
	if err != nil {
		return err
	}

	agg, err := econ.NewAggregator(reefs, rs.Timesteps)
	if err != nil {
		return err
	}

	writer, err := csvout.NewWriter(cfg.Paths.OutputDir)
	if err != nil {
		return err
	}
	sink := runner.MultiSink{writer}

	var store *postgres.Store
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("connect result store: %w", err)
		}
		defer db.Close()
		store = postgres.NewStore(db)
		sink = append(sink, store)
	}

	r := &runner.Runner{
		Criteria:    criteria,
		Deployment:  deployment,
		Production:  production,
		Aggregator:  agg,
		Transforms:  econ.DefaultTransforms(),
		Sink:        sink,
		Log:         log,
		Sims:        cfg.Sampling.Sims,
		Draws:       cfg.Sampling.Draws,
		Contingency: cfg.Sampling.Contingency,
		Workers:     cfg.Sampling.Workers,
		Seed:        cfg.Sampling.Seed,
		Uncertainty: cfg.Uncertainty,
	}

	log.Info("running %d scenarios: %d sims, %d draws, %d workers",
		len(jobs), cfg.Sampling.Sims, cfg.Sampling.Draws, cfg.Sampling.Workers)

	manifest, err := r.Run(cmd.Context(), rs, jobs)
	if err != nil {
		return err
	}
	if store != nil {
		if err := store.SaveRun(cmd.Context(), manifest); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}

	log.Info("run %s finished in %s, outputs in %s",
		manifest.RunID, manifest.FinishedAt.Sub(manifest.StartedAt), cfg.Paths.OutputDir)
	return nil
}

// loadInputs assembles the pipeline inputs either from the configured files
// or, with --synthetic, from deterministic fixtures.
func loadInputs(cfg *config.Config, resultsFile, scenariosFile string, synthetic bool) (
	rs *reef.ResultSet, jobs []runner.ScenarioJob, criteria indicator.CriteriaSource,
	deployment, production costmc.Model, reefs []econ.ReefMeta, err error,
) {
	if synthetic {
		return syntheticInputs()
	}
	if resultsFile == "" || scenariosFile == "" {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("--results and --scenarios are required without --synthetic")
	}

	rs, err = excel.ResultSet(resultsFile)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("load results: %w", err)
	}
	jobs, err = excel.ScenarioJobs(scenariosFile)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("load scenarios: %w", err)
	}
	reefs, err = excel.ReefMetadata(cfg.Paths.ReefMetadataFile)
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("load reef metadata: %w", err)
	}
	if err = runner.FillPortDistances(jobs, reefs); err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("resolve port distances: %w", err)
	}
	deployment, err = excel.LoadWorkbookModel(cfg.Paths.DeploymentModelFile, "Sheet1", "deployment")
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("load deployment model: %w", err)
	}
	production, err = excel.LoadWorkbookModel(cfg.Paths.ProductionModelFile, "Sheet1", "production")
	if err != nil {
		return nil, nil, nil, nil, nil, nil, fmt.Errorf("load production model: %w", err)
	}
	criteria = excel.NewCriteriaReader(cfg.Paths.CriteriaMedianFile, cfg.Paths.ExpertPoolFile)
	return rs, jobs, criteria, deployment, production, reefs, nil
}

func syntheticInputs() (
	rs *reef.ResultSet, jobs []runner.ScenarioJob, criteria indicator.CriteriaSource,
	deployment, production costmc.Model, reefs []econ.ReefMeta, err error,
) {
	kcfg := testkit.DefaultResultSetConfig()
	rs = testkit.NewResultSet(kcfg)

	scen := &costdom.InterventionScenario{
		ID:               1,
		Years:            []int{0, 1},
		Replicates:       2,
		CoralsByYear:     map[int]float64{0: 50000, 1: 75000},
		PortID:           1,
		DistanceToPortNM: 120,
		Species:          3,
	}
	jobs = []runner.ScenarioJob{{
		Scenario:          scen,
		InterventionIDs:   []int{0, 1},
		CounterfactualIDs: []int{2, 3},
	}}

	criteria = &testkit.StaticCriteria{
		Median: testkit.MedianCriteria(),
		Pool:   testkit.NewExpertPool(8, 0.02),
	}

	deployment = excel.NewStaticModel("deployment", 120000, 400000,
		map[string]float64{"num_devices": 220, "distance_from_port": 310, "deployment_duration": 1500, "vessel_day_rate": 0.9},
		map[string]float64{"num_devices": 45})
	production = excel.NewStaticModel("production", 80000, 250000,
		map[string]float64{"num_devices": 60, "tank_volume": 900, "labour_rate": 1200},
		map[string]float64{"num_devices": 18, "tank_volume": 150})

	for i := 0; i < kcfg.Reefs; i++ {
		reefs = append(reefs, econ.ReefMeta{
			ReefID:        100 + i,
			Name:          rs.Locations[i],
			UniqueID:      fmt.Sprintf("1%02d00100%d", i, i),
			GBRMPAID:      fmt.Sprintf("1%02d", i),
			AreaHa:        150 + 40*float64(i),
			PortDistanceM: 90000 + 15000*float64(i),
		})
	}
	return rs, jobs, criteria, deployment, production, reefs, nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve computed runs and cost ledgers over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL is required for serve")
			}
			log := internal.NewDefaultLogger()

			db, err := postgres.Connect(cfg.Database.URL)
			if err != nil {
				return err
			}
			defer db.Close()

			srv := api.NewServer(postgres.NewStore(db), log)
			return srv.Start(":" + cfg.Server.Port)
		},
	}
	return cmd
}
