package testkit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"reefmetrics/domain/reef"
	"reefmetrics/internal/indicator"
)

// ResultSetConfig configures the synthetic ecological result set generator
type ResultSetConfig struct {
	Scenarios int
	Groups    int
	Reefs     int
	Years     int
	Seed      uint64
	// JuvenilePeak is the highest juvenile count the generator emits, so
	// tests know the hindcast baseline in advance.
	JuvenilePeak float64
}

// DefaultResultSetConfig returns a small result set shape that exercises
// every axis
func DefaultResultSetConfig() ResultSetConfig {
	return ResultSetConfig{Scenarios: 4, Groups: 6, Reefs: 3, Years: 5, Seed: 42, JuvenilePeak: 200}
}

// NewResultSet generates a deterministic synthetic result set. Values cycle
// through plausible ranges so metrics land spread across the classification
// tiers without a real model run.
func NewResultSet(cfg ResultSetConfig) *reef.ResultSet {
	rs := &reef.ResultSet{
		CoTS:          reef.NewArray3(cfg.Scenarios, cfg.Reefs, cfg.Years),
		TaxaCover:     reef.NewArray4(cfg.Scenarios, cfg.Groups, cfg.Reefs, cfg.Years),
		JuvenileCount: reef.NewArray3(cfg.Scenarios, cfg.Reefs, cfg.Years),
		Rubble:        reef.NewArray3(cfg.Scenarios, cfg.Reefs, cfg.Years),
		ShelterVolume: reef.NewArray3(cfg.Scenarios, cfg.Reefs, cfg.Years),
		Timesteps:     make([]int, cfg.Years),
		Locations:     make([]string, cfg.Reefs),
	}
	for y := 0; y < cfg.Years; y++ {
		rs.Timesteps[y] = 2025 + y
	}
	for r := 0; r < cfg.Reefs; r++ {
		rs.Locations[r] = reefName(r)
	}

	// A cheap deterministic stream; not a statistical generator, just a
	// stable spread of values.
	next := seededStream(cfg.Seed)
	for s := 0; s < cfg.Scenarios; s++ {
		for r := 0; r < cfg.Reefs; r++ {
			for y := 0; y < cfg.Years; y++ {
				rs.CoTS.Set(s, r, y, 0.3*next())
				rs.JuvenileCount.Set(s, r, y, cfg.JuvenilePeak*next())
				rs.Rubble.Set(s, r, y, 40*next())
				rs.ShelterVolume.Set(s, r, y, 0.12*next())
				for g := 0; g < cfg.Groups; g++ {
					// Per-taxon percent cover; groups sum well below 100.
					rs.TaxaCover.Set(s, g, r, y, (80.0/float64(cfg.Groups))*next())
				}
			}
		}
	}
	// Pin the configured juvenile peak so baselines are exact.
	rs.JuvenileCount.Set(0, 0, 0, cfg.JuvenilePeak)
	return rs
}

// MedianCriteria returns a fixed, monotone 4x5 threshold matrix: each tier
// row is strictly looser than the one above it.
func MedianCriteria() *mat.Dense {
	return mat.NewDense(reef.NumTiers, reef.NumMetrics, []float64{
		0.5, 0.4, 0.5, 0.9, 0.9, // 0.9 tier
		0.35, 0.3, 0.35, 0.8, 0.8, // 0.7 tier
		0.25, 0.2, 0.25, 0.7, 0.7, // 0.5 tier
		0.15, 0.1, 0.15, 0.6, 0.6, // 0.3 tier
	})
}

// StaticCriteria is a CriteriaSource over fixed tables.
type StaticCriteria struct {
	Median *mat.Dense
	Pool   *indicator.ExpertPool
}

func (s *StaticCriteria) MedianCriteria() (*mat.Dense, error) {
	return s.Median, nil
}

func (s *StaticCriteria) ExpertPool() (*indicator.ExpertPool, error) {
	return s.Pool, nil
}

// NewExpertPool builds a pool where expert e's thresholds for every metric
// are the median thresholds shifted by e*offset, keeping each expert
// distinguishable in tests.
func NewExpertPool(experts int, offset float64) *indicator.ExpertPool {
	median := MedianCriteria()
	pool := &indicator.ExpertPool{Experts: experts}
	for m := 0; m < indicator.SurveyMetricColumns; m++ {
		cols := make([][]float64, experts)
		for e := 0; e < experts; e++ {
			tiers := make([]float64, reef.NumTiers)
			for t := 0; t < reef.NumTiers; t++ {
				// The survey has one extra metric column; reuse the last
				// threshold column for it.
				col := m
				if col >= reef.NumMetrics {
					col = reef.NumMetrics - 1
				}
				tiers[t] = median.At(t, col) + float64(e)*offset
			}
			cols[e] = tiers
		}
		pool.Thresholds[m] = cols
	}
	return pool
}

func seededStream(seed uint64) func() float64 {
	state := seed*2654435761 + 1
	return func() float64 {
		state = state*6364136223846793005 + 1442695040888963407
		// Map the top bits to (0, 1).
		return float64(state>>11) / float64(math.MaxUint64>>11)
	}
}

func reefName(i int) string {
	names := []string{"Moore", "Hastings", "Arlington", "Saxon", "Norman", "Briggs"}
	return names[i%len(names)]
}
