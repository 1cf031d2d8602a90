package cost

import (
	"github.com/montanaflynn/stats"

	"reefmetrics/domain/cost"
)

// DrawSummary condenses one ledger row's draws for reporting and logging.
type DrawSummary struct {
	Year      int
	Component cost.Component
	Mean      float64
	Median    float64
	P10       float64
	P90       float64
}

// Summarize computes per-row draw summaries across replicates and draws.
// Placeholder component rows are skipped.
func Summarize(ledger *cost.Ledger) ([]DrawSummary, error) {
	var out []DrawSummary
	err := ledger.EachRow(func(year int, c cost.Component, draws []float64) error {
		switch c {
		case cost.ComponentCAPEX, cost.ComponentCAPEXContingency, cost.ComponentOPEX, cost.ComponentOPEXContingency:
		default:
			return nil
		}
		data := stats.Float64Data(draws)
		mean, err := stats.Mean(data)
		if err != nil {
			return err
		}
		median, err := stats.Median(data)
		if err != nil {
			return err
		}
		p10, err := stats.Percentile(data, 10)
		if err != nil {
			return err
		}
		p90, err := stats.Percentile(data, 90)
		if err != nil {
			return err
		}
		out = append(out, DrawSummary{Year: year, Component: c, Mean: mean, Median: median, P10: p10, P90: p90})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
