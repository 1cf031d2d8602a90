package runner

import (
	"gonum.org/v1/gonum/mat"

	"reefmetrics/domain/core"
	costdom "reefmetrics/domain/cost"
	"reefmetrics/internal/econ"
)

// MultiSink fans results out to several sinks, e.g. CSV files plus the
// postgres store.
type MultiSink []Sink

func (m MultiSink) SaveTable(runID core.RunID, scenarioID int, arm Arm, transform string, table *econ.BaseTable, values *mat.Dense) error {
	for _, s := range m {
		if err := s.SaveTable(runID, scenarioID, arm, transform, table, values); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) SaveLedger(runID core.RunID, ledger *costdom.Ledger) error {
	for _, s := range m {
		if err := s.SaveLedger(runID, ledger); err != nil {
			return err
		}
	}
	return nil
}
