package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"reefmetrics/domain/core"
	"reefmetrics/domain/cost"
	"reefmetrics/internal/econ"
	"reefmetrics/internal/runner"
)

// Writer persists long-form metric tables and cost ledgers as CSV files,
// one file per (scenario, arm, transform) and one cost file per scenario.
type Writer struct {
	dir string
}

// NewWriter creates a writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// SaveTable writes one transform's long-form table.
func (w *Writer) SaveTable(_ core.RunID, scenarioID int, arm runner.Arm, transform string, table *econ.BaseTable, values *mat.Dense) error {
	name := fmt.Sprintf("%s%d_var_%s.csv", arm, scenarioID, transform)
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	rows, sims := values.Dims()
	if rows != table.Rows() {
		return core.NewShapeMismatchError("transform rows", rows, table.Rows())
	}

	header := []string{"year_absolute", "year_relative", "Reef_ID", "reef_name", "UNIQUE_ID"}
	for s := 0; s < sims; s++ {
		header = append(header, econ.ColumnName(s))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, 0, len(header))
	for row := 0; row < rows; row++ {
		meta, yearAbs, yearRel := table.RowMeta(row)
		record = record[:0]
		record = append(record,
			strconv.Itoa(yearAbs),
			strconv.Itoa(yearRel),
			strconv.Itoa(meta.ReefID),
			meta.Name,
			meta.UniqueID,
		)
		for s := 0; s < sims; s++ {
			record = append(record, formatValue(values.At(row, s)))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveLedger writes one scenario's Monte Carlo cost data.
func (w *Writer) SaveLedger(_ core.RunID, ledger *cost.Ledger) error {
	name := fmt.Sprintf("intervention%d_mc_cost_data.csv", ledger.ScenarioID)
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := []string{"year", "component"}
	for i := 1; i <= ledger.Reps*ledger.Draws; i++ {
		header = append(header, "draw"+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	err = ledger.EachRow(func(year int, c cost.Component, draws []float64) error {
		record := make([]string, 0, 2+len(draws))
		record = append(record, strconv.Itoa(year), strconv.Itoa(int(c)))
		for _, v := range draws {
			record = append(record, formatValue(v))
		}
		return cw.Write(record)
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
