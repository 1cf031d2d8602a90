package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/mat"

	"reefmetrics/domain/reef"
	"reefmetrics/internal/indicator"
)

// Column layout of the survey tables: the median file carries the five
// threshold columns at these positions, the pool file carries metric
// columns from poolFirstColumn on, with rows stacked tier-major by expert.
var medianColumns = [reef.NumMetrics]int{1, 3, 4, 6, 8}

const poolFirstColumn = 2

// tierRowsPerExpert is the stacked percentile row count per expert in the
// pool file; only the first reef.NumTiers feed the criteria matrix.
const tierRowsPerExpert = 5

// CriteriaReader loads the expert-median condition criteria table and the
// full per-expert response pool from CSV or xlsx files.
type CriteriaReader struct {
	medianPath string
	poolPath   string
}

// NewCriteriaReader creates a reader over the two survey files.
func NewCriteriaReader(medianPath, poolPath string) *CriteriaReader {
	return &CriteriaReader{medianPath: medianPath, poolPath: poolPath}
}

// MedianCriteria reads the fixed expert-median 4x5 threshold matrix.
func (r *CriteriaReader) MedianCriteria() (*mat.Dense, error) {
	rows, err := readRows(r.medianPath)
	if err != nil {
		return nil, err
	}
	if len(rows) < reef.NumTiers+1 {
		return nil, fmt.Errorf("median criteria file %s has %d rows, need header plus %d tiers",
			r.medianPath, len(rows), reef.NumTiers)
	}

	m := mat.NewDense(reef.NumTiers, reef.NumMetrics, nil)
	for tier := 0; tier < reef.NumTiers; tier++ {
		row := rows[tier+1] // skip header
		for mi, col := range medianColumns {
			v, err := cellFloat(row, col)
			if err != nil {
				return nil, fmt.Errorf("median criteria row %d col %d: %w", tier+1, col, err)
			}
			m.Set(tier, mi, v)
		}
	}
	return m, nil
}

// ExpertPool reads the full response pool. The file stacks one row per
// (tier percentile, expert): expert e's tier t row sits at t*experts+e.
func (r *CriteriaReader) ExpertPool() (*indicator.ExpertPool, error) {
	rows, err := readRows(r.poolPath)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("expert pool file %s is empty", r.poolPath)
	}
	data := rows[1:] // skip header
	if len(data)%tierRowsPerExpert != 0 {
		return nil, fmt.Errorf("expert pool has %d rows, not a multiple of %d", len(data), tierRowsPerExpert)
	}
	experts := len(data) / tierRowsPerExpert

	pool := &indicator.ExpertPool{Experts: experts}
	for m := 0; m < indicator.SurveyMetricColumns; m++ {
		cols := make([][]float64, experts)
		for e := 0; e < experts; e++ {
			tiers := make([]float64, reef.NumTiers)
			for t := 0; t < reef.NumTiers; t++ {
				v, err := cellFloat(data[t*experts+e], poolFirstColumn+m)
				if err != nil {
					return nil, fmt.Errorf("expert pool expert %d tier %d metric %d: %w", e, t, m, err)
				}
				tiers[t] = v
			}
			cols[e] = tiers
		}
		pool.Thresholds[m] = cols
	}
	return pool, nil
}

// readRows reads a CSV or xlsx table into string rows.
func readRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("table file not found: %s", path)
	}
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		return reader.ReadAll()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	return f.GetRows(f.GetSheetName(0))
}

func cellFloat(row []string, col int) (float64, error) {
	if col >= len(row) {
		return 0, fmt.Errorf("row has %d cells, need column %d", len(row), col)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0, fmt.Errorf("cell %q is not numeric", row[col])
	}
	return v, nil
}
