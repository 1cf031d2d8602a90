package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"reefmetrics/domain/cost"
)

// WorkbookModel evaluates a cost sub-model defined as a coefficients sheet
// in an Excel workbook. Each factor row carries a linear operational-cost
// coefficient and a setup-cost coefficient; the "base" and "setup_base"
// rows carry the intercepts. The sequencer treats this as a black box that
// maps a factor design to Cost and setupCost columns.
type WorkbookModel struct {
	name      string
	base      float64
	setupBase float64
	// coefficients per factor name: operational and setup.
	coef      map[string]float64
	setupCoef map[string]float64
}

// LoadWorkbookModel reads a cost model from the named sheet of a workbook.
// The sheet layout is: header row, then rows of (name, cost_coefficient,
// setup_coefficient).
func LoadWorkbookModel(path, sheet, name string) (*WorkbookModel, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cost model workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("cost model sheet %q has no coefficient rows", sheet)
	}

	m := &WorkbookModel{
		name:      name,
		coef:      make(map[string]float64),
		setupCoef: make(map[string]float64),
	}
	for i, row := range rows[1:] {
		if len(row) < 3 {
			return nil, fmt.Errorf("cost model row %d has %d cells, need 3", i+2, len(row))
		}
		key := strings.TrimSpace(row[0])
		c, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("cost model row %d cost coefficient: %w", i+2, err)
		}
		s, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("cost model row %d setup coefficient: %w", i+2, err)
		}
		switch key {
		case "base":
			m.base = c
		case "setup_base":
			m.setupBase = s
		default:
			m.coef[key] = c
			m.setupCoef[key] = s
		}
	}
	return m, nil
}

// NewStaticModel builds a workbook-free model from explicit coefficients,
// used by tests and fixtures.
func NewStaticModel(name string, base, setupBase float64, coef, setupCoef map[string]float64) *WorkbookModel {
	return &WorkbookModel{name: name, base: base, setupBase: setupBase, coef: coef, setupCoef: setupCoef}
}

// Name identifies the sub-model in errors and logs.
func (m *WorkbookModel) Name() string {
	return m.name
}

// Evaluate computes Cost and setupCost per design row.
func (m *WorkbookModel) Evaluate(design *cost.FactorDesign) (costs, setup []float64, err error) {
	n := design.Rows()
	costs = make([]float64, n)
	setup = make([]float64, n)
	for i := range costs {
		costs[i] = m.base
		setup[i] = m.setupBase
	}
	for col, f := range design.Spec.Factors {
		c, cok := m.coef[f.Name]
		s, sok := m.setupCoef[f.Name]
		if !cok && !sok {
			continue
		}
		for i := 0; i < n; i++ {
			v := design.At(i, col)
			costs[i] += c * v
			setup[i] += s * v
		}
	}
	return costs, setup, nil
}
