package csvout

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"

	"reefmetrics/domain/core"
	"reefmetrics/domain/cost"
	"reefmetrics/internal/econ"
	"reefmetrics/internal/runner"
)

func readBack(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}

func TestSaveTable(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	table := &econ.BaseTable{
		Reefs: []econ.ReefMeta{
			{ReefID: 1, Name: "north", UniqueID: "n-1"},
			{ReefID: 2, Name: "south", UniqueID: "s-2"},
		},
		YearsAbsolute: []int{2026, 2027},
		YearsRelative: []int{0, 1},
	}
	values := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
		7, 8,
	})

	if err := w.SaveTable(core.NewRunID(), 3, runner.ArmIntervention, "raw_rci", table, values); err != nil {
		t.Fatalf("SaveTable failed: %v", err)
	}

	rows := readBack(t, filepath.Join(dir, "intervention3_var_raw_rci.csv"))
	if len(rows) != 5 {
		t.Fatalf("Expected header plus 4 rows, got %d", len(rows))
	}
	wantHeader := []string{"year_absolute", "year_relative", "Reef_ID", "reef_name", "UNIQUE_ID", "sim_1", "sim_2"}
	for i, h := range wantHeader {
		if rows[0][i] != h {
			t.Errorf("header col %d: expected %q, got %q", i, h, rows[0][i])
		}
	}
	// Row 3 is reef 2, year 2026 (reef-major layout).
	got := rows[3]
	if got[0] != "2026" || got[2] != "2" || got[3] != "south" || got[5] != "5" || got[6] != "6" {
		t.Errorf("Unexpected row 3: %v", got)
	}
}

func TestSaveTable_ShapeGuard(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}
	table := &econ.BaseTable{
		Reefs:         []econ.ReefMeta{{ReefID: 1}},
		YearsAbsolute: []int{2026},
		YearsRelative: []int{0},
	}
	// Two rows against a one-row template.
	err = w.SaveTable(core.NewRunID(), 1, runner.ArmCounterfactual, "raw_rti", table, mat.NewDense(2, 1, nil))
	if !core.IsShapeMismatch(err) {
		t.Errorf("Expected shape mismatch, got %v", err)
	}
}

func TestSaveLedger(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	ledger := cost.NewLedger(7, []int{0, 2}, 1, 3)
	if err := ledger.Set(2, cost.ComponentOPEX, 0, 1, 99.5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := w.SaveLedger(core.NewRunID(), ledger); err != nil {
		t.Fatalf("SaveLedger failed: %v", err)
	}

	rows := readBack(t, filepath.Join(dir, "intervention7_mc_cost_data.csv"))
	if len(rows) != 1+2*cost.NumComponents {
		t.Fatalf("Expected %d rows, got %d", 1+2*cost.NumComponents, len(rows))
	}
	if rows[0][0] != "year" || rows[0][1] != "component" || rows[0][2] != "draw1" {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	// Year 2, component 3 sits at row offset NumComponents + 3.
	row := rows[1+cost.NumComponents+int(cost.ComponentOPEX)-1]
	if row[0] != "2" || row[1] != "3" {
		t.Fatalf("Unexpected row coordinates: %v", row)
	}
	if row[2+1] != "99.5" {
		t.Errorf("Expected draw 2 value 99.5, got %q", row[3])
	}
}
