package excel

import (
	"fmt"
	"testing"
)

func resultRows(scenarios, reefs, years int) [][]string {
	rows := [][]string{{"scenario", "reef", "year", "year_absolute", "reef_name",
		"cots", "juveniles", "rubble", "shelter_volume",
		"cover_1", "cover_2", "cover_3", "cover_4", "cover_5", "cover_6"}}
	for s := 0; s < scenarios; s++ {
		for r := 0; r < reefs; r++ {
			for y := 0; y < years; y++ {
				row := []string{
					fmt.Sprintf("%d", s), fmt.Sprintf("%d", r), fmt.Sprintf("%d", y),
					fmt.Sprintf("%d", 2026+y), fmt.Sprintf("reef_%d", r),
					"0.05", fmt.Sprintf("%d", 10*(s+1)), "12.5", "0.02",
				}
				for g := 0; g < 6; g++ {
					row = append(row, fmt.Sprintf("%d", g+1))
				}
				rows = append(rows, row)
			}
		}
	}
	return rows
}

func TestResultSet_LoadsGrid(t *testing.T) {
	path := writeCSV(t, "results.csv", resultRows(2, 3, 4))

	rs, err := ResultSet(path)
	if err != nil {
		t.Fatalf("ResultSet failed: %v", err)
	}
	if rs.Scenarios() != 2 || rs.Reefs() != 3 || rs.Years() != 4 {
		t.Fatalf("Unexpected shape (%d,%d,%d)", rs.Scenarios(), rs.Reefs(), rs.Years())
	}
	if got := rs.JuvenileCount.At(1, 2, 3); got != 20 {
		t.Errorf("Expected juveniles 20 for scenario 1, got %v", got)
	}
	if got := rs.TaxaCover.At(0, 4, 1, 2); got != 5 {
		t.Errorf("Expected cover group 5 value 5, got %v", got)
	}
	if rs.Timesteps[3] != 2029 {
		t.Errorf("Expected absolute year 2029, got %d", rs.Timesteps[3])
	}
	if rs.Locations[2] != "reef_2" {
		t.Errorf("Expected location reef_2, got %q", rs.Locations[2])
	}
}

func TestResultSet_RejectsIncompleteGrid(t *testing.T) {
	rows := resultRows(2, 2, 2)
	path := writeCSV(t, "results.csv", rows[:len(rows)-1])
	if _, err := ResultSet(path); err == nil {
		t.Error("Expected error for missing grid cell")
	}
}

func TestResultSet_RejectsMissingColumns(t *testing.T) {
	path := writeCSV(t, "results.csv", [][]string{
		{"scenario", "reef", "year", "cots"},
		{"0", "0", "0", "0.1"},
	})
	if _, err := ResultSet(path); err == nil {
		t.Error("Expected error for missing value columns")
	}
}
