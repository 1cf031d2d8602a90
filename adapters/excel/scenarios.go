package excel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"reefmetrics/domain/cost"
	"reefmetrics/internal/runner"
)

// ScenarioJobs reads the intervention key table: one row per scenario with
// columns scenario_id, intervention_years, number_of_1YO_corals (one value
// per year, ";"-separated), replicates, port_id, number_of_species,
// intervention_scen_ids, counterfactual_scen_ids and optional
// distance_to_port_NM and intervention_reef_ids columns. A missing or blank
// distance is left zero for runner.FillPortDistances to derive from the
// reef metadata.
func ScenarioJobs(path string) ([]runner.ScenarioJob, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("scenario file %s has no data rows", path)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	required := []string{"scenario_id", "intervention_years", "number_of_1yo_corals", "replicates",
		"port_id", "number_of_species", "intervention_scen_ids", "counterfactual_scen_ids"}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("scenario file %s is missing column %q", path, name)
		}
	}

	jobs := make([]runner.ScenarioJob, 0, len(rows)-1)
	for i, row := range rows[1:] {
		id, err := cellInt(row, cols["scenario_id"])
		if err != nil {
			return nil, fmt.Errorf("scenario row %d id: %w", i+2, err)
		}
		years, err := intList(cell(row, cols["intervention_years"]))
		if err != nil {
			return nil, fmt.Errorf("scenario row %d years: %w", i+2, err)
		}
		corals, err := floatList(cell(row, cols["number_of_1yo_corals"]))
		if err != nil {
			return nil, fmt.Errorf("scenario row %d corals: %w", i+2, err)
		}
		if len(corals) != len(years) {
			return nil, fmt.Errorf("scenario row %d: %d coral counts for %d years", i+2, len(corals), len(years))
		}
		reps, err := cellInt(row, cols["replicates"])
		if err != nil {
			return nil, fmt.Errorf("scenario row %d replicates: %w", i+2, err)
		}
		port, err := cellInt(row, cols["port_id"])
		if err != nil {
			return nil, fmt.Errorf("scenario row %d port: %w", i+2, err)
		}
		dist := 0.0
		if dc, ok := cols["distance_to_port_nm"]; ok && strings.TrimSpace(cell(row, dc)) != "" {
			dist, err = cellFloat(row, dc)
			if err != nil {
				return nil, fmt.Errorf("scenario row %d distance: %w", i+2, err)
			}
		}
		species, err := cellInt(row, cols["number_of_species"])
		if err != nil {
			return nil, fmt.Errorf("scenario row %d species: %w", i+2, err)
		}
		ivIDs, err := intList(cell(row, cols["intervention_scen_ids"]))
		if err != nil {
			return nil, fmt.Errorf("scenario row %d intervention ids: %w", i+2, err)
		}
		cfIDs, err := intList(cell(row, cols["counterfactual_scen_ids"]))
		if err != nil {
			return nil, fmt.Errorf("scenario row %d counterfactual ids: %w", i+2, err)
		}

		byYear := make(map[int]float64, len(years))
		for j, y := range years {
			byYear[y] = corals[j]
		}
		sort.Ints(years)

		scen := &cost.InterventionScenario{
			ID:               id,
			Years:            years,
			Replicates:       reps,
			CoralsByYear:     byYear,
			PortID:           port,
			DistanceToPortNM: dist,
			Species:          species,
		}
		if ri, ok := cols["intervention_reef_ids"]; ok {
			for _, v := range strings.Split(cell(row, ri), ";") {
				if v = strings.TrimSpace(v); v != "" {
					scen.ReefIDs = append(scen.ReefIDs, v)
				}
			}
		}
		if err := scen.Validate(); err != nil {
			return nil, fmt.Errorf("scenario row %d: %w", i+2, err)
		}
		jobs = append(jobs, runner.ScenarioJob{
			Scenario:          scen,
			InterventionIDs:   ivIDs,
			CounterfactualIDs: cfIDs,
		})
	}
	return jobs, nil
}

func cellInt(row []string, col int) (int, error) {
	v, err := cellFloat(row, col)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func intList(s string) ([]int, error) {
	parts, err := floatList(s)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(parts))
	for i, v := range parts {
		out[i] = int(v)
	}
	return out, nil
}

func floatList(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("value %q is not numeric", part)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
