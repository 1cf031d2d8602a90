package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScenarioJobs(t *testing.T) {
	path := writeCSV(t, "scenarios.csv", [][]string{
		{"scenario_id", "intervention_years", "number_of_1yo_corals", "replicates",
			"port_id", "distance_to_port_nm", "number_of_species", "intervention_scen_ids",
			"counterfactual_scen_ids", "intervention_reef_ids"},
		{"4", "2;0", "75000;50000", "3", "2", "120.5", "6", "0;1;2", "3;4;5", "16-064;16-049"},
	})

	jobs, err := ScenarioJobs(path)
	assert.NoError(t, err)
	assert.Len(t, jobs, 1)

	job := jobs[0]
	scen := job.Scenario
	assert.Equal(t, 4, scen.ID)
	assert.Equal(t, 3, scen.Replicates)
	assert.Equal(t, 2, scen.PortID)
	assert.Equal(t, 6, scen.Species)
	assert.Equal(t, 120.5, scen.DistanceToPortNM)

	// Years sort ascending on load; coral counts stay keyed to their
	// original years.
	assert.Equal(t, []int{0, 2}, scen.Years)
	assert.Equal(t, 75000.0, scen.CoralsByYear[2])
	assert.Equal(t, 50000.0, scen.CoralsByYear[0])

	assert.Equal(t, []string{"16-064", "16-049"}, scen.ReefIDs)
	assert.Equal(t, []int{0, 1, 2}, job.InterventionIDs)
	assert.Equal(t, []int{3, 4, 5}, job.CounterfactualIDs)
}

func TestScenarioJobs_DistanceColumnOptional(t *testing.T) {
	// Without a distance column the scenario loads with 0 so the runner
	// can derive the distance from the matched reef metadata.
	path := writeCSV(t, "scenarios.csv", [][]string{
		{"scenario_id", "intervention_years", "number_of_1yo_corals", "replicates",
			"port_id", "number_of_species", "intervention_scen_ids",
			"counterfactual_scen_ids", "intervention_reef_ids"},
		{"1", "0", "50000", "2", "1", "3", "0", "1", "16-064"},
	})

	jobs, err := ScenarioJobs(path)
	assert.NoError(t, err)
	assert.Len(t, jobs, 1)
	assert.Equal(t, 0.0, jobs[0].Scenario.DistanceToPortNM)
	assert.Equal(t, []string{"16-064"}, jobs[0].Scenario.ReefIDs)
}

func TestScenarioJobs_RejectsMismatchedCoralCounts(t *testing.T) {
	path := writeCSV(t, "scenarios.csv", [][]string{
		{"scenario_id", "intervention_years", "number_of_1yo_corals", "replicates",
			"port_id", "distance_to_port_nm", "number_of_species", "intervention_scen_ids",
			"counterfactual_scen_ids"},
		{"1", "0;1", "50000", "2", "1", "90", "3", "0", "1"},
	})
	_, err := ScenarioJobs(path)
	assert.Error(t, err, "coral count list shorter than year list must fail")
}

func TestScenarioJobs_RejectsMissingColumn(t *testing.T) {
	path := writeCSV(t, "scenarios.csv", [][]string{
		{"scenario_id", "intervention_years"},
		{"1", "0"},
	})
	_, err := ScenarioJobs(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing column")
}

func TestReefMetadata(t *testing.T) {
	path := writeCSV(t, "spatial.csv", [][]string{
		{"reef_name", "reef_uniqueid", "gbrmpa_id", "total_area_nine_zones", "minimum_distance_to_nearest_port_m"},
		{"Moore Reef", "16064100104", "16-064", "1523.4", "48000"},
		{"Elford Reef", "16049100104", "16-049", "980.1", "61500"},
	})

	reefs, err := ReefMetadata(path)
	assert.NoError(t, err)
	assert.Len(t, reefs, 2)

	first := reefs[0]
	assert.Equal(t, 1, first.ReefID)
	assert.Equal(t, "Moore Reef", first.Name)
	assert.Equal(t, "16064100104", first.UniqueID)
	assert.Equal(t, "16-064", first.GBRMPAID)
	assert.Equal(t, 1523.4, first.AreaHa)
	assert.Equal(t, 48000.0, first.PortDistanceM)
}
