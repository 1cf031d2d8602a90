package runner

import (
	"fmt"

	"reefmetrics/domain/core"
	"reefmetrics/internal/econ"
)

// FillPortDistances derives the port distance for scenarios whose key table
// left it unset, matching intervention reef ids against the reef metadata.
// The farthest matched reef drives the vessel transit factor, since the
// deployment run has to reach it. Scenarios that already carry a distance
// are left alone.
func FillPortDistances(jobs []ScenarioJob, reefs []econ.ReefMeta) error {
	byID := make(map[string]econ.ReefMeta, len(reefs))
	for _, m := range reefs {
		byID[m.UniqueID] = m
	}

	for _, job := range jobs {
		scen := job.Scenario
		if scen.DistanceToPortNM > 0 {
			continue
		}
		if len(scen.ReefIDs) == 0 {
			return core.NewConfigError("distance_to_port_NM",
				fmt.Sprintf("scenario %d has no port distance and no intervention reefs to derive one from", scen.ID))
		}
		farthest := 0.0
		for _, id := range scen.ReefIDs {
			m, ok := byID[id]
			if !ok {
				return core.NewConfigError("intervention_reef_ids",
					fmt.Sprintf("scenario %d references unknown reef %q", scen.ID, id))
			}
			if d := m.PortDistanceNM(); d > farthest {
				farthest = d
			}
		}
		scen.DistanceToPortNM = farthest
	}
	return nil
}
