package cost

import (
	"sort"

	"reefmetrics/domain/core"
)

// InterventionScenario describes one intervention run as the cost engines
// consume it: which years deployment happens, how many corals go out each
// year, and the logistics constants the cost models need. Supplied by the
// scenario loader; read-only here.
type InterventionScenario struct {
	ID int
	// Years are the intervention years, ascending.
	Years []int
	// Replicates is the ecological replicate count the ledger spans.
	Replicates int
	// CoralsByYear is the number of 1-year-old corals deployed per
	// intervention year.
	CoralsByYear map[int]float64

	PortID           int
	DistanceToPortNM float64
	Species          int
	// ReefIDs are the intervention reefs, carried through for reporting.
	ReefIDs []string
}

// Validate checks the scenario can drive the cost sequencer.
func (s *InterventionScenario) Validate() error {
	if len(s.Years) == 0 {
		return core.NewDegenerateInputError("intervention scenario has no years")
	}
	if s.Replicates < 1 {
		return core.NewConfigError("replicates", "must be at least 1")
	}
	if !sort.IntsAreSorted(s.Years) {
		return core.NewConfigError("intervention_years", "must be ascending")
	}
	for _, y := range s.Years {
		if _, ok := s.CoralsByYear[y]; !ok {
			return core.NewConfigError("number_of_1YO_corals", "missing deployment count for an intervention year")
		}
	}
	return nil
}
