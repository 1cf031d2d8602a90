package reef

import (
	"fmt"

	"reefmetrics/domain/core"
)

// ResultSet holds the raw per-scenario ecological model output the indicator
// engine reads. The first axis of every array is the scenario (replicate)
// axis; the engine only ever indexes it through a scenario-id list. Loaders
// own construction; the engines treat a ResultSet as read-only.
type ResultSet struct {
	// CoTS density per manta tow, (scenario, reef, year).
	CoTS *Array3
	// TaxaCover is percent coral cover per taxa group, (scenario, group, reef, year).
	TaxaCover *Array4
	// JuvenileCount is the absolute juvenile coral count, (scenario, reef, year).
	JuvenileCount *Array3
	// Rubble is percent rubble cover, (scenario, reef, year).
	Rubble *Array3
	// ShelterVolume is the model's relative shelter volume, (scenario, reef, year).
	ShelterVolume *Array3

	// Timesteps holds the absolute model years, one per year index.
	Timesteps []int
	// Locations holds one identifier per reef index.
	Locations []string
}

// Scenarios returns the length of the scenario axis.
func (rs *ResultSet) Scenarios() int {
	if rs.CoTS == nil {
		return 0
	}
	return rs.CoTS.Sims
}

// Reefs returns the length of the reef axis.
func (rs *ResultSet) Reefs() int {
	if rs.CoTS == nil {
		return 0
	}
	return rs.CoTS.Reefs
}

// Years returns the length of the year axis.
func (rs *ResultSet) Years() int {
	if rs.CoTS == nil {
		return 0
	}
	return rs.CoTS.Years
}

// Validate checks that all arrays are present, share extents, and that the
// taxa grouping is one of the supported layouts (6 groups, or 12 with
// enhanced/unenhanced pairs).
func (rs *ResultSet) Validate() error {
	if rs.CoTS == nil || rs.TaxaCover == nil || rs.JuvenileCount == nil || rs.Rubble == nil || rs.ShelterVolume == nil {
		return core.NewDegenerateInputError("result set is missing arrays")
	}
	for name, arr := range map[string]*Array3{
		"nb_coral_juv":            rs.JuvenileCount,
		"rubble":                  rs.Rubble,
		"relative_shelter_volume": rs.ShelterVolume,
	} {
		if !rs.CoTS.SameShape(arr) {
			return fmt.Errorf("%w: %s is %v, cots is %v", core.ErrShapeMismatch, name, arr, rs.CoTS)
		}
	}
	tc := rs.TaxaCover
	if tc.Sims != rs.CoTS.Sims || tc.Reefs != rs.CoTS.Reefs || tc.Years != rs.CoTS.Years {
		return fmt.Errorf("%w: total_taxa_cover is (%d,%d,%d,%d), cots is %v",
			core.ErrShapeMismatch, tc.Sims, tc.Groups, tc.Reefs, tc.Years, rs.CoTS)
	}
	if tc.Groups != 6 && tc.Groups != 12 {
		return fmt.Errorf("%w: got %d", core.ErrUnsupportedGrouping, tc.Groups)
	}
	if len(rs.Timesteps) > 0 && len(rs.Timesteps) != rs.Years() {
		return core.NewShapeMismatchError("timesteps", len(rs.Timesteps), rs.Years())
	}
	if len(rs.Locations) > 0 && len(rs.Locations) != rs.Reefs() {
		return core.NewShapeMismatchError("locations", len(rs.Locations), rs.Reefs())
	}
	return nil
}

// CheckScenarioIDs verifies every id indexes the scenario axis.
func (rs *ResultSet) CheckScenarioIDs(ids []int) error {
	if len(ids) == 0 {
		return core.NewDegenerateInputError("empty scenario id list")
	}
	for _, id := range ids {
		if id < 0 || id >= rs.Scenarios() {
			return fmt.Errorf("scenario id %d out of range [0,%d)", id, rs.Scenarios())
		}
	}
	return nil
}
