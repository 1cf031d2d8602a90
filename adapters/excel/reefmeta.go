package excel

import (
	"fmt"
	"strings"

	"reefmetrics/internal/econ"
)

// ReefMetadata reads the economics spatial table into per-reef metadata.
// Expected columns: reef_name, reef_uniqueid, gbrmpa_id,
// total_area_nine_zones, minimum_distance_to_nearest_port_m.
func ReefMetadata(path string) ([]econ.ReefMeta, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("reef metadata file %s has no data rows", path)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, needed := range []string{"reef_name", "reef_uniqueid", "total_area_nine_zones", "minimum_distance_to_nearest_port_m"} {
		if _, ok := cols[needed]; !ok {
			return nil, fmt.Errorf("reef metadata file %s is missing column %q", path, needed)
		}
	}

	out := make([]econ.ReefMeta, 0, len(rows)-1)
	for i, row := range rows[1:] {
		area, err := cellFloat(row, cols["total_area_nine_zones"])
		if err != nil {
			return nil, fmt.Errorf("reef metadata row %d area: %w", i+2, err)
		}
		dist, err := cellFloat(row, cols["minimum_distance_to_nearest_port_m"])
		if err != nil {
			return nil, fmt.Errorf("reef metadata row %d port distance: %w", i+2, err)
		}
		meta := econ.ReefMeta{
			ReefID:        i + 1,
			Name:          cell(row, cols["reef_name"]),
			UniqueID:      cell(row, cols["reef_uniqueid"]),
			AreaHa:        area,
			PortDistanceM: dist,
		}
		if gi, ok := cols["gbrmpa_id"]; ok {
			meta.GBRMPAID = cell(row, gi)
		}
		out = append(out, meta)
	}
	return out, nil
}

func cell(row []string, col int) string {
	if col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
