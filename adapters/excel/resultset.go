package excel

import (
	"fmt"
	"strconv"
	"strings"

	"reefmetrics/domain/reef"
)

// ResultSet reads an ecological model extraction in wide form: one row per
// (scenario, reef, year) cell with columns scenario, reef, year, cots,
// juveniles, rubble, shelter_volume and cover_1..cover_N for the functional
// groups. Dimensions are inferred from the index columns, which must cover
// the full grid.
func ResultSet(path string) (*reef.ResultSet, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("result file %s has no data rows", path)
	}

	cols := map[string]int{}
	coverByGroup := map[int]int{}
	groups := 0
	for i, h := range rows[0] {
		name := strings.ToLower(strings.TrimSpace(h))
		cols[name] = i
		if strings.HasPrefix(name, "cover_") {
			n, err := strconv.Atoi(name[len("cover_"):])
			if err != nil || n < 1 {
				return nil, fmt.Errorf("result file %s has bad cover column %q", path, h)
			}
			coverByGroup[n-1] = i
			if n > groups {
				groups = n
			}
		}
	}
	for _, name := range []string{"scenario", "reef", "year", "cots", "juveniles", "rubble", "shelter_volume"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("result file %s is missing column %q", path, name)
		}
	}
	if groups == 0 {
		return nil, fmt.Errorf("result file %s has no cover_N columns", path)
	}
	coverCols := make([]int, groups)
	for g := 0; g < groups; g++ {
		col, ok := coverByGroup[g]
		if !ok {
			return nil, fmt.Errorf("result file %s is missing column %q", path, fmt.Sprintf("cover_%d", g+1))
		}
		coverCols[g] = col
	}

	nscen, nreef, nyear := 0, 0, 0
	for i, row := range rows[1:] {
		s, err := cellInt(row, cols["scenario"])
		if err != nil {
			return nil, fmt.Errorf("result row %d: %w", i+2, err)
		}
		r, _ := cellInt(row, cols["reef"])
		y, _ := cellInt(row, cols["year"])
		if s >= nscen {
			nscen = s + 1
		}
		if r >= nreef {
			nreef = r + 1
		}
		if y >= nyear {
			nyear = y + 1
		}
	}
	if nscen == 0 || nreef == 0 || nyear == 0 {
		return nil, fmt.Errorf("result file %s has empty index columns", path)
	}
	if want := nscen * nreef * nyear; len(rows)-1 != want {
		return nil, fmt.Errorf("result file %s has %d rows, grid needs %d", path, len(rows)-1, want)
	}

	rs := &reef.ResultSet{
		CoTS:          reef.NewArray3(nscen, nreef, nyear),
		TaxaCover:     reef.NewArray4(nscen, groups, nreef, nyear),
		JuvenileCount: reef.NewArray3(nscen, nreef, nyear),
		Rubble:        reef.NewArray3(nscen, nreef, nyear),
		ShelterVolume: reef.NewArray3(nscen, nreef, nyear),
		Timesteps:     make([]int, nyear),
		Locations:     make([]string, nreef),
	}
	yearAbsCol, hasYearAbs := cols["year_absolute"]
	reefNameCol, hasReefName := cols["reef_name"]
	for i, row := range rows[1:] {
		s, _ := cellInt(row, cols["scenario"])
		r, _ := cellInt(row, cols["reef"])
		y, _ := cellInt(row, cols["year"])
		if hasYearAbs {
			rs.Timesteps[y], _ = cellInt(row, yearAbsCol)
		} else {
			rs.Timesteps[y] = y
		}
		if hasReefName {
			rs.Locations[r] = cell(row, reefNameCol)
		} else {
			rs.Locations[r] = fmt.Sprintf("reef_%d", r)
		}
		for _, name := range []string{"cots", "juveniles", "rubble", "shelter_volume"} {
			v, err := cellFloat(row, cols[name])
			if err != nil {
				return nil, fmt.Errorf("result row %d %s: %w", i+2, name, err)
			}
			switch name {
			case "cots":
				rs.CoTS.Set(s, r, y, v)
			case "juveniles":
				rs.JuvenileCount.Set(s, r, y, v)
			case "rubble":
				rs.Rubble.Set(s, r, y, v)
			case "shelter_volume":
				rs.ShelterVolume.Set(s, r, y, v)
			}
		}
		for g, col := range coverCols {
			v, err := cellFloat(row, col)
			if err != nil {
				return nil, fmt.Errorf("result row %d cover_%d: %w", i+2, g+1, err)
			}
			rs.TaxaCover.Set(s, g, r, y, v)
		}
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return rs, nil
}
