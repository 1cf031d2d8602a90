package reef

import "fmt"

// Array3 is a dense (sims, reefs, years) grid backed by a flat slice.
// gonum's mat package is two-dimensional, so the indicator grids carry their
// own strides.
type Array3 struct {
	Sims  int
	Reefs int
	Years int
	data  []float64
}

// NewArray3 allocates a zeroed grid.
func NewArray3(sims, reefs, years int) *Array3 {
	return &Array3{Sims: sims, Reefs: reefs, Years: years, data: make([]float64, sims*reefs*years)}
}

// At returns the value at (sim, reef, year).
func (a *Array3) At(sim, reef, year int) float64 {
	return a.data[(sim*a.Reefs+reef)*a.Years+year]
}

// Set stores a value at (sim, reef, year).
func (a *Array3) Set(sim, reef, year int, v float64) {
	a.data[(sim*a.Reefs+reef)*a.Years+year] = v
}

// Len returns the number of cells.
func (a *Array3) Len() int {
	return len(a.data)
}

// Raw exposes the flat backing slice, sim-major then reef then year.
func (a *Array3) Raw() []float64 {
	return a.data
}

// SameShape reports whether b shares all three extents.
func (a *Array3) SameShape(b *Array3) bool {
	return b != nil && a.Sims == b.Sims && a.Reefs == b.Reefs && a.Years == b.Years
}

func (a *Array3) String() string {
	return fmt.Sprintf("Array3(%d sims, %d reefs, %d years)", a.Sims, a.Reefs, a.Years)
}

// Array4 is a dense (sims, groups, reefs, years) grid, used for per-taxon
// coral cover.
type Array4 struct {
	Sims   int
	Groups int
	Reefs  int
	Years  int
	data   []float64
}

// NewArray4 allocates a zeroed grid.
func NewArray4(sims, groups, reefs, years int) *Array4 {
	return &Array4{Sims: sims, Groups: groups, Reefs: reefs, Years: years,
		data: make([]float64, sims*groups*reefs*years)}
}

// At returns the value at (sim, group, reef, year).
func (a *Array4) At(sim, group, reef, year int) float64 {
	return a.data[((sim*a.Groups+group)*a.Reefs+reef)*a.Years+year]
}

// Set stores a value at (sim, group, reef, year).
func (a *Array4) Set(sim, group, reef, year int, v float64) {
	a.data[((sim*a.Groups+group)*a.Reefs+reef)*a.Years+year] = v
}

// SumGroups collapses the taxa axis, producing a (sims, reefs, years) grid.
func (a *Array4) SumGroups() *Array3 {
	out := NewArray3(a.Sims, a.Reefs, a.Years)
	for s := 0; s < a.Sims; s++ {
		for g := 0; g < a.Groups; g++ {
			for r := 0; r < a.Reefs; r++ {
				for y := 0; y < a.Years; y++ {
					out.Set(s, r, y, out.At(s, r, y)+a.At(s, g, r, y))
				}
			}
		}
	}
	return out
}
