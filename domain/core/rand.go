package core

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Rand is the single random source used by parameter perturbation, expert
// threshold sampling, replicate sampling and cost factor designs. Engines
// never reach for a package-global generator, so tests can substitute a
// deterministic sequence.
type Rand interface {
	// Float64 returns a uniform draw in [0, 1).
	Float64() float64
	// Normal returns a draw from N(mu, sigma).
	Normal(mu, sigma float64) float64
	// Intn returns a uniform draw in [0, n).
	Intn(n int) int
	// SampleWithoutReplacement returns k distinct indices drawn from [0, n).
	SampleWithoutReplacement(n, k int) ([]int, error)
	// Choice returns k draws with replacement from ids.
	Choice(ids []int, k int) []int
}

// randSource backs Rand with an exp/rand PCG source, the generator family
// gonum's distributions are built against.
type randSource struct {
	rnd *rand.Rand
	src rand.Source
}

// NewRand creates a seeded random source.
func NewRand(seed uint64) Rand {
	src := rand.NewSource(seed)
	return &randSource{rnd: rand.New(src), src: src}
}

func (r *randSource) Float64() float64 {
	return r.rnd.Float64()
}

func (r *randSource) Normal(mu, sigma float64) float64 {
	n := distuv.Normal{Mu: mu, Sigma: sigma, Src: r.src}
	return n.Rand()
}

func (r *randSource) Intn(n int) int {
	return r.rnd.Intn(n)
}

func (r *randSource) SampleWithoutReplacement(n, k int) ([]int, error) {
	if k > n {
		return nil, fmt.Errorf("cannot draw %d distinct indices from %d", k, n)
	}
	perm := r.rnd.Perm(n)
	out := make([]int, k)
	copy(out, perm[:k])
	return out, nil
}

func (r *randSource) Choice(ids []int, k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = ids[r.rnd.Intn(len(ids))]
	}
	return out
}
