package testkit

import "fmt"

// SequenceRand is a scripted core.Rand: every draw pops the next value from
// a fixed script, so tests can pin perturbations and index draws exactly.
type SequenceRand struct {
	// Normals are returned by Normal as mu + sigma*next.
	Normals []float64
	// Uniforms feed Float64.
	Uniforms []float64
	// Ints feed Intn and Choice (taken modulo the bound).
	Ints []int
	// Perm is returned verbatim by SampleWithoutReplacement.
	Perm []int

	ni, ui, ii int
}

func (s *SequenceRand) Float64() float64 {
	if s.ui >= len(s.Uniforms) {
		s.ui = 0
	}
	v := s.Uniforms[s.ui]
	s.ui++
	return v
}

func (s *SequenceRand) Normal(mu, sigma float64) float64 {
	if len(s.Normals) == 0 {
		return mu
	}
	if s.ni >= len(s.Normals) {
		s.ni = 0
	}
	v := s.Normals[s.ni]
	s.ni++
	return mu + sigma*v
}

func (s *SequenceRand) Intn(n int) int {
	if len(s.Ints) == 0 {
		return 0
	}
	if s.ii >= len(s.Ints) {
		s.ii = 0
	}
	v := s.Ints[s.ii] % n
	s.ii++
	return v
}

func (s *SequenceRand) SampleWithoutReplacement(n, k int) ([]int, error) {
	if k > n {
		return nil, fmt.Errorf("cannot draw %d distinct indices from %d", k, n)
	}
	if len(s.Perm) >= k {
		return append([]int(nil), s.Perm[:k]...), nil
	}
	out := make([]int, k)
	for i := range out {
		out[i] = i
	}
	return out, nil
}

func (s *SequenceRand) Choice(ids []int, k int) []int {
	out := make([]int, k)
	for i := range out {
		out[i] = ids[s.Intn(len(ids))]
	}
	return out
}
