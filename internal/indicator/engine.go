package indicator

import (
	"reefmetrics/domain/core"
	"reefmetrics/domain/reef"
)

// Engine turns raw ecological arrays plus resolved parameters into the
// indicator set: five normalized metrics, the discrete condition category
// and the RTI/RFI indices.
type Engine struct {
	rng core.Rand
}

// NewEngine creates an indicator engine over a random source. The source is
// only consulted when replicate sampling is enabled.
func NewEngine(rng core.Rand) *Engine {
	return &Engine{rng: rng}
}

// Compute produces a fresh IndicatorSet of shape (nsims, nreefs, nyears).
//
// With replicate sampling disabled all raw arrays are averaged across the
// scenario axis and the single trajectory is broadcast to nsims. With it
// enabled, nsims scenario ids are drawn with replacement, so distinct
// simulations may share an underlying replicate.
func (e *Engine) Compute(rs *reef.ResultSet, scenIDs []int, sampleReplicates bool, p *reef.ResolvedParams, nsims int) (*reef.IndicatorSet, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if err := rs.CheckScenarioIDs(scenIDs); err != nil {
		return nil, err
	}
	if nsims < 1 {
		return nil, core.NewConfigError("nsims", "must be at least 1")
	}
	if p.JuvenileBaseline <= 0 {
		return nil, core.NewDegenerateInputError("juvenile baseline is zero")
	}

	sel := e.selectScenarios(rs, scenIDs, sampleReplicates, nsims)
	nreefs, nyears := rs.Reefs(), rs.Years()

	set := &reef.IndicatorSet{
		TotalCover:       reef.NewArray3(nsims, nreefs, nyears),
		ShelterVolume:    reef.NewArray3(nsims, nreefs, nyears),
		JuvenileRelative: reef.NewArray3(nsims, nreefs, nyears),
		CoTSComplement:   reef.NewArray3(nsims, nreefs, nyears),
		RubbleComplement: reef.NewArray3(nsims, nreefs, nyears),
		Condition:        reef.NewArray3(nsims, nreefs, nyears),
		RTI:              reef.NewArray3(nsims, nreefs, nyears),
		RFI:              reef.NewArray3(nsims, nreefs, nyears),
	}

	for s := 0; s < nsims; s++ {
		for r := 0; r < nreefs; r++ {
			for y := 0; y < nyears; y++ {
				cover := clamp01(sel.totalCover(s, r, y) / 100)
				juv := clamp01(sel.juvenile(s, r, y) / p.JuvenileBaseline)
				shelter := clamp01(sel.shelter(s, r, y) * reef.ShelterVolumeScale)
				cots := 1 - clamp01(sel.cots(s, r, y)/reef.CoTSOutbreakThreshold)
				rubble := clamp01((100 - sel.rubble(s, r, y)) / 100)

				set.TotalCover.Set(s, r, y, cover)
				set.JuvenileRelative.Set(s, r, y, juv)
				set.ShelterVolume.Set(s, r, y, shelter)
				set.CoTSComplement.Set(s, r, y, cots)
				set.RubbleComplement.Set(s, r, y, rubble)

				metrics := [reef.NumMetrics]float64{cover, shelter, juv, cots, rubble}
				set.Condition.Set(s, r, y, classify(metrics, p.Criteria))
				set.RTI.Set(s, r, y, rti(metrics, p.RTIIntercept))
				set.RFI.Set(s, r, y, rfi(cover, p))
			}
		}
	}
	return set, nil
}

// classify accumulates tier credit then maps the sum through cumulative
// boundaries built from the same tier values. The boundary reuse follows the
// elicitation protocol as documented; partial-credit sums below the lowest
// boundary collapse to the 0.1 floor.
func classify(metrics [reef.NumMetrics]float64, criteria reef.ConditionCriteria) float64 {
	sum := 0.0
	for tier := 0; tier < reef.NumTiers; tier++ {
		met := 0
		for m := 0; m < reef.NumMetrics; m++ {
			if metrics[m] >= criteria.Threshold(tier, reef.Metric(m)) {
				met++
			}
		}
		if float64(met)/reef.NumMetrics >= reef.CriteriaThreshold {
			sum += reef.TierValues[tier]
		}
	}

	category := 0.1
	boundary := 0.0
	// Boundaries are the running sums of 0.9, 0.7, 0.5, 0.3; values are the
	// tier credits loosest first, each assignment overwriting the last.
	values := [reef.NumTiers]float64{0.3, 0.5, 0.7, 0.9}
	for i := 0; i < reef.NumTiers; i++ {
		boundary += reef.TierValues[i]
		if sum >= boundary {
			category = values[i]
		}
	}
	return category
}

func rti(metrics [reef.NumMetrics]float64, intercept float64) float64 {
	v := intercept
	for i, c := range reef.RTICoefficients {
		v += c * metrics[i]
	}
	return clamp(v, 0.1, 0.9)
}

// rfi chains coral cover through structural complexity to fish biomass. No
// clipping here; the thresholded reporting transform clips.
func rfi(cover float64, p *reef.ResolvedParams) float64 {
	complexity := p.RFICoverIntercept + p.RFICoverSlope*cover*100
	biomass := p.RFIBiomassIntercept + p.RFIBiomassSlope*complexity
	return reef.RFIUnitScale * biomass
}

// selection resolves per-sim reads against the raw arrays, either through a
// with-replacement draw of scenario ids or a precomputed scenario mean.
type selection struct {
	rs   *reef.ResultSet
	draw []int // nil means mean mode

	meanCoTS    *reef.Array3
	meanJuv     *reef.Array3
	meanRubble  *reef.Array3
	meanShelter *reef.Array3
	meanCover   *reef.Array3
}

func (e *Engine) selectScenarios(rs *reef.ResultSet, scenIDs []int, sample bool, nsims int) *selection {
	if sample {
		return &selection{rs: rs, draw: e.rng.Choice(scenIDs, nsims)}
	}
	sel := &selection{
		rs:          rs,
		meanCoTS:    meanOver(rs.CoTS, scenIDs),
		meanJuv:     meanOver(rs.JuvenileCount, scenIDs),
		meanRubble:  meanOver(rs.Rubble, scenIDs),
		meanShelter: meanOver(rs.ShelterVolume, scenIDs),
		meanCover:   meanCoverOver(rs.TaxaCover, scenIDs),
	}
	return sel
}

func (s *selection) cots(sim, r, y int) float64 {
	if s.draw != nil {
		return s.rs.CoTS.At(s.draw[sim], r, y)
	}
	return s.meanCoTS.At(0, r, y)
}

func (s *selection) juvenile(sim, r, y int) float64 {
	if s.draw != nil {
		return s.rs.JuvenileCount.At(s.draw[sim], r, y)
	}
	return s.meanJuv.At(0, r, y)
}

func (s *selection) rubble(sim, r, y int) float64 {
	if s.draw != nil {
		return s.rs.Rubble.At(s.draw[sim], r, y)
	}
	return s.meanRubble.At(0, r, y)
}

func (s *selection) shelter(sim, r, y int) float64 {
	if s.draw != nil {
		return s.rs.ShelterVolume.At(s.draw[sim], r, y)
	}
	return s.meanShelter.At(0, r, y)
}

func (s *selection) totalCover(sim, r, y int) float64 {
	if s.draw != nil {
		total := 0.0
		for g := 0; g < s.rs.TaxaCover.Groups; g++ {
			total += s.rs.TaxaCover.At(s.draw[sim], g, r, y)
		}
		return total
	}
	return s.meanCover.At(0, r, y)
}

// meanOver averages a (scenario, reef, year) grid over the given scenario
// ids into a single-sim grid.
func meanOver(a *reef.Array3, scenIDs []int) *reef.Array3 {
	out := reef.NewArray3(1, a.Reefs, a.Years)
	n := float64(len(scenIDs))
	for r := 0; r < a.Reefs; r++ {
		for y := 0; y < a.Years; y++ {
			sum := 0.0
			for _, s := range scenIDs {
				sum += a.At(s, r, y)
			}
			out.Set(0, r, y, sum/n)
		}
	}
	return out
}

func meanCoverOver(a *reef.Array4, scenIDs []int) *reef.Array3 {
	out := reef.NewArray3(1, a.Reefs, a.Years)
	n := float64(len(scenIDs))
	for r := 0; r < a.Reefs; r++ {
		for y := 0; y < a.Years; y++ {
			sum := 0.0
			for _, s := range scenIDs {
				for g := 0; g < a.Groups; g++ {
					sum += a.At(s, g, r, y)
				}
			}
			out.Set(0, r, y, sum/n)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
