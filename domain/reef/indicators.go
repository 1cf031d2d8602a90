package reef

// ConditionLevels are the five ordinal reef condition categories.
var ConditionLevels = [5]float64{0.1, 0.3, 0.5, 0.7, 0.9}

// IndicatorSet is the indicator engine's output: the five normalized metrics,
// the discrete condition classification and the two derived indices, each on
// a (nsims, nreefs, nyears) grid. Produced fresh per invocation and never
// mutated after return.
type IndicatorSet struct {
	TotalCover       *Array3
	ShelterVolume    *Array3
	JuvenileRelative *Array3
	CoTSComplement   *Array3
	RubbleComplement *Array3

	// Condition is the discrete RCI, one of ConditionLevels.
	Condition *Array3
	// RTI is the continuous tourism index, clipped to [0.1, 0.9].
	RTI *Array3
	// RFI is the fish biomass proxy in kg/km2; the engine leaves it
	// unclipped, reporting transforms clip where they need to.
	RFI *Array3
}

// Metric returns the named base metric grid by threshold-column index.
func (s *IndicatorSet) Metric(m Metric) *Array3 {
	switch m {
	case MetricTotalCover:
		return s.TotalCover
	case MetricShelterVolume:
		return s.ShelterVolume
	case MetricJuvenileRelative:
		return s.JuvenileRelative
	case MetricCoTSComplement:
		return s.CoTSComplement
	case MetricRubbleComplement:
		return s.RubbleComplement
	}
	return nil
}

// Sims returns the simulation axis length.
func (s *IndicatorSet) Sims() int { return s.Condition.Sims }

// Reefs returns the reef axis length.
func (s *IndicatorSet) Reefs() int { return s.Condition.Reefs }

// Years returns the year axis length.
func (s *IndicatorSet) Years() int { return s.Condition.Years }
