package reef

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Metric indexes the five normalized metrics underpinning the condition
// classification, in threshold-matrix column order.
type Metric int

const (
	MetricTotalCover Metric = iota
	MetricShelterVolume
	MetricJuvenileRelative
	MetricCoTSComplement
	MetricRubbleComplement

	NumMetrics = 5
)

// NumTiers is the count of non-trivial condition tiers; everything below
// them classifies as 0.1 ("poor").
const NumTiers = 4

// TierValues are the condition tier credits, ordered strictest to loosest,
// matching the threshold matrix row order.
var TierValues = [NumTiers]float64{0.9, 0.7, 0.5, 0.3}

// Classification and metric scaling constants.
const (
	// CriteriaThreshold is the fraction of metrics that must meet a tier's
	// thresholds for the tier to be credited.
	CriteriaThreshold = 0.6
	// CoTSOutbreakThreshold is CoTS per manta tow classified as an outbreak.
	CoTSOutbreakThreshold = 0.2
	// ShelterVolumeScale rescales the model's relative shelter volume to the
	// approximate 0-1 range the expert thresholds were elicited on.
	ShelterVolumeScale = 10.0
)

// RTI regression: condition metrics to tourism index.
const (
	RTIBaseIntercept = -0.498
	RTIInterceptSD   = 0.163
)

// RTICoefficients weight the five metrics in threshold-column order.
var RTICoefficients = [NumMetrics]float64{0.291, 0.628, 1.335, 0.212, 0.250}

// RFI regression chain, digitised from Graham and Nash 2012: coral cover to
// structural complexity, then shelter volume to reef fish biomass.
const (
	RFICoverIntercept   = 1.232
	RFICoverInterceptSD = 0.195
	RFICoverSlope       = 0.007476

	RFIBiomassIntercept   = -1623.6
	RFIBiomassInterceptSD = 533.0
	RFIBiomassSlope       = 1883.3

	// RFIUnitScale converts kg/ha to kg/km2.
	RFIUnitScale = 0.01
)

// NumMorphologies is the row count of the shelter volume regression table.
const NumMorphologies = 6

// ShelterVolumeInterceptSD is the empirical spread applied to the morphology
// intercepts when shelter model uncertainty is sampled.
const ShelterVolumeInterceptSD = 0.514

// BaselineShelterParameters returns the 6x2 (intercept, slope) regression
// table per coral morphology, after Urbina-Barretto 2021. Columnar values
// stand in for both corymbose groups and massive values for encrusting and
// large massives.
func BaselineShelterParameters() *mat.Dense {
	return mat.NewDense(NumMorphologies, 2, []float64{
		-8.31, 1.47, // branching
		-8.32, 1.50, // tabular
		-7.37, 1.34, // columnar / corymbose Acropora
		-7.37, 1.34, // columnar / corymbose non-Acropora
		-9.69, 1.49, // massive / encrusting and small massives
		-9.69, 1.49, // massive / large massives
	})
}

// ConditionCriteria is the 4x5 threshold matrix: one row per condition tier
// (strictest 0.9 first), one column per metric.
type ConditionCriteria struct {
	m *mat.Dense
}

// NewConditionCriteria validates and wraps a threshold matrix.
func NewConditionCriteria(m *mat.Dense) (ConditionCriteria, error) {
	r, c := m.Dims()
	if r != NumTiers || c != NumMetrics {
		return ConditionCriteria{}, fmt.Errorf("condition criteria must be %dx%d, got %dx%d", NumTiers, NumMetrics, r, c)
	}
	return ConditionCriteria{m: m}, nil
}

// Threshold returns the threshold for a tier row and metric column.
func (c ConditionCriteria) Threshold(tier int, metric Metric) float64 {
	return c.m.At(tier, int(metric))
}

// Matrix exposes the underlying matrix read-only.
func (c ConditionCriteria) Matrix() mat.Matrix {
	return c.m
}

// ResolvedParams carries everything the indicator engine needs beyond the
// raw arrays: the juvenile baseline, the regression tables and the
// (optionally perturbed) intercepts.
type ResolvedParams struct {
	JuvenileBaseline float64
	// ShelterParams is 6x2: morphology intercepts and slopes.
	ShelterParams *mat.Dense
	Criteria      ConditionCriteria

	RTIIntercept        float64
	RFICoverIntercept   float64
	RFIBiomassIntercept float64
	RFICoverSlope       float64
	RFIBiomassSlope     float64
}
