package indicator

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"reefmetrics/domain/core"
	"reefmetrics/domain/reef"
)

// SurveyMetricColumns is the metric column count of the expert elicitation
// survey. The survey covers one more metric (a juvenile variant) than the
// classification consumes, and the sampler draws one expert per survey
// column.
const SurveyMetricColumns = 6

// ExpertPool holds the percentile-resampled survey responses:
// Thresholds[metric][expert] is a tier-ordered threshold column
// (strictest first, reef.NumTiers entries).
type ExpertPool struct {
	Experts    int
	Thresholds [SurveyMetricColumns][][]float64
}

// CriteriaSource provides the condition threshold data: the fixed expert
// median table and the full per-expert response pool.
type CriteriaSource interface {
	MedianCriteria() (*mat.Dense, error)
	ExpertPool() (*ExpertPool, error)
}

// ResolveRequest selects scenarios and uncertainty handling for parameter
// resolution.
type ResolveRequest struct {
	// ScenarioIDs select the replicates the juvenile baseline is hindcast
	// over.
	ScenarioIDs []int
	Config      reef.UncertaintyConfig
	// JuvenileWindow is the [start, end) year index window for the baseline.
	// Zero value means the default hindcast window.
	JuvenileWindow [2]int
	// JuvenileBaseline overrides the hindcast baseline when positive.
	JuvenileBaseline float64
}

// DefaultJuvenileWindow is the hindcast window the baseline is taken over.
var DefaultJuvenileWindow = [2]int{0, 18}

// Resolver turns a result set plus uncertainty configuration into the
// regression tables and intercepts the indicator engine runs on. Each call
// draws perturbations fresh; repeated calls under the same config differ
// unless the random source is deterministic.
type Resolver struct {
	criteria CriteriaSource
	rng      core.Rand
}

// NewResolver creates a resolver over a criteria source and random source.
func NewResolver(criteria CriteriaSource, rng core.Rand) *Resolver {
	return &Resolver{criteria: criteria, rng: rng}
}

// Resolve computes the juvenile baseline, shelter volume regression table,
// condition criteria and regression intercepts for one engine invocation.
func (r *Resolver) Resolve(rs *reef.ResultSet, req ResolveRequest) (*reef.ResolvedParams, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if err := rs.CheckScenarioIDs(req.ScenarioIDs); err != nil {
		return nil, err
	}

	baseline := req.JuvenileBaseline
	if baseline <= 0 {
		window := req.JuvenileWindow
		if window == [2]int{} {
			window = DefaultJuvenileWindow
		}
		baseline = juvenileMax(rs, req.ScenarioIDs, window)
	}
	if baseline <= 0 {
		return nil, core.NewDegenerateInputError("juvenile baseline is zero")
	}

	shelter := reef.BaselineShelterParameters()
	if req.Config.ShelterVolumeModel {
		for i := 0; i < reef.NumMorphologies; i++ {
			shelter.Set(i, 0, shelter.At(i, 0)+r.rng.Normal(0, reef.ShelterVolumeInterceptSD))
		}
	}

	criteria, err := r.resolveCriteria(req.Config)
	if err != nil {
		return nil, err
	}

	p := &reef.ResolvedParams{
		JuvenileBaseline:    baseline,
		ShelterParams:       shelter,
		Criteria:            criteria,
		RTIIntercept:        reef.RTIBaseIntercept,
		RFICoverIntercept:   reef.RFICoverIntercept,
		RFIBiomassIntercept: reef.RFIBiomassIntercept,
		RFICoverSlope:       reef.RFICoverSlope,
		RFIBiomassSlope:     reef.RFIBiomassSlope,
	}
	if req.Config.RTIIntercept {
		p.RTIIntercept += r.rng.Normal(0, reef.RTIInterceptSD)
	}
	if req.Config.RFIIntercepts {
		// Sampled from the regressions' 95% prediction intervals.
		p.RFICoverIntercept += r.rng.Normal(0, reef.RFICoverInterceptSD)
		p.RFIBiomassIntercept += r.rng.Normal(0, reef.RFIBiomassInterceptSD)
	}
	return p, nil
}

// resolveCriteria reads either the fixed median table or one expert column
// per survey metric, drawn without replacement across experts.
func (r *Resolver) resolveCriteria(cfg reef.UncertaintyConfig) (reef.ConditionCriteria, error) {
	if !cfg.ExpertThresholds {
		m, err := r.criteria.MedianCriteria()
		if err != nil {
			return reef.ConditionCriteria{}, err
		}
		return reef.NewConditionCriteria(m)
	}

	pool, err := r.criteria.ExpertPool()
	if err != nil {
		return reef.ConditionCriteria{}, err
	}
	if pool.Experts < SurveyMetricColumns {
		return reef.ConditionCriteria{}, fmt.Errorf("%w: have %d experts, need %d",
			core.ErrExpertPoolTooSmall, pool.Experts, SurveyMetricColumns)
	}
	experts, err := r.rng.SampleWithoutReplacement(pool.Experts, SurveyMetricColumns)
	if err != nil {
		return reef.ConditionCriteria{}, err
	}

	m := mat.NewDense(reef.NumTiers, reef.NumMetrics, nil)
	for col := 0; col < reef.NumMetrics; col++ {
		thresholds := pool.Thresholds[col][experts[col]]
		if len(thresholds) < reef.NumTiers {
			return reef.ConditionCriteria{}, fmt.Errorf("expert %d has %d tier thresholds for metric %d, need %d",
				experts[col], len(thresholds), col, reef.NumTiers)
		}
		for tier := 0; tier < reef.NumTiers; tier++ {
			m.Set(tier, col, thresholds[tier])
		}
	}
	return reef.NewConditionCriteria(m)
}

func juvenileMax(rs *reef.ResultSet, scenIDs []int, window [2]int) float64 {
	end := window[1]
	if end > rs.Years() {
		end = rs.Years()
	}
	max := 0.0
	for _, s := range scenIDs {
		for reefIdx := 0; reefIdx < rs.Reefs(); reefIdx++ {
			for y := window[0]; y < end; y++ {
				if v := rs.JuvenileCount.At(s, reefIdx, y); v > max {
					max = v
				}
			}
		}
	}
	return max
}
