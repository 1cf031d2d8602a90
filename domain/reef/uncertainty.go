package reef

// UncertaintyConfig names the five independent uncertainty sources the
// pipeline can sample. The zero value disables everything; once resolved for
// a run the value is treated as immutable.
type UncertaintyConfig struct {
	// EcologicalReplicates samples metrics over model replicates with
	// replacement instead of averaging them.
	EcologicalReplicates bool
	// ShelterVolumeModel perturbs the shelter volume regression intercepts.
	ShelterVolumeModel bool
	// ExpertThresholds draws condition thresholds from the expert pool
	// instead of using the fixed median table.
	ExpertThresholds bool
	// RTIIntercept perturbs the RCI-to-RTI regression intercept.
	RTIIntercept bool
	// RFIIntercepts perturbs both intercepts in the RFI regression chain.
	RFIIntercepts bool
}

// DefaultUncertainty mirrors the production run setup: everything sampled
// except the shelter volume model.
func DefaultUncertainty() UncertaintyConfig {
	return UncertaintyConfig{
		EcologicalReplicates: true,
		ShelterVolumeModel:   false,
		ExpertThresholds:     true,
		RTIIntercept:         true,
		RFIIntercepts:        true,
	}
}

// Deterministic reports whether any uncertainty source is active.
func (u UncertaintyConfig) Deterministic() bool {
	return !u.EcologicalReplicates && !u.ShelterVolumeModel && !u.ExpertThresholds &&
		!u.RTIIntercept && !u.RFIIntercepts
}
