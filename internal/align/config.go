package align

import "fmt"

// EngineConfig holds every tunable threshold used by the alignment and
// matching engine. It follows a builder pattern: construct with
// DefaultEngineConfig, adjust with the With* methods, and validate
// before calling Run.
type EngineConfig struct {
	// Reference matching (C3).
	ReferenceMatchGateFt float64 // max |Δdistance| to consider a reference pair (default 500)
	JointMismatchPenalty float64 // per-joint penalty: |Δjoint_number| × this is added to the match score when both joint numbers are known (default 100)

	// Replacement detection (C4).
	ReplacementProximityFt float64 // consecutive-unmatched proximity threshold (default 200)
	ReplacementMinRun      int     // minimum consecutive unmatched points to report a section (default 2)

	// Distance correction (C5).
	ZoneReplacementRatioDeviation float64 // |correction_factor-1| threshold for is_pipe_replacement (default 0.2)

	// Drift reporting (C6).
	DriftFullRunMaxSamples int // full-run drift stride is max(1, floor(N/this)), giving fewer than twice this many samples (default 200)

	// Similarity scoring (C7).
	WeightDistance    float64 // default 0.40
	WeightDimensional float64 // default 0.30
	WeightClock       float64 // default 0.20
	WeightFeatureType float64 // default 0.10
	DistanceDecayFt   float64 // denominator in exp(-Δd/decay) (default 50)

	// Bipartite matching (C8).
	CandidateDistanceGateFt float64 // max |Δcorrected_distance| to consider a candidate pair (default 200)
	CandidateMinSimilarity  float64 // min similarity.total to consider a candidate pair (default 0.20)
	AcceptMinSimilarity     float64 // min similarity.total to accept an assignment (default 0.40)
	SentinelCost            float64 // cost assigned to non-candidate cells (default 1000)

	// Chain status thresholds (shared with invariants in spec.md §3).
	MatchedConfidenceMin   float64 // default 0.70
	UncertainConfidenceMin float64 // default 0.40

	// Growth analysis (C10).
	CriticalDepthPercent float64 // depth at which time-to-critical is 0 (default 80)

	// Priority classification (C11).
	Priority EngineConfigPriority
}

// EngineConfigPriority holds the cut-points for C11's five regulatory
// priority bands (spec.md §4.11).
type EngineConfigPriority struct {
	ImmediateDepth    float64 // default 80
	ImmediateGrowth   float64 // default 8
	ImmediateTTCYears float64 // default 1

	Day60Depth    float64 // default 60
	Day60Growth   float64 // default 5
	Day60TTCYears float64 // default 3

	Day180Depth  float64 // default 40
	Day180Growth float64 // default 2

	ScheduledDepth  float64 // default 20
	ScheduledGrowth float64 // default 0.5
}

// DefaultEngineConfig returns the thresholds specified by spec.md,
// tuned for typical liquid/gas transmission pipeline ILI datasets.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		ReferenceMatchGateFt: 500,
		JointMismatchPenalty: 100,

		ReplacementProximityFt: 200,
		ReplacementMinRun:      2,

		ZoneReplacementRatioDeviation: 0.2,

		DriftFullRunMaxSamples: 200,

		WeightDistance:    0.40,
		WeightDimensional: 0.30,
		WeightClock:       0.20,
		WeightFeatureType: 0.10,
		DistanceDecayFt:   50,

		CandidateDistanceGateFt: 200,
		CandidateMinSimilarity:  0.20,
		AcceptMinSimilarity:     0.40,
		SentinelCost:            1000,

		MatchedConfidenceMin:   0.70,
		UncertainConfidenceMin: 0.40,

		CriticalDepthPercent: 80,

		Priority: EngineConfigPriority{
			ImmediateDepth:    80,
			ImmediateGrowth:   8,
			ImmediateTTCYears: 1,

			Day60Depth:    60,
			Day60Growth:   5,
			Day60TTCYears: 3,

			Day180Depth:  40,
			Day180Growth: 2,

			ScheduledDepth:  20,
			ScheduledGrowth: 0.5,
		},
	}
}

// Validate checks that the configuration's thresholds are internally
// consistent. It does not mutate c.
func (c *EngineConfig) Validate() error {
	if c.ReferenceMatchGateFt <= 0 {
		return fmt.Errorf("ReferenceMatchGateFt must be positive, got %f", c.ReferenceMatchGateFt)
	}
	if c.ReplacementProximityFt <= 0 {
		return fmt.Errorf("ReplacementProximityFt must be positive, got %f", c.ReplacementProximityFt)
	}
	if c.ReplacementMinRun < 1 {
		return fmt.Errorf("ReplacementMinRun must be >= 1, got %d", c.ReplacementMinRun)
	}
	if c.ZoneReplacementRatioDeviation <= 0 {
		return fmt.Errorf("ZoneReplacementRatioDeviation must be positive, got %f", c.ZoneReplacementRatioDeviation)
	}
	sum := c.WeightDistance + c.WeightDimensional + c.WeightClock + c.WeightFeatureType
	if diff := sum - 1.0; diff > 1e-9 || diff < -1e-9 {
		return fmt.Errorf("similarity weights must sum to 1.0, got %f", sum)
	}
	if c.CandidateDistanceGateFt <= 0 {
		return fmt.Errorf("CandidateDistanceGateFt must be positive, got %f", c.CandidateDistanceGateFt)
	}
	if c.AcceptMinSimilarity < c.CandidateMinSimilarity {
		return fmt.Errorf("AcceptMinSimilarity (%f) must be >= CandidateMinSimilarity (%f)", c.AcceptMinSimilarity, c.CandidateMinSimilarity)
	}
	if c.MatchedConfidenceMin < c.UncertainConfidenceMin {
		return fmt.Errorf("MatchedConfidenceMin (%f) must be >= UncertainConfidenceMin (%f)", c.MatchedConfidenceMin, c.UncertainConfidenceMin)
	}
	if c.CriticalDepthPercent <= 0 || c.CriticalDepthPercent > 100 {
		return fmt.Errorf("CriticalDepthPercent must be in (0, 100], got %f", c.CriticalDepthPercent)
	}
	return nil
}

// WithReferenceMatchGateFt sets the reference-pair distance gate (C3).
func (c EngineConfig) WithReferenceMatchGateFt(ft float64) EngineConfig {
	c.ReferenceMatchGateFt = ft
	return c
}

// WithCandidateDistanceGateFt sets the bipartite candidate gate (C8).
func (c EngineConfig) WithCandidateDistanceGateFt(ft float64) EngineConfig {
	c.CandidateDistanceGateFt = ft
	return c
}

// WithAcceptMinSimilarity sets the minimum similarity to accept an
// assignment (C8).
func (c EngineConfig) WithAcceptMinSimilarity(v float64) EngineConfig {
	c.AcceptMinSimilarity = v
	return c
}

// WithCriticalDepthPercent sets the depth percent treated as critical
// (C10, C11).
func (c EngineConfig) WithCriticalDepthPercent(v float64) EngineConfig {
	c.CriticalDepthPercent = v
	return c
}
