package align

// CanonicalType is the closed set of feature types the engine reasons
// about. Vendor strings are mapped onto this enum by the normalizer.
type CanonicalType string

const (
	TypeExternalMetalLoss   CanonicalType = "external_metal_loss"
	TypeInternalMetalLoss   CanonicalType = "internal_metal_loss"
	TypeMetalLoss           CanonicalType = "metal_loss"
	TypeDent                CanonicalType = "dent"
	TypeCrack               CanonicalType = "crack"
	TypeGouge               CanonicalType = "gouge"
	TypeLamination          CanonicalType = "lamination"
	TypeManufacturingDefect CanonicalType = "manufacturing_defect"
	TypeGirthWeld           CanonicalType = "girth_weld"
	TypeSeamWeld            CanonicalType = "seam_weld"
	TypeValve               CanonicalType = "valve"
	TypeFitting             CanonicalType = "fitting"
	TypeCasing              CanonicalType = "casing"
	TypeUnknown             CanonicalType = "unknown"
)

// isReferenceType reports whether t anchors coordinate alignment.
func isReferenceType(t CanonicalType) bool {
	switch t {
	case TypeGirthWeld, TypeValve, TypeFitting:
		return true
	default:
		return false
	}
}

// MatchStatus is the lifecycle state of an AnomalyChain.
type MatchStatus string

const (
	StatusMatched   MatchStatus = "matched"
	StatusUncertain MatchStatus = "uncertain"
	StatusNew       MatchStatus = "new"
	StatusMissing   MatchStatus = "missing"
)

// PriorityBand is the regulatory priority classification assigned by C11.
type PriorityBand string

const (
	PriorityImmediate PriorityBand = "IMMEDIATE"
	Priority60Day     PriorityBand = "60-DAY"
	Priority180Day    PriorityBand = "180-DAY"
	PriorityScheduled PriorityBand = "SCHEDULED"
	PriorityMonitor   PriorityBand = "MONITOR"
)

// RawRow is one caller-supplied input record, conforming to the External
// Interfaces contract (spec.md §6). No field is a pointer: an empty
// FeatureID and a nil ClockPosition stand in for "missing", and numeric
// fields use 0 for "missing", matched by the normalizer's default policy.
type RawRow struct {
	FeatureID        string         `json:"feature_id"`
	Distance         float64        `json:"distance"`
	Odometer         float64        `json:"odometer"`
	JointNumber      int            `json:"joint_number"`
	ClockPosition    any            `json:"clock_position"` // "H:MM" string, decimal hours, or degrees; see normalizeClock
	FeatureType      string         `json:"feature_type"`
	DepthPercent     float64        `json:"depth_percent"`
	Length           float64        `json:"length"`
	Width            float64        `json:"width"`
	WallThickness    float64        `json:"wall_thickness"`
	WeldType         string         `json:"weld_type,omitempty"`
	RelativePosition string         `json:"relative_position,omitempty"`
	Extras           map[string]any `json:"extras,omitempty"`
}

// RunInput is one inspection dataset: a table of rows plus the year it
// was collected.
type RunInput struct {
	Rows []RawRow `json:"rows"`
	Year int      `json:"year"`
}

// Anomaly is a single observed feature in one run, after normalization
// and cleaning. RunIndex + RowIndex together form a stable identity.
type Anomaly struct {
	RunIndex int
	RowIndex int

	FeatureID string

	RawDistance       float64
	Odometer          float64
	CorrectedDistance float64

	JointNumber   int
	ClockDegrees  float64
	CanonicalType CanonicalType

	DepthPercent  float64
	Length        float64
	Width         float64
	WallThickness float64

	IsReferencePoint bool
	CleaningFlags    []string
	HasMissingData   bool

	Extras map[string]any
}

// ID returns the stable (run, row) identity of the anomaly.
func (a *Anomaly) ID() AnomalyID {
	return AnomalyID{RunIndex: a.RunIndex, RowIndex: a.RowIndex}
}

// AnomalyID is the stable identity of an Anomaly: its originating run
// and row index.
type AnomalyID struct {
	RunIndex int
	RowIndex int
}

// ReferencePoint is the projection of an Anomaly used to anchor
// coordinate alignment (girth weld, valve, or fitting).
type ReferencePoint struct {
	AnomalyIdx  AnomalyID
	Distance    float64
	Odometer    float64
	JointNumber int
	Type        CanonicalType
	RunIndex    int
}

// MatchedReference pairs a reference point in an earlier run (RefA) with
// its counterpart in a later run (RefB).
type MatchedReference struct {
	RefA ReferencePoint
	RefB ReferencePoint

	DistanceOffset float64 // RefB.Distance - RefA.Distance
	OdometerDrift  float64 // (RefB.Distance-RefB.Odometer) - (RefA.Distance-RefA.Odometer)
}

// AlignmentZone is an interval of the later run's raw-distance axis over
// which the coordinate remap is a single affine function.
type AlignmentZone struct {
	StartRaw   float64
	EndRaw     float64
	StartCanon float64
	EndCanon   float64

	CorrectionFactor  float64
	IsPipeReplacement bool

	RunIndex int // the later run this zone corrects
}

// SimilarityBreakdown is the four weighted components feeding C7's total
// similarity score, each in [0, 1].
type SimilarityBreakdown struct {
	Distance    float64
	Dimensional float64
	Clock       float64
	FeatureType float64
	Total       float64
}

// AnomalyChain is an ordered list of anomalies (1..K runs) believed to
// represent the same physical feature.
type AnomalyChain struct {
	Anomalies  []*Anomaly // one per participating run, in run order
	RunIndices []int

	Confidence float64
	Status     MatchStatus

	LastSimilarity SimilarityBreakdown

	DepthGrowthRatePctPerYr float64
	LengthGrowthRateInPerYr float64
	WidthGrowthRateInPerYr  float64
	TimeToCriticalYears     *float64 // nil = undefined (no positive depth growth)

	Priority PriorityBand

	// RepresentativeDistance is the corrected distance of the latest
	// anomaly in the chain, used for reporting/sorting.
	RepresentativeDistance float64
}

// Latest returns the chain's most recent (highest run index) anomaly.
func (c *AnomalyChain) Latest() *Anomaly {
	if len(c.Anomalies) == 0 {
		return nil
	}
	return c.Anomalies[len(c.Anomalies)-1]
}

// ReplacementSection is one run of consecutive unmatched reference
// points flagged by C4 as a likely cut-out/replaced pipe section.
type ReplacementSection struct {
	RunIndex    int // run the unmatched points belong to
	Kind        string // "removed" (points missing from the later run) or "added"
	StartDist   float64
	EndDist     float64
	PointsCount int
}

// DriftSeriesPoint is one sample of odometer drift at a labeled position.
type DriftSeriesPoint struct {
	Label    string
	Distance float64
	Odometer float64
	Drift    float64
}

// DriftSummary aggregates one run's drift curve.
type DriftSummary struct {
	RunIndex          int
	MaxDrift          float64
	MinDrift          float64
	MeanDrift         float64
	TotalAccumulated  float64
	DriftRatePer1000f float64
}

// DriftReport bundles one run's reference-point and down-sampled
// full-run drift series with summary statistics.
type DriftReport struct {
	RunIndex      int
	ReferenceDrift []DriftSeriesPoint
	FullRunDrift   []DriftSeriesPoint
	Summary        DriftSummary
}

// PassReport documents one cleaning pass's effect on a run.
type PassReport struct {
	Name         string
	Description  string
	RowsAffected int
	Details      []string
}

// CleaningReport aggregates the seven pass reports for one run.
type CleaningReport struct {
	RunIndex int
	Passes   []PassReport
}

// EngineDiagnostics carries ambient, informational counters about an
// engine run; none of it changes the match set.
type EngineDiagnostics struct {
	RunsProcessed    int
	ZonesBuilt       int
	PairsEvaluated   int
	PairsAccepted    int
	ChainsProduced   int
	Notes            []string
}

// EngineResult is the complete output of Run: the aligned anomalies,
// the cross-run chains, the alignment zones used to build them, the
// drift diagnostics, and the per-run cleaning audit.
type EngineResult struct {
	AlignedAnomalies    []*Anomaly
	Chains              []*AnomalyChain
	AlignmentZones      []AlignmentZone
	ReplacementSections []ReplacementSection
	DriftReports        []DriftReport
	CleaningReports     []CleaningReport
	Diagnostics         EngineDiagnostics
}
