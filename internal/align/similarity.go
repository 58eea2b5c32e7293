package align

import "math"

// compatibleTypePairs lists canonical-type pairs considered a 0.5-weight
// match for the feature-type similarity component (spec.md §4.7).
var compatibleTypePairs = map[[2]CanonicalType]bool{
	{TypeExternalMetalLoss, TypeMetalLoss}:      true,
	{TypeInternalMetalLoss, TypeMetalLoss}:      true,
	{TypeExternalMetalLoss, TypeInternalMetalLoss}: true,
	{TypeCrack, TypeGouge}:                      true,
	{TypeGirthWeld, TypeSeamWeld}:                true,
}

func typesCompatible(a, b CanonicalType) bool {
	if compatibleTypePairs[[2]CanonicalType{a, b}] {
		return true
	}
	return compatibleTypePairs[[2]CanonicalType{b, a}]
}

// Similarity computes the weighted multi-metric similarity between two
// non-reference anomalies (spec.md §4.7).
func Similarity(x, y *Anomaly, cfg EngineConfig) SimilarityBreakdown {
	distSim := math.Exp(-math.Abs(x.CorrectedDistance-y.CorrectedDistance) / cfg.DistanceDecayFt)
	dimSim := dimensionalCosineSimilarity(x, y)
	clockSim := clockSimilarity(x.ClockDegrees, y.ClockDegrees)
	typeSim := featureTypeSimilarity(x.CanonicalType, y.CanonicalType)

	total := cfg.WeightDistance*distSim +
		cfg.WeightDimensional*dimSim +
		cfg.WeightClock*clockSim +
		cfg.WeightFeatureType*typeSim

	return SimilarityBreakdown{
		Distance:    distSim,
		Dimensional: dimSim,
		Clock:       clockSim,
		FeatureType: typeSim,
		Total:       total,
	}
}

func dimensionalCosineSimilarity(x, y *Anomaly) float64 {
	xv := [3]float64{math.Max(x.DepthPercent, 0), math.Max(x.Length, 0), math.Max(x.Width, 0)}
	yv := [3]float64{math.Max(y.DepthPercent, 0), math.Max(y.Length, 0), math.Max(y.Width, 0)}

	dot := xv[0]*yv[0] + xv[1]*yv[1] + xv[2]*yv[2]
	magX := math.Sqrt(xv[0]*xv[0] + xv[1]*xv[1] + xv[2]*xv[2])
	magY := math.Sqrt(yv[0]*yv[0] + yv[1]*yv[1] + yv[2]*yv[2])

	if magX < 1e-10 || magY < 1e-10 {
		return 0
	}
	return dot / (magX * magY)
}

func clockSimilarity(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 360-d {
		d = 360 - d
	}
	return 1 - d/180
}

func featureTypeSimilarity(a, b CanonicalType) float64 {
	if a == b {
		return 1.0
	}
	if typesCompatible(a, b) {
		return 0.5
	}
	return 0.0
}
