package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_IdenticalAnomaliesScoreNearOne(t *testing.T) {
	cfg := DefaultEngineConfig()
	a := anomalyAt(1000, 30, TypeExternalMetalLoss)
	a.Length, a.Width = 2, 1
	b := anomalyAt(1000, 30, TypeExternalMetalLoss)
	b.Length, b.Width = 2, 1

	sim := Similarity(a, b, cfg)
	assert.InDelta(t, 1.0, sim.Total, 1e-9)
}

func TestSimilarity_DistantAndDifferentTypesScoreLow(t *testing.T) {
	cfg := DefaultEngineConfig()
	a := &Anomaly{RawDistance: 0, CorrectedDistance: 0, DepthPercent: 100, ClockDegrees: 0, CanonicalType: TypeDent}
	b := &Anomaly{RawDistance: 5000, CorrectedDistance: 5000, Length: 100, ClockDegrees: 180, CanonicalType: TypeCrack}

	sim := Similarity(a, b, cfg)
	assert.Less(t, sim.Total, 0.1)
}

func TestDimensionalCosineSimilarity_ZeroMagnitudeIsZero(t *testing.T) {
	x := anomalyAt(0, 0, TypeDent)
	y := anomalyAt(0, 10, TypeDent)
	y.Length = 1
	assert.Equal(t, 0.0, dimensionalCosineSimilarity(x, y))
}

func TestClockSimilarity_WrapsAroundCircle(t *testing.T) {
	assert.InDelta(t, 1.0, clockSimilarity(10, 10), 1e-9)
	assert.InDelta(t, 0.0, clockSimilarity(0, 180), 1e-9)
	// 350 and 10 are 20 degrees apart going through the wrap.
	assert.InDelta(t, 1-20.0/180.0, clockSimilarity(350, 10), 1e-9)
}

func TestFeatureTypeSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, featureTypeSimilarity(TypeDent, TypeDent))
	assert.Equal(t, 0.5, featureTypeSimilarity(TypeExternalMetalLoss, TypeMetalLoss))
	assert.Equal(t, 0.5, featureTypeSimilarity(TypeMetalLoss, TypeExternalMetalLoss))
	assert.Equal(t, 0.0, featureTypeSimilarity(TypeDent, TypeValve))
}
