package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchAnomalies_AcceptsCloseSimilarPair(t *testing.T) {
	cfg := DefaultEngineConfig()
	a := anomalyAt(1000, 30, TypeExternalMetalLoss)
	a.Length, a.Width = 2, 1
	b := anomalyAt(1010, 30, TypeExternalMetalLoss) // 10ft drift, tool read long
	b.Length, b.Width = 2, 1

	result := MatchAnomalies([]*Anomaly{a}, []*Anomaly{b}, cfg)
	require.Len(t, result.Pairs, 1)
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.New)
	assert.GreaterOrEqual(t, result.Pairs[0].Similarity.Total, cfg.AcceptMinSimilarity)
}

func TestMatchAnomalies_RejectsBeyondDistanceGate(t *testing.T) {
	cfg := DefaultEngineConfig()
	a := anomalyAt(1000, 30, TypeExternalMetalLoss)
	b := anomalyAt(5000, 30, TypeExternalMetalLoss) // far beyond candidate gate

	result := MatchAnomalies([]*Anomaly{a}, []*Anomaly{b}, cfg)
	assert.Empty(t, result.Pairs)
	require.Len(t, result.Missing, 1)
	require.Len(t, result.New, 1)
}

func TestMatchAnomalies_EmptySidesProduceNoPairs(t *testing.T) {
	cfg := DefaultEngineConfig()
	assert.Empty(t, MatchAnomalies(nil, nil, cfg).Pairs)

	a := anomalyAt(100, 10, TypeDent)
	result := MatchAnomalies([]*Anomaly{a}, nil, cfg)
	require.Len(t, result.Missing, 1)
	assert.Empty(t, result.New)
}

func TestMatchAnomalies_PicksBestOfMultipleCandidates(t *testing.T) {
	cfg := DefaultEngineConfig()
	a := anomalyAt(1000, 30, TypeExternalMetalLoss)
	a.Length, a.Width = 2, 1

	near := anomalyAt(1005, 30, TypeExternalMetalLoss) // near-perfect match
	near.Length, near.Width = 2, 1

	farther := anomalyAt(1150, 30, TypeExternalMetalLoss) // same dims, farther away
	farther.Length, farther.Width = 2, 1

	result := MatchAnomalies([]*Anomaly{a}, []*Anomaly{near, farther}, cfg)
	require.Len(t, result.Pairs, 1)
	assert.Equal(t, near, result.Pairs[0].B)
	require.Len(t, result.New, 1)
	assert.Equal(t, farther, result.New[0])
}

func TestMatchAnomalies_BelowAcceptThresholdDropsBothSides(t *testing.T) {
	cfg := DefaultEngineConfig()
	// Chosen so similarity.total clears CandidateMinSimilarity (0.20) but
	// falls short of AcceptMinSimilarity (0.40): a true candidate that the
	// acceptance step still has to drop.
	a := &Anomaly{
		RawDistance: 1000, CorrectedDistance: 1000,
		DepthPercent: 50, Length: 10, Width: 5,
		ClockDegrees: 0, CanonicalType: TypeExternalMetalLoss,
	}
	b := &Anomaly{
		RawDistance: 1100, CorrectedDistance: 1100,
		DepthPercent: 10, Length: 50, Width: 0,
		ClockDegrees: 90, CanonicalType: TypeMetalLoss,
	}

	sim := Similarity(a, b, cfg)
	require.Greater(t, sim.Total, cfg.CandidateMinSimilarity)
	require.Less(t, sim.Total, cfg.AcceptMinSimilarity)

	result := MatchAnomalies([]*Anomaly{a}, []*Anomaly{b}, cfg)
	assert.Empty(t, result.Pairs)
	assert.Len(t, result.Missing, 1)
	assert.Len(t, result.New, 1)
}
