package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idAnomaly(run, row int, dist float64) *Anomaly {
	a := anomalyAt(dist, 20, TypeExternalMetalLoss)
	a.RunIndex = run
	a.RowIndex = row
	return a
}

func TestBuildChains_ExtendsThroughAllRuns(t *testing.T) {
	cfg := DefaultEngineConfig()

	run0 := []*Anomaly{idAnomaly(0, 0, 1000)}
	run1 := []*Anomaly{idAnomaly(1, 0, 1005)}
	run2 := []*Anomaly{idAnomaly(2, 0, 1010)}

	pairwise := []MatchResult{
		{Pairs: []MatchedPair{{A: run0[0], B: run1[0], Similarity: SimilarityBreakdown{Total: 0.95}}}},
		{Pairs: []MatchedPair{{A: run1[0], B: run2[0], Similarity: SimilarityBreakdown{Total: 0.90}}}},
	}

	chains := BuildChains([][]*Anomaly{run0, run1, run2}, pairwise, cfg)
	require.Len(t, chains, 1)
	assert.Len(t, chains[0].Anomalies, 3)
	assert.Equal(t, StatusMatched, chains[0].Status)
	assert.InDelta(t, 0.95, chains[0].Confidence, 1e-9) // confidence of the FIRST pair
	assert.Equal(t, 1010.0, chains[0].RepresentativeDistance)
}

func TestBuildChains_UncertainBelowMatchedThreshold(t *testing.T) {
	cfg := DefaultEngineConfig()
	run0 := []*Anomaly{idAnomaly(0, 0, 1000)}
	run1 := []*Anomaly{idAnomaly(1, 0, 1005)}

	pairwise := []MatchResult{
		{Pairs: []MatchedPair{{A: run0[0], B: run1[0], Similarity: SimilarityBreakdown{Total: 0.5}}}},
	}

	chains := BuildChains([][]*Anomaly{run0, run1}, pairwise, cfg)
	require.Len(t, chains, 1)
	assert.Equal(t, StatusUncertain, chains[0].Status)
}

func TestBuildChains_UnmatchedRun0IsMissing(t *testing.T) {
	cfg := DefaultEngineConfig()
	run0 := []*Anomaly{idAnomaly(0, 0, 1000)}
	run1 := []*Anomaly{}

	pairwise := []MatchResult{{Missing: run0}}

	chains := BuildChains([][]*Anomaly{run0, run1}, pairwise, cfg)
	require.Len(t, chains, 1)
	assert.Equal(t, StatusMissing, chains[0].Status)
	assert.Len(t, chains[0].Anomalies, 1)
}

func TestBuildChains_IntermediateNewAnomalyBecomesNewChain(t *testing.T) {
	cfg := DefaultEngineConfig()
	run0 := []*Anomaly{}
	run1 := []*Anomaly{idAnomaly(1, 0, 2000)}

	pairwise := []MatchResult{{New: run1}}

	chains := BuildChains([][]*Anomaly{run0, run1}, pairwise, cfg)
	require.Len(t, chains, 1)
	assert.Equal(t, StatusNew, chains[0].Status)
}

func TestBuildChains_EveryAnomalyAppearsExactlyOnce(t *testing.T) {
	cfg := DefaultEngineConfig()
	a0 := idAnomaly(0, 0, 1000)
	a1Matched := idAnomaly(1, 0, 1005)
	a1New := idAnomaly(1, 1, 9000)

	run0 := []*Anomaly{a0}
	run1 := []*Anomaly{a1Matched, a1New}

	pairwise := []MatchResult{
		{
			Pairs: []MatchedPair{{A: a0, B: a1Matched, Similarity: SimilarityBreakdown{Total: 0.8}}},
			New:   []*Anomaly{a1New},
		},
	}

	chains := BuildChains([][]*Anomaly{run0, run1}, pairwise, cfg)
	require.Len(t, chains, 2)

	seen := map[AnomalyID]int{}
	for _, c := range chains {
		for _, a := range c.Anomalies {
			seen[a.ID()]++
		}
	}
	assert.Equal(t, 1, seen[a0.ID()])
	assert.Equal(t, 1, seen[a1Matched.ID()])
	assert.Equal(t, 1, seen[a1New.ID()])
}
