package align

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func anomalyAt(distance, depth float64, ft CanonicalType) *Anomaly {
	return &Anomaly{
		RawDistance:       distance,
		CorrectedDistance: distance,
		Odometer:          distance,
		DepthPercent:      depth,
		CanonicalType:     ft,
		WallThickness:     DefaultWallThicknessIn,
		ClockDegrees:      90,
	}
}

func TestPassDuplicateRemoval(t *testing.T) {
	a := anomalyAt(100, 20, TypeExternalMetalLoss)
	b := anomalyAt(100, 20, TypeExternalMetalLoss) // exact duplicate
	c := anomalyAt(150, 30, TypeDent)

	out, report := passDuplicateRemoval([]*Anomaly{a, b, c})
	require.Len(t, out, 2)
	assert.Equal(t, 1, report.RowsAffected)
}

func TestPassUnitDetection_ConvertsMetric(t *testing.T) {
	anomalies := []*Anomaly{
		anomalyAt(1000, 20, TypeExternalMetalLoss), // ~1000m, clearly metric scale
		anomalyAt(2000, 20, TypeExternalMetalLoss),
	}
	anomalies[0].Length = 25.4 // mm scale
	anomalies[1].Length = 50.8
	anomalies[0].WallThickness = 9.5 // mm scale
	anomalies[1].WallThickness = 12.7

	out, report := passUnitDetection(anomalies)
	require.Len(t, out, 2)
	assert.Contains(t, out[0].CleaningFlags, "distance_converted_m_to_ft")
	assert.Contains(t, out[0].CleaningFlags, "dimensions_converted_mm_to_in")
	assert.Contains(t, out[0].CleaningFlags, "wt_converted_mm_to_in")
	assert.Greater(t, out[0].RawDistance, 1000.0) // converted upward (m -> ft)
	assert.NotEmpty(t, report.Details)
}

func TestPassOutlierClamping(t *testing.T) {
	a := anomalyAt(100, 150, TypeDent) // depth out of range
	a.WallThickness = 0.01
	a.Length = 500

	out, report := passOutlierClamping([]*Anomaly{a})
	require.Len(t, out, 1)
	assert.Equal(t, 100.0, out[0].DepthPercent)
	assert.Equal(t, 0.188, out[0].WallThickness)
	assert.Equal(t, 100.0, out[0].Length)
	assert.Equal(t, 1, report.RowsAffected)
}

func TestPassMissingValueInterpolation(t *testing.T) {
	a := anomalyAt(100, 10, TypeDent)
	b := anomalyAt(0, 10, TypeDent) // interior zero distance
	c := anomalyAt(200, 10, TypeDent)

	out, report := passMissingValueInterpolation([]*Anomaly{a, b, c})
	require.Len(t, out, 3)
	assert.Equal(t, 150.0, out[1].RawDistance)
	assert.Contains(t, out[1].CleaningFlags, "distance_interpolated")
	assert.Equal(t, 1, report.RowsAffected)
}

func TestPassDistanceMonotonicity_FlagsBackwardJump(t *testing.T) {
	a := anomalyAt(200, 10, TypeDent)
	b := anomalyAt(195, 10, TypeDent) // small backward jump
	c := anomalyAt(50, 10, TypeDent)  // major backward jump

	out, report := passDistanceMonotonicity([]*Anomaly{a, b, c})
	require.Len(t, out, 3)
	assert.Contains(t, out[1].CleaningFlags[0], "distance_backward_jump_")
	assert.Contains(t, out[2].CleaningFlags[0], "distance_major_backward_jump_")
	assert.Equal(t, 2, report.RowsAffected)
}

func TestPassCrossRunWTConsistency_SkipsWithoutOtherRuns(t *testing.T) {
	a := anomalyAt(100, 10, TypeDent)
	out, report := passCrossRunWTConsistency([]*Anomaly{a}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, 0, report.RowsAffected)
	assert.Contains(t, report.Details[0], "skipped")
}

func TestPassCrossRunWTConsistency_FlagsDeviation(t *testing.T) {
	a := anomalyAt(100, 10, TypeDent)
	a.WallThickness = 0.9 // well above the 0.375 reference median

	out, report := passCrossRunWTConsistency([]*Anomaly{a}, [][]float64{{0.375, 0.375, 0.375}})
	require.Len(t, out, 1)
	assert.Equal(t, 1, report.RowsAffected)
	assert.Contains(t, out[0].CleaningFlags[0], "wt_cross_run_deviation_")
}

func TestPassZeroDimensionCheck(t *testing.T) {
	ref := anomalyAt(100, 0, TypeGirthWeld)
	ref.IsReferencePoint = true

	flat := anomalyAt(200, 0, TypeDent) // zero length/width/depth

	out, report := passZeroDimensionCheck([]*Anomaly{ref, flat})
	require.Len(t, out, 2)
	assert.False(t, out[0].HasMissingData) // reference points are exempt
	assert.True(t, out[1].HasMissingData)
	assert.Equal(t, 1, report.RowsAffected)
}

func TestClean_RunsAllSevenPasses(t *testing.T) {
	a := anomalyAt(100, 20, TypeExternalMetalLoss)
	b := anomalyAt(150, 30, TypeDent)

	out, report := Clean(0, []*Anomaly{a, b}, nil)
	require.Len(t, out, 2)
	require.Len(t, report.Passes, 7)
	assert.Equal(t, 0, report.RunIndex)
}
