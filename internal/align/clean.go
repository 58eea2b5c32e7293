package align

import "sort"

// Clean runs the fixed seven-pass data-quality pipeline over one run's
// normalized anomalies (spec.md §4.2). otherRunsWT supplies the positive
// wall-thickness values observed in every other run, for pass 6's
// cross-run consistency check; pass 6 is skipped (and documented) when
// it is empty.
func Clean(runIndex int, anomalies []*Anomaly, otherRunsWT [][]float64) ([]*Anomaly, CleaningReport) {
	report := CleaningReport{RunIndex: runIndex}

	var pr PassReport
	anomalies, pr = passDuplicateRemoval(anomalies)
	report.Passes = append(report.Passes, pr)

	anomalies, pr = passUnitDetection(anomalies)
	report.Passes = append(report.Passes, pr)

	anomalies, pr = passOutlierClamping(anomalies)
	report.Passes = append(report.Passes, pr)

	anomalies, pr = passMissingValueInterpolation(anomalies)
	report.Passes = append(report.Passes, pr)

	anomalies, pr = passDistanceMonotonicity(anomalies)
	report.Passes = append(report.Passes, pr)

	anomalies, pr = passCrossRunWTConsistency(anomalies, otherRunsWT)
	report.Passes = append(report.Passes, pr)

	anomalies, pr = passZeroDimensionCheck(anomalies)
	report.Passes = append(report.Passes, pr)

	return anomalies, report
}

// sortedCopy returns a sorted copy of vs, leaving vs untouched.
func sortedCopy(vs []float64) []float64 {
	out := make([]float64, len(vs))
	copy(out, vs)
	sort.Float64s(out)
	return out
}
