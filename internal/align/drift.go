package align

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ComputeDrift builds one run's reference-point and down-sampled
// full-run odometer drift series, plus summary statistics (spec.md
// §4.6). Per the resolution of spec.md §9 Open Question 1, drift is
// always measured pre-correction, from raw distance minus odometer.
func ComputeDrift(runIndex int, anomalies []*Anomaly, refs []ReferencePoint, cfg EngineConfig) DriftReport {
	sortedRefs := make([]ReferencePoint, len(refs))
	copy(sortedRefs, refs)
	sort.Slice(sortedRefs, func(i, j int) bool { return sortedRefs[i].Distance < sortedRefs[j].Distance })

	refSeries := make([]DriftSeriesPoint, len(sortedRefs))
	for i, r := range sortedRefs {
		refSeries[i] = DriftSeriesPoint{
			Label:    fmt.Sprintf("Ref %d (Jt %d)", i+1, r.JointNumber),
			Distance: r.Distance,
			Odometer: r.Odometer,
			Drift:    r.Distance - r.Odometer,
		}
	}

	sortedAnomalies := make([]*Anomaly, len(anomalies))
	copy(sortedAnomalies, anomalies)
	sort.SliceStable(sortedAnomalies, func(i, j int) bool { return sortedAnomalies[i].RawDistance < sortedAnomalies[j].RawDistance })

	stride := 1
	if n := len(sortedAnomalies); n > 0 {
		if s := n / cfg.DriftFullRunMaxSamples; s > 1 {
			stride = s
		}
	}

	var fullSeries []DriftSeriesPoint
	for i := 0; i < len(sortedAnomalies); i += stride {
		a := sortedAnomalies[i]
		fullSeries = append(fullSeries, DriftSeriesPoint{
			Label:    fmt.Sprintf("Pt %d", i+1),
			Distance: a.RawDistance,
			Odometer: a.Odometer,
			Drift:    a.RawDistance - a.Odometer,
		})
	}

	summarySource := refSeries
	if len(summarySource) == 0 {
		summarySource = fullSeries
	}

	return DriftReport{
		RunIndex:       runIndex,
		ReferenceDrift: refSeries,
		FullRunDrift:   fullSeries,
		Summary:        summarizeDrift(runIndex, summarySource),
	}
}

func summarizeDrift(runIndex int, series []DriftSeriesPoint) DriftSummary {
	if len(series) == 0 {
		return DriftSummary{RunIndex: runIndex}
	}

	drifts := make([]float64, len(series))
	for i, p := range series {
		drifts[i] = p.Drift
	}

	maxDrift, minDrift := drifts[0], drifts[0]
	for _, d := range drifts {
		if d > maxDrift {
			maxDrift = d
		}
		if d < minDrift {
			minDrift = d
		}
	}

	totalAccumulated := series[len(series)-1].Drift - series[0].Drift
	distanceRange := series[len(series)-1].Distance - series[0].Distance

	var ratePer1000 float64
	if math.Abs(distanceRange) > 1e-9 {
		ratePer1000 = totalAccumulated / (distanceRange / 1000)
	}

	return DriftSummary{
		RunIndex:          runIndex,
		MaxDrift:          maxDrift,
		MinDrift:          minDrift,
		MeanDrift:         stat.Mean(drifts, nil),
		TotalAccumulated:  totalAccumulated,
		DriftRatePer1000f: ratePer1000,
	}
}
