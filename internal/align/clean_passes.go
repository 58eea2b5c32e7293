package align

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// passDuplicateRemoval drops rows sharing a composite key with an
// earlier row; the first occurrence wins (spec.md §4.2 pass 1).
func passDuplicateRemoval(anomalies []*Anomaly) ([]*Anomaly, PassReport) {
	seen := make(map[string]bool, len(anomalies))
	out := make([]*Anomaly, 0, len(anomalies))
	affected := 0
	var details []string

	for _, a := range anomalies {
		key := fmt.Sprintf("%.2f|%.0f|%s|%.1f",
			round(a.RawDistance, 2), round(a.ClockDegrees, 0), a.CanonicalType, round(a.DepthPercent, 1))
		if seen[key] {
			affected++
			details = append(details, fmt.Sprintf("dropped duplicate at distance %.2f (row %d)", a.RawDistance, a.RowIndex))
			continue
		}
		seen[key] = true
		out = append(out, a)
	}

	return out, PassReport{
		Name:         "duplicate_removal",
		Description:  "drops rows sharing (distance, clock, type, depth) with an earlier row",
		RowsAffected: affected,
		Details:      details,
	}
}

// metresToFeet and millimetresToInches are the conversion factors used
// by pass 2's unit-detection heuristic (spec.md §4.2 pass 2).
const (
	metresToFeet       = 3.28084
	millimetresToInches = 0.0393701
)

// passUnitDetection heuristically detects and converts metric units
// applied to distance and to length/width/wall-thickness, independently
// (spec.md §4.2 pass 2).
func passUnitDetection(anomalies []*Anomaly) ([]*Anomaly, PassReport) {
	affected := 0
	var details []string

	if len(anomalies) > 0 {
		distances := make([]float64, len(anomalies))
		maxDist := 0.0
		for i, a := range anomalies {
			distances[i] = a.RawDistance
			if a.RawDistance > maxDist {
				maxDist = a.RawDistance
			}
		}
		medDist := median(distances)
		if maxDist < 100000 && medDist < 30000 {
			for _, a := range anomalies {
				a.RawDistance *= metresToFeet
				a.Odometer *= metresToFeet
				a.CorrectedDistance *= metresToFeet
				a.CleaningFlags = append(a.CleaningFlags, "distance_converted_m_to_ft")
			}
			affected = len(anomalies)
			details = append(details, fmt.Sprintf("converted distance/odometer m->ft (max=%.1f, median=%.1f)", maxDist, medDist))
		}

		var positiveLengths []float64
		for _, a := range anomalies {
			if a.Length > 0 {
				positiveLengths = append(positiveLengths, a.Length)
			}
		}
		if len(positiveLengths) > 0 && median(positiveLengths) > 10 {
			for _, a := range anomalies {
				a.Length *= millimetresToInches
				a.Width *= millimetresToInches
				a.CleaningFlags = append(a.CleaningFlags, "dimensions_converted_mm_to_in")
			}
			affected = len(anomalies)
			details = append(details, "converted length/width mm->in")
		}

		var positiveWT []float64
		for _, a := range anomalies {
			if a.WallThickness > 0 {
				positiveWT = append(positiveWT, a.WallThickness)
			}
		}
		if len(positiveWT) > 0 && median(positiveWT) > 3 {
			for _, a := range anomalies {
				a.WallThickness *= millimetresToInches
				a.CleaningFlags = append(a.CleaningFlags, "wt_converted_mm_to_in")
			}
			affected = len(anomalies)
			details = append(details, "converted wall thickness mm->in")
		}
	}

	return anomalies, PassReport{
		Name:         "unit_detection",
		Description:  "heuristically detects and converts metric distance/dimension/WT units to imperial",
		RowsAffected: affected,
		Details:      details,
	}
}

// passOutlierClamping clamps implausible values into physically
// plausible ranges (spec.md §4.2 pass 3).
func passOutlierClamping(anomalies []*Anomaly) ([]*Anomaly, PassReport) {
	affected := 0
	var details []string

	for _, a := range anomalies {
		changed := false

		if a.DepthPercent < 0 || a.DepthPercent > 100 {
			a.DepthPercent = clamp(a.DepthPercent, 0, 100)
			a.CleaningFlags = append(a.CleaningFlags, "depth_clamped_0_100")
			changed = true
		}
		if a.WallThickness < 0.05 {
			a.WallThickness = 0.188
			a.CleaningFlags = append(a.CleaningFlags, "wt_clamped_low_0.188")
			changed = true
		} else if a.WallThickness > 2.5 {
			a.WallThickness = 2.0
			a.CleaningFlags = append(a.CleaningFlags, "wt_clamped_high_2.0")
			changed = true
		}
		if a.Length > 100 {
			a.Length = 100
			a.CleaningFlags = append(a.CleaningFlags, "length_clamped_100")
			changed = true
		}
		if a.Width > 100 {
			a.Width = 100
			a.CleaningFlags = append(a.CleaningFlags, "width_clamped_100")
			changed = true
		}

		if changed {
			affected++
			details = append(details, fmt.Sprintf("clamped outlier values on row %d", a.RowIndex))
		}
	}

	return anomalies, PassReport{
		Name:         "outlier_clamping",
		Description:  "clamps depth/WT/length/width to physically plausible ranges",
		RowsAffected: affected,
		Details:      details,
	}
}

// passMissingValueInterpolation fills interior zero distances from
// neighbor means, and derives odometer from distance when missing
// (spec.md §4.2 pass 4). Anomalies must already be sorted by distance.
func passMissingValueInterpolation(anomalies []*Anomaly) ([]*Anomaly, PassReport) {
	affected := 0
	var details []string

	for i, a := range anomalies {
		changed := false
		if a.RawDistance == 0 && i > 0 && i < len(anomalies)-1 {
			prev := anomalies[i-1].RawDistance
			next := anomalies[i+1].RawDistance
			if prev > 0 && next > 0 {
				mean := (prev + next) / 2
				a.RawDistance = mean
				a.CorrectedDistance = mean
				a.CleaningFlags = append(a.CleaningFlags, "distance_interpolated")
				changed = true
				details = append(details, fmt.Sprintf("interpolated distance for row %d to %.2f", a.RowIndex, mean))
			}
		}
		if a.Odometer == 0 && a.RawDistance > 0 {
			a.Odometer = a.RawDistance
			a.CleaningFlags = append(a.CleaningFlags, "odometer_from_distance")
			changed = true
			details = append(details, fmt.Sprintf("derived odometer from distance for row %d", a.RowIndex))
		}
		if changed {
			affected++
		}
	}

	return anomalies, PassReport{
		Name:         "missing_value_interpolation",
		Description:  "interpolates interior zero distances from neighbors; derives odometer from distance",
		RowsAffected: affected,
		Details:      details,
	}
}

// passDistanceMonotonicity flags (without removing) anomalies whose
// distance goes backward relative to the preceding, sorted anomaly
// (spec.md §4.2 pass 5).
func passDistanceMonotonicity(anomalies []*Anomaly) ([]*Anomaly, PassReport) {
	affected := 0
	var details []string

	for i := 1; i < len(anomalies); i++ {
		prev := anomalies[i-1]
		cur := anomalies[i]
		if prev.RawDistance > 0 && cur.RawDistance > 0 && cur.RawDistance < prev.RawDistance {
			jump := int(math.Round(prev.RawDistance - cur.RawDistance))
			var flag string
			if jump < 10 {
				flag = fmt.Sprintf("distance_backward_jump_%dft", jump)
			} else {
				flag = fmt.Sprintf("distance_major_backward_jump_%dft", jump)
			}
			cur.CleaningFlags = append(cur.CleaningFlags, flag)
			affected++
			details = append(details, fmt.Sprintf("row %d: %s", cur.RowIndex, flag))
		}
	}

	return anomalies, PassReport{
		Name:         "distance_monotonicity",
		Description:  "flags (without removing) backward distance jumps",
		RowsAffected: affected,
		Details:      details,
	}
}

// passCrossRunWTConsistency flags anomalies whose wall thickness
// deviates by more than 30% from the median positive WT seen in other
// runs (spec.md §4.2 pass 6). Skipped when otherRunsWT carries no data.
func passCrossRunWTConsistency(anomalies []*Anomaly, otherRunsWT [][]float64) ([]*Anomaly, PassReport) {
	var pooled []float64
	for _, run := range otherRunsWT {
		pooled = append(pooled, run...)
	}
	if len(pooled) == 0 {
		return anomalies, PassReport{
			Name:         "cross_run_wt_consistency",
			Description:  "flags wall-thickness deviation > 30% from other runs' median",
			RowsAffected: 0,
			Details:      []string{"skipped: no other runs provided"},
		}
	}

	refMedian := median(pooled)
	affected := 0
	var details []string

	for _, a := range anomalies {
		if refMedian <= 0 || a.WallThickness <= 0 {
			continue
		}
		deviation := math.Abs(a.WallThickness-refMedian) / refMedian
		if deviation > 0.3 {
			pct := int(math.Round(deviation * 100))
			a.CleaningFlags = append(a.CleaningFlags, fmt.Sprintf("wt_cross_run_deviation_%dpct", pct))
			affected++
			details = append(details, fmt.Sprintf("row %d deviates %d%% from cross-run median WT %.3f", a.RowIndex, pct, refMedian))
		}
	}

	return anomalies, PassReport{
		Name:         "cross_run_wt_consistency",
		Description:  "flags wall-thickness deviation > 30% from other runs' median",
		RowsAffected: affected,
		Details:      details,
	}
}

// passZeroDimensionCheck flags non-reference anomalies with no reported
// dimensions at all (spec.md §4.2 pass 7).
func passZeroDimensionCheck(anomalies []*Anomaly) ([]*Anomaly, PassReport) {
	affected := 0
	var details []string

	for _, a := range anomalies {
		if a.IsReferencePoint {
			continue
		}
		if a.Length == 0 && a.Width == 0 && a.DepthPercent == 0 {
			a.CleaningFlags = append(a.CleaningFlags, "zero_dimensions")
			a.HasMissingData = true
			affected++
			details = append(details, fmt.Sprintf("row %d has zero length/width/depth", a.RowIndex))
		}
	}

	return anomalies, PassReport{
		Name:         "zero_dimension_check",
		Description:  "flags non-reference anomalies with no reported dimensions",
		RowsAffected: affected,
		Details:      details,
	}
}

// median returns the median of vs using gonum's empirical quantile,
// which requires its input pre-sorted.
func median(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	return stat.Quantile(0.5, stat.Empirical, sortedCopy(vs), nil)
}

// round rounds v to the given number of decimal places.
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
