package align

import (
	"math"
	"sort"
)

// sortPairsByRefA returns pairs sorted by the earlier run's reference
// distance, the ordering both BuildZones and CorrectRun depend on
// (spec.md §4.5).
func sortPairsByRefA(pairs []MatchedReference) []MatchedReference {
	sorted := make([]MatchedReference, len(pairs))
	copy(sorted, pairs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].RefA.Distance < sorted[j].RefA.Distance })
	return sorted
}

// BuildZones builds one AlignmentZone per consecutive pair of matched
// reference points, each carrying the affine map for its raw-distance
// interval (spec.md §4.5).
func BuildZones(pairs []MatchedReference, laterRunIndex int, cfg EngineConfig) []AlignmentZone {
	sorted := sortPairsByRefA(pairs)

	var zones []AlignmentZone
	for i := 0; i+1 < len(sorted); i++ {
		p0, p1 := sorted[i], sorted[i+1]

		startRaw, endRaw := p0.RefB.Distance, p1.RefB.Distance
		startCanon, endCanon := p0.RefA.Distance, p1.RefA.Distance

		factor := 1.0
		if denom := endCanon - startCanon; denom > 0 {
			factor = (endRaw - startRaw) / denom
		}

		zones = append(zones, AlignmentZone{
			StartRaw:          startRaw,
			EndRaw:            endRaw,
			StartCanon:        startCanon,
			EndCanon:          endCanon,
			CorrectionFactor:  factor,
			IsPipeReplacement: math.Abs(factor-1) > cfg.ZoneReplacementRatioDeviation,
			RunIndex:          laterRunIndex,
		})
	}
	return zones
}

// CorrectRun remaps every anomaly's raw distance in the later run into
// the earlier (reference) run's coordinate system, using the zones
// built from pairs (spec.md §4.5). With zero matched pairs, distances
// are left unchanged.
func CorrectRun(anomalies []*Anomaly, pairs []MatchedReference, zones []AlignmentZone) {
	sorted := sortPairsByRefA(pairs)
	if len(sorted) == 0 {
		return
	}

	first := sorted[0]
	last := sorted[len(sorted)-1]

	for _, a := range anomalies {
		d := a.RawDistance

		if zone, ok := findZone(zones, d); ok {
			a.CorrectedDistance = zone.StartCanon + (d-zone.StartRaw)*(zone.EndCanon-zone.StartCanon)/(zone.EndRaw-zone.StartRaw)
			continue
		}

		if d <= first.RefB.Distance {
			a.CorrectedDistance = d + (first.RefA.Distance - first.RefB.Distance)
			continue
		}

		a.CorrectedDistance = d + (last.RefA.Distance - last.RefB.Distance)
	}
}

// findZone returns the zone containing raw distance d, if any.
func findZone(zones []AlignmentZone, d float64) (AlignmentZone, bool) {
	for _, z := range zones {
		if z.EndRaw > z.StartRaw && d >= z.StartRaw && d <= z.EndRaw {
			return z, true
		}
	}
	return AlignmentZone{}, false
}
