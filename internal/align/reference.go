package align

import (
	"math"
	"sort"
)

// ExtractReferences returns the reference-point projection of anomalies
// (girth welds, valves, fittings), sorted by raw distance (spec.md §4.3).
func ExtractReferences(anomalies []*Anomaly) []ReferencePoint {
	var refs []ReferencePoint
	for _, a := range anomalies {
		if !a.IsReferencePoint {
			continue
		}
		refs = append(refs, ReferencePoint{
			AnomalyIdx:  a.ID(),
			Distance:    a.RawDistance,
			Odometer:    a.Odometer,
			JointNumber: a.JointNumber,
			Type:        a.CanonicalType,
			RunIndex:    a.RunIndex,
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Distance < refs[j].Distance })
	return refs
}

// MatchReferences greedily pairs reference points of an earlier run (a)
// against a later run (b), in order of a, picking for each a the best
// unmatched b within the configured gate (spec.md §4.3). Matching is
// injective: no point participates in more than one pair.
func MatchReferences(a, b []ReferencePoint, cfg EngineConfig) []MatchedReference {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	usedB := make([]bool, len(b))
	var pairs []MatchedReference

	for _, ra := range a {
		bestIdx := -1
		bestScore := math.MaxFloat64

		for j, rb := range b {
			if usedB[j] {
				continue
			}
			dDist := math.Abs(ra.Distance - rb.Distance)
			if dDist > cfg.ReferenceMatchGateFt {
				continue
			}
			score := dDist
			if ra.JointNumber > 0 && rb.JointNumber > 0 {
				score += math.Abs(float64(ra.JointNumber-rb.JointNumber)) * cfg.JointMismatchPenalty
			}
			if score < bestScore {
				bestScore = score
				bestIdx = j
			}
		}

		if bestIdx < 0 {
			continue
		}

		usedB[bestIdx] = true
		rb := b[bestIdx]
		pairs = append(pairs, MatchedReference{
			RefA:           ra,
			RefB:           rb,
			DistanceOffset: rb.Distance - ra.Distance,
			OdometerDrift:  (rb.Distance - rb.Odometer) - (ra.Distance - ra.Odometer),
		})
	}

	return pairs
}
