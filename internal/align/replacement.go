package align

import "math"

// DetectReplacements reports runs of consecutive unmatched reference
// points as likely cut-out ("removed", from a) or added ("added", from
// b) pipe sections (spec.md §4.4). It is advisory: it alters neither
// distance correction nor the zones' is_pipe_replacement flag (BuildZones
// derives that from the correction factor alone); the orchestrator
// returns its output in EngineResult.ReplacementSections.
func DetectReplacements(a, b []ReferencePoint, pairs []MatchedReference, cfg EngineConfig) []ReplacementSection {
	matchedA := make(map[AnomalyID]bool, len(pairs))
	matchedB := make(map[AnomalyID]bool, len(pairs))
	for _, p := range pairs {
		matchedA[p.RefA.AnomalyIdx] = true
		matchedB[p.RefB.AnomalyIdx] = true
	}

	sections := unmatchedRuns(a, matchedA, "removed", cfg)
	sections = append(sections, unmatchedRuns(b, matchedB, "added", cfg)...)
	return sections
}

// unmatchedRuns scans refs (sorted by distance) for runs of >= cfg's
// minimum consecutive unmatched points, each within the replacement
// proximity threshold of the one before it, and reports each as one section.
func unmatchedRuns(refs []ReferencePoint, matched map[AnomalyID]bool, kind string, cfg EngineConfig) []ReplacementSection {
	var sections []ReplacementSection
	var run []ReferencePoint

	flush := func() {
		if len(run) >= cfg.ReplacementMinRun {
			sections = append(sections, ReplacementSection{
				RunIndex:    run[0].RunIndex,
				Kind:        kind,
				StartDist:   run[0].Distance,
				EndDist:     run[len(run)-1].Distance,
				PointsCount: len(run),
			})
		}
		run = nil
	}

	for _, r := range refs {
		if matched[r.AnomalyIdx] {
			flush()
			continue
		}
		if len(run) > 0 {
			prev := run[len(run)-1]
			if math.Abs(r.Distance-prev.Distance) > cfg.ReplacementProximityFt {
				flush()
			}
		}
		run = append(run, r)
	}
	flush()

	return sections
}
