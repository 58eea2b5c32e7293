package align

import (
	"fmt"
	"sort"
	"sync"
)

// Run executes the full alignment and matching pipeline over K inspection
// runs (spec.md §4.12). Runs are sorted ascending by year; every later
// run is corrected directly into run 0's reference frame, per the
// resolution of spec.md §9 Open Question 2. Data-quality problems never
// produce an error, only a *StructuralError from caller misuse (too few
// runs, or a cfg that fails Validate) does.
func Run(runs []RunInput, cfg EngineConfig) (*EngineResult, error) {
	if len(runs) < 2 {
		return nil, structuralErrorf("at least 2 runs are required, got %d", len(runs))
	}
	if err := cfg.Validate(); err != nil {
		return nil, structuralErrorf("invalid config: %s", err)
	}

	sorted := make([]RunInput, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	years := make([]int, len(sorted))
	for i, r := range sorted {
		years[i] = r.Year
	}

	normalized := make([][]*Anomaly, len(sorted))
	for i, r := range sorted {
		normalized[i] = Normalize(i, r.Rows)
	}

	wtByRun := make([][]float64, len(sorted))
	for i, anomalies := range normalized {
		wt := make([]float64, 0, len(anomalies))
		for _, a := range anomalies {
			if a.WallThickness > 0 {
				wt = append(wt, a.WallThickness)
			}
		}
		wtByRun[i] = wt
	}

	// Each run's cleaning pass is independent of every other run except
	// for the cross-run wall-thickness population it reads (already
	// gathered above), so runs clean concurrently; every goroutine
	// writes only its own index, so no mutex is needed.
	cleaned := make([][]*Anomaly, len(sorted))
	cleaningReports := make([]CleaningReport, len(sorted))
	var wg sync.WaitGroup
	for i, anomalies := range normalized {
		wg.Add(1)
		go func(i int, anomalies []*Anomaly) {
			defer wg.Done()
			var otherRunsWT [][]float64
			for j, wt := range wtByRun {
				if j != i {
					otherRunsWT = append(otherRunsWT, wt)
				}
			}
			cleaned[i], cleaningReports[i] = Clean(i, anomalies, otherRunsWT)
		}(i, anomalies)
	}
	wg.Wait()

	diag := EngineDiagnostics{RunsProcessed: len(sorted)}

	refs := make([][]ReferencePoint, len(sorted))
	for i, anomalies := range cleaned {
		refs[i] = ExtractReferences(anomalies)
	}

	var zones []AlignmentZone
	var replacementSections []ReplacementSection

	for i := 1; i < len(sorted); i++ {
		if len(refs[0]) == 0 || len(refs[i]) == 0 {
			diag.Notes = append(diag.Notes, fmt.Sprintf("run %d: no reference points on one side, correction skipped", i))
			continue
		}

		matched := MatchReferences(refs[0], refs[i], cfg)
		if len(matched) == 0 {
			diag.Notes = append(diag.Notes, fmt.Sprintf("run %d: no reference pairs matched, correction skipped", i))
			continue
		}

		runZones := BuildZones(matched, i, cfg)
		CorrectRun(cleaned[i], matched, runZones)
		zones = append(zones, runZones...)

		replacementSections = append(replacementSections, DetectReplacements(refs[0], refs[i], matched, cfg)...)
	}
	diag.ZonesBuilt = len(zones)

	var driftReports []DriftReport
	for i, anomalies := range cleaned {
		driftReports = append(driftReports, ComputeDrift(i, anomalies, refs[i], cfg))
	}

	nonRefRuns := make([][]*Anomaly, len(sorted))
	for i, anomalies := range cleaned {
		var nonRef []*Anomaly
		for _, a := range anomalies {
			if !a.IsReferencePoint {
				nonRef = append(nonRef, a)
			}
		}
		sort.SliceStable(nonRef, func(i, j int) bool { return nonRef[i].CorrectedDistance < nonRef[j].CorrectedDistance })
		nonRefRuns[i] = nonRef
	}

	pairwise := make([]MatchResult, len(sorted)-1)
	for i := 0; i+1 < len(sorted); i++ {
		pairwise[i] = MatchAnomalies(nonRefRuns[i], nonRefRuns[i+1], cfg)
		diag.PairsEvaluated += len(nonRefRuns[i]) * len(nonRefRuns[i+1])
		diag.PairsAccepted += len(pairwise[i].Pairs)
	}

	chains := BuildChains(nonRefRuns, pairwise, cfg)
	for _, chain := range chains {
		AnalyzeGrowth(chain, years, cfg)
		ClassifyPriority(chain, cfg)
	}
	diag.ChainsProduced = len(chains)

	var aligned []*Anomaly
	for _, anomalies := range cleaned {
		aligned = append(aligned, anomalies...)
	}

	return &EngineResult{
		AlignedAnomalies:    aligned,
		Chains:              chains,
		AlignmentZones:      zones,
		ReplacementSections: replacementSections,
		DriftReports:        driftReports,
		CleaningReports:     cleaningReports,
		Diagnostics:         diag,
	}, nil
}
