package align

// BuildChains composes consecutive pairwise match results into K-length
// anomaly chains across all runs (spec.md §4.9). runs holds each run's
// full non-reference anomaly set, in run order; pairwise[i] is the
// match between runs[i] and runs[i+1]. Every anomaly appears in exactly
// one chain.
func BuildChains(runs [][]*Anomaly, pairwise []MatchResult, cfg EngineConfig) []*AnomalyChain {
	next := make([]map[AnomalyID]*MatchedPair, len(pairwise))
	for i, m := range pairwise {
		lookup := make(map[AnomalyID]*MatchedPair, len(m.Pairs))
		for idx := range m.Pairs {
			lookup[m.Pairs[idx].A.ID()] = &m.Pairs[idx]
		}
		next[i] = lookup
	}

	var chains []*AnomalyChain

	if len(runs) > 0 {
		for _, a := range runs[0] {
			chains = append(chains, extendChain(a, 0, next, cfg))
		}
	}

	// New chains can also originate at an intermediate run: an anomaly
	// unmatched going backward in round i (i.e. new in run i+1) that
	// may still extend forward through later rounds.
	for i, m := range pairwise {
		for _, b := range m.New {
			chains = append(chains, extendChain(b, i+1, next, cfg))
		}
	}

	return chains
}

// extendChain follows the continuation chain starting at anomaly a in
// run startRun for as far as the pairwise match results allow, then
// assigns status per the confidence of the first pair that formed the
// chain (spec.md §4.9).
func extendChain(a *Anomaly, startRun int, next []map[AnomalyID]*MatchedPair, cfg EngineConfig) *AnomalyChain {
	chain := &AnomalyChain{
		Anomalies:  []*Anomaly{a},
		RunIndices: []int{startRun},
	}

	firstConfidence := -1.0
	cur, curRun := a, startRun

	for curRun < len(next) {
		pair, ok := next[curRun][cur.ID()]
		if !ok {
			break
		}
		if firstConfidence < 0 {
			firstConfidence = pair.Similarity.Total
		}
		chain.Anomalies = append(chain.Anomalies, pair.B)
		chain.RunIndices = append(chain.RunIndices, curRun+1)
		chain.LastSimilarity = pair.Similarity
		cur, curRun = pair.B, curRun+1
	}

	chain.RepresentativeDistance = chain.Latest().CorrectedDistance

	if len(chain.Anomalies) == 1 {
		if startRun == 0 {
			chain.Status = StatusMissing
		} else {
			chain.Status = StatusNew
		}
		return chain
	}

	chain.Confidence = firstConfidence
	if firstConfidence >= cfg.MatchedConfidenceMin {
		chain.Status = StatusMatched
	} else {
		chain.Status = StatusUncertain
	}
	return chain
}
