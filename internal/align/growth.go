package align

import "gonum.org/v1/gonum/stat"

// AnalyzeGrowth fits a least-squares line to each of depth, length, and
// width against the participating runs' years, and derives
// time-to-critical from the depth trend (spec.md §4.10). Chains of
// length 1 get zero growth rates and a nil time-to-critical.
func AnalyzeGrowth(chain *AnomalyChain, years []int, cfg EngineConfig) {
	if len(chain.Anomalies) < 2 {
		chain.DepthGrowthRatePctPerYr = 0
		chain.LengthGrowthRateInPerYr = 0
		chain.WidthGrowthRateInPerYr = 0
		chain.TimeToCriticalYears = nil
		return
	}

	xs := make([]float64, len(chain.Anomalies))
	depths := make([]float64, len(chain.Anomalies))
	lengths := make([]float64, len(chain.Anomalies))
	widths := make([]float64, len(chain.Anomalies))
	for i, a := range chain.Anomalies {
		xs[i] = float64(years[chain.RunIndices[i]])
		depths[i] = a.DepthPercent
		lengths[i] = a.Length
		widths[i] = a.Width
	}

	depthSlope, _ := fitLine(xs, depths)
	lengthSlope, _ := fitLine(xs, lengths)
	widthSlope, _ := fitLine(xs, widths)

	chain.DepthGrowthRatePctPerYr = depthSlope
	chain.LengthGrowthRateInPerYr = lengthSlope
	chain.WidthGrowthRateInPerYr = widthSlope

	currentDepth := chain.Latest().DepthPercent
	switch {
	case currentDepth >= cfg.CriticalDepthPercent:
		zero := 0.0
		chain.TimeToCriticalYears = &zero
	case depthSlope > 0:
		t := (cfg.CriticalDepthPercent - currentDepth) / depthSlope
		chain.TimeToCriticalYears = &t
	default:
		chain.TimeToCriticalYears = nil
	}
}

// fitLine fits y = intercept + slope*x by ordinary least squares,
// guarding the zero-variance-in-x case with slope 0, intercept = mean(y)
// (spec.md §4.10).
func fitLine(xs, ys []float64) (slope, intercept float64) {
	same := true
	for _, x := range xs[1:] {
		if x != xs[0] {
			same = false
			break
		}
	}
	if same {
		return 0, stat.Mean(ys, nil)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta, alpha
}
