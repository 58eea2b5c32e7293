package align

import "math"

// ClassifyPriority assigns chain's regulatory priority band from the
// latest anomaly's depth, the absolute depth growth rate, and
// time-to-critical, first matching band wins (spec.md §4.11).
func ClassifyPriority(chain *AnomalyChain, cfg EngineConfig) {
	d := chain.Latest().DepthPercent
	g := math.Abs(chain.DepthGrowthRatePctPerYr)
	t := chain.TimeToCriticalYears

	p := cfg.Priority

	switch {
	case d >= p.ImmediateDepth || (t != nil && *t <= p.ImmediateTTCYears) || g >= p.ImmediateGrowth:
		chain.Priority = PriorityImmediate
	case d >= p.Day60Depth || g >= p.Day60Growth || (t != nil && *t <= p.Day60TTCYears):
		chain.Priority = Priority60Day
	case d >= p.Day180Depth || g >= p.Day180Growth:
		chain.Priority = Priority180Day
	case d >= p.ScheduledDepth || g >= p.ScheduledGrowth:
		chain.Priority = PriorityScheduled
	default:
		chain.Priority = PriorityMonitor
	}
}
