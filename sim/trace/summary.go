package trace

// Summary aggregates statistics across a recording's scenarios.
type Summary struct {
	TotalScenarios      int
	TotalFrames         int
	TotalPassengers     int
	CompletedPassengers int
	MeanCompletionRate  float64
	WorstP95ArrivalWait float64
}

// Summarize computes aggregate statistics from a recording.
// Safe for nil or empty recordings (returns zero-value fields).
func Summarize(rec *Recording) *Summary {
	summary := &Summary{}
	if rec == nil {
		return summary
	}
	summary.TotalScenarios = len(rec.Scenarios)
	rateSum := 0.0
	for _, s := range rec.Scenarios {
		summary.TotalFrames += s.TotalFrames
		summary.TotalPassengers += s.FinalMetrics.TotalPassengers
		summary.CompletedPassengers += s.FinalMetrics.CompletedPassengers
		rateSum += s.FinalMetrics.CompletionRate
		if s.FinalMetrics.P95ArrivalWaitTime > summary.WorstP95ArrivalWait {
			summary.WorstP95ArrivalWait = s.FinalMetrics.P95ArrivalWaitTime
		}
	}
	if len(rec.Scenarios) > 0 {
		summary.MeanCompletionRate = rateSum / float64(len(rec.Scenarios))
	}
	return summary
}
