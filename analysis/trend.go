package analysis

import (
	"github.com/insightdash/insight"
	"github.com/insightdash/insight/stats"
)

// trendOf classifies the direction of a chronologically ordered score
// sequence. Fewer than 2 scores is a valid observable state reported as
// "Insufficient Data", never an error.
func (a *Analyzer) trendOf(subject string, scores []float64) insight.TrendResult {
	if len(scores) < 2 {
		return insight.TrendResult{Subject: subject, Label: insight.TrendInsufficientData}
	}

	slope, _, err := stats.IndexTrend(scores)
	if err != nil {
		// guarded above, the fit cannot fail on >=2 points.
		return insight.TrendResult{Subject: subject, Label: insight.TrendInsufficientData}
	}

	return insight.TrendResult{
		Subject: subject,
		Slope:   slope,
		Label:   a.cfg.trend.Classify(slope),
	}
}

// predictOf forecasts the next score from a chronologically ordered score
// sequence: a recency-weighted moving average over the last K scores
// (K = min(window, available)), clamped to [0, 100], with confidence
// derived from the dispersion of the window.
//
// With fewer than 2 scores no forecast is fabricated and nil is returned.
func (a *Analyzer) predictOf(subject string, scores []float64) *insight.PredictionResult {
	if len(scores) < 2 {
		return nil
	}

	k := a.cfg.predictionWindow
	if len(scores) < k {
		k = len(scores)
	}
	window := scores[len(scores)-k:]

	predicted, err := stats.WeightedMovingAverage(window, stats.RecencyWeights(k))
	if err != nil {
		return nil
	}

	sd, _ := stats.StdDev(window)

	return &insight.PredictionResult{
		Subject:        subject,
		PredictedScore: stats.Clamp(predicted, 0, 100),
		Confidence:     a.cfg.confidence.FromDispersion(sd),
		RecentTrend:    a.trendOf(subject, scores).Label,
	}
}

// subjectTrends derives the trend classification for every subject the
// student has assessments in.
func (a *Analyzer) subjectTrends(studentID string) map[string]insight.TrendResult {
	out := make(map[string]insight.TrendResult)
	for _, subject := range a.subjectsOf(studentID) {
		out[subject] = a.trendOf(subject, a.scores(studentID, subject))
	}
	return out
}

// subjectPredictions derives the next-score forecast for every subject
// with enough history. Subjects below the 2-score floor are omitted
// entirely.
func (a *Analyzer) subjectPredictions(studentID string) map[string]insight.PredictionResult {
	out := make(map[string]insight.PredictionResult)
	for _, subject := range a.subjectsOf(studentID) {
		if p := a.predictOf(subject, a.scores(studentID, subject)); p != nil {
			out[subject] = *p
		}
	}
	return out
}
