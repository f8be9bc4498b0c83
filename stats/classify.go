package stats

import "github.com/insightdash/insight"

// TrendThresholds holds the slope cutoffs (per unit x, i.e. per
// assessment) behind the trend classification labels. These are policy
// constants inferred from observed score scales, not invariants; override
// them through the analysis options when the scale changes.
type TrendThresholds struct {
	// Strong is the magnitude beyond which a slope classifies as
	// "Strong Improvement" / "Needs Attention".
	Strong float64
	// Moderate is the magnitude beyond which a slope classifies as
	// "Moderate Improvement" / "Slight Decline".
	Moderate float64
}

// DefaultTrendThresholds matches a 0-100 score scale: half a point per
// assessment is noticeable, two points per assessment is steep.
var DefaultTrendThresholds = TrendThresholds{Strong: 2.0, Moderate: 0.5}

// Classify maps a slope to its trend label. Boundary values resolve to
// the lower-magnitude bucket, so an exact +2.0 is "Moderate Improvement"
// and an exact ±0.5 is "Stable".
func (t TrendThresholds) Classify(slope float64) string {
	switch {
	case slope > t.Strong:
		return insight.TrendStrongImprovement
	case slope > t.Moderate:
		return insight.TrendModerateImprovement
	case slope >= -t.Moderate:
		return insight.TrendStable
	case slope >= -t.Strong:
		return insight.TrendSlightDecline
	default:
		return insight.TrendNeedsAttention
	}
}

// ConfidenceBuckets maps score dispersion to a qualitative confidence
// label. Like the trend thresholds these are documented policy cutoffs,
// stable across runs but configurable.
type ConfidenceBuckets struct {
	// High is the exclusive stddev bound below which confidence is High.
	High float64
	// Medium is the exclusive stddev bound below which confidence is
	// Medium. At or above it confidence is Low.
	Medium float64
}

// DefaultConfidenceBuckets: stddev < 5 is High, < 12 is Medium, anything
// noisier is Low.
var DefaultConfidenceBuckets = ConfidenceBuckets{High: 5, Medium: 12}

// FromDispersion maps a standard deviation to its confidence label.
func (b ConfidenceBuckets) FromDispersion(sd float64) string {
	switch {
	case sd < b.High:
		return insight.ConfidenceHigh
	case sd < b.Medium:
		return insight.ConfidenceMedium
	default:
		return insight.ConfidenceLow
	}
}

// ConfidenceFromDispersion maps a standard deviation to a confidence
// label using the default buckets.
func ConfidenceFromDispersion(sd float64) string {
	return DefaultConfidenceBuckets.FromDispersion(sd)
}
