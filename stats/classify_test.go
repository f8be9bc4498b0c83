package stats_test

import (
	"testing"

	"github.com/insightdash/insight"
	"github.com/insightdash/insight/stats"
)

func TestTrendThresholdsClassify(t *testing.T) {
	thresholds := stats.DefaultTrendThresholds

	tests := []struct {
		name  string
		slope float64
		want  string
	}{
		{"steep ramp", 3.1, insight.TrendStrongImprovement},
		{"just above strong", 2.001, insight.TrendStrongImprovement},
		{"strong boundary falls to moderate", 2.0, insight.TrendModerateImprovement},
		{"moderate", 1.0, insight.TrendModerateImprovement},
		{"moderate boundary falls to stable", 0.5, insight.TrendStable},
		{"flat", 0, insight.TrendStable},
		{"negative boundary favors stable", -0.5, insight.TrendStable},
		{"slight decline", -1.2, insight.TrendSlightDecline},
		{"decline boundary falls to slight", -2.0, insight.TrendSlightDecline},
		{"needs attention", -2.5, insight.TrendNeedsAttention},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := thresholds.Classify(tt.slope); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.slope, got, tt.want)
			}
		})
	}
}

func TestConfidenceFromDispersion(t *testing.T) {
	tests := []struct {
		sd   float64
		want string
	}{
		{0, insight.ConfidenceHigh},
		{4.99, insight.ConfidenceHigh},
		{5, insight.ConfidenceMedium},
		{11.99, insight.ConfidenceMedium},
		{12, insight.ConfidenceLow},
		{40, insight.ConfidenceLow},
	}

	for _, tt := range tests {
		if got := stats.ConfidenceFromDispersion(tt.sd); got != tt.want {
			t.Errorf("ConfidenceFromDispersion(%v) = %q, want %q", tt.sd, got, tt.want)
		}
	}
}
