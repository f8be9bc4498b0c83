package insight

import (
	"context"
	"time"
)

// Trend classification labels produced by the trend engine. The slope
// thresholds behind them live in the stats package and are policy
// constants, not invariants.
const (
	TrendStrongImprovement   = "Strong Improvement"
	TrendModerateImprovement = "Moderate Improvement"
	TrendStable              = "Stable"
	TrendSlightDecline       = "Slight Decline"
	TrendNeedsAttention      = "Needs Attention"

	// TrendInsufficientData is a valid observable state, not an error:
	// fewer than two ordered scores were available.
	TrendInsufficientData = "Insufficient Data"
)

// Confidence labels derived from the dispersion of recent scores.
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Recommendation priorities, ordered High > Medium > Low.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// TopicSummary is the per (subject, topic) aggregate: average score over
// all attempts and the attempt count. Recomputed fresh each analysis run.
type TopicSummary struct {
	Subject  string  `json:"subject"`
	Topic    string  `json:"topic"`
	AvgScore float64 `json:"avg_score"`
	Attempts int     `json:"attempts"`
}

// SubjectSummary rolls a subject up over its topics. Mean is computed
// over the raw scores, so it always equals the attempt-weighted mean of
// the topic averages.
type SubjectSummary struct {
	Subject    string         `json:"subject"`
	Mean       float64        `json:"mean"`
	StdDev     float64        `json:"std"`
	Count      int            `json:"count"`
	BestTopic  string         `json:"best_topic"`
	WorstTopic string         `json:"worst_topic"`
	Topics     []TopicSummary `json:"topics"`
}

// TrendResult classifies the direction of a score sequence.
type TrendResult struct {
	Subject string  `json:"subject"`
	Slope   float64 `json:"slope"`
	Label   string  `json:"label"`
}

// PredictionResult is the forecast for a student's next score in a
// subject: a recency-weighted moving average of the last scores, with a
// qualitative confidence bucket from their dispersion.
type PredictionResult struct {
	Subject        string  `json:"subject"`
	PredictedScore float64 `json:"predicted_score"`
	Confidence     string  `json:"confidence"`
	RecentTrend    string  `json:"recent_trend"`
}

// Recommendation is one prioritized actionable item produced by the rule
// engine.
type Recommendation struct {
	Priority string `json:"priority"`
	Type     string `json:"type"`
	Message  string `json:"message"`

	// Details carries the rationale data behind the recommendation,
	// e.g. the weak topic summaries for a skill-gap item.
	Details interface{} `json:"details,omitempty"`
}

// PerformanceSummary is the headline block of a student report. Numeric
// fields are pointers so that a student without the underlying records
// reports null rather than a fabricated zero.
type PerformanceSummary struct {
	StudentID        string   `json:"student_id"`
	TotalAssessments int      `json:"total_assessments"`
	AverageScore     *float64 `json:"average_score"`
	MedianScore      *float64 `json:"median_score"`
	ScoreStdDev      *float64 `json:"score_std"`
	BestSubject      string   `json:"best_subject,omitempty"`
	WeakestSubject   string   `json:"weakest_subject,omitempty"`
	TotalStudyTime   int      `json:"total_study_minutes"`
	CompletionRate   *float64 `json:"completion_rate"`
	ImprovementTrend string   `json:"improvement_trend"`
}

// StudentReport is the full derived record for one student. It is owned
// solely by the caller after return, the engine holds no reference to it.
//
// The top-level keys (performance_summary, weak_topics, strong_topics,
// subject_predictions, recommendations) are a stable contract, downstream
// consumers key on them.
type StudentReport struct {
	StudentID          string                      `json:"student_id"`
	GeneratedAt        time.Time                   `json:"generated_at"`
	PerformanceSummary PerformanceSummary          `json:"performance_summary"`
	WeakTopics         []TopicSummary              `json:"weak_topics"`
	StrongTopics       []TopicSummary              `json:"strong_topics"`
	SubjectTrends      map[string]TrendResult      `json:"subject_trends"`
	SubjectPredictions map[string]PredictionResult `json:"subject_predictions"`
	Recommendations    []Recommendation            `json:"recommendations"`
}

// StudentStanding pairs a student with their overall average, used for
// rankings and segmentation in the class report.
type StudentStanding struct {
	StudentID    string  `json:"student_id"`
	AverageScore float64 `json:"average_score"`
}

// SubjectDifficulty is the class-wide aggregate for one subject.
type SubjectDifficulty struct {
	Subject string  `json:"subject"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std"`
	Count   int     `json:"count"`
}

// ClassSegmentation is the two-bucket split of the class by average
// score.
type ClassSegmentation struct {
	Top    []StudentStanding `json:"top"`
	Bottom []StudentStanding `json:"bottom"`
}

// EngagementMetrics summarizes study-session behavior across the class.
type EngagementMetrics struct {
	TotalSessions int `json:"total_sessions"`
	// CompletionRate in percent of attempted sessions.
	CompletionRate     float64 `json:"completion_rate"`
	AvgSessionDuration float64 `json:"avg_session_duration"`
}

// ClassReport aggregates over all students in the dataset. Students whose
// record sets fail validation are skipped and listed in FailedStudents
// rather than aborting the run; students with zero assessments are
// excluded from score averages and segmentation, not treated as zero.
type ClassReport struct {
	GeneratedAt        time.Time           `json:"generated_at"`
	TotalStudents      int                 `json:"total_students"`
	TotalAssessments   int                 `json:"total_assessments"`
	ClassAverage       *float64            `json:"class_average"`
	TopPerformers      []StudentStanding   `json:"top_performers"`
	StrugglingStudents []StudentStanding   `json:"struggling_students"`
	SubjectDifficulty  []SubjectDifficulty `json:"subject_difficulty"`
	Segments           ClassSegmentation   `json:"segments"`
	Engagement         EngagementMetrics   `json:"engagement_metrics"`
	FailedStudents     []string            `json:"failed_students,omitempty"`
}

// ReportService represents the analysis engine boundary: data in, derived
// reports out. Implementations are pure with respect to the dataset, each
// call runs over a fresh snapshot.
type ReportService interface {
	// StudentReport derives the full insight report for one student.
	// Returns ENOTFOUND if the student isnt in the dataset and
	// EINVALIDRECORD if the student's records violate the data contract.
	StudentReport(ctx context.Context, studentID string) (*StudentReport, error)

	// ClassReport derives the class-level report over all students.
	ClassReport(ctx context.Context) (*ClassReport, error)
}
