package analysis

import (
	"fmt"
	"strings"

	"github.com/insightdash/insight"
)

// Recommendation types emitted by the rule table.
const (
	RecommendationSkillGap       = "Skill Gap"
	RecommendationStudyHabits    = "Study Habits"
	RecommendationTimeInvestment = "Time Investment"
)

// ruleInput is the evaluated state one student exposes to the rule table.
type ruleInput struct {
	// topics sorted ascending by average score.
	topics      []insight.TopicSummary
	assessments []*insight.Assessment
	sessions    []*insight.StudySession
}

// rule is one independent predicate -> recommendation pair. Rules never
// see each other, adding one is a data change, not a control-flow change.
type rule struct {
	evaluate func(ruleInput) (insight.Recommendation, bool)
}

// rules returns the rule table in fixed priority order (High, Medium,
// Low). Evaluation order only affects list order, every applicable rule
// fires. A rule with a zero denominator (no sessions, no assessments) is
// skipped, not evaluated as triggered.
func (a *Analyzer) rules() []rule {
	return []rule{
		{evaluate: a.skillGapRule},
		{evaluate: a.studyHabitRule},
		{evaluate: a.timeInvestmentRule},
	}
}

// recommend runs the rule table over one student's evaluated state. No
// triggering conditions yields an empty list, not an error.
func (a *Analyzer) recommend(in ruleInput) []insight.Recommendation {
	out := []insight.Recommendation{}
	for _, r := range a.rules() {
		if rec, ok := r.evaluate(in); ok {
			out = append(out, rec)
		}
	}
	return out
}

// skillGapRule (High): fires when any topic average is below the weak
// threshold, listing the weak topics most severe first.
func (a *Analyzer) skillGapRule(in ruleInput) (insight.Recommendation, bool) {
	var weak []insight.TopicSummary
	for _, t := range in.topics {
		if t.AvgScore < a.cfg.weakTopicThreshold {
			weak = append(weak, t)
		}
	}
	if len(weak) == 0 {
		return insight.Recommendation{}, false
	}

	names := make([]string, 0, 3)
	for _, t := range weak {
		if len(names) == 3 {
			break
		}
		names = append(names, t.Topic)
	}

	return insight.Recommendation{
		Priority: insight.PriorityHigh,
		Type:     RecommendationSkillGap,
		Message:  fmt.Sprintf("Focus on improving: %s", strings.Join(names, ", ")),
		Details:  weak,
	}, true
}

// studyHabitRule (Medium): fires when the completed-session ratio falls
// below the completion threshold. Skipped entirely without sessions.
func (a *Analyzer) studyHabitRule(in ruleInput) (insight.Recommendation, bool) {
	if len(in.sessions) == 0 {
		return insight.Recommendation{}, false
	}

	completed := 0
	for _, s := range in.sessions {
		if s.Completed {
			completed++
		}
	}
	ratio := float64(completed) / float64(len(in.sessions))
	if ratio >= a.cfg.completionThreshold {
		return insight.Recommendation{}, false
	}

	return insight.Recommendation{
		Priority: insight.PriorityMedium,
		Type:     RecommendationStudyHabits,
		Message:  fmt.Sprintf("Improve study session completion rate (currently %.1f%%)", ratio*100),
		Details:  map[string]interface{}{"completion_rate": ratio, "total_sessions": len(in.sessions)},
	}, true
}

// timeInvestmentRule (Low): fires when the average time spent per
// assessment falls below the pacing floor. Skipped entirely without
// assessments.
func (a *Analyzer) timeInvestmentRule(in ruleInput) (insight.Recommendation, bool) {
	if len(in.assessments) == 0 {
		return insight.Recommendation{}, false
	}

	var total float64
	for _, as := range in.assessments {
		total += float64(as.TimeSpentMinutes)
	}
	avg := total / float64(len(in.assessments))
	if avg >= a.cfg.minAssessmentMinutes {
		return insight.Recommendation{}, false
	}

	return insight.Recommendation{
		Priority: insight.PriorityLow,
		Type:     RecommendationTimeInvestment,
		Message:  "Consider spending more time on assessments for better understanding",
		Details:  map[string]interface{}{"current_avg_minutes": avg},
	}, true
}
