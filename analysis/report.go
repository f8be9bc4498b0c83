package analysis

import (
	"math"
	"sort"
	"time"

	"github.com/insightdash/insight"
	"github.com/insightdash/insight/stats"
)

// StudentReport assembles the full derived record for one student:
// performance summary, weak/strong topics, per-subject trends and
// predictions, and recommendations.
//
// Returns ENOTFOUND for an unknown student and EINVALIDRECORD if the
// student's record set violates the data contract. A student with no
// assessments yet gets a report with null aggregates, that is a valid
// state, not an error.
func (a *Analyzer) StudentReport(studentID string) (*insight.StudentReport, error) {
	if err := a.validateStudentRecords(studentID); err != nil {
		return nil, err
	}

	assessments := a.assessments[studentID]
	sessions := a.sessions[studentID]
	summaries := aggregate(assessments)
	topics := allTopics(summaries)

	report := &insight.StudentReport{
		StudentID:          studentID,
		GeneratedAt:        time.Now().UTC(),
		PerformanceSummary: a.performanceSummary(studentID, assessments, sessions, summaries),
		WeakTopics:         []insight.TopicSummary{},
		StrongTopics:       []insight.TopicSummary{},
		SubjectTrends:      a.subjectTrends(studentID),
		SubjectPredictions: a.subjectPredictions(studentID),
		Recommendations: a.recommend(ruleInput{
			topics:      topics,
			assessments: assessments,
			sessions:    sessions,
		}),
	}

	// topics iterate ascending by average: weak stay ascending (most
	// severe first), strong get reversed to descending.
	for _, t := range topics {
		if t.AvgScore < a.cfg.weakTopicThreshold {
			report.WeakTopics = append(report.WeakTopics, t)
		}
		if t.AvgScore >= a.cfg.strongTopicThreshold {
			report.StrongTopics = append(report.StrongTopics, t)
		}
	}
	for i, j := 0, len(report.StrongTopics)-1; i < j; i, j = i+1, j-1 {
		report.StrongTopics[i], report.StrongTopics[j] = report.StrongTopics[j], report.StrongTopics[i]
	}

	return report, nil
}

func (a *Analyzer) performanceSummary(
	studentID string,
	assessments []*insight.Assessment,
	sessions []*insight.StudySession,
	summaries []insight.SubjectSummary,
) insight.PerformanceSummary {
	summary := insight.PerformanceSummary{
		StudentID:        studentID,
		TotalAssessments: len(assessments),
		ImprovementTrend: insight.TrendInsufficientData,
	}

	if len(assessments) > 0 {
		scores := a.scores(studentID, "")

		mean, _ := stats.Mean(scores)
		median, _ := stats.Median(scores)
		sd, _ := stats.StdDev(scores)
		summary.AverageScore = &mean
		summary.MedianScore = &median
		summary.ScoreStdDev = &sd

		summary.BestSubject, summary.WeakestSubject = bestAndWorstSubject(summaries)
		summary.ImprovementTrend = a.trendOf("", scores).Label
	}

	for _, s := range sessions {
		summary.TotalStudyTime += s.DurationMinutes
	}
	if len(sessions) > 0 {
		completed := 0
		for _, s := range sessions {
			if s.Completed {
				completed++
			}
		}
		rate := float64(completed) / float64(len(sessions)) * 100
		summary.CompletionRate = &rate
	}

	return summary
}

// ClassReport aggregates across all students. Students whose record sets
// fail validation are skipped and listed in failed_students; students
// with zero assessments are excluded from score averages and
// segmentation rather than counted as zero.
func (a *Analyzer) ClassReport() (*insight.ClassReport, error) {
	report := &insight.ClassReport{
		GeneratedAt:        time.Now().UTC(),
		TotalStudents:      len(a.students),
		TopPerformers:      []insight.StudentStanding{},
		StrugglingStudents: []insight.StudentStanding{},
		SubjectDifficulty:  []insight.SubjectDifficulty{},
	}

	// only records of students passing validation feed the class
	// aggregates, a failed student contributes nothing but its id.
	var (
		standings []insight.StudentStanding
		valid     []*insight.Assessment
		sessions  []*insight.StudySession
	)
	for _, s := range a.students {
		if err := a.validateStudentRecords(s.ID); err != nil {
			report.FailedStudents = append(report.FailedStudents, s.ID)
			continue
		}

		valid = append(valid, a.assessments[s.ID]...)
		sessions = append(sessions, a.sessions[s.ID]...)

		scores := a.scores(s.ID, "")
		if len(scores) == 0 {
			continue
		}
		avg, _ := stats.Mean(scores)
		standings = append(standings, insight.StudentStanding{StudentID: s.ID, AverageScore: avg})
	}

	if len(standings) > 0 {
		var total float64
		for _, st := range standings {
			total += st.AverageScore
		}
		avg := total / float64(len(standings))
		report.ClassAverage = &avg
	}

	// rank descending by average, ties by id for determinism.
	ranked := make([]insight.StudentStanding, len(standings))
	copy(ranked, standings)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].AverageScore != ranked[j].AverageScore {
			return ranked[i].AverageScore > ranked[j].AverageScore
		}
		return ranked[i].StudentID < ranked[j].StudentID
	})

	limit := a.cfg.standingsLimit
	if limit > len(ranked) {
		limit = len(ranked)
	}
	report.TopPerformers = append(report.TopPerformers, ranked[:limit]...)
	for i := len(ranked) - 1; i >= len(ranked)-limit; i-- {
		report.StrugglingStudents = append(report.StrugglingStudents, ranked[i])
	}

	report.TotalAssessments = len(valid)
	report.Segments = a.segment(ranked)
	report.SubjectDifficulty = subjectDifficulty(valid)
	report.Engagement = engagement(sessions)

	return report, nil
}

// segment splits the ranked standings into top and bottom buckets of
// segmentFraction each (at least one student per bucket when any are
// rankable).
func (a *Analyzer) segment(ranked []insight.StudentStanding) insight.ClassSegmentation {
	seg := insight.ClassSegmentation{
		Top:    []insight.StudentStanding{},
		Bottom: []insight.StudentStanding{},
	}
	if len(ranked) == 0 {
		return seg
	}

	k := int(math.Ceil(float64(len(ranked)) * a.cfg.segmentFraction))
	if k < 1 {
		k = 1
	}
	if k > len(ranked) {
		k = len(ranked)
	}

	seg.Top = append(seg.Top, ranked[:k]...)
	seg.Bottom = append(seg.Bottom, ranked[len(ranked)-k:]...)
	return seg
}

// subjectDifficulty aggregates all valid assessments by subject and ranks
// ascending by mean score, hardest subject first. Alphabetical
// tie-breaks keep the ranking stable.
func subjectDifficulty(assessments []*insight.Assessment) []insight.SubjectDifficulty {
	out := []insight.SubjectDifficulty{}
	for _, s := range aggregate(assessments) {
		out = append(out, insight.SubjectDifficulty{
			Subject: s.Subject,
			Mean:    s.Mean,
			StdDev:  s.StdDev,
			Count:   s.Count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean < out[j].Mean
		}
		return out[i].Subject < out[j].Subject
	})
	return out
}

// engagement summarizes session behavior across the whole class. Zero
// sessions yields zero-valued metrics, not a division by zero.
func engagement(sessions []*insight.StudySession) insight.EngagementMetrics {
	metrics := insight.EngagementMetrics{TotalSessions: len(sessions)}
	if len(sessions) == 0 {
		return metrics
	}

	completed := 0
	var duration float64
	for _, s := range sessions {
		if s.Completed {
			completed++
		}
		duration += float64(s.DurationMinutes)
	}

	metrics.CompletionRate = float64(completed) / float64(len(sessions)) * 100
	metrics.AvgSessionDuration = duration / float64(len(sessions))
	return metrics
}
