package analysis

import (
	"math"
	"testing"

	"github.com/insightdash/insight"
)

func TestStudentReportUnknownStudent(t *testing.T) {
	a := NewAnalyzer(dataset(nil, nil, nil))

	_, err := a.StudentReport("STU404")
	if insight.ErrorCode(err) != insight.ENOTFOUND {
		t.Errorf("error code = %s, want ENOTFOUND", insight.ErrorCode(err))
	}
}

func TestStudentReportInvalidRecords(t *testing.T) {
	bad := assessment("STU001", "Mathematics", "Algebra", 0, 200)
	a := NewAnalyzer(dataset(
		[]*insight.Student{student("STU001")},
		[]*insight.Assessment{bad},
		nil,
	))

	_, err := a.StudentReport("STU001")
	if insight.ErrorCode(err) != insight.EINVALIDRECORD {
		t.Errorf("error code = %s, want EINVALIDRECORD", insight.ErrorCode(err))
	}
}

// A known student with zero assessments is a valid state: null
// aggregates, no topics, no skill-gap recommendation.
func TestStudentReportNoAssessments(t *testing.T) {
	a := NewAnalyzer(dataset([]*insight.Student{student("STU001")}, nil, nil))

	report, err := a.StudentReport("STU001")
	if err != nil {
		t.Fatalf("StudentReport: %v", err)
	}

	ps := report.PerformanceSummary
	if ps.AverageScore != nil || ps.MedianScore != nil || ps.ScoreStdDev != nil {
		t.Errorf("expected null score aggregates, got %+v", ps)
	}
	if ps.ImprovementTrend != insight.TrendInsufficientData {
		t.Errorf("trend = %q, want %q", ps.ImprovementTrend, insight.TrendInsufficientData)
	}
	if len(report.WeakTopics) != 0 || len(report.StrongTopics) != 0 {
		t.Errorf("expected no topic lists, got weak=%v strong=%v", report.WeakTopics, report.StrongTopics)
	}
	for _, rec := range report.Recommendations {
		if rec.Type == RecommendationSkillGap {
			t.Errorf("skill gap recommendation for a student with no data: %+v", rec)
		}
	}
}

func TestStudentReportTopicOrdering(t *testing.T) {
	assessments := []*insight.Assessment{
		assessment("STU001", "Mathematics", "Algebra", 0, 55),
		assessment("STU001", "Mathematics", "Geometry", 1, 62),
		assessment("STU001", "Science", "Physics", 2, 90),
		assessment("STU001", "Science", "Biology", 3, 97),
		assessment("STU001", "English", "Writing", 4, 75),
	}
	a := NewAnalyzer(dataset([]*insight.Student{student("STU001")}, assessments, nil))

	report, err := a.StudentReport("STU001")
	if err != nil {
		t.Fatalf("StudentReport: %v", err)
	}

	// weak ascending: most severe first.
	if len(report.WeakTopics) != 2 || report.WeakTopics[0].Topic != "Algebra" || report.WeakTopics[1].Topic != "Geometry" {
		t.Errorf("weak topics = %+v", report.WeakTopics)
	}
	// strong descending: best first. 75 sits in neither list.
	if len(report.StrongTopics) != 2 || report.StrongTopics[0].Topic != "Biology" || report.StrongTopics[1].Topic != "Physics" {
		t.Errorf("strong topics = %+v", report.StrongTopics)
	}
}

func TestStudentReportSummaryAggregates(t *testing.T) {
	assessments := scoresFor("STU001", "Mathematics", 60, 70, 80)
	sessions := []*insight.StudySession{
		{StudentID: "STU001", Subject: "Mathematics", DurationMinutes: 40, Completed: true},
		{StudentID: "STU001", Subject: "Mathematics", DurationMinutes: 20, Completed: false},
	}
	a := NewAnalyzer(dataset([]*insight.Student{student("STU001")}, assessments, sessions))

	report, err := a.StudentReport("STU001")
	if err != nil {
		t.Fatalf("StudentReport: %v", err)
	}

	ps := report.PerformanceSummary
	if ps.AverageScore == nil || math.Abs(*ps.AverageScore-70) > 1e-9 {
		t.Errorf("average = %v, want 70", ps.AverageScore)
	}
	if ps.MedianScore == nil || *ps.MedianScore != 70 {
		t.Errorf("median = %v, want 70", ps.MedianScore)
	}
	if ps.TotalAssessments != 3 {
		t.Errorf("total assessments = %d, want 3", ps.TotalAssessments)
	}
	if ps.TotalStudyTime != 60 {
		t.Errorf("total study time = %d, want 60", ps.TotalStudyTime)
	}
	if ps.CompletionRate == nil || *ps.CompletionRate != 50 {
		t.Errorf("completion rate = %v, want 50", ps.CompletionRate)
	}
	if ps.BestSubject != "Mathematics" || ps.WeakestSubject != "Mathematics" {
		t.Errorf("best/worst = %q/%q", ps.BestSubject, ps.WeakestSubject)
	}
}

func TestClassReportSegmentation(t *testing.T) {
	assessments := append(
		scoresFor("STU001", "Mathematics", 95, 95),
		scoresFor("STU002", "Mathematics", 40, 40)...,
	)
	a := NewAnalyzer(dataset(
		[]*insight.Student{student("STU001"), student("STU002")},
		assessments,
		nil,
	))

	report, err := a.ClassReport()
	if err != nil {
		t.Fatalf("ClassReport: %v", err)
	}

	// class average is the mean of per-student averages.
	if report.ClassAverage == nil || math.Abs(*report.ClassAverage-67.5) > 1e-9 {
		t.Errorf("class average = %v, want 67.5", report.ClassAverage)
	}

	// ceil(2 * 0.25) = 1 per bucket.
	if len(report.Segments.Top) != 1 || report.Segments.Top[0].StudentID != "STU001" {
		t.Errorf("top segment = %+v", report.Segments.Top)
	}
	if len(report.Segments.Bottom) != 1 || report.Segments.Bottom[0].StudentID != "STU002" {
		t.Errorf("bottom segment = %+v", report.Segments.Bottom)
	}

	if len(report.TopPerformers) != 2 || report.TopPerformers[0].StudentID != "STU001" {
		t.Errorf("top performers = %+v", report.TopPerformers)
	}
	if len(report.StrugglingStudents) != 2 || report.StrugglingStudents[0].StudentID != "STU002" {
		t.Errorf("struggling students = %+v", report.StrugglingStudents)
	}
}

// One student's invalid records must not abort the class run, and none
// of their records may leak into any class aggregate.
func TestClassReportFailedStudentIsolation(t *testing.T) {
	bad := assessment("STU002", "Mathematics", "Algebra", 0, 200)
	assessments := append(scoresFor("STU001", "Mathematics", 80, 90), bad)
	sessions := []*insight.StudySession{
		{StudentID: "STU002", Subject: "Mathematics", DurationMinutes: 500, Completed: true},
	}
	a := NewAnalyzer(dataset(
		[]*insight.Student{student("STU001"), student("STU002")},
		assessments,
		sessions,
	))

	report, err := a.ClassReport()
	if err != nil {
		t.Fatalf("ClassReport: %v", err)
	}

	if len(report.FailedStudents) != 1 || report.FailedStudents[0] != "STU002" {
		t.Errorf("failed students = %v, want [STU002]", report.FailedStudents)
	}
	if report.ClassAverage == nil || *report.ClassAverage != 85 {
		t.Errorf("class average = %v, want 85 from the surviving student", report.ClassAverage)
	}
	for _, st := range report.TopPerformers {
		if st.StudentID == "STU002" {
			t.Errorf("failed student ranked: %+v", report.TopPerformers)
		}
	}

	// the out-of-range assessment and the failed student's session stay
	// out of the totals and engagement metrics.
	if report.TotalAssessments != 2 {
		t.Errorf("total assessments = %d, want 2", report.TotalAssessments)
	}
	if report.Engagement.TotalSessions != 0 || report.Engagement.AvgSessionDuration != 0 {
		t.Errorf("failed student's session counted: %+v", report.Engagement)
	}
}

// Students without assessments are excluded from averages and
// segmentation, not counted as zero.
func TestClassReportExcludesZeroAssessmentStudents(t *testing.T) {
	a := NewAnalyzer(dataset(
		[]*insight.Student{student("STU001"), student("STU002")},
		scoresFor("STU001", "Mathematics", 80),
		nil,
	))

	report, err := a.ClassReport()
	if err != nil {
		t.Fatalf("ClassReport: %v", err)
	}

	if report.TotalStudents != 2 {
		t.Errorf("total students = %d, want 2", report.TotalStudents)
	}
	if report.ClassAverage == nil || *report.ClassAverage != 80 {
		t.Errorf("class average = %v, want 80", report.ClassAverage)
	}
	if len(report.Segments.Top) != 1 || len(report.Segments.Bottom) != 1 {
		t.Errorf("segments include unrankable student: %+v", report.Segments)
	}
	if len(report.FailedStudents) != 0 {
		t.Errorf("zero assessments treated as failure: %v", report.FailedStudents)
	}
}

func TestClassReportSubjectDifficulty(t *testing.T) {
	assessments := append(
		scoresFor("STU001", "Mathematics", 50, 60),
		scoresFor("STU001", "Science", 90, 95)...,
	)
	a := NewAnalyzer(dataset([]*insight.Student{student("STU001")}, assessments, nil))

	report, err := a.ClassReport()
	if err != nil {
		t.Fatalf("ClassReport: %v", err)
	}

	if len(report.SubjectDifficulty) != 2 {
		t.Fatalf("subject difficulty = %+v", report.SubjectDifficulty)
	}
	// hardest first.
	if report.SubjectDifficulty[0].Subject != "Mathematics" || report.SubjectDifficulty[1].Subject != "Science" {
		t.Errorf("difficulty ranking = %+v", report.SubjectDifficulty)
	}
	if report.SubjectDifficulty[0].Mean != 55 {
		t.Errorf("mathematics mean = %v, want 55", report.SubjectDifficulty[0].Mean)
	}
}

func TestClassReportEmptyDataset(t *testing.T) {
	a := NewAnalyzer(dataset(nil, nil, nil))

	report, err := a.ClassReport()
	if err != nil {
		t.Fatalf("ClassReport: %v", err)
	}
	if report.ClassAverage != nil {
		t.Errorf("class average = %v, want nil", report.ClassAverage)
	}
	if report.TotalStudents != 0 || report.TotalAssessments != 0 {
		t.Errorf("totals = %d/%d, want 0/0", report.TotalStudents, report.TotalAssessments)
	}
	if report.Engagement.TotalSessions != 0 || report.Engagement.CompletionRate != 0 {
		t.Errorf("engagement = %+v, want zero values", report.Engagement)
	}
}
