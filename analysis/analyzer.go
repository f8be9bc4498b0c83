// Package analysis implements the insight engine: it takes an immutable
// dataset snapshot and derives per-student and class-level reports
// (aggregation, trend classification, score prediction, rule-based
// recommendations).
//
// Everything here is a pure function of the snapshot: single threaded,
// no I/O, no shared mutable state. Per-student analyses are independent,
// output ordering is made deterministic by sorting rather than relying on
// evaluation order.
package analysis

import (
	"sort"

	"github.com/insightdash/insight"
	"github.com/insightdash/insight/stats"
)

// config collects the policy constants of one analyzer. Zero values are
// filled in by defaultConfig.
type config struct {
	trend      stats.TrendThresholds
	confidence stats.ConfidenceBuckets

	// predictionWindow is the maximum number of recent scores fed into
	// the forecast.
	predictionWindow int

	weakTopicThreshold   float64
	strongTopicThreshold float64
	completionThreshold  float64
	minAssessmentMinutes float64

	// segmentFraction of the rankable students placed in each of the
	// top/bottom buckets.
	segmentFraction float64

	// standingsLimit caps the top-performer / struggling lists.
	standingsLimit int
}

func defaultConfig() config {
	return config{
		trend:                stats.DefaultTrendThresholds,
		confidence:           stats.DefaultConfidenceBuckets,
		predictionWindow:     5,
		weakTopicThreshold:   70,
		strongTopicThreshold: 85,
		completionThreshold:  0.70,
		minAssessmentMinutes: 20,
		segmentFraction:      0.25,
		standingsLimit:       5,
	}
}

// Option overrides one policy constant of an analyzer.
type Option func(*config)

// WithTrendThresholds overrides the slope cutoffs used for trend
// classification.
func WithTrendThresholds(t stats.TrendThresholds) Option {
	return func(c *config) { c.trend = t }
}

// WithConfidenceBuckets overrides the dispersion cutoffs used for
// prediction confidence.
func WithConfidenceBuckets(b stats.ConfidenceBuckets) Option {
	return func(c *config) { c.confidence = b }
}

// WithPredictionWindow overrides the number of recent scores used for
// forecasting.
func WithPredictionWindow(n int) Option {
	return func(c *config) {
		if n > 1 {
			c.predictionWindow = n
		}
	}
}

// WithTopicThresholds overrides the weak/strong topic score cutoffs.
func WithTopicThresholds(weak, strong float64) Option {
	return func(c *config) {
		c.weakTopicThreshold = weak
		c.strongTopicThreshold = strong
	}
}

// WithSegmentFraction overrides the fraction of students placed in each
// segmentation bucket.
func WithSegmentFraction(q float64) Option {
	return func(c *config) {
		if q > 0 && q <= 0.5 {
			c.segmentFraction = q
		}
	}
}

// Analyzer derives reports from one dataset snapshot. Construction
// indexes the snapshot once; the analyzer itself never mutates it and is
// safe for concurrent report generation.
type Analyzer struct {
	cfg config

	students []*insight.Student
	byID     map[string]*insight.Student

	// per-student record slices, assessments in chronological order.
	assessments map[string][]*insight.Assessment
	sessions    map[string][]*insight.StudySession
}

// NewAnalyzer builds an analyzer over ds. The dataset is not validated
// here: per-student record sets are checked lazily so that one invalid
// student fails independently instead of aborting the class run.
func NewAnalyzer(ds *insight.Dataset, opts ...Option) *Analyzer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Analyzer{
		cfg:         cfg,
		students:    make([]*insight.Student, len(ds.Students)),
		byID:        make(map[string]*insight.Student, len(ds.Students)),
		assessments: make(map[string][]*insight.Assessment),
		sessions:    make(map[string][]*insight.StudySession),
	}

	copy(a.students, ds.Students)
	sort.Slice(a.students, func(i, j int) bool { return a.students[i].ID < a.students[j].ID })
	for _, s := range a.students {
		a.byID[s.ID] = s
	}

	for _, as := range ds.Assessments {
		a.assessments[as.StudentID] = append(a.assessments[as.StudentID], as)
	}
	for _, recs := range a.assessments {
		recs := recs
		sort.SliceStable(recs, func(i, j int) bool {
			if recs[i].Seq != recs[j].Seq {
				return recs[i].Seq < recs[j].Seq
			}
			return recs[i].TakenAt.Before(recs[j].TakenAt)
		})
	}

	for _, s := range ds.Sessions {
		a.sessions[s.StudentID] = append(a.sessions[s.StudentID], s)
	}

	return a
}

// validateStudentRecords checks one student's record set against the data
// contract. Used for per-student failure isolation: the class run skips
// students failing this instead of aborting.
func (a *Analyzer) validateStudentRecords(studentID string) error {
	student, ok := a.byID[studentID]
	if !ok {
		return insight.Errorf(insight.ENOTFOUND, "student %s not in dataset", studentID)
	}
	if err := student.Validate(); err != nil {
		return err
	}

	for _, as := range a.assessments[studentID] {
		if err := as.Validate(); err != nil {
			return err
		}
	}
	for _, s := range a.sessions[studentID] {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// scores returns the chronologically ordered scores of one student,
// optionally restricted to a subject.
func (a *Analyzer) scores(studentID, subject string) []float64 {
	recs := a.assessments[studentID]
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		if subject != "" && r.Subject != subject {
			continue
		}
		out = append(out, r.Score)
	}
	return out
}

// subjectsOf returns the sorted distinct subjects a student has
// assessments in.
func (a *Analyzer) subjectsOf(studentID string) []string {
	seen := make(map[string]struct{})
	for _, r := range a.assessments[studentID] {
		seen[r.Subject] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
