package insight

import "time"

// Assessment represents a single scored assessment taken by a student.
//
// Assessments for a given student are totally ordered by (Seq, TakenAt),
// the trend engine depends on that ordering.
type Assessment struct {
	// StudentID links to the student which took the assessment.
	StudentID string `json:"student_id"`

	// Subject the assessment belongs to, e.g. "Mathematics".
	Subject string `json:"subject"`
	// Topic within the subject, e.g. "Algebra". A topic belongs to
	// exactly one subject across the whole dataset.
	Topic string `json:"topic"`

	// Seq establishes the chronological order of the student's
	// assessments. Assigned by the data source, starts at 0.
	Seq     int       `json:"seq"`
	TakenAt time.Time `json:"taken_at"`

	// Score gained, bounded to [0, 100].
	Score float64 `json:"score"`

	// TimeSpentMinutes spent completing the assessment.
	TimeSpentMinutes int `json:"time_spent_minutes"`
}

// Validate returns EINVALIDRECORD if the assessment is malformed. Foreign
// key checks live on Dataset since they need the student collection.
func (a *Assessment) Validate() error {
	if a.StudentID == "" {
		return Errorf(EINVALIDRECORD, "assessment with empty student id")
	}
	if a.Subject == "" || a.Topic == "" {
		return Errorf(EINVALIDRECORD, "assessment for student %s: empty subject or topic", a.StudentID)
	}
	if a.Score < 0 || a.Score > 100 {
		return Errorf(EINVALIDRECORD, "assessment for student %s (%s/%s seq=%d): score %v out of [0,100]",
			a.StudentID, a.Subject, a.Topic, a.Seq, a.Score)
	}
	if a.TimeSpentMinutes < 0 {
		return Errorf(EINVALIDRECORD, "assessment for student %s (%s/%s seq=%d): negative time spent",
			a.StudentID, a.Subject, a.Topic, a.Seq)
	}
	return nil
}

// AssessmentFilter represents a filter used by FindAssessments.
type AssessmentFilter struct {
	StudentID *string `json:"student_id"`
	Subject   *string `json:"subject"`
	Topic     *string `json:"topic"`
}
