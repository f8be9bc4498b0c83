package insight

import "time"

// StudySession represents one planned study session logged by a student.
// Sessions feed the study-habit recommendation rule and the engagement
// metrics, they carry no score.
type StudySession struct {
	// StudentID links to the student which planned the session.
	StudentID string `json:"student_id"`

	Subject string    `json:"subject"`
	HeldAt  time.Time `json:"held_at"`

	DurationMinutes int `json:"duration_minutes"`

	// Completed reports whether the planned session was actually
	// finished.
	Completed bool `json:"completed"`
}

// Validate returns EINVALIDRECORD if the session is malformed.
func (s *StudySession) Validate() error {
	if s.StudentID == "" {
		return Errorf(EINVALIDRECORD, "study session with empty student id")
	}
	if s.DurationMinutes < 0 {
		return Errorf(EINVALIDRECORD, "study session for student %s: negative duration", s.StudentID)
	}
	return nil
}

// SessionFilter represents a filter used by FindSessions.
type SessionFilter struct {
	StudentID *string `json:"student_id"`
	Subject   *string `json:"subject"`
	Completed *bool   `json:"completed"`
}
