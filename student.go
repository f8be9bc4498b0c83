package insight

import "time"

// Student represents one enrolled student in the dataset. Students are
// immutable once generated; every assessment and study session carries a
// StudentID referencing one of these records.
type Student struct {
	// ID of the student, unique within a dataset. e.g. "STU042".
	ID string `json:"student_id"`

	Name string `json:"name"`

	// GradeLevel the student is enrolled in (9-12 in generated data).
	GradeLevel int `json:"grade_level"`

	// StudyHoursPerWeek is the self-reported weekly study commitment.
	// It drives session generation, the engine itself only reads it back
	// for presentation.
	StudyHoursPerWeek int `json:"study_hours_per_week"`

	CreatedAt time.Time `json:"created_at"`
}

// Validate returns EINVALIDRECORD if the student record is malformed.
func (s *Student) Validate() error {
	if s.ID == "" {
		return Errorf(EINVALIDRECORD, "student with empty id")
	}
	if s.GradeLevel < 0 {
		return Errorf(EINVALIDRECORD, "student %s: negative grade level", s.ID)
	}
	return nil
}

// StudentFilter represents a filter used by FindStudents.
type StudentFilter struct {
	ID         *string `json:"student_id"`
	GradeLevel *int    `json:"grade_level"`
}
