package insight

import "context"

// Dataset is the complete in-memory snapshot the analysis engine runs
// over: three aligned record collections. The engine never mutates a
// dataset, each analysis run recomputes its derived values fresh.
type Dataset struct {
	Students    []*Student      `json:"students"`
	Assessments []*Assessment   `json:"assessments"`
	Sessions    []*StudySession `json:"study_sessions"`
}

// Validate checks the dataset for internal consistency: individual record
// validity, referential integrity of assessments and sessions, and the
// invariant that a topic belongs to exactly one subject.
//
// Returns EINVALIDRECORD naming the first offending record.
func (ds *Dataset) Validate() error {
	students := make(map[string]struct{}, len(ds.Students))
	for _, s := range ds.Students {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, ok := students[s.ID]; ok {
			return Errorf(EINVALIDRECORD, "duplicate student id %s", s.ID)
		}
		students[s.ID] = struct{}{}
	}

	topicSubject := make(map[string]string)
	for _, a := range ds.Assessments {
		if err := a.Validate(); err != nil {
			return err
		}
		if _, ok := students[a.StudentID]; !ok {
			return Errorf(EINVALIDRECORD, "assessment references unknown student %s", a.StudentID)
		}
		if subject, ok := topicSubject[a.Topic]; ok && subject != a.Subject {
			return Errorf(EINVALIDRECORD, "topic %s mapped to both %s and %s", a.Topic, subject, a.Subject)
		}
		topicSubject[a.Topic] = a.Subject
	}

	for _, s := range ds.Sessions {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, ok := students[s.StudentID]; !ok {
			return Errorf(EINVALIDRECORD, "study session references unknown student %s", s.StudentID)
		}
	}

	return nil
}

// DatasetService represents a store for the flat record collections.
//
// Implemented by the sqlite package. The analysis engine only ever sees
// the loaded snapshot, never the store.
type DatasetService interface {
	// SaveDataset replaces the stored collections with ds.
	SaveDataset(ctx context.Context, ds *Dataset) error

	// LoadDataset returns the full stored snapshot. An empty store
	// yields an empty dataset, not an error.
	LoadDataset(ctx context.Context) (*Dataset, error)

	// FindStudents returns a range of students based on the filter.
	FindStudents(ctx context.Context, filter StudentFilter) ([]*Student, error)

	// FindStudentByID returns the student with the given id.
	// Returns ENOTFOUND if the student isnt found.
	FindStudentByID(ctx context.Context, id string) (*Student, error)

	// FindAssessments returns a range of assessments based on the
	// filter, ordered by (student_id, seq).
	FindAssessments(ctx context.Context, filter AssessmentFilter) ([]*Assessment, error)

	// FindSessions returns a range of study sessions based on the filter.
	FindSessions(ctx context.Context, filter SessionFilter) ([]*StudySession, error)

	// DeleteStudent permanently deletes a student and all records
	// referencing it. Returns ENOTFOUND if the student isnt found.
	DeleteStudent(ctx context.Context, id string) error
}
