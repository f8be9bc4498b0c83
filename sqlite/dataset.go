package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/insightdash/insight"
)

var _ insight.DatasetService = (*DatasetService)(nil)

// DatasetService implements insight.DatasetService over sqlite.
type DatasetService struct {
	// db for persistance.
	db *DB
}

// NewDatasetService creates a dataset service with the provided database.
func NewDatasetService(db *DB) *DatasetService {
	return &DatasetService{db: db}
}

// SaveDataset validates ds and replaces the stored collections with it in
// one transaction.
func (s *DatasetService) SaveDataset(ctx context.Context, ds *insight.Dataset) error {
	if err := ds.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// replace semantics: each save holds the complete snapshot.
	for _, table := range []string{"study_sessions", "assessments", "students"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return err
		}
	}

	for _, student := range ds.Students {
		if err := createStudent(ctx, tx, student); err != nil {
			return err
		}
	}
	for _, assessment := range ds.Assessments {
		if err := createAssessment(ctx, tx, assessment); err != nil {
			return err
		}
	}
	for _, session := range ds.Sessions {
		if err := createSession(ctx, tx, session); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// LoadDataset returns the full stored snapshot.
func (s *DatasetService) LoadDataset(ctx context.Context) (*insight.Dataset, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	ds := &insight.Dataset{}
	if ds.Students, err = findStudents(ctx, tx, insight.StudentFilter{}); err != nil {
		return nil, err
	}
	if ds.Assessments, err = findAssessments(ctx, tx, insight.AssessmentFilter{}); err != nil {
		return nil, err
	}
	if ds.Sessions, err = findSessions(ctx, tx, insight.SessionFilter{}); err != nil {
		return nil, err
	}

	return ds, nil
}

// FindStudents returns a range of students based on the filter.
func (s *DatasetService) FindStudents(ctx context.Context, filter insight.StudentFilter) ([]*insight.Student, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return findStudents(ctx, tx, filter)
}

// FindStudentByID returns the student with the given id.
//
// returns ENOTFOUND if the student isnt found.
func (s *DatasetService) FindStudentByID(ctx context.Context, id string) (*insight.Student, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return findStudentByID(ctx, tx, id)
}

// FindAssessments returns a range of assessments based on the filter,
// ordered by (student_id, seq).
func (s *DatasetService) FindAssessments(ctx context.Context, filter insight.AssessmentFilter) ([]*insight.Assessment, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return findAssessments(ctx, tx, filter)
}

// FindSessions returns a range of study sessions based on the filter.
func (s *DatasetService) FindSessions(ctx context.Context, filter insight.SessionFilter) ([]*insight.StudySession, error) {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	return findSessions(ctx, tx, filter)
}

// DeleteStudent permanently deletes a student and, through the cascade,
// all records referencing it.
//
// returns ENOTFOUND if the student isnt found.
func (s *DatasetService) DeleteStudent(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteStudent(ctx, tx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func findStudentByID(ctx context.Context, tx *sql.Tx, id string) (*insight.Student, error) {
	students, err := findStudents(ctx, tx, insight.StudentFilter{ID: &id})
	if err != nil {
		return nil, err
	} else if len(students) == 0 {
		return nil, insight.Errorf(insight.ENOTFOUND, "student not found")
	}

	return students[0], nil
}

func findStudents(ctx context.Context, tx *sql.Tx, filter insight.StudentFilter) ([]*insight.Student, error) {
	where, args := []string{"1 = 1"}, []interface{}{}
	if v := filter.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := filter.GradeLevel; v != nil {
		where, args = append(where, "grade_level = ?"), append(args, *v)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT
			id,
			name,
			grade_level,
			study_hours_per_week,
			created_at
		FROM students
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY id`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := []*insight.Student{}
	for rows.Next() {
		var student insight.Student
		if err := rows.Scan(
			&student.ID,
			&student.Name,
			&student.GradeLevel,
			&student.StudyHoursPerWeek,
			&student.CreatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, &student)
	}

	return students, rows.Err()
}

func findAssessments(ctx context.Context, tx *sql.Tx, filter insight.AssessmentFilter) ([]*insight.Assessment, error) {
	where, args := []string{"1 = 1"}, []interface{}{}
	if v := filter.StudentID; v != nil {
		where, args = append(where, "student_id = ?"), append(args, *v)
	}
	if v := filter.Subject; v != nil {
		where, args = append(where, "subject = ?"), append(args, *v)
	}
	if v := filter.Topic; v != nil {
		where, args = append(where, "topic = ?"), append(args, *v)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT
			student_id,
			subject,
			topic,
			seq,
			taken_at,
			score,
			time_spent_minutes
		FROM assessments
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY student_id, seq`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assessments := []*insight.Assessment{}
	for rows.Next() {
		var assessment insight.Assessment
		if err := rows.Scan(
			&assessment.StudentID,
			&assessment.Subject,
			&assessment.Topic,
			&assessment.Seq,
			&assessment.TakenAt,
			&assessment.Score,
			&assessment.TimeSpentMinutes,
		); err != nil {
			return nil, err
		}
		assessments = append(assessments, &assessment)
	}

	return assessments, rows.Err()
}

func findSessions(ctx context.Context, tx *sql.Tx, filter insight.SessionFilter) ([]*insight.StudySession, error) {
	where, args := []string{"1 = 1"}, []interface{}{}
	if v := filter.StudentID; v != nil {
		where, args = append(where, "student_id = ?"), append(args, *v)
	}
	if v := filter.Subject; v != nil {
		where, args = append(where, "subject = ?"), append(args, *v)
	}
	if v := filter.Completed; v != nil {
		where, args = append(where, "completed = ?"), append(args, *v)
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT
			student_id,
			subject,
			held_at,
			duration_minutes,
			completed
		FROM study_sessions
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY student_id, held_at`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*insight.StudySession{}
	for rows.Next() {
		var session insight.StudySession
		if err := rows.Scan(
			&session.StudentID,
			&session.Subject,
			&session.HeldAt,
			&session.DurationMinutes,
			&session.Completed,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, &session)
	}

	return sessions, rows.Err()
}

func createStudent(ctx context.Context, tx *sql.Tx, student *insight.Student) error {
	if err := student.Validate(); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO students (
			id,
			name,
			grade_level,
			study_hours_per_week,
			created_at
		) VALUES (?, ?, ?, ?, ?)`,
		student.ID,
		student.Name,
		student.GradeLevel,
		student.StudyHoursPerWeek,
		student.CreatedAt,
	)
	return err
}

func createAssessment(ctx context.Context, tx *sql.Tx, assessment *insight.Assessment) error {
	if err := assessment.Validate(); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO assessments (
			student_id,
			subject,
			topic,
			seq,
			taken_at,
			score,
			time_spent_minutes
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		assessment.StudentID,
		assessment.Subject,
		assessment.Topic,
		assessment.Seq,
		assessment.TakenAt,
		assessment.Score,
		assessment.TimeSpentMinutes,
	)
	return err
}

func createSession(ctx context.Context, tx *sql.Tx, session *insight.StudySession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO study_sessions (
			student_id,
			subject,
			held_at,
			duration_minutes,
			completed
		) VALUES (?, ?, ?, ?, ?)`,
		session.StudentID,
		session.Subject,
		session.HeldAt,
		session.DurationMinutes,
		session.Completed,
	)
	return err
}

func deleteStudent(ctx context.Context, tx *sql.Tx, id string) error {
	if _, err := findStudentByID(ctx, tx, id); err != nil {
		return err
	}

	_, err := tx.ExecContext(ctx, `DELETE FROM students WHERE id = ?`, id)
	return err
}
