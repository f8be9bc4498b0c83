package analysis

import (
	"context"
	"testing"

	"github.com/insightdash/insight"
)

type snapshotStore struct {
	insight.DatasetService

	ds    *insight.Dataset
	err   error
	loads int
}

func (s *snapshotStore) LoadDataset(ctx context.Context) (*insight.Dataset, error) {
	s.loads++
	return s.ds, s.err
}

func TestServiceStudentReport(t *testing.T) {
	store := &snapshotStore{ds: dataset(
		[]*insight.Student{student("STU001")},
		scoresFor("STU001", "Mathematics", 80, 90),
		nil,
	)}
	s := NewService(store)

	report, err := s.StudentReport(context.Background(), "STU001")
	if err != nil {
		t.Fatalf("StudentReport: %v", err)
	}
	if report.StudentID != "STU001" {
		t.Errorf("report = %+v", report)
	}
	if report.PerformanceSummary.AverageScore == nil || *report.PerformanceSummary.AverageScore != 85 {
		t.Errorf("average = %v, want 85", report.PerformanceSummary.AverageScore)
	}
}

// Each report loads a fresh snapshot, the service holds no cached state.
func TestServiceLoadsPerCall(t *testing.T) {
	store := &snapshotStore{ds: dataset([]*insight.Student{student("STU001")}, nil, nil)}
	s := NewService(store)

	ctx := context.Background()
	if _, err := s.ClassReport(ctx); err != nil {
		t.Fatalf("ClassReport: %v", err)
	}
	if _, err := s.ClassReport(ctx); err != nil {
		t.Fatalf("ClassReport: %v", err)
	}
	if store.loads != 2 {
		t.Errorf("loads = %d, want 2", store.loads)
	}
}

func TestServicePropagatesStoreError(t *testing.T) {
	store := &snapshotStore{err: insight.Errorf(insight.EINTERNAL, "disk on fire")}
	s := NewService(store)

	if _, err := s.StudentReport(context.Background(), "STU001"); insight.ErrorCode(err) != insight.EINTERNAL {
		t.Errorf("error code = %s, want EINTERNAL", insight.ErrorCode(err))
	}
}

// Options flow from the service into every analyzer it builds.
func TestServiceAppliesOptions(t *testing.T) {
	store := &snapshotStore{ds: dataset(
		[]*insight.Student{student("STU001")},
		scoresFor("STU001", "Mathematics", 75),
		nil,
	)}
	s := NewService(store, WithTopicThresholds(80, 90))

	report, err := s.StudentReport(context.Background(), "STU001")
	if err != nil {
		t.Fatalf("StudentReport: %v", err)
	}
	if len(report.WeakTopics) != 1 {
		t.Errorf("weak topics = %+v, want the 75 average flagged under the raised threshold", report.WeakTopics)
	}
}
