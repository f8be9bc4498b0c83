package analysis

import (
	"context"

	"github.com/insightdash/insight"
)

var _ insight.ReportService = (*Service)(nil)

// Service adapts a dataset store and an analyzer into the
// insight.ReportService interface. Each call loads a fresh snapshot so
// reports never observe a half-refreshed store.
type Service struct {
	// data provides the record snapshot.
	data insight.DatasetService
	// opts are applied to every analyzer built by the service.
	opts []Option
}

// NewService creates a report service over the provided dataset store.
func NewService(data insight.DatasetService, opts ...Option) *Service {
	return &Service{
		data: data,
		opts: opts,
	}
}

// StudentReport derives the insight report for one student from the
// current snapshot.
func (s *Service) StudentReport(ctx context.Context, studentID string) (*insight.StudentReport, error) {
	ds, err := s.data.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	return NewAnalyzer(ds, s.opts...).StudentReport(studentID)
}

// ClassReport derives the class-level report from the current snapshot.
func (s *Service) ClassReport(ctx context.Context) (*insight.ClassReport, error) {
	ds, err := s.data.LoadDataset(ctx)
	if err != nil {
		return nil, err
	}

	return NewAnalyzer(ds, s.opts...).ClassReport()
}
