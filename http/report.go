package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// registerReportRoutes registers the class level report routes.
func (s *Server) registerReportRoutes(r chi.Router) {
	r.Get("/class", s.handleClassReport)
}

// GET "/reports/class"
//
// handleClassReport derives the class level report over the current
// snapshot. Students with invalid record sets are listed under
// failed_students rather than failing the request.
func (s *Server) handleClassReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.ReportService.ClassReport(r.Context())
	if err != nil {
		SendErr(w, r, err)
		return
	}

	if err := WriteJSON(w, report); err != nil {
		LogError(r, err)
	}
}
