package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/insightdash/insight"
)

// registerStudentRoutes registers all the routes of the student surface.
func (s *Server) registerStudentRoutes(r chi.Router) {
	r.Post("/", s.handleGetStudents)
	r.Get("/{id}", s.handleGetStudent)
	r.Delete("/{id}", s.handleDeleteStudent)

	r.Get("/{id}/report", s.handleStudentReport)
}

// POST "/students"
//
// handleGetStudents parses a student filter from the request body and
// finds all students with the provided filter.
func (s *Server) handleGetStudents(w http.ResponseWriter, r *http.Request) {
	var filter insight.StudentFilter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		SendErr(w, r, insight.Errorf(insight.EINVALID, "decode: invalid request body"))
		return
	}

	students, err := s.DatasetService.FindStudents(r.Context(), filter)
	if err != nil {
		SendErr(w, r, err)
		return
	}

	if err := WriteJSON(w, students); err != nil {
		LogError(r, err)
	}
}

// GET "/students/{id}"
//
// handleGetStudent gets the student with the provided id. returns 404 if
// the student isnt found.
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	student, err := s.DatasetService.FindStudentByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		SendErr(w, r, err)
		return
	}

	if err := WriteJSON(w, student); err != nil {
		LogError(r, err)
	}
}

// DELETE "/students/{id}"
//
// handleDeleteStudent permanently deletes the student with the provided
// id and all records referencing it. returns 404 if the student isnt
// found and 204 if the delete is sucessful.
func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.DatasetService.DeleteStudent(r.Context(), chi.URLParam(r, "id")); err != nil {
		SendErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET "/students/{id}/report"
//
// handleStudentReport derives the insight report for the student with the
// provided id over the current snapshot. returns 404 if the student isnt
// found and 422 if the student's records violate the data contract.
func (s *Server) handleStudentReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.ReportService.StudentReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		SendErr(w, r, err)
		return
	}

	if err := WriteJSON(w, report); err != nil {
		LogError(r, err)
	}
}
