package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/insightdash/insight"
)

// registerDatasetRoutes registers the dataset refresh pub/sub endpoints.
func (s *Server) registerDatasetRoutes(r chi.Router) {
	r.Post("/refresh", s.handleRefreshDataset)
	r.Delete("/refresh/{id}", s.handleCancelTransaction)
	r.Get("/refresh/{id}", s.handleTransactionUpdates)
}

// POST "/datasets/refresh"
//
// handleRefreshDataset parses a refresh request from the request body and
// queues a transaction on the work queue with the specified request body
// data.
//
// It returns the scheduled transaction along side the transaction id.
func (s *Server) handleRefreshDataset(w http.ResponseWriter, r *http.Request) {
	var refresh insight.RefreshDataset
	if err := json.NewDecoder(r.Body).Decode(&refresh); err != nil {
		SendErr(w, r, insight.Errorf(insight.EINVALID, "decode: invalid request body"))
		return
	}

	transaction, err := s.pushTransaction(r.Context(), refresh)
	if err != nil {
		SendErr(w, r, err)
		return
	}

	if err := WriteJSON(w, transaction); err != nil {
		LogError(r, err)
	}
}
