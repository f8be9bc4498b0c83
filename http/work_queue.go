package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/insightdash/insight"
)

func (s *Server) registerTransactionRoutes(r chi.Router) {
	r.Get("/{id}", s.handleTransactionUpdates)
	r.Delete("/{id}", s.handleCancelTransaction)
}

// GET "/transactions/{id}"
//
// This is a websocket endpoint, the connection is upgraded to a websocket
// connection and updates are fed to the client. After the final status
// message "Done", "Cancelled" or "Failed" the connection is closed.
func (s *Server) handleTransactionUpdates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		SendErr(w, r, insight.Errorf(insight.EINVALID, "invalid id format"))
		return
	}

	sub, err := s.WorkQueue.Subscribe(r.Context(), id)
	if err != nil {
		SendErr(w, r, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		LogError(r, err)
		sub.Close()
		return
	}

	timer := time.NewTicker(websocketPingConnections)
	defer timer.Stop()
	defer conn.Close()
	defer sub.Close()
	for {
		select {
		case status, ok := <-sub.C():
			// subscription closed, notify peer that the connection is
			// closing.
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			sendBuf, err := json.Marshal(status)
			if err != nil {
				LogError(r, err)
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, sendBuf); err != nil {
				LogError(r, err)
				return
			}

		case <-timer.C:
			conn.SetWriteDeadline(time.Now().Add(websocketWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				LogError(r, err)
				return
			}
		}
	}
}

// DELETE "/transactions/{id}"
//
// handleCancelTransaction cancels the transaction with the provided id.
// returns 404 if the transaction isnt found and 204 if the transaction
// was cancelled.
func (s *Server) handleCancelTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		SendErr(w, r, insight.Errorf(insight.EINVALID, "invalid id format"))
		return
	}

	s.transactionMu.Lock()
	defer s.transactionMu.Unlock()
	cancel, ok := s.cancelTransactions[id]
	if !ok {
		SendErr(w, r, insight.Errorf(insight.ENOTFOUND, "transaction not found"))
		return
	}
	cancel()
	delete(s.cancelTransactions, id)
	w.WriteHeader(http.StatusNoContent)
}

// pushTransaction is a helper method to conviniently push transactions to
// the work queue.
//
// The transaction context is detached from the request so the job
// outlives the enqueueing request; the cancel endpoint is the only way to
// stop it.
//
// A transaction with a populated id field or a non nil error are
// returned.
func (s *Server) pushTransaction(ctx context.Context, data interface{}) (*insight.Transaction, error) {
	jobCtx, cancel := context.WithCancel(context.Background())
	transaction := &insight.Transaction{
		Data: data,
		Ctx:  jobCtx,
	}

	if err := s.WorkQueue.Publish(transaction); err != nil {
		cancel()
		return nil, err
	}

	s.transactionMu.Lock()
	s.cancelTransactions[transaction.ID] = cancel
	s.transactionMu.Unlock()

	return transaction, nil
}
