package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/insightdash/insight"
)

// Server represents an http server which exposes the injected services
// over http.
//
// It is used to provide an abstraction from the net/http package when
// running the http server.
type Server struct {
	server   *http.Server
	router   *chi.Mux
	upgrader *websocket.Upgrader

	// The URL address of the server.
	Addr string
	// The URL address of the frontend server. Empty allows any origin.
	FrontendURL string

	// Services exposed via http.
	WorkQueue      insight.WorkQueue
	DatasetService insight.DatasetService
	ReportService  insight.ReportService

	// keep track of transaction contexts.
	transactionMu      sync.Mutex
	cancelTransactions map[string]context.CancelFunc

	closed atomic.Bool
}

// NewServer creates a new server instance.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{},
		router: chi.NewRouter(),
		upgrader: &websocket.Upgrader{
			HandshakeTimeout: 3 * time.Second,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
		cancelTransactions: make(map[string]context.CancelFunc),
	}

	// common middleware.
	s.router.Use(chimw.Logger)
	s.router.Use(chimw.SetHeader("Content-Type", "application/json"))
	s.router.Use(cors.Handler(
		cors.Options{
			AllowOriginFunc: func(r *http.Request, origin string) bool {
				return s.FrontendURL == "" || origin == s.FrontendURL
			},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowCredentials: true,
		},
	))

	// routes for reading transactions and cancelling them.
	s.router.Route("/transactions", func(r chi.Router) {
		s.registerTransactionRoutes(r)
	})
	// routes for listing students and reading their reports.
	s.router.Route("/students", func(r chi.Router) {
		s.registerStudentRoutes(r)
	})
	// routes for class level reports.
	s.router.Route("/reports", func(r chi.Router) {
		s.registerReportRoutes(r)
	})
	// routes for refreshing the dataset.
	s.router.Route("/datasets", func(r chi.Router) {
		s.registerDatasetRoutes(r)
	})

	s.server.Handler = s.router
	return s
}

// Listen starts listening on the provided address using the
// (*http.Server).Serve() method.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}

	return s.server.Serve(ln)
}

// Close gracefully closes the http server and closes the work queue.
//
// no-op if already closed.
func (s *Server) Close() error {
	if s.closed.CompareAndSwap(false, true) {
		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTime)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			return err
		}

		// close the work queue since the server is the only writer to
		// the work queue.
		return s.WorkQueue.Close()
	}
	return nil
}
