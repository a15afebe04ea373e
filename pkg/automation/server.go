package automation

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server exposes the automation session endpoint
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewRouter wires the automation routes
func NewRouter(h *Handlers) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.Health).Methods("GET")
	router.HandleFunc("/info", h.Info).Methods("GET")
	router.HandleFunc("/commands", h.ListCommands).Methods("GET")

	router.HandleFunc("/session", h.CreateSession).Methods("POST")
	router.HandleFunc("/session/{id}", h.DeleteSession).Methods("DELETE")
	router.HandleFunc("/session/{id}/ws", h.StreamCommands).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(router)
}

// NewServer creates a server listening on addr
func NewServer(addr string, limiter *Limiter, submitter Submitter, history History, logger *slog.Logger) *Server {
	h := NewHandlers(limiter, submitter, history, logger)
	return &Server{
		server: &http.Server{
			Addr:        addr,
			Handler:     NewRouter(h),
			ReadTimeout: 15 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		logger: logger,
	}
}

// ListenAndServe blocks until the server stops. It returns http.ErrServerClosed after Shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("Automation server listening", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and waits for handlers up to ctx's deadline
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
