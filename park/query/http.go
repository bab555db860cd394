package query

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Server serves the status endpoints of a node over HTTP.
type Server struct {
	log *slog.Logger
	srv *http.Server
}

// NewServer returns a Server answering on addr with snapshots from p. Call
// Start to begin listening.
func NewServer(addr string, p Provider, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		log: log,
		srv: &http.Server{
			Addr:         addr,
			Handler:      Routes(p),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Routes builds the HTTP routes serving snapshots from p.
func Routes(p Provider) http.Handler {
	h := &handler{p: p}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Get("/status", h.status)
	r.Get("/status/queues", h.queues)
	return r
}

// Start begins listening in the background. Listen errors other than a clean
// shutdown are logged.
func (s *Server) Start() {
	go func() {
		s.log.Info("status endpoint listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("status endpoint", "err", err)
		}
	}()
}

// Close shuts the server down, waiting for in-flight requests until ctx
// expires.
func (s *Server) Close(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

type handler struct {
	p Provider
}

func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.p.Status())
}

func (h *handler) queues(w http.ResponseWriter, r *http.Request) {
	queues := h.p.Status().Queues
	if queues == nil {
		queues = []QueueStatus{}
	}
	writeJSON(w, queues)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	_ = json.NewEncoder(w).Encode(v)
}
