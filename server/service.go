// Package server exposes the summarization pipeline over HTTP and MCP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paperdigest/batch"
	"paperdigest/store"
)

// Service wires the orchestrator and the history store to transports.
type Service struct {
	orch      *batch.Orchestrator
	store     *store.Store
	bodyLimit int64
	logger    *slog.Logger
}

// Config wires a Service.
type Config struct {
	Orchestrator *batch.Orchestrator
	Store        *store.Store
	BodyLimit    int64
	Logger       *slog.Logger
}

// New builds a Service. Store may be nil; history endpoints then report 404.
func New(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.BodyLimit == 0 {
		cfg.BodyLimit = 32 << 20
	}
	return &Service{
		orch:      cfg.Orchestrator,
		store:     cfg.Store,
		bodyLimit: cfg.BodyLimit,
		logger:    cfg.Logger.With("component", "server"),
	}
}

// RegisterHTTP registers the API routes on the chi router.
func (s *Service) RegisterHTTP(r chi.Router) {
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/api/summarize", s.handleSummarize)
	r.Get("/api/batches", s.handleListBatches)
	r.Get("/api/batches/{id}", s.handleGetBatch)
	r.Post("/api/download/txt", s.handleDownloadTxt)
	r.Post("/api/download/pdf", s.handleDownloadPDF)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
