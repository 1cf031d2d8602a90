package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"reefmetrics/adapters/postgres"
	"reefmetrics/domain/core"
	"reefmetrics/internal"
)

// ResultStore is the read surface the API serves; *postgres.Store satisfies
// it.
type ResultStore interface {
	ListRuns(ctx context.Context) ([]postgres.RunRecord, error)
	LedgerRows(ctx context.Context, runID string, scenarioID int) ([]postgres.LedgerRow, error)
}

// Server exposes stored runs and cost ledgers as a read-only JSON API for
// the economics reporting side.
type Server struct {
	store  ResultStore
	log    *internal.Logger
	router chi.Router
}

// NewServer builds the router over a result store.
func NewServer(store ResultStore, log *internal.Logger) *Server {
	s := &Server{store: store, log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	r.Get("/runs", s.handleListRuns)
	r.Get("/runs/{runID}/ledger", s.handleLedger)

	s.router = r
	return s
}

// Handler returns the http handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until the listener fails.
func (s *Server) Start(addr string) error {
	s.log.Info("results API listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"runs": runs})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	scenario := -1
	if v := r.URL.Query().Get("scenario"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err)
			return
		}
		scenario = n
	}

	rows, err := s.store.LedgerRows(r.Context(), runID, scenario)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, core.ErrNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"run_id": runID, "rows": rows})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Error("api: %v", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
