// Package api exposes the HTTP surface: the archive trigger, run
// history, and the thin log ingest path.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"logvault/internal/archiver"
	"logvault/pkg/logstore"
	"logvault/pkg/security"
)

// Server holds the handlers' dependencies.
type Server struct {
	Archiver *archiver.Archiver
	Logs     *logstore.Store
}

// Router builds the versioned API router. CORS and metrics middleware
// wrap this router at the app level; the ingest rate limit is applied
// here because it only covers the log write path.
func (s *Server) Router(sec security.SecConfig) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/archive/run", s.handleArchiveRun).Methods(http.MethodPost)
	v1.HandleFunc("/archive/runs", s.handleListRuns).Methods(http.MethodGet)

	rateLimit := security.RateLimitMiddleware(sec)
	v1.Handle("/logs", rateLimit(http.HandlerFunc(s.handleIngestLog))).Methods(http.MethodPost)
	v1.HandleFunc("/logs", s.handleListLogs).Methods(http.MethodGet)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
