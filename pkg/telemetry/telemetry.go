// Package telemetry exposes Prometheus collectors for the archival
// pipeline and a small HTTP middleware. Everything is registered on the
// default registry and served by promhttp on /metrics.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logvault_archive_runs_started_total",
		Help: "Archival runs started (cron or HTTP trigger).",
	})
	RunsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logvault_archive_runs_failed_total",
		Help: "Archival runs that failed before any group work (fetch errors).",
	})
	RecordsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logvault_archive_records_fetched_total",
		Help: "Log records fetched from the unarchived table.",
	})
	RecordsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "logvault_archive_records_deleted_total",
		Help: "Log records confirmed deleted after upload.",
	})
	GroupsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logvault_archive_groups_total",
		Help: "Archive groups processed, by terminal status.",
	}, []string{"status"})
	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "logvault_archive_run_duration_seconds",
		Help:    "Wall-clock duration of archival runs.",
		Buckets: prometheus.DefBuckets,
	})
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logvault_http_requests_total",
		Help: "HTTP requests served, by method and status.",
	}, []string{"method", "status"})
	httpDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "logvault_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency for every handler it wraps.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(srw, r)
		httpRequests.WithLabelValues(r.Method, strconv.Itoa(srw.status)).Inc()
		httpDuration.Observe(time.Since(start).Seconds())
	})
}
