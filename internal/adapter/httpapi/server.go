package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/gunviolence-data-service/internal/dataset"
	"github.com/couchcryptid/gunviolence-data-service/internal/domain"
	"github.com/couchcryptid/gunviolence-data-service/internal/observability"
)

// Server exposes the dataset query API plus health, readiness, and
// metrics endpoints. The store arrives via AttachStore once the pipeline
// finishes; until then the data routes and readiness report 503.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	metrics    *observability.Metrics
	store      atomic.Pointer[dataset.Store]
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(addr string, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger:  logger,
		metrics: metrics,
	}

	mux.HandleFunc("GET /api/incidents", s.handleIncidents)
	mux.HandleFunc("GET /api/incidents/years", s.handleYears)
	mux.HandleFunc("GET /api/statelaws", s.handleStateLaws)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// AttachStore publishes the loaded dataset. The server reports ready and
// serves data as soon as this returns; handlers read the store without
// locking because it is immutable.
func (s *Server) AttachStore(store *dataset.Store) {
	s.store.Store(store)
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type incidentsResponse struct {
	domain.QueryResult
	MinYear int `json:"min_year"`
	MaxYear int `json:"max_year"`
}

func (s *Server) handleIncidents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.metrics.QueryRequests.Inc()

	store := s.store.Load()
	if store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("dataset not loaded yet"))
		return
	}

	minYear, maxYear, _ := store.YearBounds()
	years := domain.YearRange{Min: minYear, Max: maxYear}

	q := r.URL.Query()
	var err error
	if years.Min, err = intParam(q, "min_year", years.Min); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if years.Max, err = intParam(q, "max_year", years.Max); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	sizeMetric := domain.Metric(q.Get("size_metric"))
	if sizeMetric == "" {
		sizeMetric = domain.MetricTotalVictims
	}
	colorMetric := domain.Metric(q.Get("color_metric"))
	if colorMetric == "" {
		colorMetric = domain.MetricVictimsKilled
	}

	result, err := domain.Filter(store.Incidents(), years, sizeMetric, colorMetric)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, incidentsResponse{
		QueryResult: result,
		MinYear:     years.Min,
		MaxYear:     years.Max,
	})
	s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
}

type yearsResponse struct {
	MinYear *int `json:"min_year"`
	MaxYear *int `json:"max_year"`
}

func (s *Server) handleYears(w http.ResponseWriter, _ *http.Request) {
	store := s.store.Load()
	if store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("dataset not loaded yet"))
		return
	}

	var resp yearsResponse
	if minYear, maxYear, ok := store.YearBounds(); ok {
		resp.MinYear = &minYear
		resp.MaxYear = &maxYear
	}
	writeJSON(w, http.StatusOK, resp)
}

type stateLawsResponse struct {
	States []domain.StateLawRecord `json:"states"`
	Count  int                     `json:"count"`
}

func (s *Server) handleStateLaws(w http.ResponseWriter, _ *http.Request) {
	store := s.store.Load()
	if store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("dataset not loaded yet"))
		return
	}

	laws := store.StateLaws()
	if laws == nil {
		laws = []domain.StateLawRecord{}
	}
	writeJSON(w, http.StatusOK, stateLawsResponse{States: laws, Count: len(laws)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if s.store.Load() == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "dataset not loaded yet",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
