// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/scout/internal/adapters/source"
	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/cohort"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Player(ctx context.Context, id model.PlayerID) (*model.Player, error)
	Percentile(ctx context.Context, id model.PlayerID, test string, f model.Filter) (float64, error)
	Rankings(ctx context.Context, test string, f model.Filter, limit int) ([]cohort.Standing, error)
	Summary(ctx context.Context, test string, f model.Filter) (cohort.Summary, error)

	// Load re-parses the source files and swaps in the result.
	Load(ctx context.Context) (*source.Report, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	statsHandler       *StatsHandler
	playersHandler     *PlayersHandler
	leaderboardHandler *LeaderboardHandler
	summaryHandler     *SummaryHandler
	reloadHandler      *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		statsHandler:       NewStatsHandler(statsProvider),
		playersHandler:     NewPlayersHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		summaryHandler:     NewSummaryHandler(deps),
		reloadHandler:      NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	metricsHandler := promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})

	mux.HandleFunc("/healthz", instrument("healthz", s.statsHandler.HandleHealth))
	mux.HandleFunc("/stats", instrument("stats", s.statsHandler.HandleStats))
	mux.Handle("/metrics", metricsHandler)
	mux.HandleFunc("/players/", instrument("players", s.playersHandler.HandlePlayers))
	mux.HandleFunc("/leaderboard", instrument("leaderboard", s.leaderboardHandler.HandleGetLeaderboard))
	mux.HandleFunc("/summary", instrument("summary", s.summaryHandler.HandleGetSummary))
	mux.HandleFunc("/reload", instrument("reload", s.reloadHandler.HandleReload))
}

// instrument records request and error metrics for an endpoint. Errors are
// labelled with the envelope code written by writeError, or the status text
// for responses that bypass it.
func instrument(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		ms := float64(time.Since(start).Milliseconds())
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, ms)
		if rec.status < http.StatusBadRequest {
			return
		}

		code := rec.code
		if code == "" {
			code = strings.ReplaceAll(strings.ToLower(http.StatusText(rec.status)), " ", "_")
		}
		severity := "medium"
		if rec.status >= http.StatusInternalServerError {
			severity = "high"
		}
		metrics.RecordErrorByEndpoint(endpoint, r.Method, code)
		metrics.RecordErrorByType(code, severity)
		metrics.RecordErrorLatency("http", code, ms)
	}
}

// statusRecorder captures the status and error code of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	code   string
}

func (rw *statusRecorder) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.code = code
	}
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates upstream errors into status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrPlayerNotFound):
		return http.StatusNotFound, "player_not_found"
	case errors.Is(err, model.ErrNoResult):
		return http.StatusNotFound, "no_result"
	case errors.Is(err, catalog.ErrUnknownTest):
		return http.StatusUnprocessableEntity, "unknown_test"
	case errors.Is(err, cohort.ErrEmptyCohort):
		return http.StatusUnprocessableEntity, "empty_cohort"
	case errors.Is(err, cohort.ErrSubjectNotInCohort):
		return http.StatusUnprocessableEntity, "not_in_cohort"
	case errors.Is(err, model.ErrInvalidFilter),
		errors.Is(err, service.ErrBadLimit),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, service.ErrNotLoaded):
		return http.StatusServiceUnavailable, "not_loaded"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
