package api

import (
	"context"
	"net/http"

	"github.com/okian/scout/internal/domain/cohort"
	"github.com/okian/scout/internal/domain/model"
)

// SummaryDependencies defines the interface for cohort summaries.
type SummaryDependencies interface {
	Summary(ctx context.Context, test string, f model.Filter) (cohort.Summary, error)
}

// SummaryHandler handles summary requests.
type SummaryHandler struct {
	deps SummaryDependencies
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(deps SummaryDependencies) *SummaryHandler {
	return &SummaryHandler{deps: deps}
}

type summaryResponse struct {
	Test      string     `json:"test"`
	Direction string     `json:"direction"`
	Filter    filterJSON `json:"filter"`
	Count     int        `json:"count"`
	Missing   int        `json:"missing"`
	Min       *float64   `json:"min,omitempty"`
	Max       *float64   `json:"max,omitempty"`
	Mean      *float64   `json:"mean,omitempty"`
	Best      string     `json:"best,omitempty"`
}

// HandleGetSummary handles GET /summary?test=&year= requests.
func (h *SummaryHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	test, err := requireTest(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	f, err := parseFilter(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sum, err := h.deps.Summary(r.Context(), test, f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := summaryResponse{
		Test:      sum.Test,
		Direction: sum.Direction.String(),
		Filter:    toFilterJSON(sum.Filter),
		Count:     sum.Count,
		Missing:   sum.Missing,
		Best:      string(sum.Best),
	}
	// Empty cohorts have no distribution.
	if sum.Count > 0 {
		resp.Min, resp.Max, resp.Mean = &sum.Min, &sum.Max, &sum.Mean
	}
	writeJSON(w, http.StatusOK, resp)
}
