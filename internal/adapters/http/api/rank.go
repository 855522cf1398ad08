package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/scout/internal/domain/model"
)

// RankDependencies defines the interface for percentile operations.
type RankDependencies interface {
	Percentile(ctx context.Context, id model.PlayerID, test string, f model.Filter) (float64, error)
}

// RankHandler handles percentile requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

type percentileResponse struct {
	Player     string     `json:"player"`
	Test       string     `json:"test"`
	Filter     filterJSON `json:"filter"`
	Percentile float64    `json:"percentile"`
}

// HandleGetPercentile handles GET /players/{id}/percentile?test=&year= requests.
func (h *RankHandler) HandleGetPercentile(w http.ResponseWriter, r *http.Request, id model.PlayerID) {
	if id == "" || strings.Contains(string(id), "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
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
	v, err := h.deps.Percentile(r.Context(), id, test, f)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, percentileResponse{
		Player:     string(id),
		Test:       test,
		Filter:     toFilterJSON(f),
		Percentile: v,
	})
}
