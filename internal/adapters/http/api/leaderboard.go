package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/scout/internal/domain/cohort"
	"github.com/okian/scout/internal/domain/model"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Rankings(ctx context.Context, test string, f model.Filter, limit int) ([]cohort.Standing, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps     LeaderboardDependencies
	maxLimit int
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies, maxLimit int) *LeaderboardHandler {
	return &LeaderboardHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

type entryResponse struct {
	Rank       int     `json:"rank"`
	Player     string  `json:"player"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Score      float64 `json:"score"`
	Percentile float64 `json:"percentile"`
}

type leaderboardResponse struct {
	Test    string          `json:"test"`
	Filter  filterJSON      `json:"filter"`
	Entries []entryResponse `json:"entries"`
}

// HandleGetLeaderboard handles GET /leaderboard?test=&year=&limit=N requests.
// A missing limit means the configured maximum.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	n := h.maxLimit
	if limitStr := q.Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: invalid limit %q", ErrBadRequest, limitStr))
			return
		}
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: max %d", ErrLimitExceeded, h.maxLimit))
		return
	}
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
	standings, err := h.deps.Rankings(r.Context(), test, f, n)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	entries := make([]entryResponse, len(standings))
	for i, s := range standings {
		entries[i] = entryResponse{
			Rank:       s.Rank,
			Player:     string(s.Player.ID()),
			Name:       s.Player.Name(),
			Position:   s.Player.Position(),
			Score:      s.Score,
			Percentile: s.Percentile,
		}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Test: test, Filter: toFilterJSON(f), Entries: entries})
}
