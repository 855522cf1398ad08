package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/scout/internal/domain/model"
)

// PlayerDependencies defines the interface for player lookups.
type PlayerDependencies interface {
	Player(ctx context.Context, id model.PlayerID) (*model.Player, error)
	Percentile(ctx context.Context, id model.PlayerID, test string, f model.Filter) (float64, error)
}

// PlayersHandler serves /players/{id} and /players/{id}/percentile.
type PlayersHandler struct {
	deps PlayerDependencies
	rank *RankHandler
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps, rank: NewRankHandler(deps)}
}

type playerResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Position string             `json:"position"`
	Year     int                `json:"year"`
	Status   string             `json:"status"`
	Height   float64            `json:"height,omitempty"`
	Weight   float64            `json:"weight,omitempty"`
	Team     string             `json:"team,omitempty"`
	Round    int                `json:"round,omitempty"`
	Pick     int                `json:"pick,omitempty"`
	Scores   map[string]float64 `json:"scores"`
}

func toPlayerResponse(p *model.Player) playerResponse {
	return playerResponse{
		ID:       string(p.ID()),
		Name:     p.Name(),
		Position: p.Position(),
		Year:     p.DraftYear(),
		Status:   p.WasDrafted().String(),
		Height:   p.Height(),
		Weight:   p.Weight(),
		Team:     p.Team(),
		Round:    p.Round(),
		Pick:     p.Pick(),
		Scores:   p.Scores(),
	}
}

// HandlePlayers dispatches on the path below /players/.
func (h *PlayersHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	if id, ok := strings.CutSuffix(path, "/percentile"); ok {
		h.rank.HandleGetPercentile(w, r, model.PlayerID(id))
		return
	}
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	p, err := h.deps.Player(r.Context(), model.PlayerID(path))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlayerResponse(p))
}
