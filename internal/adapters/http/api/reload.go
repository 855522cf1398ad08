package api

import (
	"context"
	"net/http"

	"github.com/okian/scout/internal/adapters/source"
)

// maxReportedRows bounds the row messages echoed back by POST /reload.
const maxReportedRows = 50

// ReloadDependencies defines the interface for reloading the record set.
type ReloadDependencies interface {
	Load(ctx context.Context) (*source.Report, error)
}

// ReloadHandler handles reload requests.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

type reloadResponse struct {
	Players           int      `json:"players"`
	Scores            int      `json:"scores"`
	PlayerRows        int      `json:"player_rows"`
	TestRows          int      `json:"test_rows"`
	DidNotParticipate int      `json:"did_not_participate"`
	RowErrors         int      `json:"row_errors"`
	Duplicates        int      `json:"duplicates"`
	Messages          []string `json:"messages,omitempty"`
}

// HandleReload handles POST /reload requests.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	rep, err := h.deps.Load(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := reloadResponse{
		Players:           rep.Players,
		Scores:            rep.Scores,
		PlayerRows:        rep.PlayerRows,
		TestRows:          rep.TestRows,
		DidNotParticipate: rep.DidNotParticipate,
		RowErrors:         len(rep.Errors),
		Duplicates:        len(rep.Warnings),
	}
	for _, e := range rep.Errors {
		if len(resp.Messages) == maxReportedRows {
			break
		}
		resp.Messages = append(resp.Messages, e.Error())
	}
	for _, wn := range rep.Warnings {
		if len(resp.Messages) == maxReportedRows {
			break
		}
		resp.Messages = append(resp.Messages, wn.String())
	}
	writeJSON(w, http.StatusOK, resp)
}
