package api

import (
	"net/http"
	"time"

	service "github.com/okian/scout/internal/app"
)

// StatsProvider reports the service state behind /stats and /healthz.
type StatsProvider interface {
	GetStats() service.Stats
}

type statsResponse struct {
	Started    bool       `json:"started"`
	Loaded     bool       `json:"loaded"`
	Loads      int64      `json:"loads"`
	LoadID     string     `json:"loadID,omitempty"`
	LoadedAt   *time.Time `json:"loadedAt,omitempty"`
	Players    int        `json:"players"`
	Scores     int        `json:"scores"`
	Years      []int      `json:"years"`
	Tests      []string   `json:"tests"`
	Precision  int        `json:"precision"`
	PlayerFile string     `json:"playerFile,omitempty"`
	TestFile   string     `json:"testFile,omitempty"`

	PlayerRows        int            `json:"playerRows"`
	TestRows          int            `json:"testRows"`
	RowErrors         int            `json:"rowErrors"`
	RowErrorsByKind   map[string]int `json:"rowErrorsByKind"`
	Duplicates        int            `json:"duplicates"`
	DidNotParticipate int            `json:"didNotParticipate"`
}

func toStatsResponse(st service.Stats) statsResponse {
	out := statsResponse{
		Started:           st.Started,
		Loaded:            st.Loaded(),
		Loads:             st.Loads,
		LoadID:            st.LoadID,
		Players:           st.Players,
		Scores:            st.Scores,
		Years:             st.Years,
		Tests:             st.Tests,
		Precision:         st.Precision,
		PlayerFile:        st.PlayerFile,
		TestFile:          st.TestFile,
		PlayerRows:        st.PlayerRows,
		TestRows:          st.TestRows,
		RowErrorsByKind:   st.RowErrors,
		Duplicates:        st.Duplicates,
		DidNotParticipate: st.DidNotParticipate,
	}
	if out.Years == nil {
		out.Years = []int{}
	}
	if out.RowErrorsByKind == nil {
		out.RowErrorsByKind = map[string]int{}
	}
	for _, n := range st.RowErrors {
		out.RowErrors += n
	}
	if st.Loaded() {
		at := st.LoadedAt.UTC()
		out.LoadedAt = &at
	}
	return out
}

// StatsHandler serves the load and record set statistics.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, toStatsResponse(h.statsProvider.GetStats()))
}

type healthResponse struct {
	Status  string `json:"status"`
	LoadID  string `json:"loadID,omitempty"`
	Players int    `json:"players"`
}

// HandleHealth handles GET /healthz. The service is healthy once it is
// started and serving a record set; otherwise it answers 503.
func (h *StatsHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st := h.statsProvider.GetStats()
	switch {
	case !st.Started:
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "stopped"})
	case !st.Loaded():
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not_loaded"})
	default:
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok", LoadID: st.LoadID, Players: st.Players})
	}
}
