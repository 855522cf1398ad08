package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/scout/internal/domain/model"
)

// filterJSON is the wire shape of a cohort filter.
type filterJSON struct {
	Year     int    `json:"year"`
	Position string `json:"position,omitempty"`
	Status   string `json:"status,omitempty"`
}

func toFilterJSON(f model.Filter) filterJSON {
	out := filterJSON{Year: f.Year, Position: f.Position}
	if f.Status != nil {
		out.Status = f.Status.String()
	}
	return out
}

// requireTest returns the test query parameter.
func requireTest(q url.Values) (string, error) {
	test := strings.TrimSpace(q.Get("test"))
	if test == "" {
		return "", fmt.Errorf("%w: missing test", ErrBadRequest)
	}
	return test, nil
}

// parseFilter reads year (required), position and status.
func parseFilter(q url.Values) (model.Filter, error) {
	raw := strings.TrimSpace(q.Get("year"))
	if raw == "" {
		return model.Filter{}, fmt.Errorf("%w: missing year", ErrBadRequest)
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return model.Filter{}, fmt.Errorf("%w: invalid year %q", ErrBadRequest, raw)
	}
	f := model.ForYear(year)
	if pos := strings.TrimSpace(q.Get("position")); pos != "" {
		f = f.WithPosition(pos)
	}
	if raw := q.Get("status"); strings.TrimSpace(raw) != "" {
		st, err := model.ParseDraftStatus(raw)
		if err != nil {
			return model.Filter{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		f = f.WithStatus(st)
	}
	return f, nil
}
