// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// PlayerID identifies one player in one draft class.
type PlayerID string

// Key derives the player identity from name and draft year, e.g.
// "John Abraham_2000". The same key is rebuilt from both source files.
func Key(name string, year int) PlayerID {
	return PlayerID(strings.TrimSpace(name) + "_" + strconv.Itoa(year))
}

// DraftStatus records the draft outcome of a player.
type DraftStatus int

const (
	// StatusUnknown means the source did not say. It is never inferred
	// from missing data.
	StatusUnknown DraftStatus = iota
	// StatusDrafted means the player was selected in the draft.
	StatusDrafted
	// StatusUndrafted means the source reports no selection.
	StatusUndrafted
)

// String returns drafted, undrafted or unknown.
func (s DraftStatus) String() string {
	switch s {
	case StatusDrafted:
		return "drafted"
	case StatusUndrafted:
		return "undrafted"
	default:
		return "unknown"
	}
}

// ParseDraftStatus parses the textual status used in data files, config and
// query strings. A blank value is StatusUnknown.
func ParseDraftStatus(s string) (DraftStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return StatusUnknown, nil
	case "unknown":
		return StatusUnknown, nil
	case "drafted", "d", "yes", "y":
		return StatusDrafted, nil
	case "undrafted", "u", "no", "n", "udfa":
		return StatusUndrafted, nil
	default:
		return StatusUnknown, fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// PlayerInfo carries the biographical fields of a player row.
type PlayerInfo struct {
	Name     string
	Position string
	Year     int
	Status   DraftStatus
	Height   float64 // inches, 0 when absent
	Weight   float64 // pounds, 0 when absent
	Team     string
	Round    int // 0 when undrafted or absent
	Pick     int
}

// Player is one draftable individual in one draft class. A Player is
// immutable once its record set is built and safe for concurrent reads.
type Player struct {
	id     PlayerID
	info   PlayerInfo
	scores map[string]float64
	set    *RecordSet
}

// ID returns the player's "Name_Year" identity.
func (p *Player) ID() PlayerID { return p.id }

// Name returns the player's name as written in the player file.
func (p *Player) Name() string { return p.info.Name }

// Position returns the listed position, e.g. "OLB".
func (p *Player) Position() string { return p.info.Position }

// DraftYear returns the draft class the player belongs to.
func (p *Player) DraftYear() int { return p.info.Year }

// Height returns the height in inches, or 0 when not recorded.
func (p *Player) Height() float64 { return p.info.Height }

// Weight returns the weight in pounds, or 0 when not recorded.
func (p *Player) Weight() float64 { return p.info.Weight }

// Team returns the drafting team, blank for undrafted players.
func (p *Player) Team() string { return p.info.Team }

// Round returns the draft round, or 0 when not drafted or not recorded.
func (p *Player) Round() int { return p.info.Round }

// Pick returns the draft pick number, or 0 when not drafted or not recorded.
func (p *Player) Pick() int { return p.info.Pick }

// Info returns a copy of the parsed biographical fields.
func (p *Player) Info() PlayerInfo { return p.info }

// WasDrafted returns the draft outcome.
func (p *Player) WasDrafted() DraftStatus { return p.info.Status }

// HasScore reports whether a result is recorded for test.
func (p *Player) HasScore(test string) bool {
	_, ok := p.scores[test]
	return ok
}

// Score returns the raw recorded result for test.
func (p *Player) Score(test string) (float64, error) {
	v, ok := p.scores[test]
	if !ok {
		return 0, &NoResultError{Player: p.id, Test: test}
	}
	return v, nil
}

// Scores returns a copy of the recorded results.
func (p *Player) Scores() map[string]float64 {
	out := make(map[string]float64, len(p.scores))
	for k, v := range p.scores {
		out[k] = v
	}
	return out
}

// Tests returns the names of the recorded tests in sorted order.
func (p *Player) Tests() []string {
	names := make([]string, 0, len(p.scores))
	for name := range p.scores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Percentile ranks the player on test within the cohort described by f,
// using the record set the player was parsed into as the candidate pool.
// The cohort is always explicit; pass ClassOf(p) for the player's own class.
func (p *Player) Percentile(test string, f Filter) (float64, error) {
	if p.set == nil || p.set.scorer == nil {
		return 0, ErrNoScorer
	}
	return p.set.scorer.Percentile(p.set, p, test, f)
}
