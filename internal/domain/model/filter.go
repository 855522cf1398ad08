package model

import (
	"fmt"
	"strings"
)

// Filter selects a cohort: a required draft year plus an optional position
// and an optional draft status. The zero Position matches any position and a
// nil Status matches any status.
type Filter struct {
	Year     int
	Position string
	Status   *DraftStatus
}

// ForYear returns a filter for a whole draft class.
func ForYear(year int) Filter {
	return Filter{Year: year}
}

// ClassOf returns the filter for the subject's own draft class.
func ClassOf(p *Player) Filter {
	return ForYear(p.DraftYear())
}

// WithPosition narrows the filter to one position.
func (f Filter) WithPosition(pos string) Filter {
	f.Position = strings.TrimSpace(pos)
	return f
}

// WithStatus narrows the filter to one draft status.
func (f Filter) WithStatus(s DraftStatus) Filter {
	f.Status = &s
	return f
}

// Validate checks that the required year is set.
func (f Filter) Validate() error {
	if f.Year <= 0 {
		return fmt.Errorf("%w: year is required", ErrInvalidFilter)
	}
	return nil
}

// Matches reports whether p belongs to the cohort. Positions compare
// case-insensitively.
func (f Filter) Matches(p *Player) bool {
	if p == nil || p.DraftYear() != f.Year {
		return false
	}
	if f.Position != "" && !strings.EqualFold(p.Position(), f.Position) {
		return false
	}
	if f.Status != nil && p.WasDrafted() != *f.Status {
		return false
	}
	return true
}

func (f Filter) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "year=%d", f.Year)
	if f.Position != "" {
		fmt.Fprintf(&b, " position=%s", f.Position)
	}
	if f.Status != nil {
		fmt.Fprintf(&b, " status=%s", *f.Status)
	}
	return b.String()
}
