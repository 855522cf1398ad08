package source

import (
	"errors"
	"fmt"

	"github.com/okian/scout/internal/domain/model"
)

// Warning records a non-fatal event. The only kind today is a repeated
// (player, test) result, where the later value replaced the earlier one.
type Warning struct {
	Line     int
	Kind     Kind
	Player   model.PlayerID
	Test     string
	Previous float64
	Value    float64
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %s player=%q test=%q previous=%g value=%g",
		SourceTests, w.Line, w.Kind, w.Player, w.Test, w.Previous, w.Value)
}

// Report summarizes one parse: row counts, skipped rows and warnings.
type Report struct {
	PlayerRows        int
	TestRows          int
	Players           int
	Scores            int
	DidNotParticipate int
	Errors            []*RowError
	Warnings          []Warning
}

// Err joins every row error, or returns nil for a clean parse.
func (r *Report) Err() error {
	if r == nil || len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// Clean reports whether no rows were skipped and no warnings raised.
func (r *Report) Clean() bool {
	return r == nil || (len(r.Errors) == 0 && len(r.Warnings) == 0)
}

// Count returns the number of errors or warnings of kind k.
func (r *Report) Count(k Kind) int {
	if r == nil {
		return 0
	}
	if k == KindDuplicateResult {
		return len(r.Warnings)
	}
	n := 0
	for _, e := range r.Errors {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// Duplicates returns the overwritten (player, test) results.
func (r *Report) Duplicates() []Warning {
	if r == nil {
		return nil
	}
	out := make([]Warning, len(r.Warnings))
	copy(out, r.Warnings)
	return out
}

// Orphans returns the ids referenced by test rows that had no player row.
func (r *Report) Orphans() []model.PlayerID {
	if r == nil {
		return nil
	}
	var out []model.PlayerID
	for _, e := range r.Errors {
		if e.Kind == KindOrphanRecord {
			out = append(out, e.Player)
		}
	}
	return out
}

func (r *Report) addError(e *RowError) {
	r.Errors = append(r.Errors, e)
}
