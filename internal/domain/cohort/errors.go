package cohort

import (
	"errors"
	"fmt"

	"github.com/okian/scout/internal/domain/model"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyCohort        = errors.New("cohort too small for a percentile")
	ErrSubjectNotInCohort = errors.New("subject not in cohort")
)

// EmptyCohortError reports a cohort with fewer than two scored members.
type EmptyCohortError struct {
	Test   string
	Filter model.Filter
	Size   int
}

func (e *EmptyCohortError) Error() string {
	return fmt.Sprintf("cohort %s has %d scored member(s) for %s; need at least %d",
		e.Filter, e.Size, e.Test, minCohortSize)
}

// Is lets errors.Is match ErrEmptyCohort.
func (e *EmptyCohortError) Is(target error) bool { return target == ErrEmptyCohort }

// SubjectNotInCohortError reports a subject that fails the cohort filter or
// is not part of the record set being scored.
type SubjectNotInCohortError struct {
	Player model.PlayerID
	Filter model.Filter
}

func (e *SubjectNotInCohortError) Error() string {
	return fmt.Sprintf("player %q is not in cohort %s", e.Player, e.Filter)
}

// Is lets errors.Is match ErrSubjectNotInCohort.
func (e *SubjectNotInCohortError) Is(target error) bool { return target == ErrSubjectNotInCohort }
