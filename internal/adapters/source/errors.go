package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMalformedRow   = errors.New("malformed row")
	ErrOrphanRecord   = errors.New("orphan test record")
	ErrMissingColumns = errors.New("missing required columns")
	ErrUnreadable     = errors.New("unreadable source")
)

// Kind classifies a row-scoped problem.
type Kind string

const (
	KindMalformedRow    Kind = "malformed_row"
	KindOrphanRecord    Kind = "orphan_record"
	KindUnknownTest     Kind = "unknown_test"
	KindDuplicatePlayer Kind = "duplicate_player"
	KindDuplicateResult Kind = "duplicate_result"
)

// Source file labels used in errors, logs and metrics.
const (
	SourcePlayers = "players"
	SourceTests   = "tests"
)

// RowError is a recovered, row-scoped parse failure. The row was skipped.
type RowError struct {
	Source string
	Line   int
	Kind   Kind
	Player model.PlayerID
	Test   string
	Err    error
}

func (e *RowError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: %s", e.Source, e.Line, e.Kind)
	if e.Player != "" {
		fmt.Fprintf(&b, " player=%q", e.Player)
	}
	if e.Test != "" {
		fmt.Fprintf(&b, " test=%q", e.Test)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *RowError) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *RowError) Is(target error) bool {
	switch e.Kind {
	case KindMalformedRow:
		return target == ErrMalformedRow
	case KindOrphanRecord:
		return target == ErrOrphanRecord
	case KindUnknownTest:
		return target == catalog.ErrUnknownTest
	case KindDuplicatePlayer:
		return target == model.ErrDuplicatePlayer
	}
	return false
}

// SchemaError is fatal: a source lacks columns needed to parse any row.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

// Is lets errors.Is match ErrMissingColumns.
func (e *SchemaError) Is(target error) bool { return target == ErrMissingColumns }
