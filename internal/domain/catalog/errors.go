package catalog

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownTest      = errors.New("unknown test")
	ErrInvalidDirection = errors.New("invalid test direction")
)

// UnknownTestError reports a test name missing from the catalog.
type UnknownTestError struct {
	Test string
}

func (e *UnknownTestError) Error() string {
	return "unknown test: " + e.Test
}

// Is lets errors.Is match ErrUnknownTest.
func (e *UnknownTestError) Is(target error) bool { return target == ErrUnknownTest }
