package service

import "errors"

// Sentinel error kinds for the service.
var (
	ErrNotLoaded  = errors.New("no record set loaded")
	ErrNotStarted = errors.New("service not started")
	ErrBadLimit   = errors.New("limit must be positive")
)
