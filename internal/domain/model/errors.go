package model

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoResult        = errors.New("no recorded result")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrDuplicatePlayer = errors.New("duplicate player identity")
	ErrInvalidStatus   = errors.New("invalid draft status")
	ErrInvalidFilter   = errors.New("invalid cohort filter")
	ErrBuilderSealed   = errors.New("record set already built")
	ErrNoScorer        = errors.New("player is not bound to a scorer")
)

// NoResultError reports a missing test result for a player.
type NoResultError struct {
	Player PlayerID
	Test   string
}

func (e *NoResultError) Error() string {
	return "no result for " + string(e.Player) + " on " + e.Test
}

// Is lets errors.Is match ErrNoResult.
func (e *NoResultError) Is(target error) bool { return target == ErrNoResult }

// PlayerNotFoundError reports an id absent from the record set.
type PlayerNotFoundError struct {
	Player PlayerID
}

func (e *PlayerNotFoundError) Error() string {
	return "player not found: " + string(e.Player)
}

// Is lets errors.Is match ErrPlayerNotFound.
func (e *PlayerNotFoundError) Is(target error) bool { return target == ErrPlayerNotFound }

// DuplicatePlayerError reports a second player row with the same identity.
type DuplicatePlayerError struct {
	Player PlayerID
}

func (e *DuplicatePlayerError) Error() string {
	return "duplicate player identity: " + string(e.Player)
}

// Is lets errors.Is match ErrDuplicatePlayer.
func (e *DuplicatePlayerError) Is(target error) bool { return target == ErrDuplicatePlayer }
