package models

import "errors"

var (
	// ErrInvalidMatchInput rejects a match that cannot be rated: unparsable
	// or zero-game set scores, wrong participant count, a player listed twice.
	ErrInvalidMatchInput = errors.New("invalid match input")
	// ErrUnknownPlayer is returned when a participant is not in the roster.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrImportFormat is returned for an import document that is not a
	// well-formed match history.
	ErrImportFormat = errors.New("invalid import format")

	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerExists      = errors.New("player already exists")
	ErrInvalidPlayerName = errors.New("invalid player name")
	ErrMatchNotFound     = errors.New("match not found")
)
