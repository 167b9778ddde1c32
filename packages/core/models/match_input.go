package models

import (
	"fmt"
	"strings"
)

type MatchType string

const (
	MatchTypeSingles MatchType = "singles"
	MatchTypeDoubles MatchType = "doubles"
)

// ParseMatchType accepts the canonical names and the legacy "1v1"/"2v2" labels.
func ParseMatchType(s string) (MatchType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "singles", "1v1":
		return MatchTypeSingles, nil
	case "doubles", "2v2":
		return MatchTypeDoubles, nil
	}
	return "", fmt.Errorf("%w: unknown match type %q", ErrInvalidMatchInput, s)
}

// SetScore is the number of games each side won in one set.
type SetScore struct {
	A int `json:"a"`
	B int `json:"b"`
}

// MatchInput is either Singles or Doubles.
type MatchInput interface {
	Type() MatchType
	// Participants lists team A before team B.
	Participants() []string
	isMatchInput()
}

type Singles struct {
	A string
	B string
}

func (Singles) Type() MatchType { return MatchTypeSingles }
func (s Singles) Participants() []string { return []string{s.A, s.B} }
func (Singles) isMatchInput() {}

type Doubles struct {
	A1, A2 string
	B1, B2 string
}

func (Doubles) Type() MatchType { return MatchTypeDoubles }
func (d Doubles) Participants() []string { return []string{d.A1, d.A2, d.B1, d.B2} }
func (Doubles) isMatchInput() {}

// NewMatchInput builds the variant for matchType from participant names given
// team A first.
func NewMatchInput(matchType MatchType, names []string) (MatchInput, error) {
	trimmed := make([]string, len(names))
	for i, name := range names {
		trimmed[i] = strings.TrimSpace(name)
		if trimmed[i] == "" {
			return nil, fmt.Errorf("%w: participant %d has no name", ErrInvalidMatchInput, i+1)
		}
	}

	seen := make(map[string]bool, len(trimmed))
	for _, name := range trimmed {
		if seen[name] {
			return nil, fmt.Errorf("%w: %s appears more than once", ErrInvalidMatchInput, name)
		}
		seen[name] = true
	}

	switch matchType {
	case MatchTypeSingles:
		if len(trimmed) != 2 {
			return nil, fmt.Errorf("%w: singles needs 2 players, got %d", ErrInvalidMatchInput, len(trimmed))
		}
		return Singles{A: trimmed[0], B: trimmed[1]}, nil
	case MatchTypeDoubles:
		if len(trimmed) != 4 {
			return nil, fmt.Errorf("%w: doubles needs 4 players, got %d", ErrInvalidMatchInput, len(trimmed))
		}
		return Doubles{A1: trimmed[0], A2: trimmed[1], B1: trimmed[2], B2: trimmed[3]}, nil
	}
	return nil, fmt.Errorf("%w: unknown match type %q", ErrInvalidMatchInput, matchType)
}

// MatchRecord is the wire form of a history entry, used by the match
// endpoints and by import/export.
type MatchRecord struct {
	Type    MatchType `json:"type" binding:"required"`
	Players []string  `json:"players" binding:"required"`
	Sets    string    `json:"sets" binding:"required"`
}

// Input validates the record's type and participants.
func (r MatchRecord) Input() (MatchInput, error) {
	matchType, err := ParseMatchType(string(r.Type))
	if err != nil {
		return nil, err
	}
	return NewMatchInput(matchType, r.Players)
}
