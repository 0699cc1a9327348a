// Package ordering computes positions for containers within a board and cards
// within a container, and renumbers card siblings after a position change.
//
// Positions are derived from the sibling rows on every call; nothing is cached.
package ordering

import (
	"context"
	"fmt"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
)

// ScopeKind names the parent whose children share one position sequence.
type ScopeKind string

const (
	// ScopeBoard orders the containers of a board.
	ScopeBoard ScopeKind = "board"
	// ScopeContainer orders the cards of a container.
	ScopeContainer ScopeKind = "container"
	// ScopeUser orders the board memberships of a user.
	ScopeUser ScopeKind = "user"
)

// Scope identifies one position sequence.
type Scope struct {
	Kind ScopeKind
	ID   int
}

func (s Scope) String() string {
	return fmt.Sprintf("%s %d", s.Kind, s.ID)
}

// PositionReader reports the highest position currently used in a scope.
// ok is false when the scope has no rows yet.
type PositionReader interface {
	MaxPosition(ctx context.Context, scope Scope) (max int, ok bool, err error)
}

// Sequencer hands out the next position for a new entity in a scope.
type Sequencer struct {
	reader PositionReader
}

// NewSequencer returns a Sequencer reading positions from reader.
func NewSequencer(reader PositionReader) *Sequencer {
	return &Sequencer{reader: reader}
}

// NextPosition returns the current maximum position in scope plus one. An
// empty scope yields 1. Gaps are not filled: positions 1, 2, 5 yield 6.
func (s *Sequencer) NextPosition(ctx context.Context, scope Scope) (int, error) {
	if scope.ID <= 0 {
		return 0, domainerrors.InvalidScopef("invalid %s id %d passed in", scope.Kind, scope.ID)
	}

	highest, ok, err := s.reader.MaxPosition(ctx, scope)
	if err != nil {
		return 0, fmt.Errorf("reading max position for %s: %w", scope, err)
	}
	if !ok {
		highest = 0
	}

	return highest + 1, nil
}
