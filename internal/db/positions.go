package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/ordering"
)

// maxPositionQueries maps each scope kind to the query returning the highest
// position among its rows. Archived rows are included.
var maxPositionQueries = map[ordering.ScopeKind]string{
	ordering.ScopeBoard:     `SELECT MAX(position) FROM containers WHERE board_id = ?`,
	ordering.ScopeContainer: `SELECT MAX(position) FROM cards WHERE container_id = ?`,
	ordering.ScopeUser:      `SELECT MAX(position) FROM members WHERE user_id = ?`,
}

// MaxPosition implements ordering.PositionReader.
func (s *Store) MaxPosition(ctx context.Context, scope ordering.Scope) (int, bool, error) {
	query, ok := maxPositionQueries[scope.Kind]
	if !ok {
		return 0, false, fmt.Errorf("unknown scope kind %q", scope.Kind)
	}

	var highest sql.NullInt64
	if err := s.db.QueryRowContext(ctx, query, scope.ID).Scan(&highest); err != nil {
		return 0, false, fmt.Errorf("reading max position for %s: %w", scope, err)
	}
	return int(highest.Int64), highest.Valid, nil
}

// ListCardSiblings implements ordering.SiblingLister. Archived cards are
// included and keep occupying their slot.
func (s *Store) ListCardSiblings(ctx context.Context, containerID, excludeID int) ([]*model.Card, error) {
	return s.queryCards(ctx,
		`WHERE c.container_id = ? AND c.id != ? ORDER BY c.position ASC, c.id ASC`,
		containerID, excludeID,
	)
}
