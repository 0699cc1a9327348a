package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

const memberColumns = `id, board_id, user_id, starred, position`

// InsertMember adds a user to a board and sets m.ID. A second membership of
// the same user on the same board is a conflict.
func (s *Store) InsertMember(ctx context.Context, m *model.Member, actor model.UserRef) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO members (board_id, user_id, starred, position) VALUES (?, ?, ?, ?)`,
			m.BoardID, m.UserID, m.Starred, m.Position,
		)
		if err != nil {
			return constraintError(err, fmt.Sprintf("membership of user %d on board %d", m.UserID, m.BoardID))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		m.ID = int(id)

		return RecordActivity(ctx, tx, s.now(), EntityMember, m.ID, "created", "", strconv.Itoa(m.UserID), actor)
	})
}

// UpdateMember writes the starred flag and position of m.
func (s *Store) UpdateMember(ctx context.Context, m *model.Member, actor model.UserRef) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getMember(ctx, tx, m.ID)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE members SET starred = ?, position = ? WHERE id = ?`,
			m.Starred, m.Position, m.ID,
		); err != nil {
			return fmt.Errorf("updating member: %w", err)
		}
		return recordChanges(ctx, tx, s.now(), EntityMember, m.ID, memberFields(old), memberFields(m), actor)
	})
}

// GetMember retrieves a membership by ID.
func (s *Store) GetMember(ctx context.Context, id int) (*model.Member, error) {
	return getMember(ctx, s.db, id)
}

// MemberFilter selects memberships for ListMembers. Zero fields do not filter.
type MemberFilter struct {
	BoardID int
	UserID  int
}

// ListMembers returns memberships. Filtering by user orders by the user's
// board position; otherwise rows are ordered by id.
func (s *Store) ListMembers(ctx context.Context, f MemberFilter) ([]*model.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE 1 = 1`
	var args []any
	if f.BoardID > 0 {
		query += ` AND board_id = ?`
		args = append(args, f.BoardID)
	}
	if f.UserID > 0 {
		query += ` AND user_id = ? ORDER BY position ASC, id ASC`
		args = append(args, f.UserID)
	} else {
		query += ` ORDER BY id ASC`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying members: %w", err)
	}
	defer rows.Close()

	members := make([]*model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}
	return members, nil
}

func getMember(ctx context.Context, q queryer, id int) (*model.Member, error) {
	m, err := scanMember(q.QueryRowContext(ctx, `SELECT `+memberColumns+` FROM members WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "member", id)
	}
	return m, nil
}

func scanMember(sc scanner) (*model.Member, error) {
	var m model.Member
	if err := sc.Scan(&m.ID, &m.BoardID, &m.UserID, &m.Starred, &m.Position); err != nil {
		return nil, err
	}
	return &m, nil
}

func memberFields(m *model.Member) map[string]string {
	return map[string]string{
		"starred":  strconv.FormatBool(m.Starred),
		"position": strconv.Itoa(m.Position),
	}
}
