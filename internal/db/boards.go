package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

const boardColumns = `id, name, slug, ` + auditSelect

// InsertBoard inserts b and sets b.ID. The audit fields must already be stamped.
func (s *Store) InsertBoard(ctx context.Context, b *model.Board) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		args := append([]any{b.Name, b.Slug}, auditArgs(&b.Auditable)...)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO boards (name, slug, `+auditSelect+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...,
		)
		if err != nil {
			return constraintError(err, fmt.Sprintf("board %q", b.Name))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		b.ID = int(id)

		return RecordActivity(ctx, tx, b.CreatedTime, EntityBoard, b.ID, "created", "", b.Name, b.CreatedBy)
	})
}

// UpdateBoard writes every mutable column of b and records one activity row
// per changed field.
func (s *Store) UpdateBoard(ctx context.Context, b *model.Board) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getBoard(ctx, tx, b.ID)
		if err != nil {
			return err
		}

		args := append([]any{b.Name, b.Slug}, auditUpdateArgs(&b.Auditable)...)
		args = append(args, b.ID)
		if _, err := tx.ExecContext(ctx,
			`UPDATE boards SET name = ?, slug = ?, `+auditAssignments+` WHERE id = ?`,
			args...,
		); err != nil {
			return constraintError(err, fmt.Sprintf("board %q", b.Name))
		}

		return recordChanges(ctx, tx, b.ChangedTime, EntityBoard, b.ID, boardFields(old), boardFields(b), b.ChangedBy)
	})
}

// GetBoard retrieves a board by ID.
func (s *Store) GetBoard(ctx context.Context, id int) (*model.Board, error) {
	return getBoard(ctx, s.db, id)
}

// ListBoards returns boards ordered by id. Archived boards are only included
// when includeArchived is set.
func (s *Store) ListBoards(ctx context.Context, includeArchived bool) ([]*model.Board, error) {
	query := `SELECT ` + boardColumns + ` FROM boards`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying boards: %w", err)
	}
	defer rows.Close()

	var boards []*model.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning board: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating board rows: %w", err)
	}
	return boards, nil
}

func getBoard(ctx context.Context, q queryer, id int) (*model.Board, error) {
	row := q.QueryRowContext(ctx, `SELECT `+boardColumns+` FROM boards WHERE id = ?`, id)
	b, err := scanBoard(row)
	if err != nil {
		return nil, notFound(err, "board", id)
	}
	return b, nil
}

func scanBoard(sc scanner) (*model.Board, error) {
	var b model.Board
	var audit auditRow
	dest := append([]any{&b.ID, &b.Name, &b.Slug}, audit.dest()...)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	if err := audit.apply(&b.Auditable); err != nil {
		return nil, err
	}
	return &b, nil
}

// boardFields returns the fields tracked in the activity log.
func boardFields(b *model.Board) map[string]string {
	return map[string]string{
		"name":     b.Name,
		"slug":     b.Slug,
		"archived": strconv.FormatBool(b.Archived),
	}
}
