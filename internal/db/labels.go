package db

import (
	"context"
	"fmt"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// CreateLabel inserts a board label and sets l.ID. An empty colour is stored
// as the default colour.
func (s *Store) CreateLabel(ctx context.Context, l *model.Label) error {
	l.Color = model.ColorOrDefault(l.Color)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO labels (board_id, name, color) VALUES (?, ?, ?)`,
		l.BoardID, l.Name, l.Color,
	)
	if err != nil {
		return constraintError(err, fmt.Sprintf("label %q", l.Name))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	l.ID = int(id)
	return nil
}

// GetLabel retrieves a label by ID.
func (s *Store) GetLabel(ctx context.Context, id int) (*model.Label, error) {
	var l model.Label
	err := s.db.QueryRowContext(ctx,
		`SELECT id, board_id, name, color FROM labels WHERE id = ?`, id,
	).Scan(&l.ID, &l.BoardID, &l.Name, &l.Color)
	if err != nil {
		return nil, notFound(err, "label", id)
	}
	return &l, nil
}

// ListLabels returns the labels of a board, or every label when boardID is
// zero, sorted by name.
func (s *Store) ListLabels(ctx context.Context, boardID int) ([]*model.Label, error) {
	query := `SELECT id, board_id, name, color FROM labels`
	var args []any
	if boardID > 0 {
		query += ` WHERE board_id = ?`
		args = append(args, boardID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying labels: %w", err)
	}
	defer rows.Close()

	labels := make([]*model.Label, 0)
	for rows.Next() {
		var l model.Label
		if err := rows.Scan(&l.ID, &l.BoardID, &l.Name, &l.Color); err != nil {
			return nil, fmt.Errorf("scanning label: %w", err)
		}
		labels = append(labels, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating label rows: %w", err)
	}
	return labels, nil
}

// CreateTag inserts a personal tag and sets t.ID.
func (s *Store) CreateTag(ctx context.Context, t *model.Tag) error {
	t.Color = model.ColorOrDefault(t.Color)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (user_id, name, color) VALUES (?, ?, ?)`,
		t.UserID, t.Name, t.Color,
	)
	if err != nil {
		return constraintError(err, fmt.Sprintf("tag %q", t.Name))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	t.ID = int(id)
	return nil
}

// GetTag retrieves a tag by ID.
func (s *Store) GetTag(ctx context.Context, id int) (*model.Tag, error) {
	var t model.Tag
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, color FROM tags WHERE id = ?`, id,
	).Scan(&t.ID, &t.UserID, &t.Name, &t.Color)
	if err != nil {
		return nil, notFound(err, "tag", id)
	}
	return &t, nil
}

// ListTags returns the tags owned by userID, or every tag when userID is
// zero, sorted by name.
func (s *Store) ListTags(ctx context.Context, userID int) ([]*model.Tag, error) {
	query := `SELECT id, user_id, name, color FROM tags`
	var args []any
	if userID > 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}
	query += ` ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := make([]*model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rows: %w", err)
	}
	return tags, nil
}

// UpdateLabel saves the name and colour of an existing label. The board a
// label belongs to cannot change.
func (s *Store) UpdateLabel(ctx context.Context, l *model.Label) error {
	l.Color = model.ColorOrDefault(l.Color)
	res, err := s.db.ExecContext(ctx,
		`UPDATE labels SET name = ?, color = ? WHERE id = ?`,
		l.Name, l.Color, l.ID,
	)
	if err != nil {
		return constraintError(err, fmt.Sprintf("label %q", l.Name))
	}
	return expectOneRow(res, "label", l.ID)
}

// UpdateTag saves the name and colour of an existing tag. The owner of a tag
// cannot change.
func (s *Store) UpdateTag(ctx context.Context, t *model.Tag) error {
	t.Color = model.ColorOrDefault(t.Color)
	res, err := s.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ? WHERE id = ?`,
		t.Name, t.Color, t.ID,
	)
	if err != nil {
		return constraintError(err, fmt.Sprintf("tag %q", t.Name))
	}
	return expectOneRow(res, "tag", t.ID)
}
