package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// cardSelect is qualified with the c alias so it can be joined.
const cardSelect = `SELECT c.id, c.container_id, c.name, c.slug, c.content, c.start_time, c.end_time,
	c.complexity, c.hours, c.position,
	c.created_by, c.created_time, c.changed_by, c.changed_time, c.archived, c.archived_by, c.archived_time
	FROM cards c `

// InsertCard inserts c with its links and sets c.ID.
func (s *Store) InsertCard(ctx context.Context, c *model.Card) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		args := append(cardArgs(c), auditArgs(&c.Auditable)...)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO cards (container_id, name, slug, content, start_time, end_time, complexity, hours, position, `+auditSelect+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...,
		)
		if err != nil {
			return constraintError(err, fmt.Sprintf("card %q", c.Name))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		c.ID = int(id)

		if err := writeCardLinks(ctx, tx, c); err != nil {
			return err
		}
		return RecordActivity(ctx, tx, c.CreatedTime, EntityCard, c.ID, "created", "", c.Name, c.CreatedBy)
	})
}

// UpdateCard writes every mutable column of c and records one activity row
// per changed field.
func (s *Store) UpdateCard(ctx context.Context, c *model.Card) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getCard(ctx, tx, c.ID)
		if err != nil {
			return err
		}

		args := append(cardArgs(c), auditUpdateArgs(&c.Auditable)...)
		args = append(args, c.ID)
		if _, err := tx.ExecContext(ctx,
			`UPDATE cards SET container_id = ?, name = ?, slug = ?, content = ?, start_time = ?, end_time = ?,
			 complexity = ?, hours = ?, position = ?, `+auditAssignments+` WHERE id = ?`,
			args...,
		); err != nil {
			return constraintError(err, fmt.Sprintf("card %q", c.Name))
		}

		if err := writeCardLinks(ctx, tx, c); err != nil {
			return err
		}
		return recordChanges(ctx, tx, c.ChangedTime, EntityCard, c.ID, cardFields(old), cardFields(c), c.ChangedBy)
	})
}

// GetCard retrieves a card by ID with its links.
func (s *Store) GetCard(ctx context.Context, id int) (*model.Card, error) {
	return getCard(ctx, s.db, id)
}

// CardFilter selects cards for ListCards. Zero fields do not filter.
type CardFilter struct {
	ContainerID     int
	BoardID         int
	IncludeArchived bool
}

// ListCards returns cards ordered by container position, then card position, then id.
func (s *Store) ListCards(ctx context.Context, f CardFilter) ([]*model.Card, error) {
	where := `JOIN containers k ON k.id = c.container_id WHERE 1 = 1`
	var args []any
	if f.ContainerID > 0 {
		where += ` AND c.container_id = ?`
		args = append(args, f.ContainerID)
	}
	if f.BoardID > 0 {
		where += ` AND k.board_id = ?`
		args = append(args, f.BoardID)
	}
	if !f.IncludeArchived {
		where += ` AND c.archived = 0`
	}
	where += ` ORDER BY k.position ASC, k.id ASC, c.position ASC, c.id ASC`

	return s.queryCards(ctx, where, args...)
}

// queryCards runs cardSelect with the given tail and hydrates links.
func (s *Store) queryCards(ctx context.Context, tail string, args ...any) ([]*model.Card, error) {
	rows, err := s.db.QueryContext(ctx, cardSelect+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}

	cards := make([]*model.Card, 0)
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating card rows: %w", err)
	}
	// Close before hydrating: the pool holds a single connection.
	rows.Close()

	for _, c := range cards {
		if err := hydrateCard(ctx, s.db, c); err != nil {
			return nil, err
		}
	}
	return cards, nil
}

func getCard(ctx context.Context, q queryer, id int) (*model.Card, error) {
	c, err := scanCard(q.QueryRowContext(ctx, cardSelect+`WHERE c.id = ?`, id))
	if err != nil {
		return nil, notFound(err, "card", id)
	}
	if err := hydrateCard(ctx, q, c); err != nil {
		return nil, err
	}
	return c, nil
}

func hydrateCard(ctx context.Context, q queryer, c *model.Card) error {
	var err error
	if c.AssignedMembers, err = linkedIDs(ctx, q, CardMembers, c.ID); err != nil {
		return err
	}
	if c.Labels, err = linkedIDs(ctx, q, CardLabels, c.ID); err != nil {
		return err
	}
	if c.Tags, err = linkedIDs(ctx, q, CardTags, c.ID); err != nil {
		return err
	}
	if c.Attachments, err = linkedIDs(ctx, q, CardAttachments, c.ID); err != nil {
		return err
	}
	return nil
}

func writeCardLinks(ctx context.Context, tx *sql.Tx, c *model.Card) error {
	links := []struct {
		rel Relation
		ids []int
	}{
		{CardMembers, c.AssignedMembers},
		{CardLabels, c.Labels},
		{CardTags, c.Tags},
		{CardAttachments, c.Attachments},
	}
	for _, l := range links {
		if err := setLinks(ctx, tx, l.rel, c.ID, l.ids); err != nil {
			return err
		}
	}
	return nil
}

func cardArgs(c *model.Card) []any {
	return []any{
		c.ContainerID, c.Name, c.Slug, c.Content,
		formatTimePtr(c.StartTime), formatTimePtr(c.EndTime),
		c.Complexity, c.Hours, c.Position,
	}
}

func scanCard(sc scanner) (*model.Card, error) {
	var c model.Card
	var start, end sql.NullString
	var audit auditRow
	dest := append([]any{
		&c.ID, &c.ContainerID, &c.Name, &c.Slug, &c.Content, &start, &end,
		&c.Complexity, &c.Hours, &c.Position,
	}, audit.dest()...)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if c.StartTime, err = parseTimePtr(start); err != nil {
		return nil, fmt.Errorf("parsing start_time: %w", err)
	}
	if c.EndTime, err = parseTimePtr(end); err != nil {
		return nil, fmt.Errorf("parsing end_time: %w", err)
	}
	if err := audit.apply(&c.Auditable); err != nil {
		return nil, err
	}
	return &c, nil
}

func cardFields(c *model.Card) map[string]string {
	return map[string]string{
		"container_id": strconv.Itoa(c.ContainerID),
		"name":         c.Name,
		"slug":         c.Slug,
		"content":      c.Content,
		"start_time":   fmtOptTime(c.StartTime),
		"end_time":     fmtOptTime(c.EndTime),
		"complexity":   fmtDecimal(c.Complexity.Valid, c.Complexity.Decimal.String()),
		"hours":        fmtDecimal(c.Hours.Valid, c.Hours.Decimal.String()),
		"position":     strconv.Itoa(c.Position),
		"archived":     strconv.FormatBool(c.Archived),
	}
}

func fmtOptTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}

func fmtDecimal(valid bool, s string) string {
	if !valid {
		return ""
	}
	return s
}
