package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

const containerColumns = `id, board_id, name, slug, position, ` + auditSelect

// InsertContainer inserts c with its label and tag links and sets c.ID.
func (s *Store) InsertContainer(ctx context.Context, c *model.Container) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		args := append([]any{c.BoardID, c.Name, c.Slug, c.Position}, auditArgs(&c.Auditable)...)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO containers (board_id, name, slug, position, `+auditSelect+`)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...,
		)
		if err != nil {
			return constraintError(err, fmt.Sprintf("container %q", c.Name))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		c.ID = int(id)

		if err := writeContainerLinks(ctx, tx, c); err != nil {
			return err
		}
		return RecordActivity(ctx, tx, c.CreatedTime, EntityContainer, c.ID, "created", "", c.Name, c.CreatedBy)
	})
}

// UpdateContainer writes every mutable column of c and records one activity
// row per changed field.
func (s *Store) UpdateContainer(ctx context.Context, c *model.Container) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		old, err := getContainer(ctx, tx, c.ID)
		if err != nil {
			return err
		}

		args := append([]any{c.BoardID, c.Name, c.Slug, c.Position}, auditUpdateArgs(&c.Auditable)...)
		args = append(args, c.ID)
		if _, err := tx.ExecContext(ctx,
			`UPDATE containers SET board_id = ?, name = ?, slug = ?, position = ?, `+auditAssignments+` WHERE id = ?`,
			args...,
		); err != nil {
			return constraintError(err, fmt.Sprintf("container %q", c.Name))
		}

		if err := writeContainerLinks(ctx, tx, c); err != nil {
			return err
		}
		return recordChanges(ctx, tx, c.ChangedTime, EntityContainer, c.ID, containerFields(old), containerFields(c), c.ChangedBy)
	})
}

// GetContainer retrieves a container by ID with its label and tag ids.
func (s *Store) GetContainer(ctx context.Context, id int) (*model.Container, error) {
	return getContainer(ctx, s.db, id)
}

// ListContainers returns the containers of a board ordered by position, then
// id. A zero boardID lists every board's containers, grouped by board.
func (s *Store) ListContainers(ctx context.Context, boardID int, includeArchived bool) ([]*model.Container, error) {
	query := `SELECT ` + containerColumns + ` FROM containers WHERE 1 = 1`
	var args []any
	if boardID > 0 {
		query += ` AND board_id = ?`
		args = append(args, boardID)
	}
	if !includeArchived {
		query += ` AND archived = 0`
	}
	query += ` ORDER BY board_id ASC, position ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying containers: %w", err)
	}

	var containers []*model.Container
	for rows.Next() {
		c, err := scanContainer(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning container: %w", err)
		}
		containers = append(containers, c)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating container rows: %w", err)
	}
	// Close before hydrating: the pool holds a single connection.
	rows.Close()

	for _, c := range containers {
		if err := hydrateContainer(ctx, s.db, c); err != nil {
			return nil, err
		}
	}
	return containers, nil
}

func getContainer(ctx context.Context, q queryer, id int) (*model.Container, error) {
	row := q.QueryRowContext(ctx, `SELECT `+containerColumns+` FROM containers WHERE id = ?`, id)
	c, err := scanContainer(row)
	if err != nil {
		return nil, notFound(err, "container", id)
	}
	if err := hydrateContainer(ctx, q, c); err != nil {
		return nil, err
	}
	return c, nil
}

func hydrateContainer(ctx context.Context, q queryer, c *model.Container) error {
	var err error
	if c.Labels, err = linkedIDs(ctx, q, ContainerLabels, c.ID); err != nil {
		return err
	}
	if c.Tags, err = linkedIDs(ctx, q, ContainerTags, c.ID); err != nil {
		return err
	}
	return nil
}

func writeContainerLinks(ctx context.Context, tx *sql.Tx, c *model.Container) error {
	if err := setLinks(ctx, tx, ContainerLabels, c.ID, c.Labels); err != nil {
		return err
	}
	return setLinks(ctx, tx, ContainerTags, c.ID, c.Tags)
}

func scanContainer(sc scanner) (*model.Container, error) {
	var c model.Container
	var audit auditRow
	dest := append([]any{&c.ID, &c.BoardID, &c.Name, &c.Slug, &c.Position}, audit.dest()...)
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}
	if err := audit.apply(&c.Auditable); err != nil {
		return nil, err
	}
	return &c, nil
}

func containerFields(c *model.Container) map[string]string {
	return map[string]string{
		"board_id": strconv.Itoa(c.BoardID),
		"name":     c.Name,
		"slug":     c.Slug,
		"position": strconv.Itoa(c.Position),
		"archived": strconv.FormatBool(c.Archived),
	}
}
