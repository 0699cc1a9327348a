package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// Entity types recorded in the activity log.
const (
	EntityBoard     = "board"
	EntityContainer = "container"
	EntityCard      = "card"
	EntityMember    = "member"

	EntityLabel          = "label"
	EntityTag            = "tag"
	EntityAttachment     = "attachment"
	EntityAttachmentType = "attachment_type"
)

// RecordActivity logs a field change on an entity.
func RecordActivity(ctx context.Context, ex execer, at time.Time, entityType string, entityID int, field, oldVal, newVal string, changedBy model.UserRef) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO activity_log (entity_type, entity_id, field_changed, old_value, new_value, changed_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entityType, entityID, field, oldVal, newVal, nilIfZero(changedBy), formatTime(at),
	)
	if err != nil {
		return fmt.Errorf("recording activity: %w", err)
	}
	return nil
}

// recordChanges writes one activity row per field whose value differs
// between before and after, in field name order.
func recordChanges(ctx context.Context, ex execer, at time.Time, entityType string, entityID int, before, after map[string]string, changedBy model.UserRef) error {
	fields := make([]string, 0, len(after))
	for field := range after {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		if before[field] == after[field] {
			continue
		}
		if err := RecordActivity(ctx, ex, at, entityType, entityID, field, before[field], after[field], changedBy); err != nil {
			return err
		}
	}
	return nil
}

// ListActivity retrieves activity log entries for an entity, most recent first.
func (s *Store) ListActivity(ctx context.Context, entityType string, entityID int, limit int) ([]model.Activity, error) {
	query := `SELECT id, entity_type, entity_id, field_changed, old_value, new_value, changed_by, created_at
	          FROM activity_log
	          WHERE entity_type = ? AND entity_id = ?
	          ORDER BY created_at DESC, id DESC`
	args := []any{entityType, entityID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	defer rows.Close()

	var activities []model.Activity
	for rows.Next() {
		var a model.Activity
		var oldVal, newVal sql.NullString
		var changedBy sql.NullInt64
		var createdAt string
		if err := rows.Scan(&a.ID, &a.EntityType, &a.EntityID, &a.FieldChanged, &oldVal, &newVal, &changedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		a.OldValue = oldVal.String
		a.NewValue = newVal.String
		a.ChangedBy = model.UserRef(changedBy.Int64)

		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing activity created_at: %w", err)
		}
		a.CreatedAt = t

		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}

	return activities, nil
}
