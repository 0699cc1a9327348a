package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// Relation is a many-to-many link table between an owner entity and a target.
type Relation struct {
	Name        string // activity field and display name
	ownerEntity string
	table       string
	ownerCol    string
	targetCol   string
}

// Link tables. The column names are constants and safe to interpolate.
var (
	ContainerLabels = Relation{Name: "label", ownerEntity: EntityContainer, table: "container_labels", ownerCol: "container_id", targetCol: "label_id"}
	ContainerTags   = Relation{Name: "tag", ownerEntity: EntityContainer, table: "container_tags", ownerCol: "container_id", targetCol: "tag_id"}
	CardMembers     = Relation{Name: "assignee", ownerEntity: EntityCard, table: "card_members", ownerCol: "card_id", targetCol: "member_id"}
	CardLabels      = Relation{Name: "label", ownerEntity: EntityCard, table: "card_labels", ownerCol: "card_id", targetCol: "label_id"}
	CardTags        = Relation{Name: "tag", ownerEntity: EntityCard, table: "card_tags", ownerCol: "card_id", targetCol: "tag_id"}
	CardAttachments = Relation{Name: "attachment", ownerEntity: EntityCard, table: "card_attachments", ownerCol: "card_id", targetCol: "attachment_id"}
)

// Link attaches targetID to ownerID. Linking twice is a no-op. Activity is
// recorded on the owner only when a row was added.
func (s *Store) Link(ctx context.Context, rel Relation, ownerID, targetID int, actor model.UserRef) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.ensureOwner(ctx, tx, rel, ownerID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s, %s) VALUES (?, ?)`, rel.table, rel.ownerCol, rel.targetCol),
			ownerID, targetID,
		)
		if err != nil {
			return constraintError(err, fmt.Sprintf("%s %d", rel.Name, targetID))
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return RecordActivity(ctx, tx, s.now(), rel.ownerEntity, ownerID, rel.Name+"_added", "", strconv.Itoa(targetID), actor)
	})
}

// Unlink detaches targetID from ownerID. Unlinking a missing link is a no-op.
func (s *Store) Unlink(ctx context.Context, rel Relation, ownerID, targetID int, actor model.UserRef) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.ensureOwner(ctx, tx, rel, ownerID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND %s = ?`, rel.table, rel.ownerCol, rel.targetCol),
			ownerID, targetID,
		)
		if err != nil {
			return fmt.Errorf("unlinking %s: %w", rel.Name, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		return RecordActivity(ctx, tx, s.now(), rel.ownerEntity, ownerID, rel.Name+"_removed", strconv.Itoa(targetID), "", actor)
	})
}

func (s *Store) ensureOwner(ctx context.Context, tx *sql.Tx, rel Relation, ownerID int) error {
	table := "cards"
	if rel.ownerEntity == EntityContainer {
		table = "containers"
	}
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM `+table+` WHERE id = ?)`, ownerID).Scan(&exists); err != nil {
		return fmt.Errorf("checking %s existence: %w", rel.ownerEntity, err)
	}
	if !exists {
		return domainerrors.NotFoundf("%s %d not found", rel.ownerEntity, ownerID)
	}
	return nil
}

// linkedIDs returns the targets linked to ownerID in ascending order. The
// result is never nil so that JSON renders an empty list.
func linkedIDs(ctx context.Context, q queryer, rel Relation, ownerID int) ([]int, error) {
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? ORDER BY %s`, rel.targetCol, rel.table, rel.ownerCol, rel.targetCol),
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying %s links: %w", rel.Name, err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning %s link: %w", rel.Name, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// setLinks replaces the targets linked to ownerID. A nil ids slice leaves the
// links untouched.
func setLinks(ctx context.Context, tx *sql.Tx, rel Relation, ownerID int, ids []int) error {
	if ids == nil {
		return nil
	}
	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE %s = ?`, rel.table, rel.ownerCol), ownerID,
	); err != nil {
		return fmt.Errorf("clearing %s links: %w", rel.Name, err)
	}
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT OR IGNORE INTO %s (%s, %s) VALUES (?, ?)`, rel.table, rel.ownerCol, rel.targetCol),
			ownerID, id,
		); err != nil {
			return constraintError(err, fmt.Sprintf("%s %d", rel.Name, id))
		}
	}
	return nil
}
