package db

import (
	"context"
	"database/sql"
	"fmt"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// deletable describes how to remove one kind of row. nameExpr selects the
// value kept in the activity log. The strings are constants and safe to
// interpolate.
type deletable struct {
	entity   string
	table    string
	nameExpr string
}

var (
	deleteBoard          = deletable{EntityBoard, "boards", "name"}
	deleteContainer      = deletable{EntityContainer, "containers", "name"}
	deleteCard           = deletable{EntityCard, "cards", "name"}
	deleteMember         = deletable{EntityMember, "members", "(SELECT username FROM users WHERE users.id = members.user_id)"}
	deleteLabel          = deletable{EntityLabel, "labels", "name"}
	deleteTag            = deletable{EntityTag, "tags", "name"}
	deleteAttachment     = deletable{EntityAttachment, "attachments", "name"}
	deleteAttachmentType = deletable{EntityAttachmentType, "attachment_types", "name"}
)

// DeleteBoard removes a board. Its members, labels, attachments, containers
// and cards are removed with it.
func (s *Store) DeleteBoard(ctx context.Context, id int, actor model.UserRef) error {
	return s.deleteRow(ctx, deleteBoard, id, actor)
}

// DeleteContainer removes a container and its cards. The positions of the
// remaining containers are left as they are.
func (s *Store) DeleteContainer(ctx context.Context, id int, actor model.UserRef) error {
	return s.deleteRow(ctx, deleteContainer, id, actor)
}

// DeleteCard removes a card. The positions of its siblings are left as they
// are, so the card's slot becomes a gap.
func (s *Store) DeleteCard(ctx context.Context, id int, actor model.UserRef) error {
	return s.deleteRow(ctx, deleteCard, id, actor)
}

// DeleteMember removes a membership and unassigns it from cards.
func (s *Store) DeleteMember(ctx context.Context, id int, actor model.UserRef) error {
	return s.deleteRow(ctx, deleteMember, id, actor)
}

// DeleteLabel removes a label and its links.
func (s *Store) DeleteLabel(ctx context.Context, id int, actor model.UserRef) error {
	return s.deleteRow(ctx, deleteLabel, id, actor)
}

// DeleteTag removes a tag and its links.
func (s *Store) DeleteTag(ctx context.Context, id int, actor model.UserRef) error {
	return s.deleteRow(ctx, deleteTag, id, actor)
}

// DeleteAttachment removes an attachment and its card links.
func (s *Store) DeleteAttachment(ctx context.Context, id int, actor model.UserRef) error {
	return s.deleteRow(ctx, deleteAttachment, id, actor)
}

// DeleteAttachmentType removes an attachment type. Attachments of the type
// are kept without a type.
func (s *Store) DeleteAttachmentType(ctx context.Context, id int, actor model.UserRef) error {
	return s.deleteRow(ctx, deleteAttachmentType, id, actor)
}

// deleteRow removes one row and records a "deleted" activity entry carrying
// its name. Foreign key cascades handle the dependent rows.
func (s *Store) deleteRow(ctx context.Context, d deletable, id int, actor model.UserRef) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var name sql.NullString
		err := tx.QueryRowContext(ctx,
			`SELECT `+d.nameExpr+` FROM `+d.table+` WHERE id = ?`, id,
		).Scan(&name)
		if err != nil {
			return notFound(err, d.entity, id)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM `+d.table+` WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting %s %d: %w", d.entity, id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking rows affected: %w", err)
		}
		if n == 0 {
			return domainerrors.NotFoundf("%s %d not found", d.entity, id)
		}

		return RecordActivity(ctx, tx, s.now(), d.entity, id, "deleted", name.String, "", actor)
	})
}

// expectOneRow maps an update that touched nothing to NotFound.
func expectOneRow(res sql.Result, entity string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return domainerrors.NotFoundf("%s %d not found", entity, id)
	}
	return nil
}
