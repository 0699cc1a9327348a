package db

import (
	"context"
	"database/sql"
	"fmt"

	domainerrors "github.com/FirstPrinciplesDevelopment/kanban/internal/errors"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// CreateAttachmentType inserts an attachment type and sets t.ID.
func (s *Store) CreateAttachmentType(ctx context.Context, t *model.AttachmentType) error {
	if err := model.ValidateExtensionGroup(t.FileExtension); err != nil {
		return domainerrors.Validationf("%v", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO attachment_types (name, file_extension) VALUES (?, ?)`,
		t.Name, int(t.FileExtension),
	)
	if err != nil {
		return constraintError(err, fmt.Sprintf("attachment type %q", t.Name))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("getting last insert id: %w", err)
	}
	t.ID = int(id)
	return nil
}

// UpdateAttachmentType saves the name and extension group of an existing
// attachment type. Attachments already using the type are not rechecked.
func (s *Store) UpdateAttachmentType(ctx context.Context, t *model.AttachmentType) error {
	if err := model.ValidateExtensionGroup(t.FileExtension); err != nil {
		return domainerrors.Validationf("%v", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE attachment_types SET name = ?, file_extension = ? WHERE id = ?`,
		t.Name, int(t.FileExtension), t.ID,
	)
	if err != nil {
		return constraintError(err, fmt.Sprintf("attachment type %q", t.Name))
	}
	return expectOneRow(res, "attachment type", t.ID)
}

// GetAttachmentType retrieves an attachment type by ID.
func (s *Store) GetAttachmentType(ctx context.Context, id int) (*model.AttachmentType, error) {
	return getAttachmentType(ctx, s.db, id)
}

// ListAttachmentTypes returns every attachment type ordered by id.
func (s *Store) ListAttachmentTypes(ctx context.Context) ([]*model.AttachmentType, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, file_extension FROM attachment_types ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying attachment types: %w", err)
	}
	defer rows.Close()

	types := make([]*model.AttachmentType, 0)
	for rows.Next() {
		var t model.AttachmentType
		if err := rows.Scan(&t.ID, &t.Name, &t.FileExtension); err != nil {
			return nil, fmt.Errorf("scanning attachment type: %w", err)
		}
		types = append(types, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachment type rows: %w", err)
	}
	return types, nil
}

func getAttachmentType(ctx context.Context, q queryer, id int) (*model.AttachmentType, error) {
	var t model.AttachmentType
	err := q.QueryRowContext(ctx,
		`SELECT id, name, file_extension FROM attachment_types WHERE id = ?`, id,
	).Scan(&t.ID, &t.Name, &t.FileExtension)
	if err != nil {
		return nil, notFound(err, "attachment type", id)
	}
	return &t, nil
}

// CreateAttachment inserts an attachment and sets a.ID. When the attachment
// has a type, the extension of its file path must belong to the type's group.
func (s *Store) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	if a.UploadedTime.IsZero() {
		a.UploadedTime = s.now()
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkAttachmentType(ctx, tx, a); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO attachments (board_id, name, file_path, attachment_type_id, uploaded_by, uploaded_time)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			a.BoardID, a.Name, a.FilePath, a.AttachmentTypeID, nilIfZero(a.UploadedBy), formatTime(a.UploadedTime),
		)
		if err != nil {
			return constraintError(err, fmt.Sprintf("attachment %q", a.Name))
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting last insert id: %w", err)
		}
		a.ID = int(id)
		return nil
	})
}

// UpdateAttachment saves the name, file path and type of an existing
// attachment. The file path is checked against the type as on create.
func (s *Store) UpdateAttachment(ctx context.Context, a *model.Attachment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := checkAttachmentType(ctx, tx, a); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE attachments SET name = ?, file_path = ?, attachment_type_id = ? WHERE id = ?`,
			a.Name, a.FilePath, a.AttachmentTypeID, a.ID,
		)
		if err != nil {
			return constraintError(err, fmt.Sprintf("attachment %q", a.Name))
		}
		return expectOneRow(res, "attachment", a.ID)
	})
}

// checkAttachmentType rejects a file path whose extension is outside the
// group of the attachment's type. Untyped attachments accept any path.
func checkAttachmentType(ctx context.Context, q queryer, a *model.Attachment) error {
	if a.AttachmentTypeID == nil {
		return nil
	}
	t, err := getAttachmentType(ctx, q, *a.AttachmentTypeID)
	if err != nil {
		return err
	}
	if !t.FileExtension.Accepts(a.FilePath) {
		return domainerrors.ValidationWithDetails(
			fmt.Sprintf("file %q is not accepted by attachment type %q", a.FilePath, t.Name),
			map[string]string{"file_path": fmt.Sprintf("must end in one of %v", t.FileExtension.Extensions())},
		)
	}
	return nil
}

// GetAttachment retrieves an attachment by ID.
func (s *Store) GetAttachment(ctx context.Context, id int) (*model.Attachment, error) {
	a, err := scanAttachment(s.db.QueryRowContext(ctx,
		`SELECT id, board_id, name, file_path, attachment_type_id, uploaded_by, uploaded_time
		 FROM attachments WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "attachment", id)
	}
	return a, nil
}

// ListAttachments returns the attachments of a board, or all attachments
// when boardID is zero, ordered by id.
func (s *Store) ListAttachments(ctx context.Context, boardID int) ([]*model.Attachment, error) {
	query := `SELECT id, board_id, name, file_path, attachment_type_id, uploaded_by, uploaded_time FROM attachments`
	var args []any
	if boardID > 0 {
		query += ` WHERE board_id = ?`
		args = append(args, boardID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	attachments := make([]*model.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attachment rows: %w", err)
	}
	return attachments, nil
}

func scanAttachment(sc scanner) (*model.Attachment, error) {
	var a model.Attachment
	var typeID, uploadedBy sql.NullInt64
	var uploaded string
	if err := sc.Scan(&a.ID, &a.BoardID, &a.Name, &a.FilePath, &typeID, &uploadedBy, &uploaded); err != nil {
		return nil, err
	}
	if typeID.Valid {
		id := int(typeID.Int64)
		a.AttachmentTypeID = &id
	}
	a.UploadedBy = model.UserRef(uploadedBy.Int64)

	var err error
	if a.UploadedTime, err = parseTime(uploaded); err != nil {
		return nil, fmt.Errorf("parsing uploaded_time: %w", err)
	}
	return &a, nil
}
