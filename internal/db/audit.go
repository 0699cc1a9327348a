package db

import (
	"database/sql"
	"fmt"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// auditSelect lists the audit columns in the order auditRow scans them.
const auditSelect = `created_by, created_time, changed_by, changed_time, archived, archived_by, archived_time`

// auditRow holds the nullable audit columns of one row while scanning.
type auditRow struct {
	createdBy    sql.NullInt64
	createdTime  string
	changedBy    sql.NullInt64
	changedTime  string
	archived     bool
	archivedBy   sql.NullInt64
	archivedTime sql.NullString
}

func (r *auditRow) dest() []any {
	return []any{&r.createdBy, &r.createdTime, &r.changedBy, &r.changedTime, &r.archived, &r.archivedBy, &r.archivedTime}
}

func (r *auditRow) apply(a *model.Auditable) error {
	var err error
	a.CreatedBy = model.UserRef(r.createdBy.Int64)
	if a.CreatedTime, err = parseTime(r.createdTime); err != nil {
		return fmt.Errorf("parsing created_time: %w", err)
	}
	a.ChangedBy = model.UserRef(r.changedBy.Int64)
	if a.ChangedTime, err = parseTime(r.changedTime); err != nil {
		return fmt.Errorf("parsing changed_time: %w", err)
	}
	a.Archived = r.archived
	a.ArchivedBy = model.UserRef(r.archivedBy.Int64)
	if a.ArchivedTime, err = parseTimePtr(r.archivedTime); err != nil {
		return fmt.Errorf("parsing archived_time: %w", err)
	}
	return nil
}

// auditArgs returns the values for the audit columns in auditSelect order.
func auditArgs(a *model.Auditable) []any {
	return []any{
		nilIfZero(a.CreatedBy), formatTime(a.CreatedTime),
		nilIfZero(a.ChangedBy), formatTime(a.ChangedTime),
		a.Archived, nilIfZero(a.ArchivedBy), formatTimePtr(a.ArchivedTime),
	}
}

// auditAssignments is the SET clause for the mutable audit columns.
// created_by and created_time never change after insert.
const auditAssignments = `changed_by = ?, changed_time = ?, archived = ?, archived_by = ?, archived_time = ?`

func auditUpdateArgs(a *model.Auditable) []any {
	return []any{
		nilIfZero(a.ChangedBy), formatTime(a.ChangedTime),
		a.Archived, nilIfZero(a.ArchivedBy), formatTimePtr(a.ArchivedTime),
	}
}
