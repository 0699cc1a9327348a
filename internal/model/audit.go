package model

import "time"

// UserRef identifies the user behind an action. The zero value means no user.
type UserRef int

// Valid reports whether the reference points at a user.
func (u UserRef) Valid() bool {
	return u > 0
}

// Auditable is embedded in every entity that tracks who created, changed and
// archived it.
type Auditable struct {
	CreatedBy    UserRef    `json:"created_by,omitempty" yaml:"created_by,omitempty"`
	CreatedTime  time.Time  `json:"created_time" yaml:"created_time"`
	ChangedBy    UserRef    `json:"changed_by,omitempty" yaml:"changed_by,omitempty"`
	ChangedTime  time.Time  `json:"changed_time" yaml:"changed_time"`
	Archived     bool       `json:"archived" yaml:"archived"`
	ArchivedBy   UserRef    `json:"archived_by,omitempty" yaml:"archived_by,omitempty"`
	ArchivedTime *time.Time `json:"archived_time,omitempty" yaml:"archived_time,omitempty"`
}

// AuditedEntity is implemented by Board, Container and Card.
type AuditedEntity interface {
	Audit() *Auditable
	// SlugFields returns the name the slug derives from and a pointer to the slug.
	SlugFields() (name string, slug *string)
}

// PrepareForSave derives the slug from the name when the slug is empty.
// A slug that is already set is never recomputed, even after a rename.
func PrepareForSave(e AuditedEntity) {
	name, slug := e.SlugFields()
	if *slug == "" {
		*slug = Slugify(name)
	}
}

// Stamp records actor and now on the entity's audit fields. CreatedBy and
// CreatedTime are only set the first time; ChangedBy and ChangedTime are
// refreshed on every call. ArchivedBy/ArchivedTime follow the Archived flag:
// they are stamped when an archived entity has no archive time yet and
// cleared when the entity is not archived.
func Stamp(e AuditedEntity, actor UserRef, now time.Time) {
	a := e.Audit()
	if a.CreatedTime.IsZero() {
		a.CreatedBy = actor
		a.CreatedTime = now
	}
	a.ChangedBy = actor
	a.ChangedTime = now

	switch {
	case a.Archived && a.ArchivedTime == nil:
		t := now
		a.ArchivedBy = actor
		a.ArchivedTime = &t
	case !a.Archived:
		a.ArchivedBy = 0
		a.ArchivedTime = nil
	}
}
