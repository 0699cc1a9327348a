package model

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"
)

// ExtensionGroup is a set of accepted file extensions for an attachment type.
type ExtensionGroup int

const (
	ExtensionGroupImages    ExtensionGroup = 0
	ExtensionGroupDocuments ExtensionGroup = 1
)

var extensionGroups = map[ExtensionGroup][]string{
	ExtensionGroupImages:    {".jpg", ".jpeg", ".gif", ".png", ".pdf"},
	ExtensionGroupDocuments: {".txt", ".rst", ".md", ".c", ".cpp", ".h", ".cs", ".py"},
}

// ValidateExtensionGroup returns an error if g is not a recognized group.
func ValidateExtensionGroup(g ExtensionGroup) error {
	if _, ok := extensionGroups[g]; !ok {
		return fmt.Errorf("invalid extension group %d: must be %d (images) or %d (documents)",
			g, ExtensionGroupImages, ExtensionGroupDocuments)
	}
	return nil
}

// ParseExtensionGroup accepts "images", "documents" or their numeric values.
func ParseExtensionGroup(s string) (ExtensionGroup, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "images", "0":
		return ExtensionGroupImages, nil
	case "documents", "1":
		return ExtensionGroupDocuments, nil
	default:
		return 0, fmt.Errorf("invalid extension group %q: must be images or documents", s)
	}
}

// String returns the group name.
func (g ExtensionGroup) String() string {
	switch g {
	case ExtensionGroupImages:
		return "images"
	case ExtensionGroupDocuments:
		return "documents"
	default:
		return fmt.Sprintf("ExtensionGroup(%d)", int(g))
	}
}

// Extensions returns the extensions accepted by the group.
func (g ExtensionGroup) Extensions() []string {
	return extensionGroups[g]
}

// Accepts reports whether the path component of rawURL has an extension in the group.
func (g ExtensionGroup) Accepts(rawURL string) bool {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(path.Ext(p))
	for _, e := range extensionGroups[g] {
		if e == ext {
			return true
		}
	}
	return false
}

// AttachmentType groups attachments by accepted file extensions.
type AttachmentType struct {
	ID            int            `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name" validate:"required,max=50"`
	FileExtension ExtensionGroup `json:"file_extension" yaml:"file_extension" validate:"oneof=0 1"`
}

// Attachment is a named reference to an uploaded file. FilePath is an opaque URL.
type Attachment struct {
	ID               int       `json:"id" yaml:"id"`
	BoardID          int       `json:"board" yaml:"board" validate:"required,gt=0"`
	Name             string    `json:"name" yaml:"name" validate:"required,max=50"`
	FilePath         string    `json:"file_path" yaml:"file_path" validate:"required,url"`
	AttachmentTypeID *int      `json:"attachment_type,omitempty" yaml:"attachment_type,omitempty"`
	UploadedBy       UserRef   `json:"uploaded_by" yaml:"uploaded_by"`
	UploadedTime     time.Time `json:"uploaded_time" yaml:"uploaded_time"`
}

// Activity is a change record for one field of an audited entity.
type Activity struct {
	ID           int       `json:"id" yaml:"id"`
	EntityType   string    `json:"entity_type" yaml:"entity_type"`
	EntityID     int       `json:"entity_id" yaml:"entity_id"`
	FieldChanged string    `json:"field_changed" yaml:"field_changed"`
	OldValue     string    `json:"old_value,omitempty" yaml:"old_value,omitempty"`
	NewValue     string    `json:"new_value,omitempty" yaml:"new_value,omitempty"`
	ChangedBy    UserRef   `json:"changed_by,omitempty" yaml:"changed_by,omitempty"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at"`
}
