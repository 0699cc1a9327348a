package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DecimalPlaces is the number of fractional digits kept for Card.Complexity
// and Card.Hours.
const DecimalPlaces = 4

// Card is a task inside a container. Position is 1-based within the container.
type Card struct {
	ID              int                 `json:"id" yaml:"id"`
	ContainerID     int                 `json:"container" yaml:"container"`
	Name            string              `json:"name" yaml:"name" validate:"required,max=100"`
	Slug            string              `json:"slug" yaml:"slug" validate:"omitempty,max=100"`
	Content         string              `json:"content" yaml:"content"`
	StartTime       *time.Time          `json:"start_time,omitempty" yaml:"start_time,omitempty"`
	EndTime         *time.Time          `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	Complexity      decimal.NullDecimal `json:"complexity" yaml:"complexity"`
	Hours           decimal.NullDecimal `json:"hours" yaml:"hours"`
	Position        int                 `json:"position" yaml:"position" validate:"gte=0"`
	AssignedMembers []int               `json:"assigned_users" yaml:"assigned_users"`
	Labels          []int               `json:"labels" yaml:"labels"`
	Tags            []int               `json:"tags" yaml:"tags"`
	Attachments     []int               `json:"attachments" yaml:"attachments"`
	Auditable `yaml:",inline"`
}

// Audit implements AuditedEntity.
func (c *Card) Audit() *Auditable { return &c.Auditable }

// SlugFields implements AuditedEntity.
func (c *Card) SlugFields() (string, *string) { return c.Name, &c.Slug }

// RoundDecimals rounds Complexity and Hours to DecimalPlaces.
func (c *Card) RoundDecimals() {
	if c.Complexity.Valid {
		c.Complexity.Decimal = c.Complexity.Decimal.Round(DecimalPlaces)
	}
	if c.Hours.Valid {
		c.Hours.Decimal = c.Hours.Decimal.Round(DecimalPlaces)
	}
}

// ParseDecimal parses s into a NullDecimal. An empty string is a null value.
func ParseDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
