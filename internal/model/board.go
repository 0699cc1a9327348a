package model

// Board owns containers, members, labels and attachments.
type Board struct {
	ID   int    `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name" validate:"required,max=50"`
	Slug string `json:"slug" yaml:"slug" validate:"omitempty,max=50"`
	Auditable `yaml:",inline"`
}

// Audit implements AuditedEntity.
func (b *Board) Audit() *Auditable { return &b.Auditable }

// SlugFields implements AuditedEntity.
func (b *Board) SlugFields() (string, *string) { return b.Name, &b.Slug }

// Container is a column on a board. Position is 1-based within the board.
type Container struct {
	ID       int    `json:"id" yaml:"id"`
	BoardID  int    `json:"board" yaml:"board"`
	Name     string `json:"name" yaml:"name" validate:"required,max=50"`
	Slug     string `json:"slug" yaml:"slug" validate:"omitempty,max=50"`
	Position int    `json:"position" yaml:"position" validate:"gte=0"`
	Labels   []int  `json:"labels" yaml:"labels"`
	Tags     []int  `json:"tags" yaml:"tags"`
	Auditable `yaml:",inline"`
}

// Audit implements AuditedEntity.
func (c *Container) Audit() *Auditable { return &c.Auditable }

// SlugFields implements AuditedEntity.
func (c *Container) SlugFields() (string, *string) { return c.Name, &c.Slug }
