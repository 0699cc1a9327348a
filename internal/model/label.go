package model

// DefaultColor is the colour given to labels and tags created without one.
const DefaultColor = "#aaaaaa"

// Label is a classifier visible to the members of its board.
type Label struct {
	ID      int    `json:"id" yaml:"id"`
	BoardID int    `json:"board" yaml:"board" validate:"required,gt=0"`
	Name    string `json:"name" yaml:"name" validate:"required,max=50"`
	Color   string `json:"color" yaml:"color" validate:"omitempty,hexcolor"`
}

// Tag is a classifier visible only to the user that created it.
type Tag struct {
	ID     int    `json:"id" yaml:"id"`
	UserID int    `json:"user" yaml:"user" validate:"required,gt=0"`
	Name   string `json:"name" yaml:"name" validate:"required,max=50"`
	Color  string `json:"color" yaml:"color" validate:"omitempty,hexcolor"`
}

// ColorOrDefault returns color, falling back to DefaultColor when empty.
func ColorOrDefault(color string) string {
	if color == "" {
		return DefaultColor
	}
	return color
}
