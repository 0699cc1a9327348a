package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID accepts "5" or "#5" and returns the numeric ID, which must be positive.
func ParseID(input string) (int, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("empty ID")
	}
	s = strings.TrimPrefix(s, "#")

	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid ID %q: %w", input, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid ID %q: must be positive", input)
	}

	return id, nil
}

// FormatID returns the display form of an ID, e.g. "#5".
func FormatID(id int) string {
	return fmt.Sprintf("#%d", id)
}
