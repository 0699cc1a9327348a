package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Sprint 1", "sprint-1"},
		{"Todo", "todo"},
		{"  Doing / QA  ", "doing-qa"},
		{"--Todo--", "todo"},
		{"Café Ops", "cafe-ops"},
		{"don't stop", "don-t-stop"},
		{"a__b...c", "a-b-c"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPrepareForSaveDerivesSlugOnce(t *testing.T) {
	b := &Board{Name: "Sprint 1"}
	PrepareForSave(b)
	if b.Slug != "sprint-1" {
		t.Fatalf("slug = %q, want %q", b.Slug, "sprint-1")
	}

	b.Name = "Sprint 2"
	PrepareForSave(b)
	if b.Slug != "sprint-1" {
		t.Errorf("slug after rename = %q, want unchanged %q", b.Slug, "sprint-1")
	}
}

func TestPrepareForSaveKeepsExplicitSlug(t *testing.T) {
	c := &Card{Name: "Write docs", Slug: "docs"}
	PrepareForSave(c)
	if c.Slug != "docs" {
		t.Errorf("slug = %q, want %q", c.Slug, "docs")
	}
}

func TestStampCreatedOnlyOnce(t *testing.T) {
	first := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	later := first.Add(time.Hour)

	c := &Container{Name: "Todo"}
	Stamp(c, 1, first)
	Stamp(c, 2, later)

	if c.CreatedBy != 1 || !c.CreatedTime.Equal(first) {
		t.Errorf("created = (%d, %v), want (1, %v)", c.CreatedBy, c.CreatedTime, first)
	}
	if c.ChangedBy != 2 || !c.ChangedTime.Equal(later) {
		t.Errorf("changed = (%d, %v), want (2, %v)", c.ChangedBy, c.ChangedTime, later)
	}
}

func TestStampArchiveBookkeeping(t *testing.T) {
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	b := &Board{Name: "B"}
	Stamp(b, 1, now)
	if b.ArchivedTime != nil || b.ArchivedBy != 0 {
		t.Fatalf("unarchived board has archive stamp: %+v", b.Auditable)
	}

	b.Archived = true
	Stamp(b, 3, now.Add(time.Minute))
	if b.ArchivedBy != 3 || b.ArchivedTime == nil || !b.ArchivedTime.Equal(now.Add(time.Minute)) {
		t.Fatalf("archive stamp = (%d, %v), want (3, %v)", b.ArchivedBy, b.ArchivedTime, now.Add(time.Minute))
	}

	// A later save of an already archived board keeps the original stamp.
	Stamp(b, 4, now.Add(time.Hour))
	if b.ArchivedBy != 3 {
		t.Errorf("ArchivedBy = %d after re-save, want 3", b.ArchivedBy)
	}

	b.Archived = false
	Stamp(b, 4, now.Add(2*time.Hour))
	if b.ArchivedTime != nil || b.ArchivedBy != 0 {
		t.Errorf("restored board still has archive stamp: %+v", b.Auditable)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"5", 5, false},
		{"#42", 42, false},
		{" 7 ", 7, false},
		{"", 0, true},
		{"#", 0, true},
		{"abc", 0, true},
		{"0", 0, true},
		{"-1", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseID(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseID(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestExtensionGroupAccepts(t *testing.T) {
	tests := []struct {
		group ExtensionGroup
		url   string
		want  bool
	}{
		{ExtensionGroupImages, "https://files.example.com/a/shot.PNG", true},
		{ExtensionGroupImages, "https://files.example.com/design.pdf?dl=1", true},
		{ExtensionGroupImages, "https://files.example.com/notes.md", false},
		{ExtensionGroupDocuments, "https://files.example.com/notes.md", true},
		{ExtensionGroupDocuments, "https://files.example.com/main.py", true},
		{ExtensionGroupDocuments, "https://files.example.com/noext", false},
	}

	for _, tt := range tests {
		if got := tt.group.Accepts(tt.url); got != tt.want {
			t.Errorf("%s.Accepts(%q) = %v, want %v", tt.group, tt.url, got, tt.want)
		}
	}
}

func TestParseExtensionGroup(t *testing.T) {
	if g, err := ParseExtensionGroup("Documents"); err != nil || g != ExtensionGroupDocuments {
		t.Errorf("ParseExtensionGroup(Documents) = %v, %v", g, err)
	}
	if g, err := ParseExtensionGroup("0"); err != nil || g != ExtensionGroupImages {
		t.Errorf("ParseExtensionGroup(0) = %v, %v", g, err)
	}
	if _, err := ParseExtensionGroup("videos"); err == nil {
		t.Error("ParseExtensionGroup(videos) expected error, got nil")
	}
	if err := ValidateExtensionGroup(7); err == nil {
		t.Error("ValidateExtensionGroup(7) expected error, got nil")
	}
}

func TestCardRoundDecimals(t *testing.T) {
	c := &Card{}
	var err error
	if c.Hours, err = ParseDecimal("1.234567"); err != nil {
		t.Fatalf("ParseDecimal: %v", err)
	}
	c.RoundDecimals()
	if got := c.Hours.Decimal.String(); got != "1.2346" {
		t.Errorf("hours = %s, want 1.2346", got)
	}
	if c.Complexity.Valid {
		t.Error("complexity should stay null")
	}
}

func TestCardJSONIncludesAuditFields(t *testing.T) {
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	c := Card{ID: 3, ContainerID: 1, Name: "Write tests", Slug: "write-tests", Position: 2}
	Stamp(&c, 7, now)

	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if raw["created_by"] != float64(7) {
		t.Errorf("created_by = %v, want 7", raw["created_by"])
	}
	if raw["position"] != float64(2) {
		t.Errorf("position = %v, want 2", raw["position"])
	}
	if _, ok := raw["archived_time"]; ok {
		t.Error("archived_time should be omitted for unarchived cards")
	}
}
