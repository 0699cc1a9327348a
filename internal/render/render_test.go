package render

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

func makeCard(id, container, position int, name string) *model.Card {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := &model.Card{ID: id, ContainerID: container, Position: position, Name: name}
	c.CreatedTime, c.ChangedTime = now, now
	return c
}

func TestRenderBoardNoContainers(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	got := RenderBoard(&model.Board{ID: 1, Name: "Sprint 1"}, nil, nil, BoardOptions{})
	if !strings.Contains(got, "has no containers") {
		t.Errorf("RenderBoard with no containers = %q", got)
	}
}

func TestRenderPlainBoardColumnsInPositionOrder(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	board := &model.Board{ID: 1, Name: "Sprint 1"}
	containers := []*model.Container{
		{ID: 1, BoardID: 1, Name: "Todo", Position: 1},
		{ID: 2, BoardID: 1, Name: "Doing", Position: 2},
		{ID: 3, BoardID: 1, Name: "Done", Position: 3},
	}
	cards := []*model.Card{
		makeCard(3, 1, 1, "card3"),
		makeCard(1, 1, 2, "card1"),
		makeCard(2, 2, 1, "card2"),
	}
	cards[1].Labels = []int{7, 8}

	got := RenderBoard(board, containers, cards, BoardOptions{LabelNames: map[int]string{7: "bug"}})

	todo := strings.Index(got, "=== TODO (2) ===")
	doing := strings.Index(got, "=== DOING (1) ===")
	done := strings.Index(got, "=== DONE (0) ===")
	if todo < 0 || doing < 0 || done < 0 {
		t.Fatalf("missing column headers:\n%s", got)
	}
	if !(todo < doing && doing < done) {
		t.Errorf("columns out of position order:\n%s", got)
	}
	if strings.Index(got, "card3") > strings.Index(got, "card1") {
		t.Errorf("card3 should be listed before card1:\n%s", got)
	}
	if !strings.Contains(got, "bug, #8") {
		t.Errorf("expected resolved and unresolved labels, got:\n%s", got)
	}
}

func TestRenderPlainBoardOverflow(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	containers := []*model.Container{{ID: 1, Name: "Todo", Position: 1}}
	var cards []*model.Card
	for i := 1; i <= maxCardsPerColumn+3; i++ {
		cards = append(cards, makeCard(i, 1, i, "c"))
	}

	got := RenderBoard(&model.Board{ID: 1, Name: "B"}, containers, cards, BoardOptions{})
	if !strings.Contains(got, "+3 more") {
		t.Errorf("expected overflow marker, got:\n%s", got)
	}

	got = RenderBoard(&model.Board{ID: 1, Name: "B"}, containers, cards, BoardOptions{Expand: true})
	if strings.Contains(got, "more") {
		t.Errorf("expanded board should not truncate, got:\n%s", got)
	}
}

func TestRenderColorBoardContainsNames(t *testing.T) {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		t.Skip("NO_COLOR is set")
	}
	t.Setenv("TERM", "xterm-256color")
	containers := []*model.Container{{ID: 1, Name: "Todo", Position: 1}}
	got := RenderBoard(&model.Board{ID: 1, Name: "Sprint 1"}, containers, []*model.Card{makeCard(1, 1, 1, "Write docs")}, BoardOptions{})
	for _, want := range []string{"Sprint 1", "TODO (1)", "Write docs"} {
		if !strings.Contains(got, want) {
			t.Errorf("board missing %q:\n%s", want, got)
		}
	}
}

func TestRenderPlainTableAligns(t *testing.T) {
	got := renderPlainTable([]string{"ID", "Name"}, [][]string{{"#1", "Todo"}, {"#10", "Doing"}})
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), got)
	}
	if lines[0] != "ID   Name" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "#1   Todo" || lines[3] != "#10  Doing" {
		t.Errorf("rows misaligned:\n%s", got)
	}
}

func TestRenderCardTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	c := makeCard(4, 2, 1, "Ship it")
	c.Hours, _ = model.ParseDecimal("1.5")
	c.Archived = true

	got := RenderCardTable([]*model.Card{c}, map[int]string{2: "Doing"})
	for _, want := range []string{"#4", "Doing", "Ship it", "1.5", "archived"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}

	if got := RenderCardTable(nil, nil); !strings.Contains(got, "No cards found.") {
		t.Errorf("empty table = %q", got)
	}
}

func TestRenderMemberTable(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	members := []*model.Member{{ID: 1, BoardID: 3, UserID: 9, Starred: true, Position: 1}}
	got := RenderMemberTable(members, map[int]string{3: "Sprint 1"}, Names{9: "ana"})
	for _, want := range []string{"ana", "Sprint 1", "★"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestNamesUser(t *testing.T) {
	n := Names{1: "ana"}
	if got := n.User(1); got != "ana" {
		t.Errorf("User(1) = %q", got)
	}
	if got := n.User(0); got != "system" {
		t.Errorf("User(0) = %q", got)
	}
	if got := n.User(5); got != "#5" {
		t.Errorf("User(5) = %q", got)
	}
}

func TestRenderCardDetailPlain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	c := makeCard(3, 1, 1, "Write docs")
	c.Content = "# Notes\nfirst"
	c.Labels = []int{2}
	c.Attachments = []int{5}
	c.CreatedBy = 1

	ctx := CardContext{
		Container:   "Todo",
		Labels:      map[int]string{2: "docs"},
		Attachments: map[int]*model.Attachment{5: {ID: 5, Name: "design", FilePath: "https://files.example.com/design.pdf"}},
		Users:       Names{1: "ana"},
	}
	activity := []model.Activity{
		{EntityType: "card", FieldChanged: "position", OldValue: "3", NewValue: "1", ChangedBy: 1},
		{EntityType: "card", FieldChanged: "created", NewValue: "Write docs", ChangedBy: 1},
	}

	got := RenderCardDetail(c, ctx, activity)
	for _, want := range []string{
		"#3  Write docs",
		"Container: Todo (position 1)",
		"Labels: docs",
		"# Notes",
		"design  https://files.example.com/design.pdf",
		"ana changed position: 3 -> 1",
		`ana created card "Write docs"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("detail missing %q:\n%s", want, got)
		}
	}
}

func TestRenderMarkdownPlainPassthrough(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	got, err := RenderMarkdown("**bold**")
	if err != nil {
		t.Fatalf("RenderMarkdown: %v", err)
	}
	if got != "**bold**" {
		t.Errorf("RenderMarkdown = %q, want unchanged", got)
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1, "card"); got != "1 card" {
		t.Errorf("FormatCount(1) = %q", got)
	}
	if got := FormatCount(1204, "card"); got != "1,204 cards" {
		t.Errorf("FormatCount(1204) = %q", got)
	}
}
