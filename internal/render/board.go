package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

const (
	maxCardsPerColumn = 10
	minColumnWidth    = 20
	cardPadding       = 2 // left+right padding inside cards
)

// BoardOptions configures board rendering behavior.
type BoardOptions struct {
	// LabelNames resolves card label ids. Unknown ids render as "#id".
	LabelNames map[int]string
	// Expand shows every card instead of the first maxCardsPerColumn.
	Expand bool
}

// column is one container with its cards in position order.
type column struct {
	container *model.Container
	cards     []*model.Card
}

// RenderBoard renders a board as one column per container, left to right in
// container position order. Cards keep the order they are given in, which
// for store listings is position order.
func RenderBoard(board *model.Board, containers []*model.Container, cards []*model.Card, opts BoardOptions) string {
	if len(containers) == 0 {
		return EmptyState(fmt.Sprintf("Board %q has no containers.", board.Name),
			"Create one with: kanban container create --board "+model.FormatID(board.ID)+" <name>", false)
	}

	cols := groupByContainer(containers, cards)
	if !ColorsEnabled() {
		return renderPlainBoard(board, cols, opts)
	}
	return renderColorBoard(board, cols, opts)
}

func groupByContainer(containers []*model.Container, cards []*model.Card) []column {
	byID := make(map[int][]*model.Card, len(containers))
	for _, c := range cards {
		byID[c.ContainerID] = append(byID[c.ContainerID], c)
	}
	cols := make([]column, 0, len(containers))
	for _, k := range containers {
		cols = append(cols, column{container: k, cards: byID[k.ID]})
	}
	return cols
}

func visibleCards(cards []*model.Card, expand bool) ([]*model.Card, int) {
	if expand || len(cards) <= maxCardsPerColumn {
		return cards, 0
	}
	return cards[:maxCardsPerColumn], len(cards) - maxCardsPerColumn
}

func labelList(ids []int, names map[int]string) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if n, ok := names[id]; ok {
			parts = append(parts, n)
		} else {
			parts = append(parts, model.FormatID(id))
		}
	}
	return strings.Join(parts, ", ")
}

func renderColorBoard(board *model.Board, cols []column, opts BoardOptions) string {
	tw := terminalWidth()
	gaps := len(cols) - 1
	colWidth := max((tw-gaps)/len(cols), minColumnWidth)
	contentWidth := max(colWidth-cardPadding-2, 5) // 2 for left+right border chars

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf("%s  %s", board.Name, model.FormatID(board.ID)))

	rendered := make([]string, 0, len(cols))
	for _, col := range cols {
		rendered = append(rendered, renderColorColumn(col, colWidth, contentWidth, opts))
	}

	return title + "\n\n" + lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderColorColumn(col column, colWidth, contentWidth int, opts BoardOptions) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Width(colWidth).
		Align(lipgloss.Center)

	header := headerStyle.Render(fmt.Sprintf("%s (%d)", strings.ToUpper(col.container.Name), len(col.cards)))

	visible, overflow := visibleCards(col.cards, opts.Expand)
	parts := make([]string, 0, len(visible)+2)
	parts = append(parts, header)
	for _, c := range visible {
		parts = append(parts, renderColorCard(c, colWidth, contentWidth, opts))
	}

	if overflow > 0 {
		moreStyle := lipgloss.NewStyle().
			Width(colWidth).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("8"))
		parts = append(parts, moreStyle.Render(fmt.Sprintf("+%d more", overflow)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderColorCard(c *model.Card, colWidth, contentWidth int, opts BoardOptions) string {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	lines := []string{
		fmt.Sprintf("%s %s", dim.Render(fmt.Sprintf("%d.", c.Position)), model.FormatID(c.ID)),
		truncate(c.Name, contentWidth),
	}
	if len(c.Labels) > 0 {
		lines = append(lines, dim.Render(truncate(labelList(c.Labels, opts.LabelNames), contentWidth)))
	}
	if c.Hours.Valid {
		lines = append(lines, dim.Render(c.Hours.Decimal.String()+"h"))
	}

	border := lipgloss.Color("8")
	if len(c.AssignedMembers) > 0 {
		border = lipgloss.Color("10")
	}

	return lipgloss.NewStyle().
		Width(colWidth - 2). // account for outer spacing
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(strings.Join(lines, "\n"))
}

// --- Plain text fallback ---

func renderPlainBoard(board *model.Board, cols []column, opts BoardOptions) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", board.Name, model.FormatID(board.ID))

	for _, col := range cols {
		fmt.Fprintf(&b, "\n=== %s (%d) ===\n", strings.ToUpper(col.container.Name), len(col.cards))

		visible, overflow := visibleCards(col.cards, opts.Expand)
		for _, c := range visible {
			fmt.Fprintf(&b, "  %d. %s %s\n", c.Position, model.FormatID(c.ID), truncate(c.Name, maxNameWidth))
			if len(c.Labels) > 0 {
				fmt.Fprintf(&b, "     %s\n", labelList(c.Labels, opts.LabelNames))
			}
		}
		if overflow > 0 {
			fmt.Fprintf(&b, "  +%d more\n", overflow)
		}
	}

	return b.String()
}
