package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	humanize "github.com/dustin/go-humanize"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

const maxNameWidth = 40

// StyledText applies a lipgloss style to text when colors are enabled.
// When colors are disabled, it returns the plain text unchanged.
func StyledText(text string, style lipgloss.Style) string {
	if ColorsEnabled() {
		return style.Render(text)
	}
	return text
}

// truncate shortens a string to maxLen runes, appending an ellipsis if truncated.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// EmptyState renders a styled empty-state message with an optional contextual hint.
// When colors are enabled the message is rendered in dim gray and the hint is italic.
// When quiet is true the hint is suppressed.
func EmptyState(message, hint string, quiet bool) string {
	if !ColorsEnabled() {
		if quiet || hint == "" {
			return message
		}
		return message + "\n" + hint
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	hintStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)

	result := dimStyle.Render(message)
	if !quiet && hint != "" {
		result += "\n" + hintStyle.Render(hint)
	}
	return result
}

// Names resolves user ids to usernames for display.
type Names map[int]string

// User returns the username for ref, or "system" for the zero ref.
func (n Names) User(ref model.UserRef) string {
	if !ref.Valid() {
		return "system"
	}
	if name, ok := n[int(ref)]; ok {
		return name
	}
	return model.FormatID(int(ref))
}

func ago(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func archivedMark(a model.Auditable) string {
	if a.Archived {
		return "archived"
	}
	return ""
}

// renderTable draws rows under headers. Column nameCol is bold; the first
// column is bright. Without colors the table is plain aligned text.
func renderTable(headers []string, rows [][]string, nameCol int) string {
	if !ColorsEnabled() {
		return renderPlainTable(headers, rows)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			switch {
			case row == table.HeaderRow:
				return s.Bold(true).Foreground(lipgloss.Color("15"))
			case col == 0:
				return s.Foreground(lipgloss.Color("15"))
			case col == nameCol:
				return s.Bold(true)
			default:
				return s
			}
		})

	return t.Render()
}

func renderPlainTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			if i == len(cells)-1 {
				b.WriteString(cell)
				continue
			}
			b.WriteString(cell + strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
		}
		b.WriteString("\n")
	}

	writeRow(headers)
	total := 0
	for _, w := range widths {
		total += w + 2
	}
	b.WriteString(strings.Repeat("-", total-2) + "\n")
	for _, row := range rows {
		writeRow(row)
	}
	return b.String()
}

// RenderBoardTable lists boards.
func RenderBoardTable(boards []*model.Board, names Names) string {
	if len(boards) == 0 {
		return EmptyState("No boards found.", "Create one with: kanban board create <name>", false)
	}
	rows := make([][]string, 0, len(boards))
	for _, b := range boards {
		rows = append(rows, []string{
			model.FormatID(b.ID),
			truncate(b.Name, maxNameWidth),
			b.Slug,
			names.User(b.ChangedBy),
			ago(b.ChangedTime),
			archivedMark(b.Auditable),
		})
	}
	return renderTable([]string{"ID", "Name", "Slug", "Changed By", "Updated", ""}, rows, 1)
}

// RenderContainerTable lists containers in the order given.
func RenderContainerTable(containers []*model.Container) string {
	if len(containers) == 0 {
		return EmptyState("No containers found.", "Create one with: kanban container create --board <id> <name>", false)
	}
	rows := make([][]string, 0, len(containers))
	for _, c := range containers {
		rows = append(rows, []string{
			model.FormatID(c.ID),
			strconv.Itoa(c.Position),
			truncate(c.Name, maxNameWidth),
			c.Slug,
			model.FormatID(c.BoardID),
			ago(c.ChangedTime),
			archivedMark(c.Auditable),
		})
	}
	return renderTable([]string{"ID", "Pos", "Name", "Slug", "Board", "Updated", ""}, rows, 2)
}

// RenderCardTable lists cards. containerNames resolves the container column.
func RenderCardTable(cards []*model.Card, containerNames map[int]string) string {
	if len(cards) == 0 {
		return EmptyState("No cards found.", "Create one with: kanban card create --container <id> <name>", false)
	}
	rows := make([][]string, 0, len(cards))
	for _, c := range cards {
		container := containerNames[c.ContainerID]
		if container == "" {
			container = model.FormatID(c.ContainerID)
		}
		hours := ""
		if c.Hours.Valid {
			hours = c.Hours.Decimal.String()
		}
		rows = append(rows, []string{
			model.FormatID(c.ID),
			container,
			strconv.Itoa(c.Position),
			truncate(c.Name, maxNameWidth),
			hours,
			ago(c.ChangedTime),
			archivedMark(c.Auditable),
		})
	}
	return renderTable([]string{"ID", "Container", "Pos", "Name", "Hours", "Updated", ""}, rows, 3)
}

// RenderMemberTable lists memberships with their board and user resolved.
func RenderMemberTable(members []*model.Member, boardNames map[int]string, names Names) string {
	if len(members) == 0 {
		return EmptyState("No members found.", "Add one with: kanban member add --board <id> <username>", false)
	}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		star := ""
		if m.Starred {
			star = "★"
		}
		rows = append(rows, []string{
			model.FormatID(m.ID),
			strconv.Itoa(m.Position),
			names.User(model.UserRef(m.UserID)),
			boardNames[m.BoardID],
			star,
		})
	}
	return renderTable([]string{"ID", "Pos", "User", "Board", ""}, rows, 2)
}

func colorSwatch(color string) string {
	if !ColorsEnabled() {
		return color
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("● ") + color
}

// RenderLabelTable lists board labels.
func RenderLabelTable(labels []*model.Label, boardNames map[int]string) string {
	if len(labels) == 0 {
		return EmptyState("No labels found.", "Create one with: kanban label create --board <id> <name>", false)
	}
	rows := make([][]string, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []string{model.FormatID(l.ID), l.Name, colorSwatch(l.Color), boardNames[l.BoardID]})
	}
	return renderTable([]string{"ID", "Name", "Color", "Board"}, rows, 1)
}

// RenderTagTable lists personal tags.
func RenderTagTable(tags []*model.Tag, names Names) string {
	if len(tags) == 0 {
		return EmptyState("No tags found.", "Create one with: kanban tag create <name>", false)
	}
	rows := make([][]string, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, []string{model.FormatID(t.ID), t.Name, colorSwatch(t.Color), names.User(model.UserRef(t.UserID))})
	}
	return renderTable([]string{"ID", "Name", "Color", "Owner"}, rows, 1)
}

// RenderAttachmentTable lists attachments with their type resolved.
func RenderAttachmentTable(attachments []*model.Attachment, typeNames map[int]string, names Names) string {
	if len(attachments) == 0 {
		return EmptyState("No attachments found.", "Add one with: kanban attachment add --board <id> <name> <url>", false)
	}
	rows := make([][]string, 0, len(attachments))
	for _, a := range attachments {
		typ := ""
		if a.AttachmentTypeID != nil {
			typ = typeNames[*a.AttachmentTypeID]
		}
		rows = append(rows, []string{
			model.FormatID(a.ID),
			truncate(a.Name, maxNameWidth),
			typ,
			a.FilePath,
			names.User(a.UploadedBy),
			ago(a.UploadedTime),
		})
	}
	return renderTable([]string{"ID", "Name", "Type", "URL", "Uploaded By", "Uploaded"}, rows, 1)
}

// RenderAttachmentTypeTable lists attachment types and their extensions.
func RenderAttachmentTypeTable(types []*model.AttachmentType) string {
	if len(types) == 0 {
		return EmptyState("No attachment types found.", "Create one with: kanban attachment type-create <name> <images|documents>", false)
	}
	rows := make([][]string, 0, len(types))
	for _, t := range types {
		rows = append(rows, []string{
			model.FormatID(t.ID),
			t.Name,
			t.FileExtension.String(),
			strings.Join(t.FileExtension.Extensions(), " "),
		})
	}
	return renderTable([]string{"ID", "Name", "Group", "Extensions"}, rows, 1)
}

// FormatCount formats n with thousands separators, e.g. "1,204 cards".
func FormatCount(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), noun)
}
