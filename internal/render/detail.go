package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
)

// CardContext carries the names a card detail view resolves ids against.
type CardContext struct {
	Container   string
	Board       string
	Labels      map[int]string
	Tags        map[int]string
	Members     map[int]string // member id -> username
	Attachments map[int]*model.Attachment
	Users       Names
}

// RenderCardDetail renders a card with its metadata, content and activity.
func RenderCardDetail(c *model.Card, ctx CardContext, activity []model.Activity) string {
	sections := []string{
		detailHeader(c),
		strings.Join(cardMetadata(c, ctx), "\n"),
	}

	if c.Content != "" {
		body, err := RenderMarkdown(c.Content)
		if err != nil {
			body = c.Content
		}
		sections = append(sections, section("Content")+"\n"+body)
	}

	if len(c.Attachments) > 0 {
		var lines []string
		for _, id := range c.Attachments {
			if a, ok := ctx.Attachments[id]; ok {
				lines = append(lines, fmt.Sprintf("  ▸ %s  %s", a.Name, StyledText(a.FilePath, dimStyle())))
			} else {
				lines = append(lines, "  ▸ "+model.FormatID(id))
			}
		}
		sections = append(sections, section("Attachments")+"\n"+strings.Join(lines, "\n"))
	}

	if len(activity) > 0 {
		sections = append(sections, RenderActivity(activity, ctx.Users))
	}

	return strings.Join(sections, "\n\n")
}

func dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
}

func section(title string) string {
	return StyledText(title, lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")))
}

func detailHeader(c *model.Card) string {
	id := StyledText(model.FormatID(c.ID), lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")))
	name := StyledText(c.Name, lipgloss.NewStyle().Bold(true))
	header := fmt.Sprintf("%s  %s", id, name)
	if c.Archived {
		header += "  " + StyledText("[archived]", lipgloss.NewStyle().Foreground(lipgloss.Color("11")))
	}
	return header
}

func cardMetadata(c *model.Card, ctx CardContext) []string {
	field := func(label, value string) string {
		return StyledText(label+":", dimStyle()) + " " + value
	}

	container := ctx.Container
	if container == "" {
		container = model.FormatID(c.ContainerID)
	}
	lines := []string{field("Container", fmt.Sprintf("%s (position %d)", container, c.Position))}
	if ctx.Board != "" {
		lines = append(lines, field("Board", ctx.Board))
	}
	lines = append(lines, field("Slug", c.Slug))

	if len(c.AssignedMembers) > 0 {
		lines = append(lines, field("Assigned", labelList(c.AssignedMembers, ctx.Members)))
	}
	if len(c.Labels) > 0 {
		lines = append(lines, field("Labels", labelList(c.Labels, ctx.Labels)))
	}
	if len(c.Tags) > 0 {
		lines = append(lines, field("Tags", labelList(c.Tags, ctx.Tags)))
	}
	if c.StartTime != nil {
		lines = append(lines, field("Start", c.StartTime.Format("2006-01-02 15:04")))
	}
	if c.EndTime != nil {
		lines = append(lines, field("End", c.EndTime.Format("2006-01-02 15:04")))
	}
	if c.Complexity.Valid {
		lines = append(lines, field("Complexity", c.Complexity.Decimal.String()))
	}
	if c.Hours.Valid {
		lines = append(lines, field("Hours", c.Hours.Decimal.String()))
	}

	lines = append(lines,
		field("Created", fmt.Sprintf("%s by %s", ago(c.CreatedTime), ctx.Users.User(c.CreatedBy))),
		field("Updated", fmt.Sprintf("%s by %s", ago(c.ChangedTime), ctx.Users.User(c.ChangedBy))),
	)
	if c.Archived && c.ArchivedTime != nil {
		lines = append(lines, field("Archived", fmt.Sprintf("%s by %s", ago(*c.ArchivedTime), ctx.Users.User(c.ArchivedBy))))
	}
	return lines
}

// activityIcon returns a semantic icon for an activity entry.
func activityIcon(a model.Activity) string {
	switch {
	case a.FieldChanged == "created":
		return "✨"
	case a.FieldChanged == "archived":
		return "▣"
	case a.FieldChanged == "position":
		return "↕"
	case strings.HasSuffix(a.FieldChanged, "_added"), strings.HasSuffix(a.FieldChanged, "_removed"):
		return "⛓"
	default:
		return "✎"
	}
}

// RenderActivity renders a change log, one line per entry.
func RenderActivity(activity []model.Activity, users Names) string {
	if len(activity) == 0 {
		return EmptyState("No activity recorded.", "", false)
	}

	lines := make([]string, 0, len(activity)+1)
	lines = append(lines, section("Activity"))
	for _, a := range activity {
		when := StyledText(ago(a.CreatedAt), dimStyle())
		actor := users.User(a.ChangedBy)
		if a.FieldChanged == "created" {
			lines = append(lines, fmt.Sprintf("  %s %s created %s %q  %s", activityIcon(a), actor, a.EntityType, a.NewValue, when))
			continue
		}

		var detail string
		switch {
		case a.OldValue != "" && a.NewValue != "":
			detail = fmt.Sprintf("%s -> %s", a.OldValue, a.NewValue)
		case a.NewValue != "":
			detail = "set " + a.NewValue
		case a.OldValue != "":
			detail = "cleared " + a.OldValue
		}
		field := StyledText(a.FieldChanged, lipgloss.NewStyle().Bold(true))
		lines = append(lines, fmt.Sprintf("  %s %s changed %s: %s  %s", activityIcon(a), actor, field, detail, when))
	}
	return strings.Join(lines, "\n")
}
