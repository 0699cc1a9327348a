package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/filter"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/lifecycle"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Manage cards",
}

// cardRelations maps link command names to the card link tables.
var cardRelations = map[string]db.Relation{
	db.CardMembers.Name:     db.CardMembers,
	db.CardLabels.Name:      db.CardLabels,
	db.CardTags.Name:        db.CardTags,
	db.CardAttachments.Name: db.CardAttachments,
}

// cardFieldFlags applies the field flags that were set on cmd to c.
func cardFieldFlags(cmd *cobra.Command, c *model.Card) error {
	flags := cmd.Flags()
	if flags.Changed("name") {
		c.Name, _ = flags.GetString("name")
	}
	if flags.Changed("content") {
		content, _ := flags.GetString("content")
		if content == "-" {
			const maxStdinSize = 1 << 20 // 1 MiB
			data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), maxStdinSize))
			if err != nil {
				return cmdErr(fmt.Errorf("reading content from stdin: %w", err), output.ErrGeneral)
			}
			content = strings.TrimRight(string(data), "\n")
		}
		c.Content = content
	}
	for _, tf := range []struct {
		flag string
		dst  **time.Time
	}{{"start", &c.StartTime}, {"end", &c.EndTime}} {
		if !flags.Changed(tf.flag) {
			continue
		}
		raw, _ := flags.GetString(tf.flag)
		t, err := parseTimeFlag(raw)
		if err != nil {
			return cmdErr(fmt.Errorf("invalid --%s: %w", tf.flag, err), output.ErrValidation)
		}
		*tf.dst = t
	}
	for flag, dst := range map[string]*decimal.NullDecimal{"complexity": &c.Complexity, "hours": &c.Hours} {
		if !flags.Changed(flag) {
			continue
		}
		raw, _ := flags.GetString(flag)
		d, err := model.ParseDecimal(raw)
		if err != nil {
			return cmdErr(fmt.Errorf("invalid --%s %q: %w", flag, raw, err), output.ErrValidation)
		}
		*dst = d
	}
	if flags.Changed("position") {
		c.Position, _ = flags.GetInt("position")
	}
	return nil
}

// parseTimeFlag accepts RFC 3339 or a plain date. An empty value clears the time.
func parseTimeFlag(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%q is not RFC 3339 or YYYY-MM-DD", raw)
}

func parseIDs(raw []string, what string) ([]int, error) {
	ids := make([]int, 0, len(raw))
	for _, r := range raw {
		id, err := parseID(r, what)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

var cardCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a card at the end of a container",
	Long: `Create a card. Without a name, and when attached to a terminal, an
interactive form asks for the name and content.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		containerFlag, _ := cmd.Flags().GetString("container")
		if containerFlag == "" {
			return cmdErr(fmt.Errorf("--container is required"), output.ErrValidation)
		}
		containerID, err := parseID(containerFlag, "container")
		if err != nil {
			return err
		}

		c := &model.Card{ContainerID: containerID}
		if len(args) == 1 {
			c.Name = args[0]
		}
		if err := cardFieldFlags(cmd, c); err != nil {
			return err
		}

		if c.Name == "" {
			if w.JSONMode || !term.IsTerminal(int(os.Stdin.Fd())) {
				return cmdErr(fmt.Errorf("a card name is required"), output.ErrValidation)
			}
			form := huh.NewForm(huh.NewGroup(
				huh.NewInput().
					Title("Name").
					Value(&c.Name).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return fmt.Errorf("name is required")
						}
						return nil
					}),
				huh.NewText().
					Title("Content (markdown)").
					Value(&c.Content),
			))
			if err := form.Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					w.Info("Cancelled.")
					return nil
				}
				return cmdErr(fmt.Errorf("interactive form failed: %w", err), output.ErrGeneral)
			}
		}

		for flag, dst := range map[string]*[]int{"label": &c.Labels, "tag": &c.Tags, "assign": &c.AssignedMembers} {
			raw, _ := cmd.Flags().GetStringSlice(flag)
			if *dst, err = parseIDs(raw, flag); err != nil {
				return err
			}
		}

		actor, err := getActor(cmd)
		if err != nil {
			return err
		}
		if err := getService(cmd).SaveCard(cmd.Context(), c, actor.Ref(), lifecycle.SaveOptions{}); err != nil {
			return err
		}

		w.Success(c, fmt.Sprintf("Created card %s: %s at position %d", model.FormatID(c.ID), c.Name, c.Position))
		return nil
	},
}

var cardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards by container position, then card position",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		store := getStore(cmd)
		var f db.CardFilter
		f.IncludeArchived, _ = cmd.Flags().GetBool("all")
		for flag, dst := range map[string]*int{"container": &f.ContainerID, "board": &f.BoardID} {
			if raw, _ := cmd.Flags().GetString(flag); raw != "" {
				id, err := parseID(raw, flag)
				if err != nil {
					return err
				}
				*dst = id
			}
		}

		cards, err := store.ListCards(cmd.Context(), f)
		if err != nil {
			return err
		}
		rawLabels, _ := cmd.Flags().GetStringSlice("label")
		labels, err := parseIDs(rawLabels, "label")
		if err != nil {
			return err
		}
		rawMembers, _ := cmd.Flags().GetStringSlice("assignee")
		members, err := parseIDs(rawMembers, "member")
		if err != nil {
			return err
		}
		cards = filter.Cards(cards, labels, members)
		if w.JSONMode {
			w.Success(cards, "")
			return nil
		}

		names, err := containerNames(cmd.Context(), store, f.BoardID)
		if err != nil {
			return err
		}
		w.Success(cards, render.RenderCardTable(cards, names))
		return nil
	},
}

type cardView struct {
	Card     *model.Card      `json:"card"`
	Activity []model.Activity `json:"activity"`
}

var cardShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a card with its content and recent activity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "card")
		if err != nil {
			return err
		}
		w := getWriter(cmd)
		store := getStore(cmd)
		ctx := cmd.Context()
		limit, _ := cmd.Flags().GetInt("activity")

		c, err := store.GetCard(ctx, id)
		if err != nil {
			return err
		}
		activity, err := store.ListActivity(ctx, db.EntityCard, id, limit)
		if err != nil {
			return err
		}
		view := cardView{Card: c, Activity: activity}
		if w.JSONMode {
			w.Success(view, "")
			return nil
		}

		detail, err := loadCardContext(cmd, store, c)
		if err != nil {
			return err
		}
		w.Success(view, render.RenderCardDetail(c, detail, activity))
		return nil
	},
}

// loadCardContext resolves the names shown in a card detail view.
func loadCardContext(cmd *cobra.Command, store *db.Store, c *model.Card) (render.CardContext, error) {
	ctx := cmd.Context()
	var out render.CardContext

	container, err := store.GetContainer(ctx, c.ContainerID)
	if err != nil {
		return out, err
	}
	board, err := store.GetBoard(ctx, container.BoardID)
	if err != nil {
		return out, err
	}
	out.Container, out.Board = container.Name, board.Name

	if out.Users, err = userNames(ctx, store); err != nil {
		return out, err
	}
	if out.Labels, err = labelNames(ctx, store, board.ID); err != nil {
		return out, err
	}

	tags, err := store.ListTags(ctx, 0)
	if err != nil {
		return out, err
	}
	out.Tags = make(map[int]string, len(tags))
	for _, t := range tags {
		out.Tags[t.ID] = t.Name
	}

	members, err := store.ListMembers(ctx, db.MemberFilter{BoardID: board.ID})
	if err != nil {
		return out, err
	}
	out.Members = make(map[int]string, len(members))
	for _, m := range members {
		out.Members[m.ID] = out.Users.User(model.UserRef(m.UserID))
	}

	attachments, err := store.ListAttachments(ctx, board.ID)
	if err != nil {
		return out, err
	}
	out.Attachments = make(map[int]*model.Attachment, len(attachments))
	for _, a := range attachments {
		out.Attachments[a.ID] = a
	}
	return out, nil
}

var cardEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change the fields of a card",
	Long: `Change the fields of a card. Only the flags given are changed. Setting
--position renumbers the other cards of the container around the card.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "card")
		if err != nil {
			return err
		}
		if !anyChanged(cmd, cardEditFields...) {
			return cmdErr(fmt.Errorf("nothing to change: pass at least one field flag"), output.ErrValidation)
		}
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}

		c, err := getStore(cmd).GetCard(cmd.Context(), id)
		if err != nil {
			return err
		}
		if err := cardFieldFlags(cmd, c); err != nil {
			return err
		}
		if err := getService(cmd).SaveCard(cmd.Context(), c, actor.Ref(), lifecycle.SaveOptions{}); err != nil {
			return err
		}
		getWriter(cmd).Success(c, fmt.Sprintf("Updated card %s: %s", model.FormatID(c.ID), c.Name))
		return nil
	},
}

var cardMoveCmd = &cobra.Command{
	Use:   "move <id>",
	Short: "Move a card within its container or to another container",
	Long: `Move a card. With --position the card takes that slot and its siblings
are renumbered around it. With --container and no --position the card is
appended to the end of the new container.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "card")
		if err != nil {
			return err
		}
		containerID := 0
		if raw, _ := cmd.Flags().GetString("container"); raw != "" {
			if containerID, err = parseID(raw, "container"); err != nil {
				return err
			}
		}
		position, _ := cmd.Flags().GetInt("position")
		if containerID == 0 && position == 0 {
			return cmdErr(fmt.Errorf("pass --position, --container or both"), output.ErrValidation)
		}
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}

		c, err := getService(cmd).MoveCard(cmd.Context(), id, containerID, position, actor.Ref())
		if err != nil {
			return err
		}
		getWriter(cmd).Success(c, fmt.Sprintf("Moved card %s to position %d of container %s",
			model.FormatID(c.ID), c.Position, model.FormatID(c.ContainerID)))
		return nil
	},
}

func cardArchiveCmd(archive bool) *cobra.Command {
	use, verb := "archive", "Archived"
	if !archive {
		use, verb = "restore", "Restored"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a card; its position is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "card")
			if err != nil {
				return err
			}
			actor, err := getActor(cmd)
			if err != nil {
				return err
			}
			svc := getService(cmd)
			var c *model.Card
			if archive {
				c, err = svc.ArchiveCard(cmd.Context(), id, actor.Ref())
			} else {
				c, err = svc.RestoreCard(cmd.Context(), id, actor.Ref())
			}
			if err != nil {
				return err
			}
			getWriter(cmd).Success(c, fmt.Sprintf("%s card %s: %s", verb, model.FormatID(c.ID), c.Name))
			return nil
		},
	}
}

func cardLinkCmd(link bool) *cobra.Command {
	use, verb := "link", "Linked"
	if !link {
		use, verb = "unlink", "Unlinked"
	}
	return &cobra.Command{
		Use:       use + " <id> <assignee|label|tag|attachment> <target-id>",
		Short:     strings.ToUpper(use[:1]) + use[1:] + " a member, label, tag or attachment",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"assignee", "label", "tag", "attachment"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "card")
			if err != nil {
				return err
			}
			rel, ok := cardRelations[args[1]]
			if !ok {
				return cmdErr(fmt.Errorf("unknown relation %q: must be assignee, label, tag or attachment", args[1]), output.ErrValidation)
			}
			target, err := parseID(args[2], args[1])
			if err != nil {
				return err
			}
			actor, err := getActor(cmd)
			if err != nil {
				return err
			}

			store := getStore(cmd)
			if link {
				err = store.Link(cmd.Context(), rel, id, target, actor.Ref())
			} else {
				err = store.Unlink(cmd.Context(), rel, id, target, actor.Ref())
			}
			if err != nil {
				return err
			}
			c, err := store.GetCard(cmd.Context(), id)
			if err != nil {
				return err
			}
			getWriter(cmd).Success(c, fmt.Sprintf("%s %s %s on card %s", verb, rel.Name, model.FormatID(target), model.FormatID(id)))
			return nil
		},
	}
}

var cardEditFields = []string{"name", "content", "start", "end", "complexity", "hours", "position"}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, n := range names {
		if cmd.Flags().Changed(n) {
			return true
		}
	}
	return false
}

func addCardFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("content", "d", "", "Markdown content (use \"-\" for stdin)")
	cmd.Flags().String("start", "", "Start time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End time (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().String("complexity", "", "Complexity estimate")
	cmd.Flags().String("hours", "", "Hours estimate")
	cmd.Flags().IntP("position", "p", 0, "Position within the container")
}

func init() {
	cardCreateCmd.Flags().StringP("container", "c", "", "Container ID (required)")
	cardCreateCmd.Flags().StringP("name", "n", "", "Card name")
	addCardFieldFlags(cardCreateCmd)
	cardCreateCmd.Flags().StringSliceP("label", "l", nil, "Label IDs (repeatable)")
	cardCreateCmd.Flags().StringSliceP("tag", "t", nil, "Tag IDs (repeatable)")
	cardCreateCmd.Flags().StringSlice("assign", nil, "Member IDs to assign (repeatable)")

	cardListCmd.Flags().StringP("container", "c", "", "Container ID")
	cardListCmd.Flags().StringP("board", "b", "", "Board ID")
	cardListCmd.Flags().BoolP("all", "a", false, "Include archived cards")
	cardListCmd.Flags().StringSliceP("label", "l", nil, "Only cards with every given label ID")
	cardListCmd.Flags().StringSlice("assignee", nil, "Only cards assigned to every given member ID")

	cardShowCmd.Flags().Int("activity", 20, "Number of activity entries to show")

	cardEditCmd.Flags().StringP("name", "n", "", "Card name")
	addCardFieldFlags(cardEditCmd)

	cardMoveCmd.Flags().StringP("container", "c", "", "Target container ID")
	cardMoveCmd.Flags().IntP("position", "p", 0, "Target position")

	cardCmd.AddCommand(cardCreateCmd, cardListCmd, cardShowCmd, cardEditCmd, cardMoveCmd,
		cardArchiveCmd(true), cardArchiveCmd(false), cardLinkCmd(true), cardLinkCmd(false),
		newDeleteCmd("card", "", (*db.Store).DeleteCard))
	rootCmd.AddCommand(cardCmd)
}
