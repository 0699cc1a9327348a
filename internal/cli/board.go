package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage boards",
}

var boardCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}
		slug, _ := cmd.Flags().GetString("slug")

		b := &model.Board{Name: args[0], Slug: slug}
		if err := getService(cmd).SaveBoard(cmd.Context(), b, actor.Ref()); err != nil {
			return err
		}

		getWriter(cmd).Success(b, fmt.Sprintf("Created board %s: %s (%s)", model.FormatID(b.ID), b.Name, b.Slug))
		return nil
	},
}

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List boards",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		store := getStore(cmd)
		all, _ := cmd.Flags().GetBool("all")

		boards, err := store.ListBoards(cmd.Context(), all)
		if err != nil {
			return err
		}
		if w.JSONMode {
			w.Success(boards, "")
			return nil
		}

		names, err := userNames(cmd.Context(), store)
		if err != nil {
			return err
		}
		w.Success(boards, render.RenderBoardTable(boards, names))
		return nil
	},
}

type boardView struct {
	Board      *model.Board       `json:"board"`
	Containers []*model.Container `json:"containers"`
	Cards      []*model.Card      `json:"cards"`
}

var boardShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a board as columns of cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "board")
		if err != nil {
			return err
		}
		w := getWriter(cmd)
		store := getStore(cmd)
		ctx := cmd.Context()
		all, _ := cmd.Flags().GetBool("all")
		expand, _ := cmd.Flags().GetBool("expand")

		b, err := store.GetBoard(ctx, id)
		if err != nil {
			return err
		}
		containers, err := store.ListContainers(ctx, id, all)
		if err != nil {
			return err
		}
		cards, err := store.ListCards(ctx, db.CardFilter{BoardID: id, IncludeArchived: all})
		if err != nil {
			return err
		}

		view := boardView{Board: b, Containers: containers, Cards: cards}
		if w.JSONMode {
			w.Success(view, "")
			return nil
		}

		labels, err := labelNames(ctx, store, id)
		if err != nil {
			return err
		}
		w.Success(view, render.RenderBoard(b, containers, cards, render.BoardOptions{LabelNames: labels, Expand: expand}))
		return nil
	},
}

var boardRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a board; the slug is kept",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "board")
		if err != nil {
			return err
		}
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}
		b, err := getStore(cmd).GetBoard(cmd.Context(), id)
		if err != nil {
			return err
		}
		b.Name = args[1]
		if err := getService(cmd).SaveBoard(cmd.Context(), b, actor.Ref()); err != nil {
			return err
		}
		getWriter(cmd).Success(b, fmt.Sprintf("Renamed board %s to %s", model.FormatID(b.ID), b.Name))
		return nil
	},
}

func boardArchiveCmd(archive bool) *cobra.Command {
	use, verb := "archive", "Archived"
	if !archive {
		use, verb = "restore", "Restored"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "board")
			if err != nil {
				return err
			}
			actor, err := getActor(cmd)
			if err != nil {
				return err
			}
			svc := getService(cmd)
			var b *model.Board
			if archive {
				b, err = svc.ArchiveBoard(cmd.Context(), id, actor.Ref())
			} else {
				b, err = svc.RestoreBoard(cmd.Context(), id, actor.Ref())
			}
			if err != nil {
				return err
			}
			getWriter(cmd).Success(b, fmt.Sprintf("%s board %s: %s", verb, model.FormatID(b.ID), b.Name))
			return nil
		},
	}
}

var boardExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a board with its containers, cards and members",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "board")
		if err != nil {
			return err
		}
		w := getWriter(cmd)
		format, _ := cmd.Flags().GetString("format")
		format = strings.ToLower(format)
		if format != "json" && format != "yaml" && format != "yml" {
			return cmdErr(fmt.Errorf("unknown export format %q: must be json or yaml", format), output.ErrValidation)
		}
		outPath, _ := cmd.Flags().GetString("output")

		snap, err := getStore(cmd).ExportBoard(cmd.Context(), id)
		if err != nil {
			return err
		}

		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return cmdErr(fmt.Errorf("creating %s: %w", outPath, err), output.ErrGeneral)
			}
			defer f.Close()
			w.Stdout = f
		}

		write := w.JSON
		if format != "json" {
			write = w.YAML
		}
		if err := write(snap); err != nil {
			return cmdErr(err, output.ErrGeneral)
		}

		if outPath != "" {
			getWriter(cmd).Info("Exported board %s to %s", model.FormatID(id), outPath)
		}
		return nil
	},
}

func init() {
	boardCreateCmd.Flags().String("slug", "", "Slug (derived from the name when empty)")
	boardListCmd.Flags().BoolP("all", "a", false, "Include archived boards")
	boardShowCmd.Flags().BoolP("all", "a", false, "Include archived containers and cards")
	boardShowCmd.Flags().BoolP("expand", "e", false, "Show every card in each column")
	boardExportCmd.Flags().StringP("format", "f", "json", "Export format: json or yaml")
	boardExportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")

	boardCmd.AddCommand(boardCreateCmd, boardListCmd, boardShowCmd, boardRenameCmd,
		boardArchiveCmd(true), boardArchiveCmd(false), boardExportCmd,
		newDeleteCmd("board", "contents", (*db.Store).DeleteBoard))
	rootCmd.AddCommand(boardCmd)
}
