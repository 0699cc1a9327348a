package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
)

var containerCmd = &cobra.Command{
	Use:     "container",
	Aliases: []string{"column"},
	Short:   "Manage the containers (columns) of a board",
}

var containerCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a container at the end of a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		boardFlag, _ := cmd.Flags().GetString("board")
		if boardFlag == "" {
			return cmdErr(fmt.Errorf("--board is required"), output.ErrValidation)
		}
		boardID, err := parseID(boardFlag, "board")
		if err != nil {
			return err
		}
		position, _ := cmd.Flags().GetInt("position")
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}

		c := &model.Container{BoardID: boardID, Name: args[0], Position: position}
		if err := getService(cmd).SaveContainer(cmd.Context(), c, actor.Ref()); err != nil {
			return err
		}

		getWriter(cmd).Success(c, fmt.Sprintf("Created container %s: %s at position %d", model.FormatID(c.ID), c.Name, c.Position))
		return nil
	},
}

var containerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List containers in position order",
	RunE: func(cmd *cobra.Command, args []string) error {
		boardID := 0
		if boardFlag, _ := cmd.Flags().GetString("board"); boardFlag != "" {
			var err error
			if boardID, err = parseID(boardFlag, "board"); err != nil {
				return err
			}
		}
		all, _ := cmd.Flags().GetBool("all")

		containers, err := getStore(cmd).ListContainers(cmd.Context(), boardID, all)
		if err != nil {
			return err
		}
		getWriter(cmd).Success(containers, render.RenderContainerTable(containers))
		return nil
	},
}

var containerMoveCmd = &cobra.Command{
	Use:   "move <id> <position>",
	Short: "Set the position of a container; other containers keep theirs",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "container")
		if err != nil {
			return err
		}
		position, err := parsePosition(args[1])
		if err != nil {
			return err
		}
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}

		c, err := getService(cmd).MoveContainer(cmd.Context(), id, position, actor.Ref())
		if err != nil {
			return err
		}
		getWriter(cmd).Success(c, fmt.Sprintf("Moved container %s to position %d", model.FormatID(c.ID), c.Position))
		return nil
	},
}

var containerRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a container; the slug is kept",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "container")
		if err != nil {
			return err
		}
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}
		c, err := getStore(cmd).GetContainer(cmd.Context(), id)
		if err != nil {
			return err
		}
		c.Name = args[1]
		if err := getService(cmd).SaveContainer(cmd.Context(), c, actor.Ref()); err != nil {
			return err
		}
		getWriter(cmd).Success(c, fmt.Sprintf("Renamed container %s to %s", model.FormatID(c.ID), c.Name))
		return nil
	},
}

func containerArchiveCmd(archive bool) *cobra.Command {
	use, verb := "archive", "Archived"
	if !archive {
		use, verb = "restore", "Restored"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: strings.ToUpper(use[:1]) + use[1:] + " a container; its position is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "container")
			if err != nil {
				return err
			}
			actor, err := getActor(cmd)
			if err != nil {
				return err
			}
			svc := getService(cmd)
			var c *model.Container
			if archive {
				c, err = svc.ArchiveContainer(cmd.Context(), id, actor.Ref())
			} else {
				c, err = svc.RestoreContainer(cmd.Context(), id, actor.Ref())
			}
			if err != nil {
				return err
			}
			getWriter(cmd).Success(c, fmt.Sprintf("%s container %s: %s", verb, model.FormatID(c.ID), c.Name))
			return nil
		},
	}
}

// parsePosition parses a 1-based position argument.
func parsePosition(raw string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || p <= 0 {
		return 0, cmdErr(fmt.Errorf("invalid position %q: must be a positive integer", raw), output.ErrValidation)
	}
	return p, nil
}

func init() {
	containerCreateCmd.Flags().StringP("board", "b", "", "Board ID (required)")
	containerCreateCmd.Flags().IntP("position", "p", 0, "Position (appended after the last container when 0)")
	containerListCmd.Flags().StringP("board", "b", "", "Board ID")
	containerListCmd.Flags().BoolP("all", "a", false, "Include archived containers")

	containerCmd.AddCommand(containerCreateCmd, containerListCmd, containerMoveCmd, containerRenameCmd,
		containerArchiveCmd(true), containerArchiveCmd(false),
		newDeleteCmd("container", "cards", (*db.Store).DeleteContainer))
	rootCmd.AddCommand(containerCmd)
}
