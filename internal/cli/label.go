package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/validation"
)

var labelCmd = &cobra.Command{
	Use:   "label",
	Short: "Manage board labels",
}

var labelCreateCmd = &cobra.Command{
	Use:   "create <board-id> <name>",
	Short: "Create a label visible to the members of a board",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		boardID, err := parseID(args[0], "board")
		if err != nil {
			return err
		}
		l := &model.Label{BoardID: boardID, Name: args[1]}
		l.Color, _ = cmd.Flags().GetString("color")
		if err := validation.New().Validate(l); err != nil {
			return err
		}
		if err := getStore(cmd).CreateLabel(cmd.Context(), l); err != nil {
			return err
		}
		getWriter(cmd).Success(l, fmt.Sprintf("Created label %s: %s", model.FormatID(l.ID), l.Name))
		return nil
	},
}

var labelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List labels by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		boardID, err := idFlag(cmd, "board")
		if err != nil {
			return err
		}
		store := getStore(cmd)
		labels, err := store.ListLabels(cmd.Context(), boardID)
		if err != nil {
			return err
		}
		boards, err := boardNames(cmd.Context(), store)
		if err != nil {
			return err
		}
		getWriter(cmd).Success(labels, render.RenderLabelTable(labels, boards))
		return nil
	},
}

var labelEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Rename or recolour a label",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !anyChanged(cmd, "name", "color") {
			return cmdErr(fmt.Errorf("nothing to change: use --name or --color"), output.ErrValidation)
		}
		id, err := parseID(args[0], "label")
		if err != nil {
			return err
		}
		store := getStore(cmd)
		l, err := store.GetLabel(cmd.Context(), id)
		if err != nil {
			return err
		}
		applyNameColor(cmd, &l.Name, &l.Color)
		if err := validation.New().Validate(l); err != nil {
			return err
		}
		if err := store.UpdateLabel(cmd.Context(), l); err != nil {
			return err
		}
		getWriter(cmd).Success(l, fmt.Sprintf("Updated label %s: %s", model.FormatID(l.ID), l.Name))
		return nil
	},
}

// applyNameColor copies the --name and --color flags that were given.
func applyNameColor(cmd *cobra.Command, name, color *string) {
	if cmd.Flags().Changed("name") {
		*name, _ = cmd.Flags().GetString("name")
	}
	if cmd.Flags().Changed("color") {
		*color, _ = cmd.Flags().GetString("color")
	}
}

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Manage your personal tags",
}

var tagCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a tag owned by the current user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}
		t := &model.Tag{UserID: actor.ID, Name: args[0]}
		t.Color, _ = cmd.Flags().GetString("color")
		if err := validation.New().Validate(t); err != nil {
			return err
		}
		if err := getStore(cmd).CreateTag(cmd.Context(), t); err != nil {
			return err
		}
		getWriter(cmd).Success(t, fmt.Sprintf("Created tag %s: %s", model.FormatID(t.ID), t.Name))
		return nil
	},
}

var tagListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your tags by name",
	RunE: func(cmd *cobra.Command, args []string) error {
		ownerID := 0
		if all, _ := cmd.Flags().GetBool("all"); !all {
			actor, err := getActor(cmd)
			if err != nil {
				return err
			}
			ownerID = actor.ID
		}
		store := getStore(cmd)
		tags, err := store.ListTags(cmd.Context(), ownerID)
		if err != nil {
			return err
		}
		users, err := userNames(cmd.Context(), store)
		if err != nil {
			return err
		}
		getWriter(cmd).Success(tags, render.RenderTagTable(tags, users))
		return nil
	},
}

var tagEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Rename or recolour a tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !anyChanged(cmd, "name", "color") {
			return cmdErr(fmt.Errorf("nothing to change: use --name or --color"), output.ErrValidation)
		}
		id, err := parseID(args[0], "tag")
		if err != nil {
			return err
		}
		store := getStore(cmd)
		t, err := store.GetTag(cmd.Context(), id)
		if err != nil {
			return err
		}
		applyNameColor(cmd, &t.Name, &t.Color)
		if err := validation.New().Validate(t); err != nil {
			return err
		}
		if err := store.UpdateTag(cmd.Context(), t); err != nil {
			return err
		}
		getWriter(cmd).Success(t, fmt.Sprintf("Updated tag %s: %s", model.FormatID(t.ID), t.Name))
		return nil
	},
}

func init() {
	labelCreateCmd.Flags().String("color", "", "Hex colour, e.g. #ff8800")
	labelListCmd.Flags().StringP("board", "b", "", "Board ID")
	for _, c := range []*cobra.Command{labelEditCmd, tagEditCmd} {
		c.Flags().StringP("name", "n", "", "New name")
		c.Flags().String("color", "", "Hex colour, e.g. #ff8800")
	}
	labelCmd.AddCommand(labelCreateCmd, labelListCmd, labelEditCmd,
		newDeleteCmd("label", "", (*db.Store).DeleteLabel))

	tagCreateCmd.Flags().String("color", "", "Hex colour, e.g. #ff8800")
	tagListCmd.Flags().BoolP("all", "a", false, "List the tags of every user")
	tagCmd.AddCommand(tagCreateCmd, tagListCmd, tagEditCmd,
		newDeleteCmd("tag", "", (*db.Store).DeleteTag))

	rootCmd.AddCommand(labelCmd, tagCmd)
}
