package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
)

var logEntities = map[string]string{
	"board":     db.EntityBoard,
	"container": db.EntityContainer,
	"column":    db.EntityContainer,
	"card":      db.EntityCard,
	"member":    db.EntityMember,
}

var logCmd = &cobra.Command{
	Use:       "log <board|container|card|member> <id>",
	Short:     "Show the change history of an entity, newest first",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"board", "container", "card", "member"},
	RunE: func(cmd *cobra.Command, args []string) error {
		entity, ok := logEntities[args[0]]
		if !ok {
			return cmdErr(fmt.Errorf("unknown entity type %q: must be board, container, card or member", args[0]), output.ErrValidation)
		}
		id, err := parseID(args[1], args[0])
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")

		store := getStore(cmd)
		activity, err := store.ListActivity(cmd.Context(), entity, id, limit)
		if err != nil {
			return err
		}
		w := getWriter(cmd)
		if w.JSONMode {
			w.Success(activity, "")
			return nil
		}
		if len(activity) == 0 {
			w.Success(activity, render.EmptyState(fmt.Sprintf("No activity for %s %s.", args[0], args[1]), "", w.QuietMode))
			return nil
		}
		users, err := userNames(cmd.Context(), store)
		if err != nil {
			return err
		}
		w.Success(activity, render.RenderActivity(activity, users))
		return nil
	},
}

func init() {
	logCmd.Flags().IntP("limit", "n", 50, "Maximum number of entries")
	rootCmd.AddCommand(logCmd)
}
