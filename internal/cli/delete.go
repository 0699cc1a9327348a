package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
)

type deleteResult struct {
	ID      int  `json:"id"`
	Deleted bool `json:"deleted"`
}

// storeDelete is a Store delete method taken as a method expression.
type storeDelete func(*db.Store, context.Context, int, model.UserRef) error

// newDeleteCmd builds "<what> delete <id>". When cascades is set the command
// removes more than the row itself and asks for confirmation unless --force
// is given. Sibling positions are never renumbered.
func newDeleteCmd(what, cascades string, remove storeDelete) *cobra.Command {
	article := "a "
	if strings.ContainsRune("aeiou", rune(what[0])) {
		article = "an "
	}
	short := "Delete " + article + what + " by ID"
	if cascades != "" {
		short = "Delete " + article + what + " with its " + cascades
	}
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := getWriter(cmd)
			id, err := parseID(args[0], what)
			if err != nil {
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			if cascades != "" && !force {
				if w.JSONMode || !term.IsTerminal(int(os.Stdin.Fd())) {
					return cmdErr(fmt.Errorf("deleting %s %s also deletes its %s: use --force", what, model.FormatID(id), cascades), output.ErrValidation)
				}
				var confirmed bool
				form := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete %s %s and all its %s?", what, model.FormatID(id), cascades)).
						Value(&confirmed),
				))
				if err := form.Run(); err != nil && !errors.Is(err, huh.ErrUserAborted) {
					return cmdErr(fmt.Errorf("interactive form failed: %w", err), output.ErrGeneral)
				}
				if !confirmed {
					w.Info("Cancelled.")
					return nil
				}
			}

			actor, err := getActor(cmd)
			if err != nil {
				return err
			}
			if err := remove(getStore(cmd), cmd.Context(), id, actor.Ref()); err != nil {
				return err
			}
			w.Success(deleteResult{ID: id, Deleted: true}, fmt.Sprintf("Deleted %s %s", what, model.FormatID(id)))
			return nil
		},
	}
	if cascades != "" {
		cmd.Flags().BoolP("force", "f", false, "Skip confirmation")
	}
	return cmd
}
