package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
)

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage board memberships",
	Long: `Manage board memberships. Each membership has a position that orders
the boards of one user, and may be starred.`,
}

var memberAddCmd = &cobra.Command{
	Use:   "add <board-id> <username>",
	Short: "Add a user to a board",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		boardID, err := parseID(args[0], "board")
		if err != nil {
			return err
		}
		actor, err := getActor(cmd)
		if err != nil {
			return err
		}
		store := getStore(cmd)
		u, err := store.FindOrCreateUser(cmd.Context(), args[1])
		if err != nil {
			return err
		}

		m := &model.Member{BoardID: boardID, UserID: u.ID}
		m.Starred, _ = cmd.Flags().GetBool("star")
		m.Position, _ = cmd.Flags().GetInt("position")
		if err := getService(cmd).SaveMember(cmd.Context(), m, actor.Ref()); err != nil {
			return err
		}
		getWriter(cmd).Success(m, fmt.Sprintf("Added %s to board %s at position %d", u.Username, model.FormatID(boardID), m.Position))
		return nil
	},
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List memberships",
	Long: `List memberships. With --user the boards of that user are listed in
their member position order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := getStore(cmd)
		ctx := cmd.Context()
		var f db.MemberFilter
		var err error
		if f.BoardID, err = idFlag(cmd, "board"); err != nil {
			return err
		}
		if username, _ := cmd.Flags().GetString("user"); username != "" {
			u, err := store.GetUserByName(ctx, username)
			if err != nil {
				return err
			}
			f.UserID = u.ID
		}

		members, err := store.ListMembers(ctx, f)
		if err != nil {
			return err
		}
		w := getWriter(cmd)
		if w.JSONMode {
			w.Success(members, "")
			return nil
		}
		boards, err := boardNames(ctx, store)
		if err != nil {
			return err
		}
		users, err := userNames(ctx, store)
		if err != nil {
			return err
		}
		w.Success(members, render.RenderMemberTable(members, boards, users))
		return nil
	},
}

// memberUpdateCmd loads a membership, applies change and saves it.
func memberUpdateCmd(use, short string, nargs int, change func(m *model.Member, args []string) error, done string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "member")
			if err != nil {
				return err
			}
			actor, err := getActor(cmd)
			if err != nil {
				return err
			}
			m, err := getStore(cmd).GetMember(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := change(m, args[1:]); err != nil {
				return err
			}
			if err := getService(cmd).SaveMember(cmd.Context(), m, actor.Ref()); err != nil {
				return err
			}
			getWriter(cmd).Success(m, fmt.Sprintf(done, model.FormatID(m.ID)))
			return nil
		},
	}
}

func setStarred(starred bool) func(*model.Member, []string) error {
	return func(m *model.Member, _ []string) error {
		m.Starred = starred
		return nil
	}
}

func init() {
	memberAddCmd.Flags().Bool("star", false, "Star the board for the user")
	memberAddCmd.Flags().IntP("position", "p", 0, "Position among the user's boards")

	memberListCmd.Flags().StringP("board", "b", "", "Board ID")
	memberListCmd.Flags().StringP("user", "u", "", "Username")

	memberCmd.AddCommand(memberAddCmd, memberListCmd,
		memberUpdateCmd("star <id>", "Star a membership", 1, setStarred(true), "Starred member %s"),
		memberUpdateCmd("unstar <id>", "Unstar a membership", 1, setStarred(false), "Unstarred member %s"),
		memberUpdateCmd("move <id> <position>", "Set the position of a board for its user", 2,
			func(m *model.Member, args []string) error {
				p, err := parsePosition(args[0])
				if err != nil {
					return err
				}
				m.Position = p
				return nil
			}, "Moved member %s"),
		newDeleteCmd("member", "", (*db.Store).DeleteMember),
	)
	rootCmd.AddCommand(memberCmd)
}
