package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print kanban version information",
	Annotations: map[string]string{"skipDB": "true"},
	Run: func(cmd *cobra.Command, args []string) {
		w := getWriter(cmd)

		bold := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		msg := fmt.Sprintf("kanban version %s %s",
			render.StyledText(version, bold),
			render.StyledText(fmt.Sprintf("(commit: %s, built: %s)", commit, buildDate), dim),
		)

		w.Success(struct {
			Version   string `json:"version"`
			Commit    string `json:"commit"`
			BuildDate string `json:"build_date"`
		}{
			Version:   version,
			Commit:    commit,
			BuildDate: buildDate,
		}, msg)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user commands are attributed to",
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := getActor(cmd)
		if err != nil {
			return err
		}
		getWriter(cmd).Success(u, fmt.Sprintf("%s (%s)", u.Username, model.FormatID(u.ID)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(whoamiCmd)
}
