package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
)

type initResult struct {
	Path          string `json:"path"`
	DBPath        string `json:"db_path"`
	SchemaVersion int    `json:"schema_version"`
	Created       bool   `json:"created"`
}

var initCmd = &cobra.Command{
	Use:         "init",
	Short:       "Initialize a new kanban database",
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		cfg := getCfg(cmd)

		exists, err := cfg.Exists()
		if err != nil {
			return cmdErr(fmt.Errorf("checking database: %w", err), output.ErrGeneral)
		}

		if exists {
			w.Warn("Database already exists at %s", cfg.DBPath)
		} else if err := os.MkdirAll(cfg.KanbanDir, 0o755); err != nil {
			return cmdErr(fmt.Errorf("creating directory: %w", err), output.ErrGeneral)
		}

		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return cmdErr(fmt.Errorf("opening database: %w", err), output.ErrGeneral)
		}
		defer conn.Close()

		if !exists {
			if err := db.Initialize(conn); err != nil {
				return cmdErr(fmt.Errorf("initializing schema: %w", err), output.ErrGeneral)
			}
		}
		if err := db.Migrate(conn); err != nil {
			return cmdErr(fmt.Errorf("migrating schema: %w", err), output.ErrGeneral)
		}

		schemaVersion, err := db.SchemaVersion(conn)
		if err != nil {
			return cmdErr(fmt.Errorf("reading schema version: %w", err), output.ErrGeneral)
		}

		res := initResult{
			Path:          cfg.KanbanDir,
			DBPath:        cfg.DBPath,
			SchemaVersion: schemaVersion,
			Created:       !exists,
		}
		if exists {
			w.Success(res, "Database already initialized")
			return nil
		}

		w.Success(res, "Initialized kanban database")
		w.Info("Initialized kanban database at %s", cfg.DBPath)
		w.Info("Consider adding .kanban/ to your .gitignore")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
