package cli

import (
	"fmt"
	"os"
	"strings"

	humanize "github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/config"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
)

type configInfo struct {
	DBPath        string   `json:"db_path"`
	DBSizeBytes   int64    `json:"db_size_bytes"`
	SchemaVersion int      `json:"schema_version"`
	Actor         string   `json:"actor"`
	LogLevel      string   `json:"log_level"`
	LogFormat     string   `json:"log_format"`
	Addr          string   `json:"addr"`
	CORSOrigins   []string `json:"cors_origins"`
	KanbanPathEnv string   `json:"kanban_path_env"`
	KanbanPathSet bool     `json:"kanban_path_set"`
}

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Display kanban configuration",
	Annotations: map[string]string{"skipDB": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := getWriter(cmd)
		cfg := getCfg(cmd)

		info := configInfo{
			DBPath:        cfg.DBPath,
			Actor:         cfg.ActorName(),
			LogLevel:      cfg.LogLevel,
			LogFormat:     cfg.LogFormat,
			Addr:          cfg.Addr,
			CORSOrigins:   cfg.CORSOrigins,
			KanbanPathEnv: os.Getenv("KANBAN_PATH"),
			KanbanPathSet: cfg.EnvVarSet,
		}

		exists, err := cfg.Exists()
		if err != nil {
			return cmdErr(fmt.Errorf("checking database: %w", err), output.ErrGeneral)
		}

		if !exists {
			w.Warn("No kanban database found. Run 'kanban init' to create one.")
			w.Success(info, formatConfigHuman(info, true))
			return nil
		}

		if err := fillDBInfo(cfg, &info); err != nil {
			return cmdErr(err, output.ErrGeneral)
		}

		w.Success(info, formatConfigHuman(info, false))
		return nil
	},
}

func fillDBInfo(cfg *config.Config, info *configInfo) error {
	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer conn.Close()

	info.SchemaVersion, err = db.SchemaVersion(conn)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	stat, err := os.Stat(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("reading database file: %w", err)
	}
	info.DBSizeBytes = stat.Size()
	return nil
}

func formatEnvValue(val string) string {
	if val == "" {
		return "(not set)"
	}
	return val
}

func formatConfigHuman(info configInfo, notFound bool) string {
	dbPath := info.DBPath
	if notFound {
		dbPath = fmt.Sprintf("%s (not found)", info.DBPath)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Database path:   %s\n", dbPath)
	if !notFound {
		fmt.Fprintf(&b, "Database size:   %s\n", humanize.IBytes(uint64(info.DBSizeBytes)))
		fmt.Fprintf(&b, "Schema version:  %d\n", info.SchemaVersion)
	}
	fmt.Fprintf(&b, "Actor:           %s\n", info.Actor)
	fmt.Fprintf(&b, "Log:             %s (%s)\n", info.LogLevel, info.LogFormat)
	fmt.Fprintf(&b, "Serve address:   %s\n", info.Addr)
	fmt.Fprintf(&b, "CORS origins:    %s\n", strings.Join(info.CORSOrigins, ", "))
	fmt.Fprintf(&b, "KANBAN_PATH:     %s", formatEnvValue(info.KanbanPathEnv))

	return b.String()
}

func init() {
	rootCmd.AddCommand(configCmd)
}
