// Package cli implements the kanban command line.
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FirstPrinciplesDevelopment/kanban/internal/config"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/db"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/lifecycle"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/logger"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/model"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/output"
	"github.com/FirstPrinciplesDevelopment/kanban/internal/render"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type contextKey string

const (
	dbKey     contextKey = "db"
	cfgKey    contextKey = "cfg"
	loggerKey contextKey = "logger"
)

// CmdError wraps an error with a machine-readable error code for structured output.
type CmdError struct {
	Err  error
	Code output.ErrorCode
}

func (e *CmdError) Error() string { return e.Err.Error() }

func (e *CmdError) Unwrap() error { return e.Err }

func cmdErr(err error, code output.ErrorCode) *CmdError {
	return &CmdError{Err: err, Code: code}
}

var rootCmd = &cobra.Command{
	Use:     "kanban",
	Short:   "Multi-tenant kanban boards with ordered containers and cards",
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Resolve()
		if err != nil {
			return err
		}

		log := logger.New(logger.Config{
			Writer: cmd.ErrOrStderr(),
			Format: cfg.LogFormat,
			Level:  logger.ParseLevel(cfg.LogLevel),
			Color:  render.ColorsEnabled(),
		})

		ctx := context.WithValue(cmd.Context(), cfgKey, cfg)
		ctx = context.WithValue(ctx, loggerKey, log)

		if _, ok := cmd.Annotations["skipDB"]; ok {
			cmd.SetContext(ctx)
			return nil
		}

		if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
			return cmdErr(
				fmt.Errorf("no kanban database found, run 'kanban init' to create one"),
				output.ErrNotFound,
			)
		}

		conn, err := db.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Migrate(conn); err != nil {
			conn.Close()
			return fmt.Errorf("migrating database: %w", err)
		}
		log.Debug("opened database", "path", cfg.DBPath)

		cmd.SetContext(context.WithValue(ctx, dbKey, conn))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		conn, ok := cmd.Context().Value(dbKey).(*sql.DB)
		if ok && conn != nil {
			return conn.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-essential output")
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
}

func getWriter(cmd *cobra.Command) *output.Writer {
	jsonMode, _ := cmd.Flags().GetBool("json")
	quietMode, _ := cmd.Flags().GetBool("quiet")
	w := output.New(jsonMode, quietMode)
	w.Stdout = cmd.OutOrStdout()
	w.Stderr = cmd.ErrOrStderr()
	return w
}

func getCfg(cmd *cobra.Command) *config.Config {
	cfg, _ := cmd.Context().Value(cfgKey).(*config.Config)
	return cfg
}

func getLogger(cmd *cobra.Command) *slog.Logger {
	if log, ok := cmd.Context().Value(loggerKey).(*slog.Logger); ok {
		return log
	}
	return logger.Discard()
}

func getDB(cmd *cobra.Command) *sql.DB {
	conn, _ := cmd.Context().Value(dbKey).(*sql.DB)
	return conn
}

func getStore(cmd *cobra.Command) *db.Store {
	return db.NewStore(getDB(cmd))
}

func getService(cmd *cobra.Command) *lifecycle.Service {
	return lifecycle.New(getStore(cmd), lifecycle.WithLogger(getLogger(cmd)))
}

// getActor returns the user commands are attributed to, creating it on first use.
func getActor(cmd *cobra.Command) (*model.User, error) {
	name := getCfg(cmd).ActorName()
	u, err := getStore(cmd).FindOrCreateUser(cmd.Context(), name)
	if err != nil {
		return nil, fmt.Errorf("resolving actor %q: %w", name, err)
	}
	return u, nil
}

// parseID parses a positional or flag ID, reporting failures as validation errors.
func parseID(raw, what string) (int, error) {
	id, err := model.ParseID(raw)
	if err != nil {
		return 0, cmdErr(fmt.Errorf("invalid %s ID: %w", what, err), output.ErrValidation)
	}
	return id, nil
}

// idFlag parses an optional ID flag. An unset flag yields zero.
func idFlag(cmd *cobra.Command, name string) (int, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return 0, nil
	}
	return parseID(raw, name)
}

// Execute runs the root command and returns an exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		jsonMode, _ := rootCmd.PersistentFlags().GetBool("json")
		quietMode, _ := rootCmd.PersistentFlags().GetBool("quiet")
		w := output.New(jsonMode, quietMode)
		w.Stdout = rootCmd.OutOrStdout()
		w.Stderr = rootCmd.ErrOrStderr()

		var ce *CmdError
		if errors.As(err, &ce) {
			return w.Error(ce.Err, ce.Code)
		}
		return w.Fail(err)
	}
	return 0
}
