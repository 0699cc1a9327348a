package config

import (
	"context"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	dbFileName = "kanban.db"

	defaultAddr     = ":8080"
	defaultLogLevel = "warn"
)

// Config holds resolved configuration for the kanban directory, database,
// logging and HTTP server.
type Config struct {
	KanbanDir   string   // resolved .kanban directory path
	DBPath      string   // full path to kanban.db
	EnvVarSet   bool     // whether KANBAN_PATH was used
	Actor       string   // KANBAN_ACTOR, empty when unset
	LogLevel    string   // KANBAN_LOG_LEVEL
	LogFormat   string   // KANBAN_LOG_FORMAT: text or json
	Addr        string   // KANBAN_ADDR
	CORSOrigins []string // KANBAN_CORS_ORIGINS, comma separated
}

// Resolve returns the current configuration by checking KANBAN_PATH first,
// then falling back to $PWD/.kanban.
func Resolve() (*Config, error) {
	var kanbanDir string
	var envVarSet bool

	if envPath := os.Getenv("KANBAN_PATH"); envPath != "" {
		kanbanDir = envPath
		envVarSet = true
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		kanbanDir = filepath.Join(cwd, ".kanban")
	}

	return &Config{
		KanbanDir:   kanbanDir,
		DBPath:      filepath.Join(kanbanDir, dbFileName),
		EnvVarSet:   envVarSet,
		Actor:       strings.TrimSpace(os.Getenv("KANBAN_ACTOR")),
		LogLevel:    envOr("KANBAN_LOG_LEVEL", defaultLogLevel),
		LogFormat:   envOr("KANBAN_LOG_FORMAT", "text"),
		Addr:        envOr("KANBAN_ADDR", defaultAddr),
		CORSOrigins: splitList(envOr("KANBAN_CORS_ORIGINS", "*")),
	}, nil
}

// Exists checks if the kanban directory and DB file both exist.
// It returns an error for non-existence failures (e.g. permission errors).
func (c *Config) Exists() (bool, error) {
	if _, err := os.Stat(c.KanbanDir); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if _, err := os.Stat(c.DBPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ActorName returns the username that CLI actions are attributed to:
// KANBAN_ACTOR when set, DefaultActor otherwise.
func (c *Config) ActorName() string {
	if c.Actor != "" {
		return c.Actor
	}
	return DefaultActor()
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var (
	defaultActor     string
	defaultActorOnce sync.Once
)

// DefaultActor returns the username actions are attributed to when no actor
// is configured. It tries git config user.name first and falls back to the
// OS username. The result is cached for the lifetime of the process.
func DefaultActor() string {
	defaultActorOnce.Do(func() {
		defaultActor = resolveActor()
	})
	return defaultActor
}

func resolveActor() string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "git", "config", "user.name").Output()
	if err == nil {
		if name := strings.TrimSpace(string(out)); name != "" {
			return name
		}
	}

	u, err := user.Current()
	if err == nil && u.Username != "" {
		return u.Username
	}

	return "unknown"
}
