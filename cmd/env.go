package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/ccprep/internal/catalog"
	"github.com/abhisek/ccprep/internal/config"
	"github.com/abhisek/ccprep/internal/history"
	"github.com/abhisek/ccprep/internal/logging"
	"github.com/abhisek/ccprep/internal/store"
)

// env is everything a command needs: configuration, the catalog and the
// attempt log replayed from storage.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	catalog *catalog.Repository
	history *history.History

	// store is nil when the database could not be opened; the history is
	// then empty and nothing is persisted.
	store *store.Store
}

// loadEnv resolves configuration (flags over config over defaults), opens
// the catalog and the store, and replays stored attempts into a History.
func loadEnv(cmd *cobra.Command) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	logger := logging.Setup(cfg.LogLevel, os.Stderr)

	repo, err := openCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: logger, catalog: repo, history: history.New(repo)}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err == nil {
		e.store, err = store.Open(dbPath)
	}
	if err != nil {
		logger.Warn("storage unavailable, history will not be saved", "error", err)
		return e, nil
	}

	e.replay(ctx)
	return e, nil
}

func (e *env) close() {
	if e.store != nil {
		e.store.Close()
	}
}

// replay loads stored attempts into the history, skipping records that
// fail validation.
func (e *env) replay(ctx context.Context) {
	attempts, err := e.store.AttemptRepo().List(ctx, store.QueryOpts{})
	if err != nil {
		e.log.Warn("could not read attempt history", "error", err)
		return
	}
	for _, a := range attempts {
		if err := a.Validate(); err != nil {
			e.log.Warn("skipping invalid stored attempt", "id", a.ID, "error", err)
			continue
		}
		e.history.Add(a)
	}
	e.log.Debug("history loaded", "attempts", e.history.Len(), "skipped", len(attempts)-e.history.Len())
}

// goal returns the saved goal, falling back to the configured target score.
func (e *env) goal(ctx context.Context) store.Goal {
	g := store.Goal{TargetScore: e.cfg.TargetScore}
	if e.store == nil {
		return g
	}
	saved, err := e.store.SettingsRepo().Goal(ctx)
	if err != nil {
		e.log.Warn("could not read goal", "error", err)
		return g
	}
	if saved != nil {
		return *saved
	}
	return g
}

func openCatalog(path string) (*catalog.Repository, error) {
	if path == "" {
		return catalog.Default()
	}
	repo, err := catalog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	return repo, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then CCPREP_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
