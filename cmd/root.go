package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fpdrill/fpdrill/internal/app"
	"github.com/fpdrill/fpdrill/internal/config"
	"github.com/fpdrill/fpdrill/internal/engine"
	"github.com/fpdrill/fpdrill/internal/selection"
	"github.com/fpdrill/fpdrill/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "fpdrill",
	Short: "FP exam question drill",
	Long: "fpdrill: a terminal drill for the Japanese Financial Planner exam. " +
		"It tracks mastery per question, picks batches by category, year or weakness, " +
		"and keeps daily statistics.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		count, _ := cmd.Flags().GetInt("count")
		noSplash, _ := cmd.Flags().GetBool("no-splash")
		return app.Run(app.Options{
			Engine:     env.Engine,
			Count:      env.count(count),
			SkipSplash: noSplash,
		})
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides FPDRILL_DB env var)")
	rootCmd.PersistentFlags().String("env-file", "", "Load configuration from this .env file instead of ./.env")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides FPDRILL_LOG_LEVEL)")

	rootCmd.Flags().Int("count", 0, "Questions per session (default FPDRILL_DEFAULT_COUNT)")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(bookmarkCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// environment is what every command needs: configuration, a logger and an
// engine over the opened store.
type environment struct {
	Config config.Config
	Logger *slog.Logger
	Engine *engine.Engine

	store *store.Store
}

// setup loads configuration, builds the logger and opens the store.
func setup(cmd *cobra.Command) (*environment, error) {
	var files []string
	if f, _ := cmd.Flags().GetString("env-file"); f != "" {
		files = append(files, f)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		if _, err := config.ParseLevel(lvl); err != nil {
			return nil, err
		}
		cfg.LogLevel = lvl
	}
	logger := cfg.NewLogger(os.Stderr)

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	logger.Debug("store opened", "path", dbPath)

	return &environment{
		Config: cfg,
		Logger: logger,
		Engine: engine.New(st, logger),
		store:  st,
	}, nil
}

// Close releases the store.
func (e *environment) Close() error {
	return e.store.Close()
}

// count returns flag when positive, else the configured default.
func (e *environment) count(flag int) int {
	if flag > 0 {
		return flag
	}
	return e.Config.DefaultCount
}

// requestCount returns the batch size for req: its own count when set, none
// for strategies that serve the whole set, else the configured default.
func (e *environment) requestCount(req selection.Request) int {
	if req.Count > 0 || req.Strategy.WholeSet() {
		return req.Count
	}
	return e.Config.DefaultCount
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then FPDRILL_DB (env or .env), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
