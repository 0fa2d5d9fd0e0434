package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/bylawgest/internal/config"
	"github.com/dgallion1/bylawgest/internal/hierarchy"
	"github.com/dgallion1/bylawgest/internal/segment"
	"github.com/dgallion1/bylawgest/internal/store"
)

var (
	cfg = config.Load()

	hierarchyPath string
	dedupFlag     string
	dbDriver      string
	dbURL         string
	logLevel      string
	jsonOutput    bool
)

var rootCmd = &cobra.Command{
	Use:   "bylawctl",
	Short: "Structure bylaws into a citation tree",
	Long: `bylawctl splits bylaws text into numbered sections, nests them by
hierarchy level and stores the tree with precomputed ancestor paths.

Database and hierarchy settings default to the same environment variables
the server reads (DATABASE_DRIVER, DATABASE_URL, HIERARCHY_CONFIG).`,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&hierarchyPath, "hierarchy", cfg.HierarchyConfig, "YAML hierarchy declaration (empty uses the built-in scheme)")
	pf.StringVar(&dedupFlag, "dedup", cfg.DedupStrategy, "duplicate resolution: prefer_non_empty or prefer_first")
	pf.StringVar(&dbDriver, "driver", cfg.DatabaseDriver, "database driver: sqlite or pgx")
	pf.StringVar(&dbURL, "db", cfg.DatabaseURL, "database DSN")
	pf.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.BoolVar(&jsonOutput, "json", false, "print JSON instead of formatted output")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := config.Config{LogLevel: logLevel}.SlogLevel()
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadStructuring() (*hierarchy.Config, segment.DedupStrategy, error) {
	levels, err := hierarchy.Load(hierarchyPath)
	if err != nil {
		return nil, "", err
	}
	strategy, err := segment.ParseStrategy(dedupFlag)
	if err != nil {
		return nil, "", err
	}
	return levels, strategy, nil
}

func openStore(ctx context.Context) (*store.Store, error) {
	dialect, err := store.ParseDialect(dbDriver)
	if err != nil {
		return nil, err
	}
	db, err := store.Open(ctx, dialect, dbURL)
	if err != nil {
		return nil, err
	}
	st := store.New(db, dialect)
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}
