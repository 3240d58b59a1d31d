package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/catalens/catalens/internal/catalog"
	"github.com/catalens/catalens/internal/config"
	"github.com/catalens/catalens/internal/explorer"
	"github.com/catalens/catalens/internal/logging"
	"github.com/catalens/catalens/internal/pgcatalog"
)

var (
	cfgFile    string
	catalogURL string
	logLevel   string
	version    = "dev"
	commit     = "none"
	date       = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "catalens",
	Short: "catalens — terminal explorer for tabular-data catalogs",
	Long: `catalens is a read-only explorer for a tabular-data catalog: browse
directories, tables, views, and snapshots, inspect schemas and sample rows,
and follow column lineage.

Running without a subcommand launches the interactive explorer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, cleanup, err := newCatalog()
		if err != nil {
			return err
		}
		defer cleanup()
		return explorer.Run(cat)
	},
}

func Execute() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.catalens/catalens.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogURL, "url", "", "catalog API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// newCatalog builds the catalog backend from flags and config: a --url flag
// or configured URL selects the HTTP client, a configured postgres block the
// direct database backend. The TUI logs to file only, so stderr stays clean.
func newCatalog() (catalog.Catalog, func(), error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if catalogURL != "" {
		cfg.Catalog.URL = catalogURL
		cfg.Catalog.Postgres = nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger, err := logging.Setup(level, cfg.Logging.Directory, false)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}

	if cfg.Catalog.Postgres != nil && cfg.Catalog.URL == "" {
		store := pgcatalog.New(cfg.Catalog.Postgres, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := store.Connect(ctx); err != nil {
			return nil, nil, err
		}
		logger.Info("connected to postgres catalog",
			"host", cfg.Catalog.Postgres.Host, "database", cfg.Catalog.Postgres.Database)
		return store, func() { store.Close() }, nil
	}

	timeout := time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second
	client := catalog.NewClient(cfg.Catalog.URL, catalog.WithTimeout(timeout))
	logger.Info("using catalog API", "url", cfg.Catalog.URL)
	return client, func() {}, nil
}
