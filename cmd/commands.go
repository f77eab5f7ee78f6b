package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shaibs3/recipebook/internal/app"
	"github.com/shaibs3/recipebook/internal/catalog"
	"github.com/shaibs3/recipebook/internal/catalog/shared"
	"github.com/shaibs3/recipebook/internal/config"
	"github.com/shaibs3/recipebook/internal/db"
	"github.com/shaibs3/recipebook/internal/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type options struct {
	envFile string
}

// rootCommand builds the recipebook CLI. Running it without a
// subcommand serves the API.
func rootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "recipebook",
		Short:         "Recipe catalog API and browser",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file to load instead of .env")

	serveCmd := serveCommand(opts)
	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(serveCmd, migrateCommand(opts), seedCommand(opts))
	return rootCmd
}

// setup loads configuration and builds the application logger
func setup(opts *options) (*config.Config, *zap.Logger, error) {
	// bootstrap logger for configuration loading
	initialLogger, err := logger.NewLogger("production", "info")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = initialLogger.Sync()
	}()

	var cfg *config.Config
	if opts.envFile != "" {
		cfg, err = config.LoadFile(initialLogger, opts.envFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load %s: %w", opts.envFile, err)
		}
	} else {
		cfg = config.Load(initialLogger)
	}

	appLogger, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create application logger: %w", err)
	}
	return cfg, appLogger, nil
}

func serveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the recipe API and browsing pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, appLogger, err := setup(opts)
			if err != nil {
				return err
			}
			defer func() {
				_ = appLogger.Sync()
			}()

			appLogger.Info("Build info",
				zap.String("version", version),
				zap.String("commit", commit),
				zap.String("date", date),
			)

			application, err := app.NewApp(cmd.Context(), cfg, appLogger)
			if err != nil {
				appLogger.Error("failed to create application", zap.Error(err))
				return err
			}
			return application.Run()
		},
	}
}

// postgresConnString extracts the postgres connection string from a
// catalog store configuration.
func postgresConnString(configJSON string) (string, error) {
	if configJSON == "" {
		return "", fmt.Errorf("no database configured: set CATALOG_DB_CONFIG or DB_HOST")
	}
	var storeConfig shared.StoreConfig
	if err := json.Unmarshal([]byte(configJSON), &storeConfig); err != nil {
		return "", fmt.Errorf("failed to parse catalog store configuration JSON: %w", err)
	}
	if storeConfig.DbType != shared.DbTypePostgres {
		return "", fmt.Errorf("migrations only apply to postgres, got %s", storeConfig.DbType)
	}
	connStr, ok := storeConfig.StringDetail("conn_str")
	if !ok {
		return "", fmt.Errorf("conn_str is required for postgres")
	}
	return connStr, nil
}

func migrateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations to the configured Postgres catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, appLogger, err := setup(opts)
			if err != nil {
				return err
			}
			defer func() {
				_ = appLogger.Sync()
			}()

			connStr, err := postgresConnString(cfg.CatalogDBConfig)
			if err != nil {
				return err
			}
			return db.Migrate(connStr, appLogger)
		},
	}
}

func seedCommand(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load main categories and subcategories from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, appLogger, err := setup(opts)
			if err != nil {
				return err
			}
			defer func() {
				_ = appLogger.Sync()
			}()
			return runSeed(cmd.Context(), cfg, appLogger, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "categories.yaml", "YAML file with categories")
	return cmd
}

func runSeed(ctx context.Context, cfg *config.Config, appLogger *zap.Logger, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	store, err := catalog.NewStoreFactory(appLogger, nil).CreateStore(cfg.CatalogDBConfig)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			appLogger.Warn("failed to close catalog store", zap.Error(err))
		}
	}()

	categories, subcategories, err := catalog.Seed(ctx, store, f)
	if err != nil {
		return err
	}
	appLogger.Info("seeded catalog",
		zap.String("file", file),
		zap.Int("categories", categories),
		zap.Int("subcategories", subcategories))
	return nil
}
