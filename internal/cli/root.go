package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AI2HU/trader-ai/internal/config"
	"github.com/AI2HU/trader-ai/internal/db"
	"github.com/AI2HU/trader-ai/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "trader-ai",
	Short: "Trader AI backend database bootstrap",
	Long: `trader-ai resolves the backend database connection from layered
configuration (config file, .env, environment), prepares storage, applies
the schema and serves a health API.

Postgres is used when DB_TYPE or DATABASE_URL say so; otherwise an embedded
SQLite file under ./data is used.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init writes the config file, it must not require one
		if cmd.Name() == "init" {
			return nil
		}

		var err error
		cfg, err = loadConfig()
		if err != nil {
			return err
		}

		logger.Init(logger.ParseLogLevel(cfg.Logging.Level), os.Stderr)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trader-ai/config.yaml)")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(apiCmd)
}

// loadConfig reads the config file when there is one and falls back to
// defaults plus environment otherwise. An explicit --config must exist.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path != "" {
		if !config.Exists(path) {
			return nil, fmt.Errorf("configuration file not found at %s", path)
		}
	} else {
		path = config.GetConfigPath()
	}

	if config.Exists(path) {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		return loaded, nil
	}

	loaded, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return loaded, nil
}

// resolveOptions resolves the configured database against the working directory
func resolveOptions() (db.ModuleOptions, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return db.ModuleOptions{}, fmt.Errorf("failed to get working directory: %w", err)
	}

	settings := cfg.DatabaseSettings()
	return db.BuildModuleOptions(db.Resolve(settings, workDir), settings.Logging), nil
}

// openDatabase resolves and connects. synchronize controls whether pending
// migrations are applied on the way.
func openDatabase(ctx context.Context, synchronize bool) (*db.Conn, error) {
	opts, err := resolveOptions()
	if err != nil {
		return nil, err
	}
	opts.Synchronize = synchronize
	return db.Open(ctx, opts)
}
