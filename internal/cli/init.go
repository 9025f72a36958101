package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/AI2HU/trader-ai/internal/config"
	"github.com/AI2HU/trader-ai/internal/db"
	"github.com/AI2HU/trader-ai/internal/shared"
)

var (
	initDefaults       bool
	initSkipConnection bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize trader-ai configuration",
	Long:  `Interactive wizard to set up the database section of the trader-ai configuration.`,
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initDefaults, "defaults", false, "Write the default configuration without prompting")
	initCmd.Flags().BoolVar(&initSkipConnection, "skip-connection-test", false, "Save without testing the database connection")
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(cmd.InOrStdin())

	fmt.Println(FormatHeader("🚀 Trader AI - Database Setup"))
	fmt.Println("==============================")
	fmt.Println()

	configPath := cfgFile
	if configPath == "" {
		configPath = config.GetConfigPath()
	}

	// Check if config already exists
	if config.Exists(configPath) && !initDefaults {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	if initDefaults {
		cfg.Database.Path = db.DefaultSQLitePath
	} else if err := promptDatabase(reader, &cfg.Database); err != nil {
		return err
	}

	if !initSkipConnection {
		if err := testConnection(cmd.Context(), cfg); err != nil {
			return err
		}
	}

	// Save configuration
	fmt.Println("\n💾 Saving configuration...")
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println(FormatSuccess("✅ Configuration saved to: " + configPath))
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Inspect the connection: trader-ai db resolve")
	fmt.Println("  2. Apply the schema:       trader-ai migrate up")
	fmt.Println("  3. Start the API:          trader-ai api")

	return nil
}

func promptDatabase(reader *bufio.Reader, dbCfg *config.DatabaseConfig) error {
	fmt.Println("\n📊 Database Configuration")
	fmt.Println("--------------------------")

	engine, err := promptWithRetry(reader, "Database type (sqlite/postgres) [sqlite]: ", func(input string) (string, error) {
		if input == "" {
			return "sqlite", nil
		}
		return validateEngineType(input)
	})
	if err != nil {
		return err
	}
	dbCfg.Type = engine

	if engine == "sqlite" {
		path, err := promptOptional(reader, fmt.Sprintf("Database file [%s]: ", db.DefaultSQLitePath), db.DefaultSQLitePath)
		if err != nil {
			return err
		}
		dbCfg.Path = path
		return nil
	}

	if dbCfg.Host, err = promptOptional(reader, "Host [localhost]: ", db.DefaultPostgresHost); err != nil {
		return err
	}

	portStr, err := promptWithRetry(reader, fmt.Sprintf("Port [%d]: ", db.DefaultPostgresPort), func(input string) (string, error) {
		if input == "" {
			return strconv.Itoa(db.DefaultPostgresPort), nil
		}
		port, err := validatePort(input)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(port), nil
	})
	if err != nil {
		return err
	}
	dbCfg.Port, _ = strconv.Atoi(portStr)

	if dbCfg.Username, err = promptOptional(reader, "Username [postgres]: ", db.DefaultPostgresUser); err != nil {
		return err
	}
	if dbCfg.Password, err = promptOptional(reader, "Password (leave empty for none): ", ""); err != nil {
		return err
	}
	if dbCfg.Name, err = promptOptional(reader, "Database name [trader_ai]: ", db.DefaultPostgresDatabase); err != nil {
		return err
	}
	if dbCfg.SSL, err = promptYesNo(reader, "Require TLS without certificate validation? (y/N): "); err != nil {
		return err
	}

	return nil
}

func testConnection(ctx context.Context, cfg *config.Config) error {
	fmt.Println("\n🔌 Testing database connection...")

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	settings := cfg.DatabaseSettings()
	opts := db.BuildModuleOptions(db.Resolve(settings, workDir), settings.Logging)
	opts.Synchronize = false

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, opts)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		fmt.Println("\nPlease check your database configuration and try again.")
		return err
	}
	defer conn.Disconnect(ctx)

	target := opts.Database
	if opts.Type == db.EnginePostgres {
		target = shared.RedactURL(opts.URL)
	}
	fmt.Println(FormatSuccess("✅ Database connection successful!"))
	fmt.Println(FormatLabelValue("Target:", target))
	return nil
}
