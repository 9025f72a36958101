package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/AI2HU/trader-ai/internal/db"
	"github.com/AI2HU/trader-ai/internal/shared"
)

var (
	resolveFormat string
	showSecrets   bool
	pingTimeout   time.Duration
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect the database connection",
	Long:  `Show how the database connection is resolved and check that it can be opened.`,
}

var dbResolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print the resolved connection options",
	Long: `Resolve the database configuration and print the options handed to the
connection initializer. Passwords are redacted unless --show-secrets is set.`,
	RunE: runDBResolve,
}

var dbPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Open the database and run a health probe",
	RunE:  runDBPing,
}

func init() {
	dbResolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "json", "Output format (json or yaml)")
	dbResolveCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print the connection URL without redaction")
	dbPingCmd.Flags().DurationVar(&pingTimeout, "timeout", 15*time.Second, "Give up after this long")

	dbCmd.AddCommand(dbResolveCmd)
	dbCmd.AddCommand(dbPingCmd)
}

func runDBResolve(cmd *cobra.Command, args []string) error {
	opts, err := resolveOptions()
	if err != nil {
		return err
	}
	if !showSecrets {
		opts.URL = shared.RedactURL(opts.URL)
	}
	return writeOptions(cmd.OutOrStdout(), opts, resolveFormat)
}

func writeOptions(w io.Writer, opts db.ModuleOptions, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(opts)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(opts)
	default:
		return fmt.Errorf("unsupported format %q (use json or yaml)", format)
	}
}

func runDBPing(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), pingTimeout)
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, FormatInfo("🔌 Testing database connection..."))

	conn, err := openDatabase(ctx, false)
	if err != nil {
		fmt.Fprintln(out, FormatError("❌ "+err.Error()))
		return err
	}
	defer conn.Disconnect(context.Background())

	if err := conn.Ping(ctx); err != nil {
		fmt.Fprintln(out, FormatError("❌ Failed to ping database: "+err.Error()))
		return fmt.Errorf("failed to ping database: %w", err)
	}

	target := conn.Options.Database
	if conn.Kind() == db.EnginePostgres {
		target = shared.RedactURL(conn.Options.URL)
	}
	fmt.Fprintln(out, FormatSuccess("✅ Database connection successful!"))
	fmt.Fprintln(out, FormatLabelValue("Engine:", conn.Kind().String()))
	fmt.Fprintln(out, FormatLabelValue("Target:", target))
	return nil
}
