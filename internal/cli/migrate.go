package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AI2HU/trader-ai/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long:  `Run the embedded schema migrations using golang-migrate.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	Long:  `Apply all pending database migrations.`,
	RunE:  runMigrateUp,
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	RunE:  runMigrateVersion,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateVersionCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "🔄 Running database migrations...")

	ctx := cmd.Context()
	conn, err := openDatabase(ctx, false)
	if err != nil {
		return err
	}
	defer conn.Disconnect(ctx)

	if err := db.RunMigrations(ctx, conn); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, FormatSuccess("✅ Migrations completed successfully!"))
	return nil
}

func runMigrateVersion(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	conn, err := openDatabase(ctx, false)
	if err != nil {
		return err
	}
	defer conn.Disconnect(ctx)

	version, dirty, ok, err := db.MigrationVersion(ctx, conn)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, "No migrations applied")
		return nil
	}
	fmt.Fprintf(out, "Current migration version: %d", version)
	if dirty {
		fmt.Fprint(out, " (dirty)")
	}
	fmt.Fprintln(out)
	return nil
}
