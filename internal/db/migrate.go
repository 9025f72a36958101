package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/AI2HU/trader-ai/internal/db/postgres"
	"github.com/AI2HU/trader-ai/internal/logger"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// RunMigrations applies every pending migration for the connection's engine
func RunMigrations(ctx context.Context, conn *Conn) error {
	m, release, err := newMigrate(ctx, conn)
	if err != nil {
		return err
	}
	defer release()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("Schema already up to date")
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if version, dirty, err := m.Version(); err == nil {
		logger.Info("Migrated %s schema to version %d (dirty=%t)", conn.Kind(), version, dirty)
	}
	return nil
}

// MigrationVersion reports the applied schema version. ok is false when no
// migration has been applied yet.
func MigrationVersion(ctx context.Context, conn *Conn) (version uint, dirty bool, ok bool, err error) {
	m, release, err := newMigrate(ctx, conn)
	if err != nil {
		return 0, false, false, err
	}
	defer release()

	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, true, nil
}

// newMigrate builds a migrate instance bound to the open handle. The
// returned release func frees what the instance holds without closing
// the caller's *sql.DB.
func newMigrate(ctx context.Context, conn *Conn) (*migrate.Migrate, func(), error) {
	handle := conn.DB()
	if handle == nil {
		return nil, nil, fmt.Errorf("failed to create migrate instance: database is not connected")
	}

	source, err := iofs.New(migrationFiles, "migrations/"+conn.Kind().String())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	switch conn.Kind() {
	case EngineSQLite:
		driver, err := sqlite3.WithInstance(handle, &sqlite3.Config{})
		if err != nil {
			source.Close()
			return nil, nil, fmt.Errorf("failed to create sqlite driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", source, "sqlite3", driver)
		if err != nil {
			source.Close()
			return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		// Closing the sqlite3 driver would close the shared handle.
		return m, func() { source.Close() }, nil

	case EnginePostgres:
		// The pgx driver closes the pool it is given, so it gets its own.
		pool, err := migrationPool(conn.Options)
		if err != nil {
			source.Close()
			return nil, nil, err
		}
		driver, err := migratepgx.WithInstance(pool, &migratepgx.Config{})
		if err != nil {
			pool.Close()
			source.Close()
			return nil, nil, fmt.Errorf("failed to create postgres driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", source, "pgx5", driver)
		if err != nil {
			driver.Close()
			source.Close()
			return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return m, func() { m.Close() }, nil

	default:
		source.Close()
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, conn.Kind())
	}
}

func migrationPool(opts ModuleOptions) (*sql.DB, error) {
	desc, err := opts.Descriptor()
	if err != nil {
		return nil, err
	}
	pgDesc, ok := desc.(*PostgresDescriptor)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, opts.Type)
	}

	pg, err := postgres.New(postgresConfig(pgDesc, false))
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres connector: %w", err)
	}
	return pg.OpenPool()
}
