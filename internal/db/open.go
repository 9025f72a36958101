package db

import (
	"context"
	"fmt"

	"github.com/AI2HU/trader-ai/internal/db/postgres"
	"github.com/AI2HU/trader-ai/internal/db/sqlite"
	"github.com/AI2HU/trader-ai/internal/logger"
)

// Conn is an open connection together with the options it was built from
type Conn struct {
	Database
	Options ModuleOptions
}

// Kind returns the engine behind the connection
func (c *Conn) Kind() EngineKind {
	return c.Options.Type
}

// New creates an unconnected Database for the descriptor. logStatements
// enables per-query tracing where the driver supports it.
func New(desc Descriptor, logStatements bool) (Database, error) {
	switch d := desc.(type) {
	case *SQLiteDescriptor:
		return sqlite.New(d.FilePath)
	case *PostgresDescriptor:
		return postgres.New(postgresConfig(d, logStatements))
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedEngine, desc)
	}
}

func postgresConfig(d *PostgresDescriptor, logStatements bool) postgres.Config {
	cfg := postgres.Config{URL: d.URL, LogStatements: logStatements}
	if d.TLS != nil {
		cfg.RequireTLS = true
		cfg.VerifyCertificates = d.TLS.RejectUnauthorized
	}
	return cfg
}

// Open connects using the module options and, when Synchronize is set,
// brings the schema up to date before returning.
func Open(ctx context.Context, opts ModuleOptions) (*Conn, error) {
	desc, err := opts.Descriptor()
	if err != nil {
		return nil, err
	}

	database, err := New(desc, opts.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	if err := database.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	conn := &Conn{Database: database, Options: opts}
	logger.Info("Connected to %s database", opts.Type)

	if opts.Synchronize {
		if err := RunMigrations(ctx, conn); err != nil {
			database.Disconnect(ctx)
			return nil, err
		}
	}

	return conn, nil
}
