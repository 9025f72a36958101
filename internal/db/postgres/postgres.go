package postgres

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"

	"github.com/AI2HU/trader-ai/internal/logger"
)

// DriverName is the database/sql driver registered by pgx
const DriverName = "pgx"

const pingTimeout = 10 * time.Second

// ErrNotConnected is returned by Ping before Connect
var ErrNotConnected = errors.New("not connected to database")

// Config holds what the connector needs to reach a Postgres server
type Config struct {
	URL string

	// RequireTLS forces an encrypted connection with no plaintext fallback.
	// When false the URL's own sslmode applies.
	RequireTLS bool
	// VerifyCertificates is only consulted when RequireTLS is set.
	VerifyCertificates bool

	// LogStatements traces every query through the application logger
	LogStatements bool
}

// Postgres is a connector for a networked Postgres server
type Postgres struct {
	db     *sql.DB
	config Config
}

// New creates a new Postgres connector
func New(config Config) (*Postgres, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("postgres connection URL is required")
	}
	return &Postgres{config: config}, nil
}

// ConnConfig parses the URL and applies the TLS policy
func (p *Postgres) ConnConfig() (*pgx.ConnConfig, error) {
	connConfig, err := pgx.ParseConfig(p.config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres URL: %w", err)
	}

	if p.config.RequireTLS {
		connConfig.TLSConfig = &tls.Config{
			ServerName:         connConfig.Host,
			InsecureSkipVerify: !p.config.VerifyCertificates,
		}
		connConfig.Fallbacks = nil
	}

	if p.config.LogStatements {
		connConfig.Tracer = &tracelog.TraceLog{
			Logger:   tracelog.LoggerFunc(logQuery),
			LogLevel: tracelog.LogLevelInfo,
		}
	}

	return connConfig, nil
}

// OpenPool returns a new, unpinged pool for the configured server. The
// caller owns it and must close it.
func (p *Postgres) OpenPool() (*sql.DB, error) {
	connConfig, err := p.ConnConfig()
	if err != nil {
		return nil, err
	}
	return stdlib.OpenDB(*connConfig), nil
}

// Connect opens the pool and verifies the server is reachable
func (p *Postgres) Connect(ctx context.Context) error {
	connConfig, err := p.ConnConfig()
	if err != nil {
		return err
	}

	db := stdlib.OpenDB(*connConfig)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping postgres at %s:%d: %w", connConfig.Host, connConfig.Port, err)
	}

	p.db = db
	return nil
}

// Disconnect closes the pool
func (p *Postgres) Disconnect(ctx context.Context) error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	return err
}

// Ping checks the database connection
func (p *Postgres) Ping(ctx context.Context) error {
	if p.db == nil {
		return ErrNotConnected
	}
	return p.db.PingContext(ctx)
}

// DB returns the underlying handle
func (p *Postgres) DB() *sql.DB {
	return p.db
}

func logQuery(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	switch level {
	case tracelog.LogLevelError:
		logger.Error("postgres: %s %v", msg, data)
	case tracelog.LogLevelWarn:
		logger.Warning("postgres: %s %v", msg, data)
	case tracelog.LogLevelInfo:
		logger.Info("postgres: %s %v", msg, data)
	default:
		logger.Debug("postgres: %s %v", msg, data)
	}
}
