package db

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AI2HU/trader-ai/internal/models"
)

const (
	// DefaultSQLitePath is used when neither a path nor a sqlite URL is configured.
	DefaultSQLitePath = "./data/trader-ai.sqlite"

	DefaultPostgresHost     = "localhost"
	DefaultPostgresPort     = 5432
	DefaultPostgresUser     = "postgres"
	DefaultPostgresDatabase = "trader_ai"

	sqliteURLPrefix = "sqlite:///"
)

// ResolveEngineKind picks the storage engine from the settings.
//
// An explicit Type wins when it names a known engine. Anything else,
// including an unknown Type, falls through to the URL scheme check and
// finally defaults to SQLite.
func ResolveEngineKind(settings models.DatabaseSettings) EngineKind {
	switch strings.ToLower(settings.Type) {
	case "postgres", "postgresql":
		return EnginePostgres
	case "sqlite":
		return EngineSQLite
	}

	if strings.HasPrefix(strings.ToLower(settings.URL), "postgres") {
		return EnginePostgres
	}
	return EngineSQLite
}

// ResolveSQLitePath returns the absolute database file path, resolving
// relative locations against workDir.
func ResolveSQLitePath(settings models.DatabaseSettings, workDir string) string {
	if settings.Path != "" {
		return resolveAgainst(workDir, settings.Path)
	}

	if strings.HasPrefix(settings.URL, "sqlite") {
		if _, path, ok := strings.Cut(settings.URL, sqliteURLPrefix); ok && path != "" {
			return resolveAgainst(workDir, path)
		}
	}

	return resolveAgainst(workDir, DefaultSQLitePath)
}

// ResolvePostgresURL returns the configured URL verbatim or assembles one
// from the discrete connection fields.
func ResolvePostgresURL(settings models.DatabaseSettings) string {
	if settings.URL != "" {
		return settings.URL
	}

	host := settings.Host
	if host == "" {
		host = DefaultPostgresHost
	}
	port := settings.Port
	if port == 0 {
		port = DefaultPostgresPort
	}
	username := settings.Username
	if username == "" {
		username = DefaultPostgresUser
	}
	name := settings.Name
	if name == "" {
		name = DefaultPostgresDatabase
	}

	auth := username
	if settings.Password != "" {
		auth = username + ":" + settings.Password
	}

	return fmt.Sprintf("postgresql://%s@%s/%s", auth, hostPort(host, port), name)
}

// ResolveTLSPolicy returns a policy requesting TLS without CA validation
// when SSL is enabled, and nil otherwise.
func ResolveTLSPolicy(settings models.DatabaseSettings) *TLSPolicy {
	if !settings.SSL {
		return nil
	}
	return &TLSPolicy{RejectUnauthorized: false}
}

// Resolve maps the settings to exactly one connection descriptor.
func Resolve(settings models.DatabaseSettings, workDir string) Descriptor {
	if ResolveEngineKind(settings) == EngineSQLite {
		return &SQLiteDescriptor{FilePath: ResolveSQLitePath(settings, workDir)}
	}
	return &PostgresDescriptor{
		URL: ResolvePostgresURL(settings),
		TLS: ResolveTLSPolicy(settings),
	}
}

func resolveAgainst(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(workDir, path)
}

func hostPort(host string, port int) string {
	return host + ":" + strconv.Itoa(port)
}
