package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by go-sqlite3
const DriverName = "sqlite3"

// ErrNotConnected is returned by Ping before Connect
var ErrNotConnected = errors.New("not connected to database")

// SQLite is a connector for an embedded database file
type SQLite struct {
	db   *sql.DB
	path string
}

// New creates a new SQLite connector for the given absolute file path
func New(path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite database path is required")
	}
	return &SQLite{path: path}, nil
}

// Path returns the database file path
func (s *SQLite) Path() string {
	return s.path
}

// Connect prepares the parent directory and opens the database file
func (s *SQLite) Connect(ctx context.Context) error {
	if err := EnsureParentDir(s.path); err != nil {
		return err
	}

	db, err := sql.Open(DriverName, s.path)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", s.path, err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", s.path, err)
	}

	s.db = db
	return nil
}

// Disconnect closes the SQLite connection
func (s *SQLite) Disconnect(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ping checks the database connection
func (s *SQLite) Ping(ctx context.Context) error {
	if s.db == nil {
		return ErrNotConnected
	}
	return s.db.PingContext(ctx)
}

// DB returns the underlying handle
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// EnsureParentDir creates the parent directory of path, recursively, if it
// does not exist yet. It must complete before the file is opened.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}
