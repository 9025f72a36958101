package db

import (
	"context"
	"database/sql"
	"errors"
)

// ErrUnsupportedEngine is returned for an engine kind with no connector.
var ErrUnsupportedEngine = errors.New("unsupported database engine")

// Database defines the connection lifecycle shared by every engine connector
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// DB returns the underlying handle, or nil before Connect
	DB() *sql.DB
}
