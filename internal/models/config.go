package models

// Configuration models

// DatabaseSettings holds the database section of the application config.
// Zero values mean "not set" and are filled in by the resolver defaults.
type DatabaseSettings struct {
	Type     string // postgres, postgresql, sqlite
	URL      string // postgres://... or sqlite:///relative/path
	Path     string // SQLite file path, relative to the working directory
	Host     string
	Port     int
	Username string
	Password string
	Name     string // Database name
	Logging  bool   // Log SQL statements
	SSL      bool   // Request TLS without CA validation (postgres only)
}
