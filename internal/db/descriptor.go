package db

// EngineKind identifies the storage engine a descriptor targets.
type EngineKind string

const (
	EngineSQLite   EngineKind = "sqlite"
	EnginePostgres EngineKind = "postgres"
)

// String returns the engine name
func (k EngineKind) String() string {
	return string(k)
}

// Descriptor is the resolved connection target. It is either a
// *SQLiteDescriptor or a *PostgresDescriptor.
type Descriptor interface {
	Kind() EngineKind
	descriptor()
}

// SQLiteDescriptor points at an embedded database file.
type SQLiteDescriptor struct {
	FilePath string // always absolute
}

// Kind returns EngineSQLite
func (d *SQLiteDescriptor) Kind() EngineKind { return EngineSQLite }

func (*SQLiteDescriptor) descriptor() {}

// PostgresDescriptor points at a networked Postgres server.
type PostgresDescriptor struct {
	URL string
	TLS *TLSPolicy // nil leaves TLS unspecified
}

// Kind returns EnginePostgres
func (d *PostgresDescriptor) Kind() EngineKind { return EnginePostgres }

func (*PostgresDescriptor) descriptor() {}

// TLSPolicy controls encryption and certificate validation for a network connection.
type TLSPolicy struct {
	RejectUnauthorized bool `json:"rejectUnauthorized" yaml:"rejectUnauthorized"`
}
