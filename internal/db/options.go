package db

import "fmt"

// ModuleOptions is the options object handed to the connection initializer.
// Field names follow the initializer contract; Database is set only for
// SQLite, URL and SSL only for Postgres.
type ModuleOptions struct {
	Type             EngineKind `json:"type" yaml:"type"`
	AutoLoadEntities bool       `json:"autoLoadEntities" yaml:"autoLoadEntities"`
	Synchronize      bool       `json:"synchronize" yaml:"synchronize"`
	Logging          bool       `json:"logging" yaml:"logging"`
	Database         string     `json:"database,omitempty" yaml:"database,omitempty"`
	URL              string     `json:"url,omitempty" yaml:"url,omitempty"`
	SSL              *TLSPolicy `json:"ssl,omitempty" yaml:"ssl,omitempty"`
}

// BuildModuleOptions wraps a resolved descriptor into initializer options.
func BuildModuleOptions(desc Descriptor, logging bool) ModuleOptions {
	opts := ModuleOptions{
		Type:             desc.Kind(),
		AutoLoadEntities: true,
		Synchronize:      true,
		Logging:          logging,
	}

	switch d := desc.(type) {
	case *SQLiteDescriptor:
		opts.Database = d.FilePath
	case *PostgresDescriptor:
		opts.URL = d.URL
		opts.SSL = d.TLS
	}

	return opts
}

// Descriptor reconstructs the connection descriptor carried by the options.
func (o ModuleOptions) Descriptor() (Descriptor, error) {
	switch o.Type {
	case EngineSQLite:
		return &SQLiteDescriptor{FilePath: o.Database}, nil
	case EnginePostgres:
		return &PostgresDescriptor{URL: o.URL, TLS: o.SSL}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEngine, o.Type)
	}
}
