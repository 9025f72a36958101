package db

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildModuleOptionsSQLite(t *testing.T) {
	t.Parallel()

	opts := BuildModuleOptions(&SQLiteDescriptor{FilePath: "/srv/data/app.sqlite"}, true)

	assert.Equal(t, ModuleOptions{
		Type:             EngineSQLite,
		AutoLoadEntities: true,
		Synchronize:      true,
		Logging:          true,
		Database:         "/srv/data/app.sqlite",
	}, opts)

	var fields map[string]any
	raw, err := json.Marshal(opts)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Equal(t, map[string]any{
		"type":             "sqlite",
		"autoLoadEntities": true,
		"synchronize":      true,
		"logging":          true,
		"database":         "/srv/data/app.sqlite",
	}, fields)
}

func TestBuildModuleOptionsPostgres(t *testing.T) {
	t.Parallel()

	t.Run("tls requested", func(t *testing.T) {
		t.Parallel()
		opts := BuildModuleOptions(&PostgresDescriptor{
			URL: "postgresql://u@h:1/db",
			TLS: &TLSPolicy{RejectUnauthorized: false},
		}, false)

		raw, err := json.Marshal(opts)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type": "postgres",
			"autoLoadEntities": true,
			"synchronize": true,
			"logging": false,
			"url": "postgresql://u@h:1/db",
			"ssl": {"rejectUnauthorized": false}
		}`, string(raw))
	})

	t.Run("tls unspecified omits ssl", func(t *testing.T) {
		t.Parallel()
		opts := BuildModuleOptions(&PostgresDescriptor{URL: "postgresql://u@h:1/db"}, false)

		raw, err := json.Marshal(opts)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "ssl")
		assert.NotContains(t, string(raw), "database")
	})
}

func TestModuleOptionsDescriptor(t *testing.T) {
	t.Parallel()

	sqliteOpts := BuildModuleOptions(&SQLiteDescriptor{FilePath: "/a.sqlite"}, false)
	desc, err := sqliteOpts.Descriptor()
	require.NoError(t, err)
	assert.Equal(t, &SQLiteDescriptor{FilePath: "/a.sqlite"}, desc)

	pgOpts := BuildModuleOptions(&PostgresDescriptor{URL: "postgres://x", TLS: &TLSPolicy{}}, false)
	desc, err = pgOpts.Descriptor()
	require.NoError(t, err)
	assert.Equal(t, &PostgresDescriptor{URL: "postgres://x", TLS: &TLSPolicy{}}, desc)

	_, err = ModuleOptions{Type: "mysql"}.Descriptor()
	assert.ErrorIs(t, err, ErrUnsupportedEngine)
}
