package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/AI2HU/trader-ai/internal/config"
	"github.com/AI2HU/trader-ai/internal/db"
)

// isolate points the CLI at an empty working directory with no config
// file and no database environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	chdir(t, dir)
	for _, key := range []string{
		"DATABASE_URL", "DB_TYPE", "DB_HOST", "DB_PORT", "DB_USERNAME",
		"DB_PASSWORD", "DB_NAME", "DB_PATH", "DB_LOGGING", "DB_SSL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("TRADER_AI_CONFIG_PATH", filepath.Join(dir, "absent.yaml"))

	cfgFile = ""
	resolveFormat = "json"
	showSecrets = false
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDBResolveDefaultsToSQLite(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "db", "resolve")
	require.NoError(t, err)

	var opts db.ModuleOptions
	require.NoError(t, json.Unmarshal([]byte(out), &opts))
	assert.Equal(t, db.EngineSQLite, opts.Type)
	assert.True(t, opts.AutoLoadEntities)
	assert.True(t, opts.Synchronize)

	// t.TempDir may sit behind a symlink, so compare the tail only.
	assert.True(t, strings.HasSuffix(opts.Database, filepath.Join("data", "trader-ai.sqlite")), opts.Database)
	assert.True(t, filepath.IsAbs(opts.Database))
	assert.NoDirExists(t, filepath.Join(dir, "data"), "resolve must not touch the filesystem")
}

func TestDBResolvePostgresFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DB_TYPE", "postgresql")
	t.Setenv("DB_HOST", "h")
	t.Setenv("DB_PORT", "1234")
	t.Setenv("DB_USERNAME", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "db")
	t.Setenv("DB_SSL", "true")

	out, err := execute(t, "db", "resolve", "--show-secrets")
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type": "postgres",
		"autoLoadEntities": true,
		"synchronize": true,
		"logging": false,
		"url": "postgresql://u:p@h:1234/db",
		"ssl": {"rejectUnauthorized": false}
	}`, out)
}

func TestDBResolveRedactsByDefault(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://u:secret@h:5432/db")

	out, err := execute(t, "db", "resolve", "--format", "yaml")
	require.NoError(t, err)

	var opts map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &opts))
	assert.Equal(t, "postgres", opts["type"])
	assert.Equal(t, "postgres://u:xxxxx@h:5432/db", opts["url"])
	assert.NotContains(t, out, "secret")
	assert.NotContains(t, opts, "ssl")
}

func TestDBResolveRejectsUnknownFormat(t *testing.T) {
	isolate(t)

	_, err := execute(t, "db", "resolve", "--format", "toml")
	assert.Error(t, err)
}

func TestExplicitConfigMustExist(t *testing.T) {
	dir := isolate(t)

	_, err := execute(t, "--config", filepath.Join(dir, "missing.yaml"), "db", "resolve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestConfigFileIsUsed(t *testing.T) {
	dir := isolate(t)

	cfgPath := filepath.Join(dir, "config.yaml")
	fileCfg := config.DefaultConfig()
	fileCfg.Database.URL = "sqlite:///store/from-file.sqlite"
	fileCfg.Database.Path = ""
	require.NoError(t, fileCfg.Save(cfgPath))

	out, err := execute(t, "--config", cfgPath, "db", "resolve")
	require.NoError(t, err)

	var opts db.ModuleOptions
	require.NoError(t, json.Unmarshal([]byte(out), &opts))
	assert.True(t, strings.HasSuffix(opts.Database, filepath.Join("store", "from-file.sqlite")), opts.Database)
}

func TestDBResolveSQLiteURLFromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "sqlite:///store/y.sqlite")

	out, err := execute(t, "db", "resolve")
	require.NoError(t, err)

	var opts db.ModuleOptions
	require.NoError(t, json.Unmarshal([]byte(out), &opts))
	assert.Equal(t, db.EngineSQLite, opts.Type)
	assert.True(t, strings.HasSuffix(opts.Database, filepath.Join("store", "y.sqlite")), opts.Database)
}

func TestMigrateUpAndVersion(t *testing.T) {
	dir := isolate(t)
	t.Setenv("DB_PATH", "state/app.sqlite")

	out, err := execute(t, "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "No migrations applied")
	assert.DirExists(t, filepath.Join(dir, "state"))

	out, err = execute(t, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrations completed successfully")

	out, err = execute(t, "migrate", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Current migration version: 2")
}

func TestDBPing(t *testing.T) {
	isolate(t)

	out, err := execute(t, "db", "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "Database connection successful")
	assert.Contains(t, out, "sqlite")
}

func TestInitWritesDefaults(t *testing.T) {
	dir := isolate(t)
	cfgPath := filepath.Join(dir, "cfg", "config.yaml")
	t.Cleanup(func() { initDefaults, initSkipConnection = false, false })

	t.Setenv("TRADER_AI_CONFIG_PATH", cfgPath)
	_, err := execute(t, "init", "--defaults", "--skip-connection-test")
	require.NoError(t, err)

	loaded, err := config.Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "./data/trader-ai.sqlite", loaded.Database.Path)
}

func TestPromptDatabasePostgres(t *testing.T) {
	input := strings.Join([]string{
		"PostgreSQL",
		"db.internal",
		"70000", // rejected, asked again
		"6543",
		"trader",
		"",
		"markets",
		"y",
	}, "\n") + "\n"

	var dbCfg config.DatabaseConfig
	require.NoError(t, promptDatabase(bufio.NewReader(strings.NewReader(input)), &dbCfg))

	assert.Equal(t, config.DatabaseConfig{
		Type:     "postgres",
		Host:     "db.internal",
		Port:     6543,
		Username: "trader",
		Password: "",
		Name:     "markets",
		SSL:      true,
	}, dbCfg)
}

func TestPromptDatabaseSQLiteDefaults(t *testing.T) {
	var dbCfg config.DatabaseConfig
	require.NoError(t, promptDatabase(bufio.NewReader(strings.NewReader("\n\n")), &dbCfg))

	assert.Equal(t, "sqlite", dbCfg.Type)
	assert.Equal(t, db.DefaultSQLitePath, dbCfg.Path)
}

func TestPromptStopsAtEOF(t *testing.T) {
	var dbCfg config.DatabaseConfig
	err := promptDatabase(bufio.NewReader(strings.NewReader("mysql")), &dbCfg)
	assert.Error(t, err)
}

func TestValidatePort(t *testing.T) {
	_, err := validatePort("0")
	assert.Error(t, err)
	_, err = validatePort("abc")
	assert.Error(t, err)
	port, err := validatePort(" 5432 ")
	require.NoError(t, err)
	assert.Equal(t, 5432, port)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
