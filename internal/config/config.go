package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/AI2HU/trader-ai/internal/models"
	"github.com/AI2HU/trader-ai/internal/shared"
)

// Config represents the application configuration
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	CORS     CORSConfig     `yaml:"cors"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AppConfig holds service identity settings
type AppConfig struct {
	Name    string `yaml:"name"`
	Port    int    `yaml:"port"`
	Env     string `yaml:"env"`
	Version string `yaml:"version"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Type     string `yaml:"type,omitempty"` // postgres, postgresql, sqlite
	URL      string `yaml:"url,omitempty"`
	Path     string `yaml:"path,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Logging  bool   `yaml:"logging"`
	SSL      bool   `yaml:"ssl"`
}

// CORSConfig lists the origins allowed to call the API
type CORSConfig struct {
	Origins []string `yaml:"origins"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "Trader AI Backend",
			Port:    8000,
			Env:     "development",
			Version: "1.0.0",
		},
		CORS: CORSConfig{
			Origins: []string{"http://localhost:3000"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from file, then overlays .env and process
// environment values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := LoadDotEnv(""); err != nil {
		return nil, err
	}
	config.applyEnvOverrides()

	return config, nil
}

// LoadFromEnv builds a configuration from defaults and the environment
// alone, for deployments that ship no config file.
func LoadFromEnv() (*Config, error) {
	if err := LoadDotEnv(""); err != nil {
		return nil, err
	}
	config := DefaultConfig()
	config.applyEnvOverrides()
	return config, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path (default ".env") into the
// process environment. Variables that are already set are kept, and a
// missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DatabaseSettings converts the database section into resolver input
func (c *Config) DatabaseSettings() models.DatabaseSettings {
	return models.DatabaseSettings{
		Type:     c.Database.Type,
		URL:      c.Database.URL,
		Path:     c.Database.Path,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		Username: c.Database.Username,
		Password: c.Database.Password,
		Name:     c.Database.Name,
		Logging:  c.Database.Logging,
		SSL:      c.Database.SSL,
	}
}

// applyEnvOverrides overlays environment variables onto the loaded file.
// Empty variables are ignored.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("APP_NAME"); v != "" {
		c.App.Name = v
	}
	if v := os.Getenv("APP_VERSION"); v != "" {
		c.App.Version = v
	}
	if v := os.Getenv("NODE_ENV"); v != "" {
		c.App.Env = v
	}
	if port, ok := envInt("PORT"); ok {
		c.App.Port = port
	}

	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("DB_TYPE"); v != "" {
		c.Database.Type = strings.ToLower(v)
	}
	if v := os.Getenv("DB_HOST"); v != "" {
		c.Database.Host = v
	}
	if port, ok := envInt("DB_PORT"); ok {
		c.Database.Port = port
	}
	if v := os.Getenv("DB_USERNAME"); v != "" {
		c.Database.Username = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		c.Database.Name = v
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v, ok := envBool("DB_LOGGING"); ok {
		c.Database.Logging = v
	}
	// DB_SSL is matched exactly, unlike DB_LOGGING.
	if v := os.Getenv("DB_SSL"); v != "" {
		c.Database.SSL = v == "true"
	}

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORS.Origins = splitOrigins(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// envBool reports whether key is set; only "true" (any case) enables.
func envBool(key string) (bool, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return false, false
	}
	return shared.ParseBool(v), true
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func splitOrigins(v string) []string {
	var origins []string
	for _, origin := range strings.Split(v, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// GetConfigPath returns the config file path, honouring TRADER_AI_CONFIG_PATH
func GetConfigPath() string {
	if envPath := os.Getenv("TRADER_AI_CONFIG_PATH"); envPath != "" {
		return envPath
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".trader-ai/config.yaml"
	}
	return filepath.Join(home, ".trader-ai", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
