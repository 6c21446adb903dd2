package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds server, client and logging settings
type Config struct {
	// Server
	Addr           string        `yaml:"addr" json:"addr"`                       // Listen address for the API
	DatabaseDriver string        `yaml:"database_driver" json:"database_driver"` // sqlite, postgres or pgx
	DatabaseURL    string        `yaml:"database_url" json:"database_url"`       // DSN for the driver
	RedisURL       string        `yaml:"redis_url" json:"redis_url"`             // Empty disables the list cache
	TokenSecret    string        `yaml:"token_secret" json:"-"`                  // HMAC key for bearer tokens
	TokenTTL       time.Duration `yaml:"token_ttl" json:"token_ttl"`             // Lifetime of issued tokens
	CacheTTL       time.Duration `yaml:"cache_ttl" json:"cache_ttl"`             // Lifetime of cached board lists

	// Client
	ServerURL    string        `yaml:"server_url" json:"server_url"`       // Base URL the CLI and TUI talk to
	EditDebounce time.Duration `yaml:"edit_debounce" json:"edit_debounce"` // Delay before a field edit is sent

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns the per-user settings directory, ~/.taskboard
func Dir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return ".taskboard"
	}
	return filepath.Join(home, ".taskboard")
}

// DefaultPath returns ~/.taskboard/config.yaml
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	return &Config{
		Addr:           ":8080",
		DatabaseDriver: "sqlite",
		DatabaseURL:    filepath.Join(Dir(), "taskboard.db"),
		TokenSecret:    "change-me",
		TokenTTL:       24 * time.Hour,
		CacheTTL:       5 * time.Minute,
		ServerURL:      "http://localhost:8080",
		EditDebounce:   500 * time.Millisecond,
		LogLevel:       "INFO",
		LogFile:        filepath.Join(Dir(), "logs", "taskboard.log"),
		LogConsole:     false,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// applyEnv overrides file settings with environment variables
func (c *Config) applyEnv() error {
	c.Addr = getEnv("TASKBOARD_ADDR", c.Addr)
	c.DatabaseDriver = getEnv("DATABASE_DRIVER", c.DatabaseDriver)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.TokenSecret = getEnv("TOKEN_SECRET_KEY", c.TokenSecret)
	c.ServerURL = getEnv("TASKBOARD_SERVER_URL", c.ServerURL)
	c.LogLevel = getEnv("TASKBOARD_LOG_LEVEL", c.LogLevel)
	c.LogFile = getEnv("TASKBOARD_LOG_FILE", c.LogFile)
	if v := os.Getenv("TASKBOARD_LOG_CONSOLE"); v != "" {
		c.LogConsole = v == "true"
	}

	var err error
	if c.TokenTTL, err = getDuration("TOKEN_TTL", c.TokenTTL); err != nil {
		return err
	}
	if c.CacheTTL, err = getDuration("CACHE_TTL", c.CacheTTL); err != nil {
		return err
	}
	if c.EditDebounce, err = getDuration("TASKBOARD_EDIT_DEBOUNCE", c.EditDebounce); err != nil {
		return err
	}
	return nil
}

// Load reads config from path (DefaultPath when empty) and applies env overrides.
// A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes config to path (DefaultPath when empty)
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
