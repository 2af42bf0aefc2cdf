package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/pausa/internal/domain"
)

// envPrefix namespaces environment overrides, e.g. PAUSA_DATABASE_URL or
// PAUSA_FRICTION_WARNING_THRESHOLD.
const envPrefix = "PAUSA"

// Database holds libsql configuration. With only Path set the database is a
// local file; with URL set it is a remote Turso database, and with both it is
// an embedded replica synced from URL.
type Database struct {
	URL       string `toml:"url"`
	AuthToken string `toml:"auth_token" split_words:"true"`
	Path      string `toml:"path"`
}

// Friction holds the intervention flow tunables.
type Friction struct {
	WarningThreshold int           `toml:"warning_threshold" split_words:"true"`
	TickInterval     time.Duration `toml:"tick_interval" split_words:"true"`
	RecordTimeout    time.Duration `toml:"record_timeout" split_words:"true"`
}

// OTEL holds OTLP metrics exporter configuration.
type OTEL struct {
	Endpoint string `toml:"endpoint"`
	Enabled  bool   `toml:"enabled"`
	Insecure bool   `toml:"insecure"`
}

// Server holds the stats HTTP API configuration.
type Server struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" split_words:"true"`
}

// Config holds all pausa configuration.
type Config struct {
	Locale string `toml:"locale"`
	Debug  bool   `toml:"debug"`

	Database Database `toml:"database"`
	Friction Friction `toml:"friction"`
	OTEL     OTEL     `toml:"otel"`
	Server   Server   `toml:"server"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Locale: "en",
		Database: Database{
			Path: "~/.local/share/pausa/pausa.db",
		},
		Friction: Friction{
			WarningThreshold: domain.DefaultWarningThreshold,
			TickInterval:     time.Second,
			RecordTimeout:    3 * time.Second,
		},
		Server: Server{
			Addr:            "127.0.0.1:8787",
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, the TOML config file and the
// environment, in that order of precedence. A .env file in the working
// directory is loaded into the environment first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.Database.Path = expandHome(cfg.Database.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the intervention flow cannot run with.
func (c *Config) Validate() error {
	if c.Friction.WarningThreshold < 1 {
		return fmt.Errorf("friction.warning_threshold must be at least 1, got %d", c.Friction.WarningThreshold)
	}
	if c.Friction.TickInterval <= 0 {
		return fmt.Errorf("friction.tick_interval must be positive, got %s", c.Friction.TickInterval)
	}
	if c.Database.URL == "" && c.Database.Path == "" {
		return fmt.Errorf("database.url or database.path is required")
	}
	if c.OTEL.Enabled && c.OTEL.Endpoint == "" {
		return fmt.Errorf("otel.endpoint is required when otel is enabled")
	}
	return nil
}

// Path returns the config file that Load would read, or the preferred
// location if none exists yet.
func Path() string {
	paths := configPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if len(paths) > 0 {
		return paths[0]
	}
	return ""
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "pausa", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "pausa", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
