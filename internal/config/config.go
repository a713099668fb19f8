package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/claude/barbell/internal/storage"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Rest      RestConfig      `yaml:"rest"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig selects the blob store backend: memory, sqlite or postgres.
type StorageConfig struct {
	Driver   string         `yaml:"driver"`
	Path     string         `yaml:"path"`
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// AuthConfig protects the mutating endpoints when APIKey is set.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

// RestConfig holds the rest periods after a completed and a failed set.
type RestConfig struct {
	SuccessSeconds int `yaml:"success_seconds"`
	FailureSeconds int `yaml:"failure_seconds"`
}

func (r RestConfig) Success() time.Duration { return time.Duration(r.SuccessSeconds) * time.Second }
func (r RestConfig) Failure() time.Duration { return time.Duration(r.FailureSeconds) * time.Second }

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Default returns the configuration used for keys the file leaves out.
func Default() *Config {
	return &Config{
		Server:    ServerConfig{Host: "0.0.0.0", Port: 8080},
		Storage:   StorageConfig{Driver: "sqlite", Path: "./data/barbell.db"},
		Tailscale: TailscaleConfig{Hostname: "barbell", StateDir: "./tsnet"},
		Rest:      RestConfig{SuccessSeconds: 90, FailureSeconds: 300},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. Env vars use the prefix BARBELL_:
//
//	BARBELL_SERVER_HOST, BARBELL_SERVER_PORT,
//	BARBELL_STORAGE_DRIVER, BARBELL_STORAGE_PATH,
//	BARBELL_DB_HOST, BARBELL_DB_PORT, BARBELL_DB_NAME,
//	BARBELL_DB_USER, BARBELL_DB_PASSWORD, BARBELL_DB_SSLMODE,
//	BARBELL_AUTH_API_KEY,
//	BARBELL_TAILSCALE_ENABLED, BARBELL_TAILSCALE_HOSTNAME
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BARBELL_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("BARBELL_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("BARBELL_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("BARBELL_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	db := &cfg.Storage.Database
	if v := os.Getenv("BARBELL_DB_HOST"); v != "" {
		db.Host = v
	}
	if v := os.Getenv("BARBELL_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			db.Port = port
		}
	}
	if v := os.Getenv("BARBELL_DB_NAME"); v != "" {
		db.Name = v
	}
	if v := os.Getenv("BARBELL_DB_USER"); v != "" {
		db.User = v
	}
	if v := os.Getenv("BARBELL_DB_PASSWORD"); v != "" {
		db.Password = v
	}
	if v := os.Getenv("BARBELL_DB_SSLMODE"); v != "" {
		db.SSLMode = v
	}
	if v := os.Getenv("BARBELL_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("BARBELL_TAILSCALE_ENABLED"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = on
		}
	}
	if v := os.Getenv("BARBELL_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite")
		}
	case "postgres":
		db := c.Storage.Database
		if db.Host == "" {
			return fmt.Errorf("storage.database.host is required")
		}
		if db.Port == 0 {
			return fmt.Errorf("storage.database.port is required")
		}
		if db.Name == "" {
			return fmt.Errorf("storage.database.name is required")
		}
		if db.User == "" {
			return fmt.Errorf("storage.database.user is required")
		}
	default:
		return fmt.Errorf("storage.driver %q must be memory, sqlite or postgres", c.Storage.Driver)
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Rest.SuccessSeconds <= 0 || c.Rest.FailureSeconds <= 0 {
		return fmt.Errorf("rest durations must be positive")
	}
	return nil
}

// StorageOptions translates the storage section for storage.Open.
func (c *Config) StorageOptions(migrationsPath string) storage.Options {
	return storage.Options{
		Driver:         c.Storage.Driver,
		Path:           c.Storage.Path,
		DSN:            c.Storage.Database.DSN(),
		MigrationsPath: migrationsPath,
	}
}
