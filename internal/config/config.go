package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Transport TransportConfig `yaml:"transport"`
	Query     QueryConfig     `yaml:"query"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
	// DefaultTenant serves every call when auth is off.
	DefaultTenant string `yaml:"default_tenant"`
}

type TransportConfig struct {
	Mode string `yaml:"mode"` // "http" or "stdio"
}

type QueryConfig struct {
	WeekStart string `yaml:"week_start"`
	PageSize  int    `yaml:"page_size"`
}

// Weekday parses WeekStart. Unrecognized names fall back to Monday.
func (q QueryConfig) Weekday() time.Weekday {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(q.WeekStart, d.String()) {
			return d
		}
	}
	return time.Monday
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "consentdesk.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			Enabled:       true,
			DefaultTenant: "default",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
		Query: QueryConfig{
			WeekStart: "monday",
			PageSize:  100,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("CONSENTDESK_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("CONSENTDESK_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("CONSENTDESK_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CONSENTDESK_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if dbPath := os.Getenv("CONSENTDESK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("CONSENTDESK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("CONSENTDESK_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if enabled := os.Getenv("CONSENTDESK_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CONSENTDESK_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if tenant := os.Getenv("CONSENTDESK_DEFAULT_TENANT"); tenant != "" {
		cfg.Auth.DefaultTenant = tenant
	}
	if mode := os.Getenv("CONSENTDESK_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = mode
	}
	if weekStart := os.Getenv("CONSENTDESK_QUERY_WEEK_START"); weekStart != "" {
		cfg.Query.WeekStart = weekStart
	}
	if sizeStr := os.Getenv("CONSENTDESK_QUERY_PAGE_SIZE"); sizeStr != "" {
		size, err := strconv.Atoi(sizeStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CONSENTDESK_QUERY_PAGE_SIZE: %w", err)
		}
		cfg.Query.PageSize = size
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c Config) Validate() error {
	switch c.Transport.Mode {
	case "http", "stdio":
	default:
		return fmt.Errorf("invalid transport mode %q: want http or stdio", c.Transport.Mode)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Query.PageSize <= 0 {
		return fmt.Errorf("invalid query page size %d", c.Query.PageSize)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
