// Package config provides configuration management for the alphadb
// CLI: dialect connection settings plus logging, loaded from a YAML
// file with environment-variable overrides. Modeled on the teacher's
// internal/config.Config (DefaultConfig/Load/Validate/env-override
// shape); the server/auth/compatibility sub-configs that shape doesn't
// apply to AlphaDB are dropped rather than carried as dead fields.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the alphadb CLI's top-level configuration.
type Config struct {
	Database string         `yaml:"database"` // the managed db name; adb_conf's primary key
	Dialect  string         `yaml:"dialect"`  // mysql, sqlite, postgres
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// MySQLConfig represents MySQL connection configuration.
type MySQLConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	TLS             string        `yaml:"tls"` // true, false, skip-verify, preferred
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// PostgresConfig represents PostgreSQL connection configuration.
type PostgresConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	Username        string        `yaml:"username"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"` // disable, require, verify-ca, verify-full
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// SQLiteConfig represents SQLite connection configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Database: "alphadb",
		Dialect:  "sqlite",
		MySQL: MySQLConfig{
			Host:            "localhost",
			Port:            3306,
			Database:        "alphadb",
			Username:        "root",
			TLS:             "false",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "alphadb",
			Username:        "postgres",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		SQLite: SQLiteConfig{
			Path: "alphadb.sqlite",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file and environment variables.
// Environment variables override file configuration.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		// #nosec G304 -- path is from command-line argument, user-controlled input is expected
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		expanded := os.ExpandEnv(string(data))

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies ALPHADB_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ALPHADB_DATABASE"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("ALPHADB_DIALECT"); v != "" {
		c.Dialect = v
	}
	if v := os.Getenv("ALPHADB_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("ALPHADB_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}

	// MySQL overrides
	if v := os.Getenv("ALPHADB_MYSQL_HOST"); v != "" {
		c.MySQL.Host = v
	}
	if v := os.Getenv("ALPHADB_MYSQL_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.MySQL.Port = port
		}
	}
	if v := os.Getenv("ALPHADB_MYSQL_DATABASE"); v != "" {
		c.MySQL.Database = v
	}
	if v := os.Getenv("ALPHADB_MYSQL_USERNAME"); v != "" {
		c.MySQL.Username = v
	}
	if v := os.Getenv("ALPHADB_MYSQL_PASSWORD"); v != "" {
		c.MySQL.Password = v
	}
	if v := os.Getenv("ALPHADB_MYSQL_TLS"); v != "" {
		c.MySQL.TLS = v
	}

	// Postgres overrides
	if v := os.Getenv("ALPHADB_POSTGRES_HOST"); v != "" {
		c.Postgres.Host = v
	}
	if v := os.Getenv("ALPHADB_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Postgres.Port = port
		}
	}
	if v := os.Getenv("ALPHADB_POSTGRES_DATABASE"); v != "" {
		c.Postgres.Database = v
	}
	if v := os.Getenv("ALPHADB_POSTGRES_USERNAME"); v != "" {
		c.Postgres.Username = v
	}
	if v := os.Getenv("ALPHADB_POSTGRES_PASSWORD"); v != "" {
		c.Postgres.Password = v
	}
	if v := os.Getenv("ALPHADB_POSTGRES_SSLMODE"); v != "" {
		c.Postgres.SSLMode = v
	}

	// SQLite overrides
	if v := os.Getenv("ALPHADB_SQLITE_PATH"); v != "" {
		c.SQLite.Path = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validDialects := map[string]bool{"mysql": true, "sqlite": true, "postgres": true}
	if !validDialects[c.Dialect] {
		return fmt.Errorf("invalid dialect: %s", c.Dialect)
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}
