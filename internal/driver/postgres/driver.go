// Package postgres registers the "postgres" dialect driver.Factory,
// backed by database/sql and github.com/lib/pq.
package postgres

import (
	"fmt"

	_ "github.com/lib/pq"

	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/driver/sqldriver"
	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// Config holds PostgreSQL connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string // disable, require, verify-ca, verify-full

	Pool sqldriver.PoolConfig
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:     "localhost",
		Port:     5432,
		Database: "alphadb",
		Username: "postgres",
		SSLMode:  "disable",
		Pool:     sqldriver.DefaultPoolConfig(),
	}
}

// DSN returns the connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.Host, c.Port, c.Database, c.Username, c.Password, c.SSLMode,
	)
}

func init() {
	driver.Register(emit.Postgres, func(config any) (driver.Driver, error) {
		cfg, ok := config.(Config)
		if !ok {
			return nil, fmt.Errorf("postgres: Open expects postgres.Config, got %T", config)
		}
		return sqldriver.Open("postgres", cfg.DSN(), emit.Postgres, cfg.Pool)
	})
}
