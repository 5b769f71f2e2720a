// Package sqlite registers the "sqlite" dialect driver.Factory, backed
// by database/sql and modernc.org/sqlite (pure Go, no cgo).
package sqlite

import (
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/driver/sqldriver"
	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// Config holds SQLite connection configuration.
type Config struct {
	// Path is the database file path, or ":memory:" for an ephemeral
	// in-process database.
	Path string

	Pool sqldriver.PoolConfig
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Path: "alphadb.sqlite",
		Pool: sqldriver.DefaultPoolConfig(),
	}
}

// DSN returns the connection string.
func (c Config) DSN() string {
	return c.Path
}

func init() {
	driver.Register(emit.SQLite, func(config any) (driver.Driver, error) {
		cfg, ok := config.(Config)
		if !ok {
			return nil, fmt.Errorf("sqlite: Open expects sqlite.Config, got %T", config)
		}
		// SQLite has no concurrent-writer connection pool; a single
		// open connection avoids SQLITE_BUSY under the database/sql
		// pool's default multi-conn behavior.
		pool := cfg.Pool
		pool.MaxOpenConns = 1
		pool.MaxIdleConns = 1
		return sqldriver.Open("sqlite", cfg.DSN(), emit.SQLite, pool)
	})
}
