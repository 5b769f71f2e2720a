// Package mysql registers the "mysql" dialect driver.Factory, backed
// by database/sql and github.com/go-sql-driver/mysql. Grounded on the
// teacher's internal/storage/mysql.Config/DefaultConfig/DSN shape.
package mysql

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/driver/sqldriver"
	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// Config holds MySQL connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	TLS      string // true, false, skip-verify, preferred, or custom config name

	Pool sqldriver.PoolConfig
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Host:     "localhost",
		Port:     3306,
		Database: "alphadb",
		Username: "root",
		TLS:      "false",
		Pool:     sqldriver.DefaultPoolConfig(),
	}
}

// DSN returns the connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?parseTime=true&tls=%s",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.TLS,
	)
}

func init() {
	driver.Register(emit.MySQL, func(config any) (driver.Driver, error) {
		cfg, ok := config.(Config)
		if !ok {
			return nil, fmt.Errorf("mysql: Open expects mysql.Config, got %T", config)
		}
		return sqldriver.Open("mysql", cfg.DSN(), emit.MySQL, cfg.Pool)
	})
}
