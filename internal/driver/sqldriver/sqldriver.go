// Package sqldriver implements driver.Driver once on top of
// database/sql, parameterized by dialect and DSN. The three vendor
// packages (mysql, postgres, sqlite) each just supply a Config, a DSN,
// and a blank import of their database/sql driver, then delegate here
// - the same shape as the teacher's per-backend Store types, except
// the teacher didn't need to share code across backends and we do,
// since AlphaDB (unlike the registry) speaks three dialects from one
// orchestrator.
package sqldriver

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// PoolConfig holds the connection-pool tuning knobs common to every
// dialect, mirroring the teacher's mysql.Config pool fields.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig matches the teacher's mysql.DefaultConfig pool values.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

// Driver is the database/sql-backed driver.Driver implementation.
type Driver struct {
	db      *sql.DB
	dialect emit.Dialect
}

// Open opens driverName (the database/sql driver name registered by
// the vendor package's blank import) against dsn, configures the
// connection pool, and verifies connectivity with a ping.
func Open(driverName, dsn string, dialect emit.Dialect, pool PoolConfig) (*Driver, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqldriver: open %s: %w", driverName, err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqldriver: ping %s: %w", driverName, err)
	}

	return &Driver{db: db, dialect: dialect}, nil
}

func (d *Driver) Dialect() emit.Dialect {
	return d.dialect
}

func (d *Driver) Execute(ctx context.Context, query string, args ...any) error {
	_, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqldriver: execute: %w", err)
	}
	return nil
}

func (d *Driver) FetchOne(ctx context.Context, query string, args ...any) (driver.Row, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqldriver: fetch one: %w", err)
	}
	defer rows.Close()

	all, err := driver.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sqldriver: fetch one: %w", err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (d *Driver) FetchAll(ctx context.Context, query string, args ...any) ([]driver.Row, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqldriver: fetch all: %w", err)
	}
	defer rows.Close()

	all, err := driver.ScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("sqldriver: fetch all: %w", err)
	}
	return all, nil
}

func (d *Driver) Close() error {
	return d.db.Close()
}
