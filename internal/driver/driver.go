// Package driver defines the boundary between the update orchestrator
// and a concrete SQL engine. The orchestrator never imports
// database/sql or a vendor driver directly - it only ever calls
// through this interface, so the pure components upstream of it
// (source, verify, concat, emit) stay reentrant and testable without a
// live database, while the concrete dialect packages under
// internal/driver/{mysql,postgres,sqlite} and the in-memory
// internal/driver/fake do the actual I/O.
package driver

import (
	"context"
	"errors"

	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// ErrNoRows is returned by nothing directly; FetchOne returns a nil
// Row instead, mirroring spec.md's "row | null" contract rather than
// database/sql's sentinel-error convention.
var ErrNoRows = errors.New("driver: no rows")

// Row is one result row, keyed by column name.
type Row map[string]any

// Driver is the external interface the update orchestrator calls
// through. Every method takes a complete, already-rendered SQL
// statement: the orchestrator and the emit package own literal
// rendering, the driver only ever executes what it's handed.
type Driver interface {
	// Dialect reports which SQL dialect this driver speaks, so the
	// orchestrator can pick the right emitter.
	Dialect() emit.Dialect

	// Execute runs a statement that returns no rows (DDL, INSERT,
	// UPDATE, DELETE).
	Execute(ctx context.Context, query string, args ...any) error

	// FetchOne runs a query and returns its first row, or a nil Row
	// if the query produced none.
	FetchOne(ctx context.Context, query string, args ...any) (Row, error)

	// FetchAll runs a query and returns every row.
	FetchAll(ctx context.Context, query string, args ...any) ([]Row, error)

	// Close releases the underlying connection pool.
	Close() error
}
