// Package fake provides an in-memory driver.Driver for exercising the
// update orchestrator without a live database connection, the same
// role the teacher's internal/storage/memory package plays for the
// registry's Storage interface.
package fake

import (
	"context"
	"fmt"
	"sync"

	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// Driver is a trivial single-table-less SQL engine: it doesn't parse
// the statements it's given, it only records them and lets a test
// program the responses FetchOne/FetchAll should hand back. Real
// row/DDL semantics belong to the dialect drivers; this one exists so
// internal/engine's orchestration logic (state transitions, error
// propagation, template-lock checks) can be tested without parsing SQL.
type Driver struct {
	dialect emit.Dialect

	mu        sync.Mutex
	executed  []string
	fetchOne  map[string]driver.Row
	fetchAll  map[string][]driver.Row
	closed    bool
	failExec  error
	failFetch error
}

// New returns an empty fake driver speaking dialect.
func New(dialect emit.Dialect) *Driver {
	return &Driver{
		dialect:  dialect,
		fetchOne: make(map[string]driver.Row),
		fetchAll: make(map[string][]driver.Row),
	}
}

func (d *Driver) Dialect() emit.Dialect {
	return d.dialect
}

// StubFetchOne programs the Row FetchOne returns for an exact query
// string match.
func (d *Driver) StubFetchOne(query string, row driver.Row) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fetchOne[query] = row
}

// StubFetchAll programs the Rows FetchAll returns for an exact query
// string match.
func (d *Driver) StubFetchAll(query string, rows []driver.Row) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fetchAll[query] = rows
}

// FailNextExecute makes the next Execute call return err; later calls
// succeed again.
func (d *Driver) FailNextExecute(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failExec = err
}

// Executed returns every statement passed to Execute, in call order.
func (d *Driver) Executed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.executed))
	copy(out, d.executed)
	return out
}

func (d *Driver) Execute(ctx context.Context, query string, args ...any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return fmt.Errorf("fake: driver is closed")
	}
	if d.failExec != nil {
		err := d.failExec
		d.failExec = nil
		return err
	}
	d.executed = append(d.executed, query)
	return nil
}

func (d *Driver) FetchOne(ctx context.Context, query string, args ...any) (driver.Row, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, fmt.Errorf("fake: driver is closed")
	}
	if d.failFetch != nil {
		err := d.failFetch
		d.failFetch = nil
		return nil, err
	}
	return d.fetchOne[query], nil
}

func (d *Driver) FetchAll(ctx context.Context, query string, args ...any) ([]driver.Row, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, fmt.Errorf("fake: driver is closed")
	}
	if d.failFetch != nil {
		err := d.failFetch
		d.failFetch = nil
		return nil, err
	}
	rows := d.fetchAll[query]
	out := make([]driver.Row, len(rows))
	copy(out, rows)
	return out, nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
