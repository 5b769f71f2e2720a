package engine

import (
	"context"
	"fmt"

	"github.com/alphadb-io/alphadb-go/internal/apperr"
	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// TableExport is one managed table's column list and row data, as
// returned by Export.
type TableExport struct {
	Columns []string
	Rows    []driver.Row
}

// Export dumps every managed table's columns and rows, keyed by table
// name. Grounded on original_source/src/alphadb/alphadb.py's export
// (INFORMATION_SCHEMA.COLUMNS + SELECT *); on sqlite, INFORMATION_SCHEMA
// doesn't exist, so columns come from "PRAGMA table_info" instead of
// being dropped (per SPEC_FULL.md's Open Questions resolution).
func (e *Engine) Export(ctx context.Context) (map[string]TableExport, error) {
	if e.driver == nil {
		return nil, apperr.ErrNoConnection
	}

	st, err := e.Check(ctx)
	if err != nil {
		return nil, err
	}
	if !st.Initialized {
		return nil, apperr.ErrDBNotInitialized
	}

	tables, err := e.listTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: export: %w", err)
	}

	out := make(map[string]TableExport, len(tables))
	for _, t := range tables {
		cols, err := e.tableColumns(ctx, t)
		if err != nil {
			return nil, fmt.Errorf("engine: export: table %s: %w", t, err)
		}
		rows, err := e.driver.FetchAll(ctx, fmt.Sprintf(" SELECT * FROM %s;", t))
		if err != nil {
			return nil, fmt.Errorf("engine: export: table %s: %w", t, err)
		}
		out[t] = TableExport{Columns: cols, Rows: rows}
	}
	return out, nil
}

func (e *Engine) tableColumns(ctx context.Context, table string) ([]string, error) {
	if e.driver.Dialect() == emit.SQLite {
		rows, err := e.driver.FetchAll(ctx, fmt.Sprintf(" PRAGMA table_info(%s);", table))
		if err != nil {
			return nil, err
		}
		cols := make([]string, 0, len(rows))
		for _, r := range rows {
			if name, ok := r["name"].(string); ok {
				cols = append(cols, name)
			}
		}
		return cols, nil
	}

	rows, err := e.driver.FetchAll(ctx, fmt.Sprintf(
		" SELECT column_name FROM information_schema.columns WHERE table_name = %s ORDER BY ordinal_position;",
		quote(table)))
	if err != nil {
		return nil, err
	}
	cols := make([]string, 0, len(rows))
	for _, r := range rows {
		if name, ok := r["column_name"].(string); ok {
			cols = append(cols, name)
		}
	}
	return cols, nil
}
