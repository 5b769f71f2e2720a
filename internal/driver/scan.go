package driver

import "database/sql"

// ScanRows materializes every row of an open *sql.Rows into Row maps
// keyed by column name, using sql.RawBytes-free generic scanning so
// the three dialect drivers share one implementation instead of each
// hand-rolling reflection over column types.
func ScanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = normalizeScanValue(values[i])
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// normalizeScanValue converts driver-specific byte-slice
// representations (common for TEXT/VARCHAR columns under several
// database/sql drivers) into plain strings.
func normalizeScanValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
