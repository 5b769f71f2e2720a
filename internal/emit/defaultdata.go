package emit

import (
	"fmt"
	"strings"

	"github.com/alphadb-io/alphadb-go/internal/source"
)

// DefaultData renders a single INSERT statement for one row of
// table's default data. Nil-valued fields are omitted from the
// statement entirely rather than rendered as SQL NULL.
func DefaultData(table string, row source.Row) string {
	var keys []string
	var vals []string

	for _, f := range row {
		lit, ok := Literal(f.Value)
		if !ok {
			continue
		}
		keys = append(keys, f.Key)
		vals = append(vals, lit)
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);", table, strings.Join(keys, ","), strings.Join(vals, ","))
}
