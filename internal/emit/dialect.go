package emit

import "github.com/alphadb-io/alphadb-go/internal/apperr"

// Dialect names a supported SQL engine.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// ParseDialect validates a dialect string from config/CLI input.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case MySQL, SQLite, Postgres:
		return Dialect(s), nil
	default:
		return "", &apperr.UnsupportedDialect{Dialect: s}
	}
}

// Placeholder is the parameter placeholder this dialect's driver
// expects for bound query arguments. The engine does not bind
// parameters: config-table statements and emitted DDL/DML both embed
// literals (see literal.go).
func (d Dialect) Placeholder() string {
	if d == Postgres {
		return "$1"
	}
	return "?"
}

var supportedColumnTypes = map[string]bool{
	"INT":      true,
	"FLOAT":    true,
	"DECIMAL":  true,
	"VARCHAR":  true,
	"TEXT":     true,
	"LONGTEXT": true,
	"BIGINT":   true,
	"TINYINT":  true,
	"DATETIME": true,
	"JSON":     true,
}

// intLikeColumnTypes never take a length modifier under postgres,
// which has no notion of a display-width integer.
var intLikeColumnTypes = map[string]bool{
	"INT":     true,
	"BIGINT":  true,
	"TINYINT": true,
}

var autoincrementIncompatibleTypes = map[string]bool{
	"varchar":  true,
	"text":     true,
	"longtext": true,
	"datetime": true,
	"decimal":  true,
	"json":     true,
}

var uniqueIncompatibleTypes = map[string]bool{
	"json": true,
}
