package emit

import (
	"strconv"
	"strings"

	"github.com/alphadb-io/alphadb-go/internal/apperr"
	"github.com/alphadb-io/alphadb-go/internal/source"
)

// preparedColumn is the validated, defaulted attribute set defineColumn
// renders from. Splitting prepareColumn/defineColumn mirrors the
// original's prepare_definecolumn_data + definecolumn two-step
// pipeline: the first step validates and fills in defaults, the second
// is a pure renderer that never errors on a column it didn't already
// see validated.
type preparedColumn struct {
	Type       string
	Length     *int
	Null       bool
	Unique     bool
	Default    any
	AutoInc    bool
}

// prepareColumn validates spec against invariants I1-I3 and fills in
// attribute defaults. ctx is prefixed to any error for traceability
// ("version 0.2.6 -> altertable -> table:users -> column:email").
func prepareColumn(spec source.ColumnSpec, ctx string) (preparedColumn, error) {
	if !spec.HasType {
		return preparedColumn{}, &apperr.IncompleteVersionObject{Key: "type", Object: ctx}
	}

	p := preparedColumn{
		Type:    strings.ToUpper(spec.Type),
		Length:  spec.Length,
		Null:    spec.HasNull && spec.Null,
		Unique:  spec.HasUnique && spec.Unique,
		Default: spec.Default,
		AutoInc: spec.HasAutoInc && spec.AutoInc,
	}

	if !supportedColumnTypes[p.Type] {
		return preparedColumn{}, &apperr.UnsupportedColumnType{Type: spec.Type}
	}

	if p.Null && p.AutoInc {
		return preparedColumn{}, &apperr.IncompatibleColumnAttributes{Attrs: []string{"null", "a_i"}, Context: ctx}
	}

	lower := strings.ToLower(p.Type)
	if p.AutoInc && autoincrementIncompatibleTypes[lower] {
		return preparedColumn{}, &apperr.IncompatibleColumnAttributes{Attrs: []string{"type==" + spec.Type, "a_i"}, Context: ctx}
	}
	if p.Unique && uniqueIncompatibleTypes[lower] {
		return preparedColumn{}, &apperr.IncompatibleColumnAttributes{Attrs: []string{"type==" + spec.Type, "unique"}, Context: ctx}
	}

	return p, nil
}

// defineColumn renders a prepared column as a dialect-specific SQL
// fragment, e.g. " email VARCHAR(100) NOT NULL UNIQUE DEFAULT 'x'".
// Leading space is intentional: callers concatenate fragments inline
// ("CREATE TABLE t (" + defineColumn(...) + ",").
func defineColumn(name string, p preparedColumn, dialect Dialect) string {
	var b strings.Builder
	b.WriteString(" ")
	b.WriteString(name)
	b.WriteString(" ")
	b.WriteString(p.Type)

	if p.Length != nil {
		switch {
		case dialect == Postgres && (p.Type == "TEXT" || p.Type == "LONGTEXT"):
			b.WriteString(" CONSTRAINT ")
			b.WriteString(name)
			b.WriteString("_tl CHECK (char_length(")
			b.WriteString(name)
			b.WriteString(") <= ")
			b.WriteString(strconv.Itoa(*p.Length))
			b.WriteString(")")
		case dialect == Postgres && intLikeColumnTypes[p.Type]:
			// Postgres has no display-width modifier for integer types.
		default:
			b.WriteString("(")
			b.WriteString(strconv.Itoa(*p.Length))
			b.WriteString(")")
		}
	}

	if p.Null {
		b.WriteString(" NULL")
	} else {
		b.WriteString(" NOT NULL")
	}

	if p.Unique && dialect != Postgres {
		b.WriteString(" UNIQUE")
	}

	if p.Default != nil {
		if lit, ok := Literal(p.Default); ok {
			b.WriteString(" DEFAULT ")
			b.WriteString(lit)
		}
	}

	if p.AutoInc && dialect == MySQL {
		b.WriteString(" AUTO_INCREMENT")
	}

	return b.String()
}

