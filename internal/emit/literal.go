package emit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Literal renders a Go value as a SQL literal the way the original
// emitter does: strings single-quoted, integers and floats bare,
// booleans as true/false, maps JSON-serialized and single-quoted. The
// caller must skip the attribute entirely when ok is false (used for
// nil values, which are omitted rather than rendered as SQL NULL -
// matching default-data's documented "null values cause the key to be
// omitted" behavior).
//
// Every value handled here ends up embedded directly in the generated
// statement string rather than passed as a bound parameter - the
// engine hands the driver a complete SQL string, not a
// statement-plus-params pair. That gap is inherited from the source
// this was ported from; centralizing the rendering here means a future
// parameterized emitter only has to change this file.
func Literal(v any) (s string, ok bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'", true
	case bool:
		if val {
			return "true", true
		}
		return "false", true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64), true
	case map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return "", false
		}
		rendered := pythonJSONSpacing(b)
		return "'" + strings.ReplaceAll(rendered, "'", "''") + "'", true
	default:
		return fmt.Sprintf("'%v'", val), true
	}
}

// pythonJSONSpacing reformats encoding/json's compact output (no space
// after "," or ":") to match Python's json.dumps default separators
// (", ", ": "), which is what the original emitter produces and
// spec.md's scenario S5 pins down (`'{"json": "t"}'`). Colons and
// commas inside string content are left untouched.
func pythonJSONSpacing(b []byte) string {
	var out strings.Builder
	out.Grow(len(b) + 8)

	inString, escaped := false, false
	for _, c := range b {
		if inString {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
			out.WriteByte(c)
		case ':':
			out.WriteString(": ")
		case ',':
			out.WriteString(", ")
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}
