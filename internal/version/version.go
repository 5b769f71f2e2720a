// Package version implements the dotted version-number codec that
// defines the total order used for every comparison over a version
// source's history.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Number is the integer encoding of a dotted version string such as
// "1.0.201". Fields are concatenated digit-for-digit rather than summed,
// so "1.0.201" becomes 10201 and "0.5.0" becomes 50. This makes the
// encoding cheap, total, and stable: every comparison reduces to an
// integer compare.
type Number int64

// Parse converts a dotted version string to its Number encoding.
// Leading-zero fields are permitted (each field is treated lexically,
// not numerically trimmed before concatenation). Empty fields and
// fields containing non-decimal characters are rejected.
func Parse(id string) (Number, error) {
	if id == "" {
		return 0, fmt.Errorf("version: empty version string")
	}

	fields := strings.Split(id, ".")
	var b strings.Builder
	for _, f := range fields {
		if f == "" {
			return 0, fmt.Errorf("version: empty field in %q", id)
		}
		for _, r := range f {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("version: non-decimal field %q in %q", f, id)
			}
		}
		b.WriteString(f)
	}

	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("version: %q does not convert to an integer: %w", id, err)
	}
	return Number(n), nil
}

// MustParse is Parse but panics on error. Reserved for constants/tests.
func MustParse(id string) Number {
	n, err := Parse(id)
	if err != nil {
		panic(err)
	}
	return n
}

// Compare returns -1, 0 or 1 as a is less than, equal to, or greater
// than b.
func Compare(a, b Number) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Max returns the highest Number in ids, parsing each with Parse.
func Max(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", fmt.Errorf("version: empty id list")
	}
	best := ids[0]
	bestN, err := Parse(best)
	if err != nil {
		return "", err
	}
	for _, id := range ids[1:] {
		n, err := Parse(id)
		if err != nil {
			return "", err
		}
		if n > bestN {
			bestN = n
			best = id
		}
	}
	return best, nil
}
