// Package apperr defines AlphaDB's error taxonomy: one sentinel or typed
// error per spec.md §7 variant, in the same flat sentinel-error style as
// the teacher's internal/storage package (storage.ErrNotFound and
// friends), so callers compare with errors.Is/errors.As instead of
// string matching.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors with no contextual payload.
var (
	ErrNoConnection              = errors.New("alphadb: no database connection active")
	ErrNoDatabaseEngineSpecified = errors.New("alphadb: no database engine specified")
	ErrDBNotInitialized          = errors.New("alphadb: database has not yet been initialized")
	ErrMissingVersionData        = errors.New("alphadb: version source must be supplied for update to run")
	ErrIncompleteVersionData     = errors.New("alphadb: version source is missing \"name\" or \"version\"")
	ErrNeedsConfirmation         = errors.New("alphadb: vacate requires confirm=true")
)

// DBConfigIncomplete reports that the config table exists but is
// missing a required field.
type DBConfigIncomplete struct {
	Missing string
}

func (e *DBConfigIncomplete) Error() string {
	return fmt.Sprintf("alphadb: config table does not return a valid %q; check the config table manually", e.Missing)
}

// IncompleteVersionObject reports that a required sub-field is missing
// from a version-source object (e.g. foreign_key.key).
type IncompleteVersionObject struct {
	Key    string
	Object string
}

func (e *IncompleteVersionObject) Error() string {
	if e.Key == "" && e.Object == "" {
		return "alphadb: version source data is incomplete or broken"
	}
	return fmt.Sprintf("alphadb: version source data is incomplete or broken: %q is missing key %q", e.Object, e.Key)
}

// IncompatibleColumnAttributes reports a violation of invariants I1-I3:
// a combination of column attributes that no dialect can express.
type IncompatibleColumnAttributes struct {
	Attrs   []string
	Context string // "Version 0.2.6 -> altertable -> table:users -> column:email"
}

func (e *IncompatibleColumnAttributes) Error() string {
	msg := "alphadb: column attributes"
	for i, a := range e.Attrs {
		if i > 0 {
			msg += ","
		}
		msg += fmt.Sprintf(" %q", a)
	}
	msg += " are incompatible"
	if e.Context != "" {
		msg = fmt.Sprintf("%s: %s", e.Context, msg)
	}
	return msg
}

// ErrDBTemplateNoMatch reports that a version source's template name does
// not match the template name previously stored for this database.
var ErrDBTemplateNoMatch = errors.New("alphadb: this database uses a different version source; the template name does not match")

// VerificationFailed wraps the CRITICAL-severity issues returned by the
// verifier when they are treated as fatal by the caller.
type VerificationFailed struct {
	Issues []string
}

func (e *VerificationFailed) Error() string {
	return fmt.Sprintf("alphadb: version source failed verification with %d critical issue(s)", len(e.Issues))
}

// UnsupportedColumnType reports a column type the emitter does not know
// how to render.
type UnsupportedColumnType struct {
	Type string
}

func (e *UnsupportedColumnType) Error() string {
	return fmt.Sprintf("alphadb: column type %q is not (yet) supported", e.Type)
}

// UnsupportedDialect reports a dialect no driver/emitter profile exists for.
type UnsupportedDialect struct {
	Dialect string
}

func (e *UnsupportedDialect) Error() string {
	return fmt.Sprintf("alphadb: unsupported dialect %q", e.Dialect)
}
