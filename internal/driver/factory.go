package driver

import (
	"fmt"

	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// Factory builds a Driver from an opaque, dialect-specific config
// value. Each dialect subpackage registers its own Factory in an
// init(), the same registration shape the teacher's storage package
// uses for its backends.
type Factory func(config any) (Driver, error)

var factories = make(map[emit.Dialect]Factory)

// Register makes a dialect's driver constructor available to Open.
// Called from the dialect subpackage's init().
func Register(dialect emit.Dialect, factory Factory) {
	factories[dialect] = factory
}

// Open constructs a Driver for dialect using config, which must be the
// concrete Config type the registered dialect package expects.
func Open(dialect emit.Dialect, config any) (Driver, error) {
	factory, ok := factories[dialect]
	if !ok {
		return nil, fmt.Errorf("driver: no driver registered for dialect %q (blank import the dialect package?)", dialect)
	}
	return factory(config)
}

// Supported returns every dialect currently registered.
func Supported() []emit.Dialect {
	out := make([]emit.Dialect, 0, len(factories))
	for d := range factories {
		out = append(out, d)
	}
	return out
}

// IsSupported reports whether dialect has a registered Factory.
func IsSupported(dialect emit.Dialect) bool {
	_, ok := factories[dialect]
	return ok
}
