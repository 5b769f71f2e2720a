package driver

import (
	"testing"

	"github.com/alphadb-io/alphadb-go/internal/emit"
)

func withCleanFactories(t *testing.T) {
	t.Helper()
	orig := factories
	factories = make(map[emit.Dialect]Factory)
	t.Cleanup(func() { factories = orig })
}

func TestRegisterAndOpen(t *testing.T) {
	withCleanFactories(t)

	called := false
	Register(emit.MySQL, func(config any) (Driver, error) {
		called = true
		return nil, nil
	})

	if _, err := Open(emit.MySQL, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("factory was not called")
	}
}

func TestOpenUnknownDialect(t *testing.T) {
	withCleanFactories(t)

	if _, err := Open(emit.Dialect("nonexistent"), nil); err == nil {
		t.Error("expected error for unregistered dialect")
	}
}

func TestSupportedAndIsSupported(t *testing.T) {
	withCleanFactories(t)

	dummy := func(config any) (Driver, error) { return nil, nil }
	Register(emit.MySQL, dummy)
	Register(emit.SQLite, dummy)

	if !IsSupported(emit.MySQL) || !IsSupported(emit.SQLite) {
		t.Error("expected mysql and sqlite to be supported")
	}
	if IsSupported(emit.Postgres) {
		t.Error("expected postgres to not be supported")
	}

	got := Supported()
	if len(got) != 2 {
		t.Errorf("expected 2 supported dialects, got %d", len(got))
	}
}
