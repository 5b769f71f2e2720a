package conformance

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/driver/sqlite"
	"github.com/alphadb-io/alphadb-go/internal/emit"
)

// TestSQLiteBackend runs the shared lifecycle against the real
// modernc.org/sqlite driver. Unlike the MySQL/PostgreSQL conformance
// tests, this one needs no external service (SQLite is embedded) and
// so runs in every `go test`, not just under -tags=conformance.
func TestSQLiteBackend(t *testing.T) {
	RunAll(t, func(t *testing.T) driver.Driver {
		cfg := sqlite.DefaultConfig()
		cfg.Path = filepath.Join(t.TempDir(), "conformance.sqlite")

		d, err := driver.Open(emit.SQLite, cfg)
		require.NoError(t, err)
		return d
	})
}
