// Package conformance runs one shared lifecycle scenario against every
// driver.Driver backend AlphaDB ships, the same role
// tests/storage/conformance plays for the teacher's Storage backends:
// write the scenario once, run it under -tags=conformance against real
// MySQL/PostgreSQL connections, plus (untagged, since it needs no
// external service) the real embedded SQLite driver.
package conformance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/engine"
	"github.com/alphadb-io/alphadb-go/internal/source"
)

// versionSourceYAML is the version source every backend is driven
// through: a create, a seed row, and a follow-up addcolumn, deliberately
// staying inside the INT/VARCHAR subset every dialect supports so the
// scenario's assertions don't have to branch on dialect quirks.
const versionSourceYAML = `
name: conformance
version:
  - _id: "0.0.1"
    createtable:
      widgets:
        primary_key: id
        id:
          type: INT
          a_i: true
        label:
          type: VARCHAR
          length: 100
          unique: true
    default_data:
      widgets:
        - id: 1
          label: seed
  - _id: "0.0.2"
    altertable:
      widgets:
        addcolumn:
          active:
            type: INT
            default: 1
`

// DriverFactory opens a fresh connection to an empty-or-managed
// database for one sub-test. The returned Driver is closed by RunAll.
type DriverFactory func(t *testing.T) driver.Driver

// RunAll drives Init -> Update -> Status -> Export -> Vacate through a
// driver opened by newDriver. It tolerates a database left initialized
// by a previous run (vacates it first), so the same factory can be
// pointed at a persistent MySQL/PostgreSQL instance across test runs.
func RunAll(t *testing.T, newDriver DriverFactory) {
	t.Helper()
	t.Run("Lifecycle", func(t *testing.T) { runLifecycle(t, newDriver) })
}

func runLifecycle(t *testing.T, newDriver DriverFactory) {
	ctx := context.Background()
	d := newDriver(t)
	defer d.Close()

	eng := engine.New(d, "conformance", nil)

	preClean(t, ctx, eng)

	st, err := eng.Check(ctx)
	require.NoError(t, err)
	require.False(t, st.Initialized)

	require.NoError(t, eng.Init(ctx))

	st, err = eng.Check(ctx)
	require.NoError(t, err)
	require.True(t, st.Initialized)
	require.Equal(t, "0.0.0", st.CurrentVersion)

	vs, err := source.Parse([]byte(versionSourceYAML))
	require.NoError(t, err)

	target, err := eng.Update(ctx, vs, "", false)
	require.NoError(t, err)
	require.Equal(t, "0.0.2", target)

	// Update is idempotent once the database is at-or-beyond target.
	again, err := eng.Update(ctx, vs, "", false)
	require.NoError(t, err)
	require.Equal(t, target, again)

	status, err := eng.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, "0.0.2", status.CurrentVersion)
	require.Equal(t, "conformance", status.Template)

	exported, err := eng.Export(ctx)
	require.NoError(t, err)
	widgets, ok := exported["widgets"]
	require.True(t, ok, "export should report the widgets table")
	require.ElementsMatch(t, []string{"id", "label", "active"}, widgets.Columns)
	require.Len(t, widgets.Rows, 1)

	require.NoError(t, eng.Vacate(ctx, true))

	st, err = eng.Check(ctx)
	require.NoError(t, err)
	require.False(t, st.Initialized)
}

// preClean vacates a database a previous, interrupted run left
// initialized, so RunAll can be pointed at a long-lived connection
// (MySQL/PostgreSQL) without manual reset between runs.
func preClean(t *testing.T, ctx context.Context, eng *engine.Engine) {
	t.Helper()
	st, err := eng.Check(ctx)
	if err != nil || !st.Initialized {
		return
	}
	require.NoError(t, eng.Vacate(ctx, true))
}
