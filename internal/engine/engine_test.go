package engine

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/alphadb-io/alphadb-go/internal/apperr"
	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/driver/fake"
	"github.com/alphadb-io/alphadb-go/internal/emit"
	"github.com/alphadb-io/alphadb-go/internal/source"
)

func mustParse(t *testing.T, doc string) *source.VersionSource {
	t.Helper()
	vs, err := source.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return vs
}

func newTestEngine(d *fake.Driver) *Engine {
	return New(d, "testdb", slog.Default())
}

func TestCheckAbsent(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)

	st, err := e.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if st.Initialized {
		t.Error("expected absent database to report Initialized=false")
	}
}

func TestInitThenCheck(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()

	if err := e.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	d.StubFetchOne(selectConfigRowDML(configTable, "testdb"), driver.Row{"version": "0.0.0", "template": nil})

	st, err := e.Check(ctx)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !st.Initialized {
		t.Fatal("expected initialized after Init")
	}
	if st.CurrentVersion != "0.0.0" {
		t.Errorf("got version %q, want 0.0.0", st.CurrentVersion)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()

	if err := e.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	d.StubFetchOne(selectConfigRowDML(configTable, "testdb"), driver.Row{"version": "0.0.0", "template": nil})

	before := len(d.Executed())
	if err := e.Init(ctx); err != nil {
		t.Fatalf("second Init: %v", err)
	}
	if len(d.Executed()) != before {
		t.Error("expected second Init to be a no-op once initialized")
	}
}

func TestStatusOnUninitializedFails(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)

	_, err := e.Status(context.Background())
	if !errors.Is(err, apperr.ErrDBNotInitialized) {
		t.Errorf("got %v, want ErrDBNotInitialized", err)
	}
}

func seedInitialized(t *testing.T, d *fake.Driver, currentVersion, template string) {
	t.Helper()
	var tmpl any
	if template != "" {
		tmpl = template
	}
	d.StubFetchOne(selectConfigRowDML(configTable, "testdb"), driver.Row{"version": currentVersion, "template": tmpl})
}

func TestUpdateAppliesVersionsInOrder(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.0", "")

	vs := mustParse(t, `
name: myapp
version:
  - _id: "0.0.1"
    createtable:
      t:
        col: {type: INT}
  - _id: "0.0.2"
    altertable:
      t:
        addcolumn:
          col2: {type: VARCHAR, length: 10}
`)

	target, err := e.Update(ctx, vs, "", false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if target != "0.0.2" {
		t.Errorf("got target %q, want 0.0.2", target)
	}

	executed := d.Executed()
	if len(executed) < 4 {
		t.Fatalf("expected template-update+create+alter+version-update statements, got %v", executed)
	}
	first := executed[0]
	if first != updateTemplateDML(configTable, "testdb", "myapp") {
		t.Errorf("expected template to be set before any schema statement, got %q", first)
	}
	last := executed[len(executed)-1]
	if last != updateVersionDML(configTable, "testdb", "0.0.2") {
		t.Errorf("expected the stored version to advance last, got %q", last)
	}
}

func TestUpdateUpToDateIsNoOp(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.2", "myapp")

	vs := mustParse(t, `
name: myapp
version:
  - _id: "0.0.1"
    createtable:
      t:
        col: {type: INT}
  - _id: "0.0.2"
    altertable:
      t:
        addcolumn:
          col2: {type: VARCHAR, length: 10}
`)

	target, err := e.Update(ctx, vs, "", false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if target != "0.0.2" {
		t.Errorf("got %q, want 0.0.2", target)
	}
	if len(d.Executed()) != 0 {
		t.Errorf("expected no statements for an up-to-date database, got %v", d.Executed())
	}
}

// spec.md §4.7 step 3 sets the template strictly before step 5's
// up-to-date check; a database already at/past target with a still-null
// template must still get the template written, even though no schema
// statement runs.
func TestUpdateUpToDateStillSetsNullTemplate(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.2", "")

	vs := mustParse(t, `
name: myapp
version:
  - _id: "0.0.1"
    createtable:
      t:
        col: {type: INT}
  - _id: "0.0.2"
    altertable:
      t:
        addcolumn:
          col2: {type: VARCHAR, length: 10}
`)

	target, err := e.Update(ctx, vs, "", false)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if target != "0.0.2" {
		t.Errorf("got %q, want 0.0.2", target)
	}

	executed := d.Executed()
	if len(executed) != 1 {
		t.Fatalf("expected exactly the template-update statement, got %v", executed)
	}
	if executed[0] != updateTemplateDML(configTable, "testdb", "myapp") {
		t.Errorf("expected template to be set even though the database is up-to-date, got %q", executed[0])
	}
}

func TestUpdateTemplateMismatchFails(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.0", "otherapp")

	vs := mustParse(t, `
name: myapp
version:
  - _id: "0.0.1"
    createtable:
      t:
        col: {type: INT}
`)

	_, err := e.Update(ctx, vs, "", false)
	if !errors.Is(err, apperr.ErrDBTemplateNoMatch) {
		t.Errorf("got %v, want ErrDBTemplateNoMatch", err)
	}
	if len(d.Executed()) != 0 {
		t.Error("expected no statements to run on template mismatch (P5)")
	}
}

func TestUpdateSuppressesDefaultDataWhenNoData(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.0", "myapp")

	vs := mustParse(t, `
name: myapp
version:
  - _id: "0.0.1"
    createtable:
      t:
        col: {type: VARCHAR, length: 10}
    default_data:
      t:
        - col: hello
`)

	if _, err := e.Update(ctx, vs, "", true); err != nil {
		t.Fatalf("Update: %v", err)
	}

	for _, stmt := range d.Executed() {
		if stmt == `INSERT INTO t (col) VALUES ('hello');` {
			t.Errorf("expected default_data insert to be suppressed, got %v", d.Executed())
		}
	}
}

func TestUpdateQueriesDoesNotExecute(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.0", "myapp")

	vs := mustParse(t, `
name: myapp
version:
  - _id: "0.0.1"
    createtable:
      t:
        col: {type: INT}
`)

	queries, err := e.UpdateQueries(ctx, vs, "", false)
	if err != nil {
		t.Fatalf("UpdateQueries: %v", err)
	}
	if len(queries) != 1 {
		t.Fatalf("expected 1 query, got %v", queries)
	}
	if len(d.Executed()) != 0 {
		t.Error("UpdateQueries must not execute anything")
	}
}

func TestUpdateFailsVerificationBeforeExecuting(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.0", "")

	vs := mustParse(t, `
name: myapp
version:
  - _id: "0.0.1"
    createtable:
      t:
        data: {type: JSON, unique: true}
`)

	_, err := e.Update(ctx, vs, "", false)
	var verr *apperr.VerificationFailed
	if !errors.As(err, &verr) {
		t.Fatalf("got %v, want *apperr.VerificationFailed", err)
	}
	if len(d.Executed()) != 0 {
		t.Error("expected no statements to run when verification fails")
	}
}

func TestVacateRequiresConfirm(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.1", "myapp")

	if err := e.Vacate(ctx, false); !errors.Is(err, apperr.ErrNeedsConfirmation) {
		t.Errorf("got %v, want ErrNeedsConfirmation", err)
	}
}

func TestVacateDropsTablesAndConfig(t *testing.T) {
	d := fake.New(emit.MySQL)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.1", "myapp")
	d.StubFetchAll(" SELECT table_name AS name FROM information_schema.tables WHERE table_schema = database();",
		[]driver.Row{{"name": "t1"}, {"name": "t2"}})

	if err := e.Vacate(ctx, true); err != nil {
		t.Fatalf("Vacate: %v", err)
	}

	executed := d.Executed()
	found := map[string]bool{}
	for _, s := range executed {
		found[s] = true
	}
	if !found[" DROP TABLE t1;"] || !found[" DROP TABLE t2;"] {
		t.Errorf("expected both tables dropped, got %v", executed)
	}
	if !found[" DROP TABLE "+configTable+";"] {
		t.Errorf("expected config table dropped, got %v", executed)
	}
}

func TestExportReturnsColumnsAndRows(t *testing.T) {
	d := fake.New(emit.SQLite)
	e := newTestEngine(d)
	ctx := context.Background()
	seedInitialized(t, d, "0.0.1", "myapp")
	d.StubFetchAll(" SELECT name FROM sqlite_master WHERE type = 'table';", []driver.Row{{"name": "t"}})
	d.StubFetchAll(" PRAGMA table_info(t);", []driver.Row{{"name": "id"}, {"name": "val"}})
	d.StubFetchAll(" SELECT * FROM t;", []driver.Row{{"id": 1, "val": "x"}})

	out, err := e.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	tbl, ok := out["t"]
	if !ok {
		t.Fatalf("expected table t in export, got %v", out)
	}
	if len(tbl.Columns) != 2 || len(tbl.Rows) != 1 {
		t.Errorf("got %+v", tbl)
	}
}

func TestUpdateWithoutDriverFails(t *testing.T) {
	e := New(nil, "testdb", slog.Default())
	_, err := e.Update(context.Background(), &source.VersionSource{}, "", false)
	if !errors.Is(err, apperr.ErrNoConnection) {
		t.Errorf("got %v, want ErrNoConnection", err)
	}
}
