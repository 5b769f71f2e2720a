// Package engine implements the update orchestrator: the state
// machine that reads a managed database's recorded version, walks a
// version source's history, dispatches each transformation to
// internal/emit, and executes the generated SQL through a
// driver.Driver. It is the only package that talks to a live
// database; every other package upstream of it (source, verify,
// concat, emit) is pure and reentrant.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alphadb-io/alphadb-go/internal/apperr"
	"github.com/alphadb-io/alphadb-go/internal/driver"
	"github.com/alphadb-io/alphadb-go/internal/emit"
	"github.com/alphadb-io/alphadb-go/internal/source"
	"github.com/alphadb-io/alphadb-go/internal/verify"
	"github.com/alphadb-io/alphadb-go/internal/version"
)

// configTable is the canonical config-table name new databases get
// initialized under; legacyConfigTable is the compatibility name
// (spec.md §3, §6: "legacy name fdb_cfg").
const (
	configTable       = "adb_conf"
	legacyConfigTable = "fdb_cfg"
)

// Status reports the current engine-visible state of a managed
// database, as returned by Check/Status.
type Status struct {
	Initialized    bool
	CurrentVersion string
	Template       string // empty if not yet set
}

// Engine drives one managed database through a driver.Driver.
type Engine struct {
	driver   driver.Driver
	dbName   string
	log      *slog.Logger
	confName string // which config table name was found/created; "" until probed
}

// New returns an Engine bound to d, managing the database named
// dbName (the config table's primary key, per spec.md §3).
func New(d driver.Driver, dbName string, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{driver: d, dbName: dbName, log: log}
}

// Check reports whether the database is initialized and, if so, its
// current stored version.
func (e *Engine) Check(ctx context.Context) (Status, error) {
	if e.driver == nil {
		return Status{}, apperr.ErrNoConnection
	}

	table, row, err := e.probeConfig(ctx)
	if err != nil {
		return Status{}, err
	}
	if table == "" {
		return Status{Initialized: false}, nil
	}

	ver, ok := row["version"].(string)
	if !ok || ver == "" {
		return Status{}, &apperr.DBConfigIncomplete{Missing: "version"}
	}
	return Status{Initialized: true, CurrentVersion: ver}, nil
}

// Status is Check plus the template name stored in the config row.
// The managed database's name is not part of the returned Status.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	st, err := e.Check(ctx)
	if err != nil {
		return Status{}, err
	}
	if !st.Initialized {
		return st, apperr.ErrDBNotInitialized
	}

	_, row, err := e.probeConfig(ctx)
	if err != nil {
		return Status{}, err
	}
	if tmpl, ok := row["template"].(string); ok {
		st.Template = tmpl
	}
	return st, nil
}

// Init creates the config table (under the canonical name) and
// inserts the initial row for dbName, moving the database from
// absent to initialized. A no-op if already initialized.
func (e *Engine) Init(ctx context.Context) error {
	if e.driver == nil {
		return apperr.ErrNoConnection
	}

	st, err := e.Check(ctx)
	if err != nil {
		return err
	}
	if st.Initialized {
		return nil
	}

	if err := e.driver.Execute(ctx, createConfigTableDDL(e.driver.Dialect())); err != nil {
		return fmt.Errorf("engine: init: %w", err)
	}
	if err := e.driver.Execute(ctx, insertConfigRowDML(e.dbName)); err != nil {
		return fmt.Errorf("engine: init: %w", err)
	}
	e.confName = configTable
	e.log.Info("database initialized", "db", e.dbName)
	return nil
}

// Vacate drops every table the dialect's catalog lists for the current
// database/schema (other than the config tables) and then the config
// table itself, returning the database to absent. Requires
// confirm=true (spec.md §7 NeedsConfirmation).
func (e *Engine) Vacate(ctx context.Context, confirm bool) error {
	if e.driver == nil {
		return apperr.ErrNoConnection
	}
	if !confirm {
		return apperr.ErrNeedsConfirmation
	}

	st, err := e.Check(ctx)
	if err != nil {
		return err
	}
	if !st.Initialized {
		return apperr.ErrDBNotInitialized
	}

	tables, err := e.listTables(ctx)
	if err != nil {
		return fmt.Errorf("engine: vacate: %w", err)
	}

	if e.driver.Dialect() == emit.MySQL {
		_ = e.driver.Execute(ctx, " SET FOREIGN_KEY_CHECKS = 0;")
		defer e.driver.Execute(ctx, " SET FOREIGN_KEY_CHECKS = 1;")
	}

	for _, t := range tables {
		if err := e.driver.Execute(ctx, fmt.Sprintf(" DROP TABLE %s;", t)); err != nil {
			return fmt.Errorf("engine: vacate: drop %s: %w", t, err)
		}
	}

	if err := e.driver.Execute(ctx, fmt.Sprintf(" DROP TABLE %s;", e.confName)); err != nil {
		return fmt.Errorf("engine: vacate: drop config table: %w", err)
	}
	e.confName = ""
	e.log.Info("database vacated", "db", e.dbName)
	return nil
}

// Update brings the database from its current stored version up to
// updateToVersion (or the version source's latest if empty),
// generating and executing every intervening version's SQL. Setting
// noData suppresses default_data inserts.
//
// Returns the version the database ended up at. If it was already at
// or beyond the target, returns the current version unchanged with no
// schema statements executed - though a still-null template is still
// set (spec.md §4.7 step 3 runs before the up-to-date check).
func (e *Engine) Update(ctx context.Context, vs *source.VersionSource, updateToVersion string, noData bool) (string, error) {
	plan, err := e.plan(ctx, vs, updateToVersion)
	if err != nil {
		return "", err
	}

	// spec.md §4.7 sets the template (step 3) strictly before the
	// up-to-date check (step 5); the original does this unconditionally
	// ahead of its own up-to-date check, so a database already at/past
	// target with a still-null template gets the template set anyway.
	if plan.templateWasUnset {
		if err := e.driver.Execute(ctx, updateTemplateDML(e.confName, e.dbName, vs.Name)); err != nil {
			return "", fmt.Errorf("engine: update: setting template: %w", err)
		}
	}

	if plan.upToDate {
		return plan.current, nil
	}

	for _, stmt := range plan.statements {
		if noData && stmt.isDefaultData {
			continue
		}
		if err := e.driver.Execute(ctx, stmt.sql); err != nil {
			return "", fmt.Errorf("engine: update: version %s: %w", stmt.version, err)
		}
	}

	if err := e.driver.Execute(ctx, updateVersionDML(e.confName, e.dbName, plan.target)); err != nil {
		return "", fmt.Errorf("engine: update: advancing stored version: %w", err)
	}

	e.log.Info("update complete", "db", e.dbName, "from", plan.current, "to", plan.target)
	return plan.target, nil
}

// UpdateQueries returns the exact ordered SQL statements Update would
// execute for the schema-changing work, without executing them or
// touching the stored version. Used by the "update-queries" CLI
// subcommand and by tests asserting on generated SQL with no live
// database (spec.md §6 names this operation; behavior supplemented
// from original_source/ since the distilled spec doesn't detail it).
func (e *Engine) UpdateQueries(ctx context.Context, vs *source.VersionSource, updateToVersion string, noData bool) ([]string, error) {
	plan, err := e.plan(ctx, vs, updateToVersion)
	if err != nil {
		return nil, err
	}
	if plan.upToDate {
		return nil, nil
	}

	out := make([]string, 0, len(plan.statements))
	for _, stmt := range plan.statements {
		if noData && stmt.isDefaultData {
			continue
		}
		out = append(out, stmt.sql)
	}
	return out, nil
}

type statement struct {
	version       string
	sql           string
	isDefaultData bool
}

type updatePlan struct {
	upToDate         bool
	current          string
	target           string
	templateWasUnset bool
	statements       []statement
}

// plan implements update's precondition/template/target resolution
// and statement generation (spec.md §4.7 steps 1-6), shared by Update
// and UpdateQueries so "what would run" and "what did run" can never
// drift apart.
func (e *Engine) plan(ctx context.Context, vs *source.VersionSource, updateToVersion string) (*updatePlan, error) {
	if e.driver == nil {
		return nil, apperr.ErrNoConnection
	}
	if vs == nil {
		return nil, apperr.ErrMissingVersionData
	}
	if vs.Name == "" || len(vs.Version) == 0 {
		return nil, apperr.ErrIncompleteVersionData
	}

	issues := verify.Source(vs)
	if verify.HasCritical(issues) {
		msgs := make([]string, 0, len(issues))
		for _, i := range issues {
			if i.Severity == verify.Critical {
				msgs = append(msgs, i.String())
			}
		}
		return nil, &apperr.VerificationFailed{Issues: msgs}
	}

	st, err := e.Check(ctx)
	if err != nil {
		return nil, err
	}
	if !st.Initialized {
		return nil, apperr.ErrDBNotInitialized
	}

	_, row, err := e.probeConfig(ctx)
	if err != nil {
		return nil, err
	}
	template, _ := row["template"].(string)
	templateWasUnset := template == ""
	if !templateWasUnset && template != vs.Name {
		return nil, apperr.ErrDBTemplateNoMatch
	}

	targetID := updateToVersion
	if targetID == "" {
		ids := make([]string, len(vs.Version))
		for i, v := range vs.Version {
			ids[i] = v.ID
		}
		targetID, err = version.Max(ids)
		if err != nil {
			return nil, fmt.Errorf("engine: update: %w", err)
		}
	}
	target, err := version.Parse(targetID)
	if err != nil {
		return nil, fmt.Errorf("engine: update: target version: %w", err)
	}

	current, err := version.Parse(st.CurrentVersion)
	if err != nil {
		return nil, fmt.Errorf("engine: update: stored version: %w", err)
	}

	if target <= current {
		return &updatePlan{upToDate: true, current: st.CurrentVersion, templateWasUnset: templateWasUnset}, nil
	}

	var statements []statement
	for _, ve := range vs.Version {
		n, err := version.Parse(ve.ID)
		if err != nil {
			return nil, fmt.Errorf("engine: update: %w", err)
		}
		if n <= current || n > target {
			continue
		}

		for _, ct := range ve.CreateTable {
			sql, err := emit.CreateTable(ct.Op, ct.Table, ve.ID, e.driver.Dialect())
			if err != nil {
				return nil, fmt.Errorf("engine: update: version %s: %w", ve.ID, err)
			}
			statements = append(statements, statement{version: ve.ID, sql: sql})
		}
		for _, at := range ve.AlterTable {
			sql, err := emit.AlterTable(vs.Version, at.Op, at.Table, ve.ID, e.driver.Dialect())
			if err != nil {
				return nil, fmt.Errorf("engine: update: version %s: %w", ve.ID, err)
			}
			statements = append(statements, statement{version: ve.ID, sql: sql})
		}
		for _, dd := range ve.DefaultData {
			for _, row := range dd.Rows {
				statements = append(statements, statement{
					version:       ve.ID,
					sql:           emit.DefaultData(dd.Table, row),
					isDefaultData: true,
				})
			}
		}
	}

	return &updatePlan{
		current:          st.CurrentVersion,
		target:           targetID,
		templateWasUnset: templateWasUnset,
		statements:       statements,
	}, nil
}

// probeConfig looks for the config row under the canonical table
// name, falling back to the legacy name (spec.md §6 compatibility
// mode). Returns ("", nil, nil) if neither table holds a row for
// e.dbName.
func (e *Engine) probeConfig(ctx context.Context) (string, driver.Row, error) {
	for _, table := range []string{configTable, legacyConfigTable} {
		row, err := e.driver.FetchOne(ctx, selectConfigRowDML(table, e.dbName))
		if err != nil {
			// table doesn't exist yet on this dialect; treat as absent
			// and keep probing, rather than failing the whole check.
			continue
		}
		if row != nil {
			e.confName = table
			return table, row, nil
		}
	}
	return "", nil, nil
}

func (e *Engine) listTables(ctx context.Context) ([]string, error) {
	var q string
	switch e.driver.Dialect() {
	case emit.SQLite:
		q = " SELECT name FROM sqlite_master WHERE type = 'table';"
	case emit.Postgres:
		q = " SELECT table_name AS name FROM information_schema.tables WHERE table_schema = current_schema();"
	default:
		q = " SELECT table_name AS name FROM information_schema.tables WHERE table_schema = database();"
	}
	rows, err := e.driver.FetchAll(ctx, q)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, r := range rows {
		if name, ok := r["name"].(string); ok && name != configTable && name != legacyConfigTable {
			out = append(out, name)
		}
	}
	return out, nil
}
