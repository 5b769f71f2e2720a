package emit

import (
	"fmt"
	"strings"

	"github.com/alphadb-io/alphadb-go/internal/apperr"
	"github.com/alphadb-io/alphadb-go/internal/concat"
	"github.com/alphadb-io/alphadb-go/internal/source"
	"github.com/alphadb-io/alphadb-go/internal/version"
)

// CreateTable renders a complete CREATE TABLE statement for table as
// defined by op at versionID.
func CreateTable(op source.CreateTableOp, table, versionID string, dialect Dialect) (string, error) {
	var cols []string
	var uniqueCols []string

	for _, col := range op.Columns {
		ctx := fmt.Sprintf("version %s -> createtable -> table:%s -> column:%s", versionID, table, col.Name)
		p, err := prepareColumn(col.Spec, ctx)
		if err != nil {
			return "", err
		}
		cols = append(cols, defineColumn(col.Name, p, dialect))
		if p.Unique && dialect == Postgres {
			uniqueCols = append(uniqueCols, col.Name)
		}
	}

	var clauses []string
	clauses = append(clauses, cols...)

	if op.HasPrimaryKey {
		clauses = append(clauses, fmt.Sprintf(" PRIMARY KEY (%s)", op.PrimaryKey))
	}

	for _, uc := range uniqueCols {
		clauses = append(clauses, fmt.Sprintf(" CONSTRAINT %s_u UNIQUE (%s)", uc, uc))
	}

	if op.ForeignKey != nil {
		frag, err := foreignKeyClause(*op.ForeignKey, fmt.Sprintf("version %s -> createtable -> table:%s", versionID, table))
		if err != nil {
			return "", err
		}
		clauses = append(clauses, frag)
	}

	query := fmt.Sprintf(" CREATE TABLE %s (%s", table, strings.Join(clauses, ","))
	if dialect == MySQL {
		query += " ) ENGINE = InnoDB;"
	} else {
		query += " );"
	}
	return query, nil
}

func foreignKeyClause(fk source.ForeignKey, ctx string) (string, error) {
	if fk.Key == "" {
		return "", &apperr.IncompleteVersionObject{Key: "key", Object: ctx + " -> foreign_key"}
	}
	if fk.References == "" {
		return "", &apperr.IncompleteVersionObject{Key: "references", Object: ctx + " -> foreign_key"}
	}
	action := "CASCADE"
	if fk.HasOnDelete && fk.OnDelete != "" {
		action = strings.ToUpper(fk.OnDelete)
	}
	return fmt.Sprintf(" FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s", fk.Key, fk.References, fk.Key, action), nil
}

// AlterTable renders a complete ALTER TABLE statement for table as
// altered by op at versionID. versions is the full version history,
// needed to resolve the primary-key auto-inject rule and (for
// recreate=false modifycolumn on mysql/sqlite) the column's
// concatenated state.
func AlterTable(versions []source.VersionEntry, op source.AlterTableOp, table, versionID string, dialect Dialect) (string, error) {
	op = injectPrimaryKeyGuard(versions, op, table, versionID)

	var clauses []string

	for _, col := range op.DropColumn {
		clauses = append(clauses, fmt.Sprintf(" DROP COLUMN %s", col))
	}

	for _, col := range op.AddColumn {
		ctx := fmt.Sprintf("version %s -> altertable -> table:%s -> addcolumn -> column:%s", versionID, table, col.Name)
		p, err := prepareColumn(col.Spec, ctx)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, " ADD"+defineColumn(col.Name, p, dialect))
	}

	for _, col := range op.ModifyColumn {
		ctx := fmt.Sprintf("version %s -> altertable -> table:%s -> modifycolumn -> column:%s", versionID, table, col.Name)

		if dialect == Postgres {
			frag, err := modifyColumnPostgres(versions, table, col.Name, col.Spec, versionID, ctx)
			if err != nil {
				return "", err
			}
			if frag != "" {
				clauses = append(clauses, frag)
			}
			continue
		}

		spec := col.Spec
		if spec.RecreateOrDefault() {
			// recreate=true requires a full definition up front; a
			// bare patch isn't enough to re-render the column.
			if !spec.HasType {
				return "", &apperr.IncompleteVersionObject{Key: "type", Object: ctx}
			}
		} else {
			// recreate=false: the emitted fragment must be a complete
			// column definition, so fold this patch onto the column's
			// concatenated state as of strictly before this version
			// rather than emitting the bare patch.
			idx := indexOfVersion(versions, versionID)
			if idx < 0 {
				idx = len(versions)
			}
			before := concat.ConcatenateColumn(versions, table, col.Name, idx)
			spec = before.Merge(col.Spec)
		}

		p, err := prepareColumn(spec, ctx)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, " MODIFY COLUMN"+defineColumn(col.Name, p, dialect))
	}

	for _, rp := range op.RenameColumn {
		clauses = append(clauses, fmt.Sprintf(" RENAME COLUMN %s TO %s", rp.Old, rp.New))
	}

	if op.PrimaryKey.Present {
		if op.PrimaryKey.Column == "" {
			clauses = append(clauses, " DROP PRIMARY KEY")
		} else {
			clauses = append(clauses, fmt.Sprintf(" ADD PRIMARY KEY (%s)", op.PrimaryKey.Column))
		}
	}

	if len(clauses) == 0 {
		return fmt.Sprintf(" ALTER TABLE %s;", table), nil
	}

	return fmt.Sprintf(" ALTER TABLE %s%s;", table, strings.Join(clauses, ",")), nil
}

// injectPrimaryKeyGuard implements §4.5's auto-inject rule: dropping
// the primary key (primary_key: null) must first clear AUTO_INCREMENT
// on the column that currently backs it, because engines refuse to
// drop a primary key under an identity column.
func injectPrimaryKeyGuard(versions []source.VersionEntry, op source.AlterTableOp, table, versionID string) source.AlterTableOp {
	if !op.PrimaryKey.Present || op.PrimaryKey.Column != "" {
		return op
	}

	oldPK, err := concat.GetPrimaryKey(versions, table, versionID)
	if err != nil || oldPK == "" {
		return op
	}

	name := resolveForwardName(versions, table, oldPK, versionID)

	modifyColumn := make([]source.ColumnDef, len(op.ModifyColumn))
	copy(modifyColumn, op.ModifyColumn)

	for i, col := range modifyColumn {
		if col.Name == name {
			col.Spec.HasAutoInc = true
			col.Spec.AutoInc = false
			modifyColumn[i] = col
			op.ModifyColumn = modifyColumn
			return op
		}
	}

	falseVal := false
	op.ModifyColumn = append(modifyColumn, source.ColumnDef{
		Name: name,
		Spec: source.ColumnSpec{HasAutoInc: true, AutoInc: false, Recreate: &falseVal},
	})
	return op
}

// resolveForwardName follows forward renamecolumn events to find what
// a historical column name (name, fixed as of strictly before
// versionID) is called by versionID.
func resolveForwardName(versions []source.VersionEntry, table, name, versionID string) string {
	events := concat.ForwardColumnRenames(versions, table, name)
	if len(events) == 0 {
		return name
	}
	vn, err := version.Parse(versionID)
	if err != nil {
		return name
	}

	resolved := name
	for i := len(events) - 1; i >= 0; i-- {
		if vn >= events[i].RenameVersion {
			resolved = events[i].Name
			break
		}
	}
	return resolved
}

func indexOfVersion(versions []source.VersionEntry, id string) int {
	for i, v := range versions {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// modifyColumnPostgres renders the postgres-specific ALTER COLUMN
// sequence for a single modifycolumn patch: one sub-clause for each of
// unique, type and null present in the patch, joined without a
// dangling comma. Other attributes (default, a_i, a bare length) are
// validated but produce no sub-clause.
func modifyColumnPostgres(versions []source.VersionEntry, table, column string, patch source.ColumnSpec, versionID, ctx string) (string, error) {
	idx := indexOfVersion(versions, versionID)
	if idx < 0 {
		idx = len(versions)
	}
	// Fold the patch onto the state as of strictly before this
	// version, rather than letting the generic concatenation's
	// recreate-defaults-to-true rule reset the accumulator on this
	// version's own (recreate-less) patch.
	before := concat.ConcatenateColumn(versions, table, column, idx)
	concatenated := before.Merge(patch)
	if !concatenated.HasType {
		return "", &apperr.IncompleteVersionObject{Object: ctx}
	}

	lower := strings.ToLower(concatenated.Type)
	autoInc := concatenated.HasAutoInc && concatenated.AutoInc
	unique := concatenated.HasUnique && concatenated.Unique
	null := concatenated.HasNull && concatenated.Null

	if !supportedColumnTypes[strings.ToUpper(concatenated.Type)] {
		return "", &apperr.UnsupportedColumnType{Type: concatenated.Type}
	}
	if autoincrementIncompatibleTypes[lower] && autoInc {
		return "", &apperr.IncompatibleColumnAttributes{Attrs: []string{"type==" + concatenated.Type, "a_i"}, Context: ctx}
	}
	if uniqueIncompatibleTypes[lower] && unique {
		return "", &apperr.IncompatibleColumnAttributes{Attrs: []string{"type==" + concatenated.Type, "unique"}, Context: ctx}
	}
	if null && autoInc {
		return "", &apperr.IncompatibleColumnAttributes{Attrs: []string{"null", "a_i"}, Context: ctx}
	}

	var subclauses []string
	base := fmt.Sprintf(" ALTER COLUMN %s", column)

	if patch.HasUnique {
		if patch.Unique {
			subclauses = append(subclauses, fmt.Sprintf(" ADD CONSTRAINT %s_u UNIQUE (%s)", column, column))
		} else {
			subclauses = append(subclauses, fmt.Sprintf(" DROP CONSTRAINT %s_u", column))
		}
	}

	if patch.HasType {
		frag := fmt.Sprintf("%s TYPE %s", base, patch.Type)
		if patch.Length != nil && !intLikeColumnTypes[strings.ToUpper(patch.Type)] {
			frag += fmt.Sprintf("(%d)", *patch.Length)
		}
		subclauses = append(subclauses, frag)
	}

	if patch.HasNull {
		if patch.Null {
			subclauses = append(subclauses, base+" DROP NOT NULL")
		} else {
			subclauses = append(subclauses, base+" SET NOT NULL")
		}
	}

	return strings.Join(subclauses, ","), nil
}
