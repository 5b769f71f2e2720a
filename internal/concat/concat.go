// Package concat folds a version source's history into the state of a
// single table/column/primary-key as of a given point in the history.
// It is pure and deterministic: same input, same output, no I/O -
// everything the verifier and the emitters need to know about "what
// does this column look like right now" is computed here rather than
// carried as mutable accumulator state by its callers.
package concat

import (
	"github.com/alphadb-io/alphadb-go/internal/source"
	"github.com/alphadb-io/alphadb-go/internal/version"
)

// alterTableFor returns the AlterTableOp for tableName in v, if any.
func alterTableFor(v source.VersionEntry, tableName string) (source.AlterTableOp, bool) {
	for _, at := range v.AlterTable {
		if at.Table == tableName {
			return at.Op, true
		}
	}
	return source.AlterTableOp{}, false
}

func createTableFor(v source.VersionEntry, tableName string) (source.CreateTableOp, bool) {
	for _, ct := range v.CreateTable {
		if ct.Table == tableName {
			return ct.Op, true
		}
	}
	return source.CreateTableOp{}, false
}

// RenameEvent records that, at RenameVersion, a column was renamed
// to or from Name (see ForwardColumnRenames/DescendingColumnRenames).
type RenameEvent struct {
	Name          string
	RenameVersion version.Number
}

type renameEvent = RenameEvent

// DescendingColumnRenames walks versions backward looking for the
// chain of renamecolumn events that lead to columnName's current
// identity in tableName. Returned events run from the most recent
// rename to the oldest; each event's Name holds the column's name
// immediately before that rename took effect.
func DescendingColumnRenames(versions []source.VersionEntry, tableName, columnName string) []RenameEvent {
	return columnRenames(versions, tableName, columnName, true)
}

// ForwardColumnRenames walks versions forward starting from columnName
// (a historical name) looking for the chain of renamecolumn events
// that move it forward in time. Returned events run in ascending
// RenameVersion order; each event's Name holds the name the column was
// renamed *to*.
func ForwardColumnRenames(versions []source.VersionEntry, tableName, columnName string) []RenameEvent {
	return columnRenames(versions, tableName, columnName, false)
}

func columnRenames(versions []source.VersionEntry, tableName, columnName string, desc bool) []renameEvent {
	ordered := versions
	if desc {
		ordered = make([]source.VersionEntry, len(versions))
		for i, v := range versions {
			ordered[len(versions)-1-i] = v
		}
	}

	for i, v := range ordered {
		at, ok := alterTableFor(v, tableName)
		if !ok || len(at.RenameColumn) == 0 {
			continue
		}
		vn, err := version.Parse(v.ID)
		if err != nil {
			continue
		}

		name := ""
		found := false
		for _, rp := range at.RenameColumn {
			if desc && rp.New == columnName {
				name, found = rp.Old, true
				break
			}
			if !desc && rp.Old == columnName {
				name, found = rp.New, true
				break
			}
		}
		if !found {
			continue
		}

		// Continue the chain only through the versions beyond this one in
		// the walk's direction, so a name reused elsewhere in history is
		// not picked up and the walk always terminates.
		remaining := versions[i+1:]
		if desc {
			remaining = versions[:len(versions)-1-i]
		}
		events := []renameEvent{{Name: name, RenameVersion: vn}}
		events = append(events, columnRenames(remaining, tableName, name, desc)...)
		return events
	}
	return nil
}

// ConcatenateColumn folds versions[:upTo] into the current attribute
// set of tableName.columnName, following renamecolumn chains so that a
// column's history survives being renamed partway through. upTo may be
// len(versions) to fold the entire history.
func ConcatenateColumn(versions []source.VersionEntry, tableName, columnName string, upTo int) source.ColumnSpec {
	if upTo > len(versions) {
		upTo = len(versions)
	}

	renames := columnRenames(versions, tableName, columnName, true)
	// Reverse to ascending RenameVersion order, matching the order the
	// original forward fold resolves names in.
	asc := make([]renameEvent, len(renames))
	for i, e := range renames {
		asc[len(renames)-1-i] = e
	}
	nameAt := func(v version.Number) string {
		for _, r := range asc {
			if v <= r.RenameVersion {
				return r.Name
			}
		}
		return columnName
	}

	var column source.ColumnSpec
	for _, v := range versions[:upTo] {
		vn, err := version.Parse(v.ID)
		if err != nil {
			continue
		}
		name := nameAt(vn)

		if ct, ok := createTableFor(v, tableName); ok {
			if spec, ok := ct.Column(name); ok {
				column = spec
			}
		}

		at, ok := alterTableFor(v, tableName)
		if !ok {
			continue
		}

		if spec, ok := at.ModifiedColumn(name); ok {
			if spec.RecreateOrDefault() {
				column = source.ColumnSpec{}
			}
			spec.Recreate = nil
			column = column.Merge(spec)
		}

		if at.Dropped(name) {
			column = source.ColumnSpec{}
		}

		if spec, ok := at.AddedColumn(name); ok {
			column = column.Merge(spec)
		}
	}
	return column
}

// GetPrimaryKey returns tableName's primary key column as of the
// history up to (but excluding) beforeVersion, or the full history
// when beforeVersion is empty. Dropping the primary-key column, or
// patching primary_key to an explicit null, resets the result to "".
func GetPrimaryKey(versions []source.VersionEntry, tableName, beforeVersion string) (string, error) {
	var beforeNum version.Number
	hasLimit := beforeVersion != ""
	if hasLimit {
		n, err := version.Parse(beforeVersion)
		if err != nil {
			return "", err
		}
		beforeNum = n
	}

	primaryKey := ""
	for _, v := range versions {
		if hasLimit {
			vn, err := version.Parse(v.ID)
			if err != nil {
				return "", err
			}
			if beforeNum <= vn {
				continue
			}
		}

		if ct, ok := createTableFor(v, tableName); ok && ct.HasPrimaryKey {
			primaryKey = ct.PrimaryKey
		}

		if at, ok := alterTableFor(v, tableName); ok {
			if at.PrimaryKey.Present {
				primaryKey = at.PrimaryKey.Column
			}
			if primaryKey != "" {
				for _, dc := range at.DropColumn {
					if dc == primaryKey {
						primaryKey = ""
					}
				}
			}
		}
	}
	return primaryKey, nil
}
