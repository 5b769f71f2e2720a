// Package verify checks a version source against the invariants the
// rest of the engine assumes hold, surfacing them as severity-leveled
// issues rather than failing fast on the first problem found - a
// caller decides which severities are fatal for its use case.
package verify

import (
	"fmt"
	"strings"

	"github.com/alphadb-io/alphadb-go/internal/concat"
	"github.com/alphadb-io/alphadb-go/internal/source"
	"github.com/alphadb-io/alphadb-go/internal/version"
)

// Severity classifies an Issue. HIGH was historically spelled NORMAL;
// both names describe "executes, but probably not as intended".
type Severity string

const (
	Low      Severity = "LOW"
	High     Severity = "HIGH"
	Critical Severity = "CRITICAL"
)

// Issue is one verifier finding.
type Issue struct {
	Severity Severity
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
}

var autoincrementIncompatibleTypes = map[string]bool{
	"varchar":  true,
	"text":     true,
	"longtext": true,
	"datetime": true,
	"decimal":  true,
	"json":     true,
}

var uniqueIncompatibleTypes = map[string]bool{
	"json": true,
}

// Source verifies vs in full and returns every issue found, in the
// order its checks run. A nil/empty result means the source is clean.
func Source(vs *source.VersionSource) []Issue {
	var issues []Issue

	if vs.Name == "" {
		issues = append(issues, Issue{Critical, "no root-level name was specified"})
	}

	if len(vs.Version) == 0 {
		issues = append(issues, Issue{Low, "this version source does not contain any versions"})
		return issues
	}

	seen := map[string]bool{}
	var prev version.Number
	havePrev := false

	for i, v := range vs.Version {
		if v.ID == "" {
			issues = append(issues, Issue{Critical, fmt.Sprintf("version at index %d is missing a version number", i)})
			continue
		}

		vn, err := version.Parse(v.ID)
		if err != nil {
			issues = append(issues, Issue{Critical, fmt.Sprintf("version %q at index %d does not convert to a version number: %v", v.ID, i, err)})
			continue
		}

		if seen[v.ID] {
			issues = append(issues, Issue{Critical, fmt.Sprintf("version %q appears more than once", v.ID)})
		}
		seen[v.ID] = true

		if havePrev && vn <= prev {
			issues = append(issues, Issue{Critical, fmt.Sprintf("version %q is not greater than the preceding version; the list must be strictly monotonic", v.ID)})
		}
		prev, havePrev = vn, true

		for _, k := range v.UnknownKeys {
			issues = append(issues, Issue{High, fmt.Sprintf("version %q has an unrecognized top-level key %q", v.ID, k)})
		}

		for _, ct := range v.CreateTable {
			issues = append(issues, createTable(ct, v.ID)...)
		}
		for _, at := range v.AlterTable {
			issues = append(issues, alterTable(vs.Version, at, v.ID)...)
		}
	}

	return issues
}

func createTable(entry source.CreateTableEntry, versionID string) []Issue {
	ctx := fmt.Sprintf("version %s -> createtable -> table:%s", versionID, entry.Table)
	op := entry.Op

	if len(op.Columns) == 0 && !op.HasPrimaryKey && op.ForeignKey == nil {
		return []Issue{{Low, fmt.Sprintf("%s: createtable does not contain any data", ctx)}}
	}

	var issues []Issue

	if op.HasPrimaryKey {
		if _, ok := op.Column(op.PrimaryKey); !ok {
			issues = append(issues, Issue{Critical, fmt.Sprintf("%s: primary_key %q does not reference a column defined in this table block", ctx, op.PrimaryKey)})
		}
	}

	if op.ForeignKey != nil {
		issues = append(issues, foreignKey(*op.ForeignKey, ctx)...)
	}

	for _, col := range op.Columns {
		issues = append(issues, columnCompatibility(col.Spec, true, fmt.Sprintf("%s -> column:%s", ctx, col.Name))...)
	}
	return issues
}

func alterTable(versions []source.VersionEntry, entry source.AlterTableEntry, versionID string) []Issue {
	ctx := fmt.Sprintf("version %s -> altertable -> table:%s", versionID, entry.Table)
	op := entry.Op

	if len(op.DropColumn) == 0 && len(op.AddColumn) == 0 && len(op.ModifyColumn) == 0 &&
		len(op.RenameColumn) == 0 && !op.PrimaryKey.Present && op.ForeignKey == nil {
		return []Issue{{Low, fmt.Sprintf("%s: altertable does not contain any data", ctx)}}
	}

	var issues []Issue

	if op.ForeignKey != nil {
		issues = append(issues, foreignKey(*op.ForeignKey, ctx)...)
	}

	for _, col := range op.AddColumn {
		issues = append(issues, columnCompatibility(col.Spec, true, fmt.Sprintf("%s -> addcolumn -> column:%s", ctx, col.Name))...)
	}
	for _, col := range op.ModifyColumn {
		requireType := col.Spec.RecreateOrDefault()
		issues = append(issues, columnCompatibility(col.Spec, requireType, fmt.Sprintf("%s -> modifycolumn -> column:%s", ctx, col.Name))...)
	}

	if pkBefore, err := concat.GetPrimaryKey(versions, entry.Table, versionID); err == nil && pkBefore != "" {
		clearsHere := op.PrimaryKey.Present && op.PrimaryKey.Column == ""
		for _, dropped := range op.DropColumn {
			if dropped == pkBefore && !clearsHere {
				issues = append(issues, Issue{Critical, fmt.Sprintf("%s: dropcolumn removes the current primary key column %q; set primary_key: null first", ctx, pkBefore)})
			}
		}
	}

	return issues
}

func foreignKey(fk source.ForeignKey, ctx string) []Issue {
	var missing []string
	if fk.Key == "" {
		missing = append(missing, "key")
	}
	if fk.References == "" {
		missing = append(missing, "references")
	}
	if len(missing) == 0 {
		return nil
	}
	return []Issue{{Critical, fmt.Sprintf("%s: foreign_key is missing %s", ctx, strings.Join(missing, ", "))}}
}

func columnCompatibility(spec source.ColumnSpec, requireType bool, ctx string) []Issue {
	var issues []Issue

	if spec.HasNull && spec.Null && spec.HasAutoInc && spec.AutoInc {
		issues = append(issues, Issue{Critical, fmt.Sprintf("%s: column attributes null and a_i are incompatible", ctx)})
	}

	if !spec.HasType {
		if requireType {
			issues = append(issues, Issue{Critical, fmt.Sprintf("%s: does not contain a column type", ctx)})
		}
		return issues
	}

	t := strings.ToLower(spec.Type)
	if spec.HasAutoInc && spec.AutoInc && autoincrementIncompatibleTypes[t] {
		issues = append(issues, Issue{Critical, fmt.Sprintf("%s: type %q is incompatible with attribute a_i", ctx, spec.Type)})
	}
	if spec.HasUnique && spec.Unique && uniqueIncompatibleTypes[t] {
		issues = append(issues, Issue{Critical, fmt.Sprintf("%s: type %q is incompatible with attribute unique", ctx, spec.Type)})
	}

	return issues
}

// HasCritical reports whether issues contains at least one CRITICAL
// entry.
func HasCritical(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == Critical {
			return true
		}
	}
	return false
}
