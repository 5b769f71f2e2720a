package concat

import (
	"testing"

	"github.com/alphadb-io/alphadb-go/internal/source"
)

func mustParseSource(t *testing.T, doc string) *source.VersionSource {
	t.Helper()
	vs, err := source.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return vs
}

func TestConcatenateColumnAcrossModifyAndRename(t *testing.T) {
	vs := mustParseSource(t, `
name: test
version:
  - _id: "0.0.1"
    createtable:
      users:
        primary_key: id
        id:
          type: INT
          a_i: true
        username:
          type: VARCHAR
          length: 50
  - _id: "0.0.2"
    altertable:
      users:
        renamecolumn:
          username: handle
  - _id: "0.0.3"
    altertable:
      users:
        modifycolumn:
          handle:
            length: 100
            recreate: false
`)

	got := ConcatenateColumn(vs.Version, "users", "handle", len(vs.Version))
	if got.Type != "VARCHAR" {
		t.Errorf("Type = %q, want VARCHAR (preserved across rename+non-recreating modify)", got.Type)
	}
	if got.Length == nil || *got.Length != 100 {
		t.Errorf("Length = %v, want 100", got.Length)
	}
}

func TestConcatenateColumnRecreateResetsAttributes(t *testing.T) {
	vs := mustParseSource(t, `
name: test
version:
  - _id: "0.0.1"
    createtable:
      t:
        id:
          type: INT
          unique: true
  - _id: "0.0.2"
    altertable:
      t:
        modifycolumn:
          id:
            type: BIGINT
`)
	got := ConcatenateColumn(vs.Version, "t", "id", len(vs.Version))
	if got.Type != "BIGINT" {
		t.Errorf("Type = %q, want BIGINT", got.Type)
	}
	if got.Unique {
		t.Errorf("Unique = true, want false: a recreating modifycolumn drops prior attributes")
	}
}

func TestConcatenateColumnUpToExcludesCurrentVersion(t *testing.T) {
	vs := mustParseSource(t, `
name: test
version:
  - _id: "0.0.1"
    createtable:
      t:
        id:
          type: INT
  - _id: "0.0.2"
    altertable:
      t:
        modifycolumn:
          id:
            null: true
            recreate: false
`)
	before := ConcatenateColumn(vs.Version, "t", "id", 1)
	if before.HasNull {
		t.Errorf("expected state before version 0.0.2 to have no null attribute, got %+v", before)
	}
	after := ConcatenateColumn(vs.Version, "t", "id", 2)
	if !after.HasNull || !after.Null {
		t.Errorf("expected state after version 0.0.2 to carry null=true, got %+v", after)
	}
}

func TestGetPrimaryKeyDroppedByDropColumn(t *testing.T) {
	vs := mustParseSource(t, `
name: test
version:
  - _id: "0.0.1"
    createtable:
      t:
        primary_key: id
        id:
          type: INT
  - _id: "0.0.2"
    altertable:
      t:
        dropcolumn: [id]
`)
	pk, err := GetPrimaryKey(vs.Version, "t", "")
	if err != nil {
		t.Fatalf("GetPrimaryKey: %v", err)
	}
	if pk != "" {
		t.Errorf("pk = %q, want empty after dropcolumn", pk)
	}

	pkBefore, err := GetPrimaryKey(vs.Version, "t", "0.0.2")
	if err != nil {
		t.Fatalf("GetPrimaryKey: %v", err)
	}
	if pkBefore != "id" {
		t.Errorf("pkBefore = %q, want id", pkBefore)
	}
}

func TestGetPrimaryKeyExplicitNull(t *testing.T) {
	vs := mustParseSource(t, `
name: test
version:
  - _id: "0.0.1"
    createtable:
      t:
        primary_key: id
        id:
          type: INT
  - _id: "0.0.2"
    altertable:
      t:
        primary_key: null
`)
	pk, err := GetPrimaryKey(vs.Version, "t", "")
	if err != nil {
		t.Fatalf("GetPrimaryKey: %v", err)
	}
	if pk != "" {
		t.Errorf("pk = %q, want empty after explicit primary_key: null", pk)
	}
}
