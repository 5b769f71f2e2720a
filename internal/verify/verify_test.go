package verify

import (
	"testing"

	"github.com/alphadb-io/alphadb-go/internal/source"
)

func parse(t *testing.T, doc string) *source.VersionSource {
	t.Helper()
	vs, err := source.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return vs
}

func severities(issues []Issue) []Severity {
	out := make([]Severity, len(issues))
	for i, is := range issues {
		out[i] = is.Severity
	}
	return out
}

func contains(issues []Issue, sev Severity) bool {
	for _, i := range issues {
		if i.Severity == sev {
			return true
		}
	}
	return false
}

func TestVerifyMissingName(t *testing.T) {
	vs := parse(t, `
version:
  - _id: "0.0.1"
    createtable:
      t:
        id: {type: INT}
`)
	issues := Source(vs)
	if !contains(issues, Critical) {
		t.Fatalf("expected CRITICAL for missing name, got %v", severities(issues))
	}
}

func TestVerifyNullAndAutoIncrement(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.1"
    createtable:
      t:
        id:
          type: INT
          null: true
          a_i: true
`)
	issues := Source(vs)
	if !contains(issues, Critical) {
		t.Fatalf("expected CRITICAL for null+a_i, got %v", issues)
	}
}

func TestVerifyAutoIncrementIncompatibleType(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.1"
    createtable:
      t:
        id:
          type: VARCHAR
          a_i: true
`)
	if !contains(Source(vs), Critical) {
		t.Fatalf("expected CRITICAL for VARCHAR+a_i")
	}
}

func TestVerifyUniqueIncompatibleType(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.1"
    createtable:
      t:
        data:
          type: JSON
          unique: true
`)
	if !contains(Source(vs), Critical) {
		t.Fatalf("expected CRITICAL for JSON+unique")
	}
}

func TestVerifyPrimaryKeyMustReferenceColumn(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.1"
    createtable:
      t:
        primary_key: missing_col
        id: {type: INT}
`)
	if !contains(Source(vs), Critical) {
		t.Fatalf("expected CRITICAL for dangling primary_key reference")
	}
}

func TestVerifyDropCurrentPrimaryKeyWithoutClearing(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.1"
    createtable:
      t:
        primary_key: id
        id: {type: INT}
  - _id: "0.0.2"
    altertable:
      t:
        dropcolumn: [id]
`)
	if !contains(Source(vs), Critical) {
		t.Fatalf("expected CRITICAL for dropping primary key without clearing it first")
	}
}

func TestVerifyDropCurrentPrimaryKeyAfterClearing(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.1"
    createtable:
      t:
        primary_key: id
        id: {type: INT}
  - _id: "0.0.2"
    altertable:
      t:
        primary_key: null
        dropcolumn: [id]
`)
	if contains(Source(vs), Critical) {
		t.Fatalf("did not expect CRITICAL when primary_key: null clears it in the same block")
	}
}

func TestVerifyNonMonotonicVersions(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.2"
    createtable:
      t:
        id: {type: INT}
  - _id: "0.0.1"
    altertable:
      t:
        dropcolumn: [x]
`)
	if !contains(Source(vs), Critical) {
		t.Fatalf("expected CRITICAL for non-monotonic version list")
	}
}

func TestVerifyForeignKeyIncomplete(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.1"
    createtable:
      t:
        id: {type: INT}
        foreign_key:
          key: id
`)
	if !contains(Source(vs), Critical) {
		t.Fatalf("expected CRITICAL for foreign_key missing references")
	}
}

func TestVerifyModifyColumnNonRecreateDoesNotRequireType(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.1"
    createtable:
      t:
        id: {type: INT}
  - _id: "0.0.2"
    altertable:
      t:
        modifycolumn:
          id:
            null: true
            recreate: false
`)
	if contains(Source(vs), Critical) {
		t.Fatalf("non-recreating modifycolumn should not require a type, got critical issues")
	}
}

func TestVerifyCleanSource(t *testing.T) {
	vs := parse(t, `
name: t
version:
  - _id: "0.0.1"
    createtable:
      t:
        primary_key: id
        id:
          type: INT
          a_i: true
`)
	if issues := Source(vs); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}
}
