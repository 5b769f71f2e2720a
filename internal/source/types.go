// Package source holds the strongly-typed representation of a version
// source: the ordered history of versioned transformations (create
// table, alter table, default data) that the rest of the engine folds,
// verifies and emits DDL/DML from.
//
// The wire format is loosely structured (table and column names are
// document keys, not a fixed schema), so the types here trade the
// dynamic-map shape of the original for tagged, exhaustively-handled
// Go structs — the generalization spec.md §9 calls for under
// "Dynamic maps". Column and table order is preserved exactly as
// authored, because emission order is part of the contract (createtable
// renders columns in source order; default-data renders keys in row
// order).
package source

// VersionSource is the top-level input: a template name plus its
// ordered version history.
type VersionSource struct {
	Name    string         `yaml:"name"`
	Version []VersionEntry `yaml:"version"`
}

// VersionEntry is one versioned transformation set.
type VersionEntry struct {
	ID          string
	CreateTable []CreateTableEntry
	AlterTable  []AlterTableEntry
	DefaultData []DefaultDataEntry
	// UnknownKeys lists top-level keys of this version block other than
	// _id/createtable/altertable/default_data, preserved so the
	// verifier can flag them instead of silently ignoring them.
	UnknownKeys []string
}

// CreateTableEntry pairs a table name with its CreateTableOp, in the
// order the table first appears under "createtable" for this version.
type CreateTableEntry struct {
	Table string
	Op    CreateTableOp
}

// AlterTableEntry pairs a table name with its AlterTableOp.
type AlterTableEntry struct {
	Table string
	Op    AlterTableOp
}

// DefaultDataEntry pairs a table name with the rows to insert into it.
type DefaultDataEntry struct {
	Table string
	Rows  []Row
}

// CreateTableOp describes a "createtable[table_name]" block.
type CreateTableOp struct {
	PrimaryKey    string
	HasPrimaryKey bool
	ForeignKey    *ForeignKey
	Columns       []ColumnDef
}

// Column looks up a column definition by name, in document order.
func (op CreateTableOp) Column(name string) (ColumnSpec, bool) {
	for _, c := range op.Columns {
		if c.Name == name {
			return c.Spec, true
		}
	}
	return ColumnSpec{}, false
}

// AlterTableOp describes an "altertable[table_name]" block. Any subset
// of its fields may be present.
type AlterTableOp struct {
	DropColumn   []string
	AddColumn    []ColumnDef
	ModifyColumn []ColumnDef
	RenameColumn []RenamePair
	PrimaryKey   PrimaryKeyPatch
	ForeignKey   *ForeignKey
}

// columnByName looks up an addcolumn/modifycolumn definition by name.
func columnByName(cols []ColumnDef, name string) (ColumnSpec, bool) {
	for _, c := range cols {
		if c.Name == name {
			return c.Spec, true
		}
	}
	return ColumnSpec{}, false
}

// AddedColumn looks up name in AddColumn.
func (op AlterTableOp) AddedColumn(name string) (ColumnSpec, bool) {
	return columnByName(op.AddColumn, name)
}

// ModifiedColumn looks up name in ModifyColumn.
func (op AlterTableOp) ModifiedColumn(name string) (ColumnSpec, bool) {
	return columnByName(op.ModifyColumn, name)
}

// Dropped reports whether name appears in DropColumn.
func (op AlterTableOp) Dropped(name string) bool {
	for _, c := range op.DropColumn {
		if c == name {
			return true
		}
	}
	return false
}

// PrimaryKeyPatch is the tri-state "primary_key" field of an
// altertable block: absent (no change), present with a column name
// (change primary key), or present and explicitly null (drop primary
// key).
type PrimaryKeyPatch struct {
	Present bool
	Column  string // empty when Present && explicit null
}

// ColumnDef pairs a column name with its specification, in document
// order.
type ColumnDef struct {
	Name string
	Spec ColumnSpec
}

// ColumnSpec is a column definition or attribute patch.
type ColumnSpec struct {
	Type        string
	HasType     bool
	Length      *int
	Null        bool
	HasNull     bool
	Unique      bool
	HasUnique   bool
	Default     any
	HasDefault  bool
	AutoInc     bool
	HasAutoInc  bool
	Recreate    *bool // only meaningful on modifycolumn; nil means default (true)
}

// RecreateOrDefault returns the effective recreate flag: true unless
// explicitly set to false.
func (c ColumnSpec) RecreateOrDefault() bool {
	return c.Recreate == nil || *c.Recreate
}

// Merge overlays patch's explicitly-set attributes onto c, returning
// the result. Used by the concatenator to fold addcolumn/modifycolumn
// patches onto the running accumulator.
func (c ColumnSpec) Merge(patch ColumnSpec) ColumnSpec {
	out := c
	if patch.HasType {
		out.Type = patch.Type
		out.HasType = true
	}
	if patch.Length != nil {
		out.Length = patch.Length
	}
	if patch.HasNull {
		out.Null = patch.Null
		out.HasNull = true
	}
	if patch.HasUnique {
		out.Unique = patch.Unique
		out.HasUnique = true
	}
	if patch.HasDefault {
		out.Default = patch.Default
		out.HasDefault = true
	}
	if patch.HasAutoInc {
		out.AutoInc = patch.AutoInc
		out.HasAutoInc = true
	}
	return out
}

// RenamePair is one entry of a "renamecolumn" block: old name -> new
// name, in document order.
type RenamePair struct {
	Old string
	New string
}

// ForeignKey describes a "foreign_key" object.
type ForeignKey struct {
	Key          string
	References   string
	HasOnDelete  bool
	OnDelete     string
}

// Row is a default-data row: an ordered list of column -> value pairs,
// preserving document order so INSERT statements render columns in the
// order they were authored.
type Row []RowField

// RowField is one column/value pair of a Row.
type RowField struct {
	Key   string
	Value any // as decoded by yaml.v3: string, int, float64, bool, map[string]any, or nil
}
