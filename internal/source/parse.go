package source

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Parse decodes a version-source document. The wire format is "JSON or
// equivalent" (spec.md §6); gopkg.in/yaml.v3 accepts JSON as a subset of
// YAML, so callers can hand this either a YAML or JSON payload.
func Parse(data []byte) (*VersionSource, error) {
	var vs VersionSource
	if err := yaml.Unmarshal(data, &vs); err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	return &vs, nil
}

// pairs walks a YAML mapping node and returns its key/value nodes in
// document order.
func pairs(node *yaml.Node) ([]*yaml.Node, []*yaml.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("source: expected a mapping, got kind %d at line %d", node.Kind, node.Line)
	}
	keys := make([]*yaml.Node, 0, len(node.Content)/2)
	vals := make([]*yaml.Node, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i])
		vals = append(vals, node.Content[i+1])
	}
	return keys, vals, nil
}

func (e *VersionEntry) UnmarshalYAML(node *yaml.Node) error {
	keys, vals, err := pairs(node)
	if err != nil {
		return err
	}
	for i, k := range keys {
		v := vals[i]
		switch k.Value {
		case "_id":
			if err := v.Decode(&e.ID); err != nil {
				return fmt.Errorf("source: version._id: %w", err)
			}
		case "createtable":
			tkeys, tvals, err := pairs(v)
			if err != nil {
				return fmt.Errorf("source: createtable: %w", err)
			}
			for j, tk := range tkeys {
				var op CreateTableOp
				if err := tvals[j].Decode(&op); err != nil {
					return fmt.Errorf("source: createtable.%s: %w", tk.Value, err)
				}
				e.CreateTable = append(e.CreateTable, CreateTableEntry{Table: tk.Value, Op: op})
			}
		case "altertable":
			tkeys, tvals, err := pairs(v)
			if err != nil {
				return fmt.Errorf("source: altertable: %w", err)
			}
			for j, tk := range tkeys {
				var op AlterTableOp
				if err := tvals[j].Decode(&op); err != nil {
					return fmt.Errorf("source: altertable.%s: %w", tk.Value, err)
				}
				e.AlterTable = append(e.AlterTable, AlterTableEntry{Table: tk.Value, Op: op})
			}
		case "default_data":
			tkeys, tvals, err := pairs(v)
			if err != nil {
				return fmt.Errorf("source: default_data: %w", err)
			}
			for j, tk := range tkeys {
				var rows []Row
				if err := tvals[j].Decode(&rows); err != nil {
					return fmt.Errorf("source: default_data.%s: %w", tk.Value, err)
				}
				e.DefaultData = append(e.DefaultData, DefaultDataEntry{Table: tk.Value, Rows: rows})
			}
		default:
			e.UnknownKeys = append(e.UnknownKeys, k.Value)
		}
	}
	return nil
}

func (op *CreateTableOp) UnmarshalYAML(node *yaml.Node) error {
	keys, vals, err := pairs(node)
	if err != nil {
		return err
	}
	for i, k := range keys {
		v := vals[i]
		switch k.Value {
		case "primary_key":
			op.HasPrimaryKey = true
			if err := v.Decode(&op.PrimaryKey); err != nil {
				return fmt.Errorf("primary_key: %w", err)
			}
		case "foreign_key":
			var fk ForeignKey
			if err := v.Decode(&fk); err != nil {
				return fmt.Errorf("foreign_key: %w", err)
			}
			op.ForeignKey = &fk
		default:
			var spec ColumnSpec
			if err := v.Decode(&spec); err != nil {
				return fmt.Errorf("column %q: %w", k.Value, err)
			}
			op.Columns = append(op.Columns, ColumnDef{Name: k.Value, Spec: spec})
		}
	}
	return nil
}

func (op *AlterTableOp) UnmarshalYAML(node *yaml.Node) error {
	keys, vals, err := pairs(node)
	if err != nil {
		return err
	}
	for i, k := range keys {
		v := vals[i]
		switch k.Value {
		case "dropcolumn":
			if err := v.Decode(&op.DropColumn); err != nil {
				return fmt.Errorf("dropcolumn: %w", err)
			}
		case "addcolumn":
			cols, err := decodeColumnMap(v)
			if err != nil {
				return fmt.Errorf("addcolumn: %w", err)
			}
			op.AddColumn = cols
		case "modifycolumn":
			cols, err := decodeColumnMap(v)
			if err != nil {
				return fmt.Errorf("modifycolumn: %w", err)
			}
			op.ModifyColumn = cols
		case "renamecolumn":
			rkeys, rvals, err := pairs(v)
			if err != nil {
				return fmt.Errorf("renamecolumn: %w", err)
			}
			for j, rk := range rkeys {
				var newName string
				if err := rvals[j].Decode(&newName); err != nil {
					return fmt.Errorf("renamecolumn.%s: %w", rk.Value, err)
				}
				op.RenameColumn = append(op.RenameColumn, RenamePair{Old: rk.Value, New: newName})
			}
		case "primary_key":
			op.PrimaryKey.Present = true
			if v.Tag == "!!null" {
				op.PrimaryKey.Column = ""
			} else if err := v.Decode(&op.PrimaryKey.Column); err != nil {
				return fmt.Errorf("primary_key: %w", err)
			}
		case "foreign_key":
			var fk ForeignKey
			if err := v.Decode(&fk); err != nil {
				return fmt.Errorf("foreign_key: %w", err)
			}
			op.ForeignKey = &fk
		}
	}
	return nil
}

func decodeColumnMap(node *yaml.Node) ([]ColumnDef, error) {
	keys, vals, err := pairs(node)
	if err != nil {
		return nil, err
	}
	cols := make([]ColumnDef, 0, len(keys))
	for i, k := range keys {
		var spec ColumnSpec
		if err := vals[i].Decode(&spec); err != nil {
			return nil, fmt.Errorf("column %q: %w", k.Value, err)
		}
		cols = append(cols, ColumnDef{Name: k.Value, Spec: spec})
	}
	return cols, nil
}

func (c *ColumnSpec) UnmarshalYAML(node *yaml.Node) error {
	keys, vals, err := pairs(node)
	if err != nil {
		return err
	}
	for i, k := range keys {
		v := vals[i]
		switch k.Value {
		case "type":
			c.HasType = true
			if err := v.Decode(&c.Type); err != nil {
				return fmt.Errorf("type: %w", err)
			}
		case "length":
			var n int
			if err := v.Decode(&n); err != nil {
				return fmt.Errorf("length: %w", err)
			}
			c.Length = &n
		case "null":
			c.HasNull = true
			if err := v.Decode(&c.Null); err != nil {
				return fmt.Errorf("null: %w", err)
			}
		case "unique":
			c.HasUnique = true
			if err := v.Decode(&c.Unique); err != nil {
				return fmt.Errorf("unique: %w", err)
			}
		case "default":
			c.HasDefault = true
			var val any
			if err := v.Decode(&val); err != nil {
				return fmt.Errorf("default: %w", err)
			}
			c.Default = val
		case "a_i":
			c.HasAutoInc = true
			if err := v.Decode(&c.AutoInc); err != nil {
				return fmt.Errorf("a_i: %w", err)
			}
		case "recreate":
			var b bool
			if err := v.Decode(&b); err != nil {
				return fmt.Errorf("recreate: %w", err)
			}
			c.Recreate = &b
		}
	}
	return nil
}

func (fk *ForeignKey) UnmarshalYAML(node *yaml.Node) error {
	keys, vals, err := pairs(node)
	if err != nil {
		return err
	}
	for i, k := range keys {
		v := vals[i]
		switch k.Value {
		case "key":
			if err := v.Decode(&fk.Key); err != nil {
				return fmt.Errorf("key: %w", err)
			}
		case "references":
			if err := v.Decode(&fk.References); err != nil {
				return fmt.Errorf("references: %w", err)
			}
		case "on_delete":
			fk.HasOnDelete = true
			if err := v.Decode(&fk.OnDelete); err != nil {
				return fmt.Errorf("on_delete: %w", err)
			}
		}
	}
	return nil
}

func (r *Row) UnmarshalYAML(node *yaml.Node) error {
	keys, vals, err := pairs(node)
	if err != nil {
		return err
	}
	row := make(Row, 0, len(keys))
	for i, k := range keys {
		var val any
		if err := vals[i].Decode(&val); err != nil {
			return fmt.Errorf("row field %q: %w", k.Value, err)
		}
		row = append(row, RowField{Key: k.Value, Value: val})
	}
	*r = row
	return nil
}
