// Package schema holds the dialect-agnostic description of tables and of the
// changes a caller wants applied to them.
package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// SchemaItem is the full desired state of one column.
type SchemaItem struct {
	ColumnName   string  `json:"columnName" yaml:"columnName" toml:"columnName"`
	DataType     string  `json:"dataType" yaml:"dataType" toml:"dataType"`
	Nullable     bool    `json:"nullable" yaml:"nullable" toml:"nullable"`
	DefaultValue *string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty" toml:"defaultValue,omitempty"`
	Comment      *string `json:"comment,omitempty" yaml:"comment,omitempty" toml:"comment,omitempty"`
	Extra        *string `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
	PrimaryKey   bool    `json:"primaryKey,omitempty" yaml:"primaryKey,omitempty" toml:"primaryKey,omitempty"`
}

// ChangeType names the attribute a SchemaItemChange mutates.
type ChangeType string

const (
	ChangeColumnName   ChangeType = "columnName"
	ChangeDataType     ChangeType = "dataType"
	ChangeNullable     ChangeType = "nullable"
	ChangeDefaultValue ChangeType = "defaultValue"
	ChangeComment      ChangeType = "comment"
	ChangeExtra        ChangeType = "extra"
)

// Valid reports whether c is one of the known change types.
func (c ChangeType) Valid() bool {
	switch c {
	case ChangeColumnName, ChangeDataType, ChangeNullable, ChangeDefaultValue, ChangeComment, ChangeExtra:
		return true
	}
	return false
}

// SchemaItemChange is one atomic mutation of an existing column.
type SchemaItemChange struct {
	ColumnName string     `json:"columnName" yaml:"columnName" toml:"columnName"`
	ChangeType ChangeType `json:"changeType" yaml:"changeType" toml:"changeType"`
	NewValue   any        `json:"newValue" yaml:"newValue" toml:"newValue"`
}

// IsNull reports whether the new value clears the attribute (no default,
// no comment).
func (c SchemaItemChange) IsNull() bool {
	if c.NewValue == nil {
		return true
	}
	s, ok := c.NewValue.(string)
	return ok && s == ""
}

// Text returns the new value as a string.
func (c SchemaItemChange) Text() string {
	switch v := c.NewValue.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Bool returns the new value as a boolean; "YES" and "true" are accepted so
// values copied from information_schema work unchanged.
func (c SchemaItemChange) Bool() bool {
	switch v := c.NewValue.(type) {
	case bool:
		return v
	case string:
		if strings.EqualFold(v, "yes") {
			return true
		}
		b, _ := strconv.ParseBool(v)
		return b
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}

// ColumnReorder describes a change of column order.
type ColumnReorder struct {
	OldOrder []string `json:"oldOrder" yaml:"oldOrder" toml:"oldOrder"`
	NewOrder []string `json:"newOrder" yaml:"newOrder" toml:"newOrder"`
}

// AlterTableSpec is the declarative description of column changes for one
// table.
type AlterTableSpec struct {
	Table       string             `json:"table" yaml:"table" toml:"table"`
	Schema      string             `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema,omitempty"`
	Adds        []SchemaItem       `json:"adds,omitempty" yaml:"adds,omitempty" toml:"adds,omitempty"`
	Drops       []string           `json:"drops,omitempty" yaml:"drops,omitempty" toml:"drops,omitempty"`
	Alterations []SchemaItemChange `json:"alterations,omitempty" yaml:"alterations,omitempty" toml:"alterations,omitempty"`
	Reorder     *ColumnReorder     `json:"reorder,omitempty" yaml:"reorder,omitempty" toml:"reorder,omitempty"`
}

// ColumnChanges groups alterations that target the same column, preserving
// first-appearance order of columns and of changes within a column.
type ColumnChanges struct {
	Column  string
	Changes []SchemaItemChange
}

// Get returns the last change of the given type, if any.
func (c ColumnChanges) Get(t ChangeType) (SchemaItemChange, bool) {
	var (
		found SchemaItemChange
		ok    bool
	)
	for _, ch := range c.Changes {
		if ch.ChangeType == t {
			found, ok = ch, true
		}
	}
	return found, ok
}

// GroupAlterations groups changes by column name.
func GroupAlterations(changes []SchemaItemChange) []ColumnChanges {
	var groups []ColumnChanges
	index := make(map[string]int)
	for _, ch := range changes {
		i, ok := index[ch.ColumnName]
		if !ok {
			i = len(groups)
			index[ch.ColumnName] = i
			groups = append(groups, ColumnChanges{Column: ch.ColumnName})
		}
		groups[i].Changes = append(groups[i].Changes, ch)
	}
	return groups
}

// IndexOrder is ASC or DESC.
type IndexOrder string

const (
	Asc  IndexOrder = "ASC"
	Desc IndexOrder = "DESC"
)

// IndexColumn is one key part of an index.
type IndexColumn struct {
	Name  string     `json:"name" yaml:"name" toml:"name"`
	Order IndexOrder `json:"order,omitempty" yaml:"order,omitempty" toml:"order,omitempty"`
}

// CreateIndexSpec describes a new index. Name is derived when empty.
type CreateIndexSpec struct {
	Name    string        `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Columns []IndexColumn `json:"columns" yaml:"columns" toml:"columns"`
	Unique  bool          `json:"unique,omitempty" yaml:"unique,omitempty" toml:"unique,omitempty"`
}

// DropIndexSpec names an index to drop.
type DropIndexSpec struct {
	Name string `json:"name" yaml:"name" toml:"name"`
}

// IndexAlterations drops then creates indexes on one table.
type IndexAlterations struct {
	Table     string            `json:"table" yaml:"table" toml:"table"`
	Schema    string            `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema,omitempty"`
	Additions []CreateIndexSpec `json:"additions,omitempty" yaml:"additions,omitempty" toml:"additions,omitempty"`
	Drops     []DropIndexSpec   `json:"drops,omitempty" yaml:"drops,omitempty" toml:"drops,omitempty"`
}

// CreateRelationSpec is a foreign-key intent.
type CreateRelationSpec struct {
	FromColumn     string `json:"fromColumn" yaml:"fromColumn" toml:"fromColumn"`
	ToTable        string `json:"toTable" yaml:"toTable" toml:"toTable"`
	ToSchema       string `json:"toSchema,omitempty" yaml:"toSchema,omitempty" toml:"toSchema,omitempty"`
	ToColumn       string `json:"toColumn" yaml:"toColumn" toml:"toColumn"`
	ConstraintName string `json:"constraintName,omitempty" yaml:"constraintName,omitempty" toml:"constraintName,omitempty"`
	OnUpdate       string `json:"onUpdate,omitempty" yaml:"onUpdate,omitempty" toml:"onUpdate,omitempty"`
	OnDelete       string `json:"onDelete,omitempty" yaml:"onDelete,omitempty" toml:"onDelete,omitempty"`
}

// DropRelationSpec names a foreign key constraint to drop.
type DropRelationSpec struct {
	ConstraintName string `json:"constraintName" yaml:"constraintName" toml:"constraintName"`
}

// RelationAlterations drops then creates foreign keys on one table.
type RelationAlterations struct {
	Table     string               `json:"table" yaml:"table" toml:"table"`
	Schema    string               `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema,omitempty"`
	Additions []CreateRelationSpec `json:"additions,omitempty" yaml:"additions,omitempty" toml:"additions,omitempty"`
	Drops     []DropRelationSpec   `json:"drops,omitempty" yaml:"drops,omitempty" toml:"drops,omitempty"`
}

// CreatePartitionSpec attaches a new partition with the given bound
// expression, e.g. "FROM ('2024-01-01') TO ('2025-01-01')".
type CreatePartitionSpec struct {
	Name       string `json:"name" yaml:"name" toml:"name"`
	Expression string `json:"expression" yaml:"expression" toml:"expression"`
}

// PartitionItemChange replaces the bound expression of a partition.
type PartitionItemChange struct {
	PartitionName string `json:"partitionName" yaml:"partitionName" toml:"partitionName"`
	NewValue      string `json:"newValue" yaml:"newValue" toml:"newValue"`
}

// AlterPartitionsSpec groups partition operations on one parent table.
type AlterPartitionsSpec struct {
	Table       string                `json:"table" yaml:"table" toml:"table"`
	Schema      string                `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema,omitempty"`
	Adds        []CreatePartitionSpec `json:"adds,omitempty" yaml:"adds,omitempty" toml:"adds,omitempty"`
	Alterations []PartitionItemChange `json:"alterations,omitempty" yaml:"alterations,omitempty" toml:"alterations,omitempty"`
	Detaches    []string              `json:"detaches,omitempty" yaml:"detaches,omitempty" toml:"detaches,omitempty"`
}

// Schema is the input of CREATE TABLE generation.
type Schema struct {
	Name    string       `json:"name" yaml:"name" toml:"name"`
	Schema  string       `json:"schema,omitempty" yaml:"schema,omitempty" toml:"schema,omitempty"`
	Columns []SchemaItem `json:"columns" yaml:"columns" toml:"columns"`
}

// Table is a node in the foreign-key dependency graph.
type Table struct {
	Name         string
	Dependencies []string
}
