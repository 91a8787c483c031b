package builder

import (
	"fmt"
	"strings"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"
)

// base spells every clause the ANSI way (Postgres and SQLite accept it as
// is). Variants embed it and override what they spell differently.
type base struct {
	data       *dialect.Data
	table      string
	schemaName string
	existing   map[string]schema.SchemaItem
	inline     bool // comments are part of the column definition
}

var _ ops = (*base)(nil)

func (b *base) tableName() string { return b.data.QualifiedName(b.table, b.schemaName) }

func (b *base) ident(s string) string { return b.data.WrapIdentifier(s) }

func (b *base) quote(s string) string { return b.data.EscapeString(s, true) }

func (b *base) notSupported(operation string) error {
	return dberr.NotSupported(string(b.data.Dialect), operation).With("table", b.table)
}

// writeQuotedList writes comma-separated quoted identifiers to sb.
func (b *base) writeQuotedList(sb *strings.Builder, items []string) {
	for i, item := range items {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.ident(item))
	}
}

func (b *base) initialSQL(*schema.AlterTableSpec) (string, error) { return "", nil }

func (b *base) endSQL(*schema.AlterTableSpec) (string, error) { return "", nil }

func (b *base) commentsInline() bool { return b.inline }

func (b *base) alterStatement(clause string) string {
	return "ALTER TABLE " + b.tableName() + " " + clause
}

// columnDef renders <name> <type> [DEFAULT x] NULL|NOT NULL [extra] [COMMENT 'x'].
func (b *base) columnDef(item schema.SchemaItem) string {
	var sb strings.Builder
	sb.WriteString(b.ident(item.ColumnName))
	sb.WriteString(" ")
	sb.WriteString(item.DataType)
	b.writeDefault(&sb, item.DefaultValue)
	if item.Nullable {
		sb.WriteString(" NULL")
	} else {
		sb.WriteString(" NOT NULL")
	}
	if item.Extra != nil && *item.Extra != "" {
		sb.WriteString(" ")
		sb.WriteString(*item.Extra)
	}
	if b.inline && item.Comment != nil && *item.Comment != "" {
		sb.WriteString(" COMMENT ")
		sb.WriteString(b.quote(*item.Comment))
	}
	return sb.String()
}

func (b *base) writeDefault(sb *strings.Builder, value *string) {
	if value != nil && *value != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(b.data.WrapLiteral(*value))
	}
}

func (b *base) addColumn(item schema.SchemaItem) (string, error) {
	return "ADD COLUMN " + b.columnDef(item), nil
}

func (b *base) dropColumn(column string) (string, error) {
	return "DROP COLUMN " + b.ident(column), nil
}

func (b *base) alterColumn(c schema.ColumnChanges) ([]string, error) {
	col := b.ident(c.Column)
	var out []string
	for _, ch := range c.Changes {
		switch ch.ChangeType {
		case schema.ChangeDataType:
			out = append(out, fmt.Sprintf("ALTER COLUMN %s TYPE %s", col, ch.Text()))
		case schema.ChangeNullable:
			if ch.Bool() {
				out = append(out, fmt.Sprintf("ALTER COLUMN %s DROP NOT NULL", col))
			} else {
				out = append(out, fmt.Sprintf("ALTER COLUMN %s SET NOT NULL", col))
			}
		case schema.ChangeDefaultValue:
			if ch.IsNull() {
				out = append(out, fmt.Sprintf("ALTER COLUMN %s DROP DEFAULT", col))
			} else {
				out = append(out, fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", col, b.data.WrapLiteral(ch.Text())))
			}
		default:
			return nil, b.notSupported("altering " + string(ch.ChangeType))
		}
	}
	return out, nil
}

func (b *base) renameColumn(from, to string) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", b.tableName(), b.ident(from), b.ident(to)), nil
}

func (b *base) setComment(column, comment string) (string, error) {
	target := b.tableName() + "." + b.ident(column)
	if comment == "" {
		return "COMMENT ON COLUMN " + target + " IS NULL", nil
	}
	return "COMMENT ON COLUMN " + target + " IS " + b.quote(comment), nil
}

func (b *base) reorderColumns(schema.ColumnReorder) (string, error) {
	return "", b.notSupported("column reorder")
}

// indexName derives table_col1_col2_idx when the spec has no name.
func (b *base) indexName(spec schema.CreateIndexSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	parts := []string{b.table}
	for _, c := range spec.Columns {
		parts = append(parts, c.Name)
	}
	suffix := "idx"
	if spec.Unique {
		suffix = "uniq"
	}
	return strings.Join(append(parts, suffix), "_")
}

func (b *base) writeIndexColumns(sb *strings.Builder, cols []schema.IndexColumn) {
	for i, c := range cols {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(b.ident(c.Name))
		if !b.data.Disabled.Index.Desc {
			order := c.Order
			if order == "" {
				order = schema.Asc
			}
			sb.WriteString(" ")
			sb.WriteString(string(order))
		}
	}
}

func (b *base) createIndex(spec schema.CreateIndexSpec) (string, error) {
	var sb strings.Builder
	sb.WriteString("CREATE ")
	if spec.Unique {
		sb.WriteString("UNIQUE ")
	}
	sb.WriteString("INDEX ")
	sb.WriteString(b.ident(b.indexName(spec)))
	sb.WriteString(" ON ")
	sb.WriteString(b.tableName())
	sb.WriteString("(")
	b.writeIndexColumns(&sb, spec.Columns)
	sb.WriteString(")")
	return sb.String(), nil
}

func (b *base) dropIndex(name string) (string, error) {
	return "DROP INDEX " + b.data.QualifiedName(name, b.schemaName), nil
}

func (b *base) createRelation(spec schema.CreateRelationSpec) (string, error) {
	var sb strings.Builder
	sb.WriteString("ALTER TABLE ")
	sb.WriteString(b.tableName())
	sb.WriteString(" ADD ")
	if spec.ConstraintName != "" {
		sb.WriteString("CONSTRAINT ")
		sb.WriteString(b.ident(spec.ConstraintName))
		sb.WriteString(" ")
	}
	sb.WriteString("FOREIGN KEY (")
	sb.WriteString(b.ident(spec.FromColumn))
	sb.WriteString(") REFERENCES ")
	sb.WriteString(b.data.QualifiedName(spec.ToTable, spec.ToSchema))
	sb.WriteString(" (")
	sb.WriteString(b.ident(spec.ToColumn))
	sb.WriteString(")")

	if spec.OnUpdate != "" && !b.data.Disabled.Constraints.OnUpdate {
		if !b.data.SupportsAction(spec.OnUpdate) {
			return "", dberr.Validation("unsupported ON UPDATE action %q", spec.OnUpdate).
				With("dialect", b.data.Dialect)
		}
		sb.WriteString(" ON UPDATE ")
		sb.WriteString(strings.ToUpper(spec.OnUpdate))
	}
	if spec.OnDelete != "" && !b.data.Disabled.Constraints.OnDelete {
		if !b.data.SupportsAction(spec.OnDelete) {
			return "", dberr.Validation("unsupported ON DELETE action %q", spec.OnDelete).
				With("dialect", b.data.Dialect)
		}
		sb.WriteString(" ON DELETE ")
		sb.WriteString(strings.ToUpper(spec.OnDelete))
	}
	return sb.String(), nil
}

func (b *base) dropRelation(name string) (string, error) {
	return "ALTER TABLE " + b.tableName() + " DROP CONSTRAINT " + b.ident(name), nil
}

// merged applies changes to the known definition of a column. Without a
// known definition both the type and the nullability must be in the changes.
func (b *base) merged(c schema.ColumnChanges) (schema.SchemaItem, error) {
	item, known := b.existing[c.Column]
	item.ColumnName = c.Column

	var typed, nulled bool
	for _, ch := range c.Changes {
		switch ch.ChangeType {
		case schema.ChangeDataType:
			item.DataType = ch.Text()
			typed = true
		case schema.ChangeNullable:
			item.Nullable = ch.Bool()
			nulled = true
		case schema.ChangeDefaultValue:
			item.DefaultValue = optional(ch)
		case schema.ChangeComment:
			item.Comment = optional(ch)
		case schema.ChangeExtra:
			item.Extra = optional(ch)
		}
	}
	if !known && !(typed && nulled) {
		return item, dberr.Validation("current definition of column %q is required", c.Column).
			With("table", b.table).
			With("dialect", b.data.Dialect)
	}
	return item, nil
}

func optional(ch schema.SchemaItemChange) *string {
	if ch.IsNull() {
		return nil
	}
	s := ch.Text()
	return &s
}
