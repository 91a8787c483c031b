package builder

import (
	"fmt"
	"strings"

	"dbkeeper/internal/schema"
)

// clickhouseOps: nullability is part of the type (Nullable(T)) and comments
// are ALTER actions.
type clickhouseOps struct {
	*base
}

func (c *clickhouseOps) columnType(dataType string, nullable bool) string {
	if nullable && !strings.HasPrefix(dataType, "Nullable(") {
		return "Nullable(" + dataType + ")"
	}
	return dataType
}

func (c *clickhouseOps) columnDef(item schema.SchemaItem) string {
	var sb strings.Builder
	sb.WriteString(c.ident(item.ColumnName))
	sb.WriteString(" ")
	sb.WriteString(c.columnType(item.DataType, item.Nullable))
	c.writeDefault(&sb, item.DefaultValue)
	if item.Comment != nil && *item.Comment != "" {
		sb.WriteString(" COMMENT ")
		sb.WriteString(c.quote(*item.Comment))
	}
	return sb.String()
}

func (c *clickhouseOps) addColumn(item schema.SchemaItem) (string, error) {
	return "ADD COLUMN " + c.columnDef(item), nil
}

func (c *clickhouseOps) alterColumn(cc schema.ColumnChanges) ([]string, error) {
	col := c.ident(cc.Column)
	var out []string

	_, typed := cc.Get(schema.ChangeDataType)
	_, nulled := cc.Get(schema.ChangeNullable)
	if typed || nulled {
		item, err := c.merged(cc)
		if err != nil {
			return nil, err
		}
		out = append(out, fmt.Sprintf("MODIFY COLUMN %s %s", col, c.columnType(item.DataType, item.Nullable)))
	}

	for _, ch := range cc.Changes {
		switch ch.ChangeType {
		case schema.ChangeDataType, schema.ChangeNullable:
		case schema.ChangeDefaultValue:
			if ch.IsNull() {
				out = append(out, fmt.Sprintf("MODIFY COLUMN %s REMOVE DEFAULT", col))
			} else {
				out = append(out, fmt.Sprintf("MODIFY COLUMN %s DEFAULT %s", col, c.data.WrapLiteral(ch.Text())))
			}
		case schema.ChangeComment:
			out = append(out, fmt.Sprintf("COMMENT COLUMN %s %s", col, c.quote(ch.Text())))
		default:
			return nil, c.notSupported("altering " + string(ch.ChangeType))
		}
	}
	return out, nil
}

// bigQueryOps: columns can be relaxed to NULLABLE but never tightened, and
// descriptions are column OPTIONS.
type bigQueryOps struct {
	*base
}

func (q *bigQueryOps) columnDef(item schema.SchemaItem) string {
	var sb strings.Builder
	sb.WriteString(q.ident(item.ColumnName))
	sb.WriteString(" ")
	sb.WriteString(item.DataType)
	if !item.Nullable {
		sb.WriteString(" NOT NULL")
	}
	q.writeDefault(&sb, item.DefaultValue)
	if item.Comment != nil && *item.Comment != "" {
		sb.WriteString(" OPTIONS(description=")
		sb.WriteString(q.quote(*item.Comment))
		sb.WriteString(")")
	}
	return sb.String()
}

func (q *bigQueryOps) addColumn(item schema.SchemaItem) (string, error) {
	if !item.Nullable {
		return "", q.notSupported("adding a REQUIRED column")
	}
	return "ADD COLUMN " + q.columnDef(item), nil
}

func (q *bigQueryOps) alterColumn(c schema.ColumnChanges) ([]string, error) {
	col := q.ident(c.Column)
	var out []string
	for _, ch := range c.Changes {
		switch ch.ChangeType {
		case schema.ChangeDataType:
			out = append(out, fmt.Sprintf("ALTER COLUMN %s SET DATA TYPE %s", col, ch.Text()))
		case schema.ChangeNullable:
			if !ch.Bool() {
				return nil, q.notSupported("SET NOT NULL")
			}
			out = append(out, fmt.Sprintf("ALTER COLUMN %s DROP NOT NULL", col))
		case schema.ChangeDefaultValue:
			if ch.IsNull() {
				out = append(out, fmt.Sprintf("ALTER COLUMN %s DROP DEFAULT", col))
			} else {
				out = append(out, fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", col, q.data.WrapLiteral(ch.Text())))
			}
		case schema.ChangeComment:
			desc := "NULL"
			if !ch.IsNull() {
				desc = q.quote(ch.Text())
			}
			out = append(out, fmt.Sprintf("ALTER COLUMN %s SET OPTIONS (description=%s)", col, desc))
		default:
			return nil, q.notSupported("altering " + string(ch.ChangeType))
		}
	}
	return out, nil
}
