package builder

import (
	"strings"

	"dbkeeper/internal/schema"
)

// oracleOps wraps adds, drops and modifications in parentheses; the registry
// keeps it in multi-statement mode.
type oracleOps struct {
	*base
}

func (o *oracleOps) addColumn(item schema.SchemaItem) (string, error) {
	return "ADD (" + o.columnDef(item) + ")", nil
}

func (o *oracleOps) dropColumn(column string) (string, error) {
	return "DROP (" + o.ident(column) + ")", nil
}

// alterColumn emits MODIFY (<col> <type> DEFAULT <x> NULL) with the parts in
// dataType, defaultValue, nullable order regardless of input order.
func (o *oracleOps) alterColumn(c schema.ColumnChanges) ([]string, error) {
	for _, ch := range c.Changes {
		switch ch.ChangeType {
		case schema.ChangeDataType, schema.ChangeNullable, schema.ChangeDefaultValue:
		default:
			return nil, o.notSupported("altering " + string(ch.ChangeType))
		}
	}

	var sb strings.Builder
	sb.WriteString("MODIFY (")
	sb.WriteString(o.ident(c.Column))
	if ch, ok := c.Get(schema.ChangeDataType); ok {
		sb.WriteString(" ")
		sb.WriteString(ch.Text())
	}
	if ch, ok := c.Get(schema.ChangeDefaultValue); ok {
		sb.WriteString(" DEFAULT ")
		if ch.IsNull() {
			sb.WriteString("NULL")
		} else {
			sb.WriteString(o.data.WrapLiteral(ch.Text()))
		}
	}
	if ch, ok := c.Get(schema.ChangeNullable); ok {
		if ch.Bool() {
			sb.WriteString(" NULL")
		} else {
			sb.WriteString(" NOT NULL")
		}
	}
	sb.WriteString(")")
	return []string{sb.String()}, nil
}

// setComment clears with an empty string; Oracle has no IS NULL form.
func (o *oracleOps) setComment(column, comment string) (string, error) {
	return "COMMENT ON COLUMN " + o.tableName() + "." + o.ident(column) + " IS " + o.quote(comment), nil
}
