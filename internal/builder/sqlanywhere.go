package builder

import (
	"fmt"
	"strings"

	"dbkeeper/internal/schema"
)

// sqlAnywhereOps groups every change of a column into one MODIFY clause and
// renames with ALTER TABLE ... RENAME.
type sqlAnywhereOps struct {
	*base
}

func (s *sqlAnywhereOps) addColumn(item schema.SchemaItem) (string, error) {
	return "ADD " + s.columnDef(item), nil
}

func (s *sqlAnywhereOps) dropColumn(column string) (string, error) {
	return "DROP " + s.ident(column), nil
}

func (s *sqlAnywhereOps) alterColumn(c schema.ColumnChanges) ([]string, error) {
	var sb strings.Builder
	sb.WriteString("MODIFY ")
	sb.WriteString(s.ident(c.Column))

	if ch, ok := c.Get(schema.ChangeDataType); ok {
		sb.WriteString(" ")
		sb.WriteString(ch.Text())
	}
	if ch, ok := c.Get(schema.ChangeNullable); ok {
		if ch.Bool() {
			sb.WriteString(" NULL")
		} else {
			sb.WriteString(" NOT NULL")
		}
	}
	if ch, ok := c.Get(schema.ChangeDefaultValue); ok {
		if ch.IsNull() {
			sb.WriteString(" DEFAULT NULL")
		} else {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(s.data.WrapLiteral(ch.Text()))
		}
	}
	for _, ch := range c.Changes {
		switch ch.ChangeType {
		case schema.ChangeDataType, schema.ChangeNullable, schema.ChangeDefaultValue:
		default:
			return nil, s.notSupported("altering " + string(ch.ChangeType))
		}
	}
	return []string{sb.String()}, nil
}

func (s *sqlAnywhereOps) renameColumn(from, to string) (string, error) {
	return fmt.Sprintf("ALTER TABLE %s RENAME %s TO %s", s.tableName(), s.ident(from), s.ident(to)), nil
}
