package builder

import (
	"fmt"
	"strings"

	"dbkeeper/internal/schema"
)

// sqlServerOps: defaults are named constraints, so a default change drops
// the old constraint first and adds a new one; renames go through
// sp_rename after the DDL.
type sqlServerOps struct {
	*base
}

func (s *sqlServerOps) addColumn(item schema.SchemaItem) (string, error) {
	return "ADD " + s.columnDef(item), nil
}

// initialSQL drops the default constraint of every column whose default
// changes.
func (s *sqlServerOps) initialSQL(spec *schema.AlterTableSpec) (string, error) {
	var cols []string
	seen := make(map[string]bool)
	for _, ch := range spec.Alterations {
		if ch.ChangeType == schema.ChangeDefaultValue && !seen[ch.ColumnName] {
			seen[ch.ColumnName] = true
			cols = append(cols, ch.ColumnName)
		}
	}
	if len(cols) == 0 {
		return "", nil
	}

	object := s.data.EscapeString(s.tableName(), true)
	var sb strings.Builder
	sb.WriteString("DECLARE @ConstraintName nvarchar(200)")
	for _, col := range cols {
		sb.WriteString(";\nSET @ConstraintName = NULL")
		fmt.Fprintf(&sb, ";\nSELECT @ConstraintName = Name FROM sys.default_constraints"+
			" WHERE parent_object_id = OBJECT_ID(%s)"+
			" AND parent_column_id = COLUMNPROPERTY(OBJECT_ID(%s), %s, 'ColumnId')",
			object, object, s.data.EscapeString(col, true))
		fmt.Fprintf(&sb, ";\nIF @ConstraintName IS NOT NULL EXEC('ALTER TABLE %s DROP CONSTRAINT ' + @ConstraintName)",
			s.data.EscapeString(s.tableName(), false))
	}
	return sb.String(), nil
}

// alterColumn groups type and nullability into one ALTER COLUMN. A new
// default becomes ADD DEFAULT ... FOR; clearing it is done by initialSQL.
func (s *sqlServerOps) alterColumn(c schema.ColumnChanges) ([]string, error) {
	var out []string

	_, typed := c.Get(schema.ChangeDataType)
	_, nulled := c.Get(schema.ChangeNullable)
	if typed || nulled {
		item, err := s.merged(c)
		if err != nil {
			return nil, err
		}
		null := "NOT NULL"
		if item.Nullable {
			null = "NULL"
		}
		out = append(out, fmt.Sprintf("ALTER COLUMN %s %s %s", s.ident(c.Column), item.DataType, null))
	}

	for _, ch := range c.Changes {
		switch ch.ChangeType {
		case schema.ChangeDataType, schema.ChangeNullable:
		case schema.ChangeDefaultValue:
			if !ch.IsNull() {
				out = append(out, fmt.Sprintf("ADD DEFAULT %s FOR %s", s.data.WrapLiteral(ch.Text()), s.ident(c.Column)))
			}
		default:
			return nil, s.notSupported("altering " + string(ch.ChangeType))
		}
	}
	return out, nil
}

func (s *sqlServerOps) renameColumn(string, string) (string, error) { return "", nil }

// endSQL renames columns once the ALTER statements ran.
func (s *sqlServerOps) endSQL(spec *schema.AlterTableSpec) (string, error) {
	var stmts []string
	for _, ch := range spec.Alterations {
		if ch.ChangeType != schema.ChangeColumnName {
			continue
		}
		path := s.table + "." + ch.ColumnName
		if s.schemaName != "" {
			path = s.schemaName + "." + path
		}
		stmts = append(stmts, fmt.Sprintf("EXEC sp_rename %s, %s, 'COLUMN'",
			s.data.EscapeString(path, true), s.data.EscapeString(ch.Text(), true)))
	}
	return strings.Join(stmts, ";\n"), nil
}

func (s *sqlServerOps) dropIndex(name string) (string, error) {
	return "DROP INDEX " + s.ident(name) + " ON " + s.tableName(), nil
}
