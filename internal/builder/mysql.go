package builder

import (
	"fmt"
	"strings"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/schema"
)

// mysqlOps serves MySQL and MariaDB. Column changes other than a bare
// default need the whole definition again (MODIFY COLUMN), and comments are
// part of that definition.
type mysqlOps struct {
	*base
}

func (m *mysqlOps) alterColumn(c schema.ColumnChanges) ([]string, error) {
	defaultOnly := true
	for _, ch := range c.Changes {
		if ch.ChangeType != schema.ChangeDefaultValue {
			defaultOnly = false
			break
		}
	}

	if defaultOnly {
		ch, _ := c.Get(schema.ChangeDefaultValue)
		col := m.ident(c.Column)
		if ch.IsNull() {
			return []string{fmt.Sprintf("ALTER COLUMN %s DROP DEFAULT", col)}, nil
		}
		return []string{fmt.Sprintf("ALTER COLUMN %s SET DEFAULT %s", col, m.data.WrapLiteral(ch.Text()))}, nil
	}

	item, err := m.merged(c)
	if err != nil {
		return nil, err
	}
	return []string{"MODIFY COLUMN " + m.columnDef(item)}, nil
}

// reorderColumns moves every column from the first position that differs,
// using FIRST / AFTER on its full definition.
func (m *mysqlOps) reorderColumns(r schema.ColumnReorder) (string, error) {
	if len(r.OldOrder) != len(r.NewOrder) {
		return "", dberr.Validation("reorder lists differ in length").With("table", m.table)
	}

	start := -1
	for i := range r.NewOrder {
		if r.NewOrder[i] != r.OldOrder[i] {
			start = i
			break
		}
	}
	if start < 0 {
		return "", nil
	}

	var clauses []string
	for i := start; i < len(r.NewOrder); i++ {
		name := r.NewOrder[i]
		item, ok := m.existing[name]
		if !ok {
			return "", dberr.Validation("current definition of column %q is required", name).
				With("table", m.table).
				With("dialect", m.data.Dialect)
		}
		position := "FIRST"
		if i > 0 {
			position = "AFTER " + m.ident(r.NewOrder[i-1])
		}
		clauses = append(clauses, "MODIFY COLUMN "+m.columnDef(item)+" "+position)
	}
	return m.alterStatement(strings.Join(clauses, ", ")), nil
}

func (m *mysqlOps) dropIndex(name string) (string, error) {
	return "DROP INDEX " + m.ident(name) + " ON " + m.tableName(), nil
}

func (m *mysqlOps) dropRelation(name string) (string, error) {
	return "ALTER TABLE " + m.tableName() + " DROP FOREIGN KEY " + m.ident(name), nil
}
