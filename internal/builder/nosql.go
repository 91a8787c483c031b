package builder

import (
	"fmt"
	"regexp"
	"strings"

	"dbkeeper/internal/schema"
)

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// surrealOps defines and removes fields; SurrealQL has no ALTER TABLE, so
// every clause is a complete statement.
type surrealOps struct {
	*base
}

func (s *surrealOps) ident(name string) string {
	if plainIdent.MatchString(name) {
		return name
	}
	return s.data.WrapIdentifier(name)
}

func (s *surrealOps) alterStatement(clause string) string { return clause }

func (s *surrealOps) fieldType(dataType string, nullable bool) string {
	if nullable {
		return "option<" + dataType + ">"
	}
	return dataType
}

func (s *surrealOps) defineField(overwrite bool, item schema.SchemaItem) string {
	var sb strings.Builder
	sb.WriteString("DEFINE FIELD ")
	if overwrite {
		sb.WriteString("OVERWRITE ")
	}
	fmt.Fprintf(&sb, "%s ON TABLE %s TYPE %s", s.ident(item.ColumnName), s.ident(s.table), s.fieldType(item.DataType, item.Nullable))
	s.writeDefault(&sb, item.DefaultValue)
	return sb.String()
}

func (s *surrealOps) columnDef(item schema.SchemaItem) string {
	return s.defineField(false, item)
}

func (s *surrealOps) addColumn(item schema.SchemaItem) (string, error) {
	return s.defineField(false, item), nil
}

func (s *surrealOps) dropColumn(column string) (string, error) {
	return fmt.Sprintf("REMOVE FIELD %s ON TABLE %s", s.ident(column), s.ident(s.table)), nil
}

// alterColumn redefines the field. Nullability has no equivalent and is
// rejected rather than ignored.
func (s *surrealOps) alterColumn(c schema.ColumnChanges) ([]string, error) {
	for _, ch := range c.Changes {
		switch ch.ChangeType {
		case schema.ChangeDataType, schema.ChangeDefaultValue:
		case schema.ChangeNullable:
			return nil, s.notSupported("alter nullable")
		default:
			return nil, s.notSupported("altering " + string(ch.ChangeType))
		}
	}

	item := s.existing[c.Column]
	item.ColumnName = c.Column
	if ch, ok := c.Get(schema.ChangeDataType); ok {
		item.DataType = ch.Text()
	}
	if ch, ok := c.Get(schema.ChangeDefaultValue); ok {
		item.DefaultValue = optional(ch)
	}
	if item.DataType == "" {
		item.DataType = "any"
	}
	return []string{s.defineField(true, item)}, nil
}

func (s *surrealOps) renameColumn(string, string) (string, error) {
	return "", s.notSupported("rename column")
}

func (s *surrealOps) setComment(string, string) (string, error) {
	return "", s.notSupported("column comment")
}

func (s *surrealOps) reorderColumns(schema.ColumnReorder) (string, error) {
	return "", s.notSupported("column reorder")
}

func (s *surrealOps) createIndex(spec schema.CreateIndexSpec) (string, error) {
	fields := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		fields[i] = s.ident(c.Name)
	}
	stmt := fmt.Sprintf("DEFINE INDEX %s ON TABLE %s FIELDS %s",
		s.ident(s.indexName(spec)), s.ident(s.table), strings.Join(fields, ", "))
	if spec.Unique {
		stmt += " UNIQUE"
	}
	return stmt, nil
}

func (s *surrealOps) dropIndex(name string) (string, error) {
	return fmt.Sprintf("REMOVE INDEX %s ON TABLE %s", s.ident(name), s.ident(s.table)), nil
}

func (s *surrealOps) createRelation(schema.CreateRelationSpec) (string, error) {
	return "", s.notSupported("foreign key")
}

func (s *surrealOps) dropRelation(string) (string, error) {
	return "", s.notSupported("foreign key")
}

// redisOps exists so key/value "tables" satisfy the same contract; no
// schema change can be expressed.
type redisOps struct {
	*base
}

func (r *redisOps) addColumn(schema.SchemaItem) (string, error) {
	return "", r.notSupported("add column")
}

func (r *redisOps) dropColumn(string) (string, error) {
	return "", r.notSupported("drop column")
}

func (r *redisOps) alterColumn(schema.ColumnChanges) ([]string, error) {
	return nil, r.notSupported("alter column")
}

func (r *redisOps) renameColumn(string, string) (string, error) {
	return "", r.notSupported("rename column")
}

func (r *redisOps) setComment(string, string) (string, error) {
	return "", r.notSupported("column comment")
}

func (r *redisOps) createIndex(schema.CreateIndexSpec) (string, error) {
	return "", r.notSupported("create index")
}

func (r *redisOps) dropIndex(string) (string, error) {
	return "", r.notSupported("drop index")
}

func (r *redisOps) createRelation(schema.CreateRelationSpec) (string, error) {
	return "", r.notSupported("foreign key")
}

func (r *redisOps) dropRelation(string) (string, error) {
	return "", r.notSupported("foreign key")
}
