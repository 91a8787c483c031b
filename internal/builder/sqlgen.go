package builder

import (
	"strings"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"
)

// SQLGenerator builds CREATE TABLE statements from a Schema.
type SQLGenerator struct {
	cb *ChangeBuilder
}

// NewGenerator returns a generator for d.
func NewGenerator(d dialect.Dialect) *SQLGenerator {
	return &SQLGenerator{cb: New(d)}
}

// BuildSQL returns the CREATE TABLE statement for s followed by any column
// comment statements the dialect keeps outside the table definition.
func (g *SQLGenerator) BuildSQL(s schema.Schema) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	data := g.cb.data
	v := g.cb.variant(s.Name, s.Schema)

	switch data.Dialect {
	case dialect.Redis:
		return "", dberr.NotSupported(string(data.Dialect), "create table").With("table", s.Name)
	case dialect.SurrealDB:
		sv := v.(*surrealOps)
		stmts := []string{"DEFINE TABLE " + sv.ident(s.Name) + " SCHEMAFULL"}
		for _, col := range s.Columns {
			stmts = append(stmts, sv.columnDef(col))
		}
		return joinStatements(stmts), nil
	}

	var pks []string
	for _, col := range s.Columns {
		if col.PrimaryKey {
			pks = append(pks, col.ColumnName)
		}
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	sb.WriteString(data.QualifiedName(s.Name, s.Schema))
	sb.WriteString(" (\n")
	for i, col := range s.Columns {
		if i > 0 {
			sb.WriteString(",\n")
		}
		sb.WriteString("  ")
		sb.WriteString(v.columnDef(col))
	}

	quotedPKs := make([]string, len(pks))
	for i, pk := range pks {
		quotedPKs[i] = data.WrapIdentifier(pk)
	}
	if len(pks) > 0 && data.Dialect != dialect.ClickHouse {
		sb.WriteString(",\n  PRIMARY KEY (")
		sb.WriteString(strings.Join(quotedPKs, ", "))
		sb.WriteString(")")
		if data.Dialect == dialect.BigQuery {
			sb.WriteString(" NOT ENFORCED")
		}
	}
	sb.WriteString("\n)")

	if data.Dialect == dialect.ClickHouse {
		sb.WriteString(" ENGINE = MergeTree() ORDER BY ")
		if len(pks) == 0 {
			sb.WriteString("tuple()")
		} else {
			sb.WriteString("(" + strings.Join(quotedPKs, ", ") + ")")
		}
	}

	stmts := []string{sb.String()}
	if !data.Disabled.Comments && !v.commentsInline() {
		for _, col := range s.Columns {
			if col.Comment == nil || *col.Comment == "" {
				continue
			}
			stmt, err := v.setComment(col.ColumnName, *col.Comment)
			if err != nil {
				return "", err
			}
			stmts = append(stmts, stmt)
		}
	}
	return joinStatements(stmts), nil
}
