// Package builder turns the dialect-agnostic change model into SQL text for a
// specific dialect. One algorithm (ChangeBuilder) drives a per-dialect set of
// operations; dialects only override the clauses they spell differently.
package builder

import (
	"log/slog"
	"strings"

	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"
)

// ops is the per-dialect clause generator the ChangeBuilder drives.
// Every method may return a dberr.NotSupported error.
type ops interface {
	initialSQL(spec *schema.AlterTableSpec) (string, error)
	addColumn(item schema.SchemaItem) (string, error)
	dropColumn(column string) (string, error)
	// alterColumn receives every change of one column except renames, and
	// except comments unless commentsInline reports true.
	alterColumn(c schema.ColumnChanges) ([]string, error)
	// renameColumn may return "" when the rename happens in endSQL.
	renameColumn(from, to string) (string, error)
	setComment(column, comment string) (string, error)
	reorderColumns(r schema.ColumnReorder) (string, error)
	endSQL(spec *schema.AlterTableSpec) (string, error)

	alterStatement(clause string) string
	commentsInline() bool
	columnDef(item schema.SchemaItem) string

	createIndex(spec schema.CreateIndexSpec) (string, error)
	dropIndex(name string) (string, error)
	createRelation(spec schema.CreateRelationSpec) (string, error)
	dropRelation(name string) (string, error)
}

// ChangeBuilder builds ALTER TABLE, index and relation SQL for one dialect.
type ChangeBuilder struct {
	data     *dialect.Data
	existing map[string]schema.SchemaItem
}

// Option configures a ChangeBuilder.
type Option func(*ChangeBuilder)

// WithExistingColumns supplies the current column definitions of the table
// being altered. Dialects whose ALTER needs a full column definition (MySQL
// MODIFY, SQL Server ALTER COLUMN, ClickHouse MODIFY) merge changes into it.
func WithExistingColumns(cols []schema.SchemaItem) Option {
	return func(c *ChangeBuilder) {
		for _, col := range cols {
			c.existing[col.ColumnName] = col
		}
	}
}

// New returns a builder for d. Unknown dialects get the conservative
// fallback capability table.
func New(d dialect.Dialect, opts ...Option) *ChangeBuilder {
	c := &ChangeBuilder{
		data:     dialect.Get(d),
		existing: make(map[string]schema.SchemaItem),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dialect returns the capability table the builder uses.
func (c *ChangeBuilder) Dialect() *dialect.Data { return c.data }

func (c *ChangeBuilder) variant(table, schemaName string) ops {
	b := &base{
		data:       c.data,
		table:      table,
		schemaName: schemaName,
		existing:   c.existing,
	}
	switch c.data.Dialect {
	case dialect.Postgres, dialect.CockroachDB, dialect.Redshift:
		return &postgresOps{base: b}
	case dialect.MySQL, dialect.MariaDB:
		b.inline = true
		return &mysqlOps{base: b}
	case dialect.SQLServer:
		return &sqlServerOps{base: b}
	case dialect.SQLAnywhere:
		return &sqlAnywhereOps{base: b}
	case dialect.Oracle:
		return &oracleOps{base: b}
	case dialect.SurrealDB:
		return &surrealOps{base: b}
	case dialect.Redis:
		return &redisOps{base: b}
	case dialect.ClickHouse:
		b.inline = true
		return &clickhouseOps{base: b}
	case dialect.BigQuery:
		b.inline = true
		return &bigQueryOps{base: b}
	default:
		return b
	}
}

// AlterTable returns the SQL that applies spec, or "" when nothing is left
// to execute after disabled features are filtered out. Non-empty results end
// with exactly one ';'.
func (c *ChangeBuilder) AlterTable(spec schema.AlterTableSpec) (string, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	spec = c.filter(spec)
	v := c.variant(spec.Table, spec.Schema)
	dis := c.data.Disabled

	initial, err := v.initialSQL(&spec)
	if err != nil {
		return "", err
	}

	var body, renames, comments []string

	for _, item := range spec.Adds {
		clause, err := v.addColumn(item)
		if err != nil {
			return "", err
		}
		body = append(body, clause)
		if item.Comment != nil && *item.Comment != "" && !dis.Comments && !v.commentsInline() {
			stmt, err := v.setComment(item.ColumnName, *item.Comment)
			if err != nil {
				return "", err
			}
			comments = append(comments, stmt)
		}
	}

	for _, col := range spec.Drops {
		clause, err := v.dropColumn(col)
		if err != nil {
			return "", err
		}
		body = append(body, clause)
	}

	for _, group := range schema.GroupAlterations(spec.Alterations) {
		var (
			rest    []schema.SchemaItemChange
			rename  *schema.SchemaItemChange
			comment *schema.SchemaItemChange
		)
		for i := range group.Changes {
			ch := group.Changes[i]
			switch {
			case ch.ChangeType == schema.ChangeColumnName:
				rename = &ch
			case ch.ChangeType == schema.ChangeComment && !v.commentsInline():
				comment = &ch
			default:
				rest = append(rest, ch)
			}
		}

		if len(rest) > 0 {
			clauses, err := v.alterColumn(schema.ColumnChanges{Column: group.Column, Changes: rest})
			if err != nil {
				return "", err
			}
			body = append(body, clauses...)
		}

		// Comments run after renames, so they address the new name.
		target := group.Column
		if rename != nil {
			stmt, err := v.renameColumn(group.Column, rename.Text())
			if err != nil {
				return "", err
			}
			if stmt != "" {
				renames = append(renames, stmt)
			}
			target = rename.Text()
		}
		if comment != nil {
			stmt, err := v.setComment(target, comment.Text())
			if err != nil {
				return "", err
			}
			comments = append(comments, stmt)
		}
	}

	var reorder string
	if spec.Reorder != nil {
		if reorder, err = v.reorderColumns(*spec.Reorder); err != nil {
			return "", err
		}
	}

	end, err := v.endSQL(&spec)
	if err != nil {
		return "", err
	}

	fragments := []string{initial}
	if len(body) > 0 {
		if dis.Alter.MultiStatement {
			for _, clause := range body {
				fragments = append(fragments, v.alterStatement(clause))
			}
		} else {
			fragments = append(fragments, v.alterStatement(strings.Join(body, ", ")))
		}
	}
	fragments = append(fragments, renames...)
	fragments = append(fragments, comments...)
	fragments = append(fragments, reorder, end)

	return joinStatements(fragments), nil
}

// refuses reports whether d rejects a disabled column change with
// NotSupported instead of having it filtered. Redis cannot express any
// column change; SurrealDB fields have no order.
func refuses(d dialect.Dialect, reorder bool) bool {
	switch d {
	case dialect.Redis:
		return true
	case dialect.SurrealDB:
		return reorder
	}
	return false
}

// filter drops every change the dialect advertises as disabled, except the
// ones its variant refuses outright.
func (c *ChangeBuilder) filter(spec schema.AlterTableSpec) schema.AlterTableSpec {
	dis := c.data.Disabled
	d := c.data.Dialect
	if refuses(d, false) {
		return spec
	}

	if dis.Alter.AddColumn && len(spec.Adds) > 0 {
		slog.Debug("skipping column additions", "dialect", d, "table", spec.Table, "count", len(spec.Adds))
		spec.Adds = nil
	}
	if dis.Alter.DropColumn && len(spec.Drops) > 0 {
		slog.Debug("skipping column drops", "dialect", d, "table", spec.Table, "count", len(spec.Drops))
		spec.Drops = nil
	}
	if spec.Reorder != nil && dis.Alter.ReorderColumn && !refuses(d, true) {
		slog.Debug("skipping column reorder", "dialect", d, "table", spec.Table)
		spec.Reorder = nil
	}

	kept := spec.Alterations[:0:0]
	for _, ch := range spec.Alterations {
		var disabled bool
		switch ch.ChangeType {
		case schema.ChangeColumnName:
			disabled = dis.Alter.RenameColumn
		case schema.ChangeComment:
			disabled = dis.Comments
		case schema.ChangeNullable:
			disabled = dis.Alter.AlterColumn || dis.Nullable
		case schema.ChangeDefaultValue:
			disabled = dis.Alter.AlterColumn || dis.DefaultValue
		default:
			disabled = dis.Alter.AlterColumn
		}
		if disabled {
			slog.Debug("skipping column change", "dialect", d, "table", spec.Table,
				"column", ch.ColumnName, "change", ch.ChangeType)
			continue
		}
		kept = append(kept, ch)
	}
	spec.Alterations = kept
	return spec
}

// joinStatements trims separators from every fragment, drops empty ones and
// terminates the result with exactly one ';'.
func joinStatements(fragments []string) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		for strings.HasSuffix(f, ";") {
			f = strings.TrimSpace(strings.TrimSuffix(f, ";"))
		}
		if f != "" {
			parts = append(parts, f)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, ";\n") + ";"
}
