package client

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"dbkeeper/internal/builder"
	"dbkeeper/internal/cursor"
	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"
)

// SQLClient implements Client over any database/sql handle.
type SQLClient struct {
	db        *sql.DB
	data      *dialect.Data
	cat       catalog
	schema    string
	chunkSize int
}

var _ Client = (*SQLClient)(nil)

type Option func(*SQLClient)

// WithSchema overrides the schema used when a call passes none.
func WithSchema(s string) Option {
	return func(c *SQLClient) { c.schema = s }
}

// WithChunkSize sets the default chunk size of streams.
func WithChunkSize(n int) Option {
	return func(c *SQLClient) {
		if n > 0 {
			c.chunkSize = n
		}
	}
}

// New wraps an open handle. The caller keeps ownership of driver
// registration; Close closes db.
func New(db *sql.DB, d dialect.Dialect, opts ...Option) *SQLClient {
	data := dialect.Get(d)
	c := &SQLClient{db: db, data: data, cat: catalogFor(data), chunkSize: cursor.DefaultChunkSize}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *SQLClient) Dialect() dialect.Dialect { return c.data.Dialect }

// DB exposes the underlying handle.
func (c *SQLClient) DB() *sql.DB { return c.db }

func (c *SQLClient) Close() error { return c.db.Close() }

func (c *SQLClient) VersionString(ctx context.Context) (string, error) {
	q := c.cat.VersionQuery()
	if q == "" {
		return "", nil
	}
	var v sql.NullString
	if err := c.db.QueryRowContext(ctx, q).Scan(&v); err != nil {
		return "", execError(q, err)
	}
	return v.String, nil
}

func (c *SQLClient) DefaultSchema(ctx context.Context) (string, error) {
	if c.schema != "" {
		return c.schema, nil
	}
	if q := c.cat.DefaultSchemaQuery(); q != "" {
		var s sql.NullString
		if err := c.db.QueryRowContext(ctx, q).Scan(&s); err != nil {
			return "", execError(q, err)
		}
		if s.String != "" {
			return s.String, nil
		}
	}
	return c.data.DefaultSchema, nil
}

func (c *SQLClient) resolveSchema(ctx context.Context, s string) (string, error) {
	if s != "" {
		return s, nil
	}
	return c.DefaultSchema(ctx)
}

func (c *SQLClient) SupportedFeatures() Features {
	off := c.data.Disabled
	routines, _ := c.cat.GetRoutinesQuery("")
	return Features{
		CustomRoutines:        routines != "",
		Comments:              !off.Comments,
		Properties:            !off.Alter.AlterColumn,
		Partitions:            !off.Partitions,
		EditPartitions:        c.data.Dialect == dialect.Postgres,
		Backups:               !off.Backups,
		Transactions:          !off.Transactions,
		IndexNullsNotDistinct: c.data.Dialect == dialect.Postgres,
	}
}

// query runs q and calls scan for every row. An empty q yields nothing.
func (c *SQLClient) query(ctx context.Context, q string, args []any, scan func(*sql.Rows) error) error {
	if q == "" {
		return nil
	}
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return execError(q, err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan catalog row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return execError(q, err)
	}
	return nil
}

func (c *SQLClient) listEntities(ctx context.Context, q string, args []any, entity string) ([]TableOrView, error) {
	out := []TableOrView{}
	err := c.query(ctx, q, args, func(rows *sql.Rows) error {
		var s, n sql.NullString
		if err := rows.Scan(&s, &n); err != nil {
			return err
		}
		out = append(out, TableOrView{Name: n.String, Schema: s.String, Entity: entity})
		return nil
	})
	return out, err
}

func (c *SQLClient) ListTables(ctx context.Context, schemaName string) ([]TableOrView, error) {
	s, err := c.resolveSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	q, a := c.cat.GetTablesQuery(s)
	return c.listEntities(ctx, q, a, "table")
}

func (c *SQLClient) ListViews(ctx context.Context, schemaName string) ([]TableOrView, error) {
	s, err := c.resolveSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	q, a := c.cat.GetViewsQuery(s)
	return c.listEntities(ctx, q, a, "view")
}

func (c *SQLClient) ListRoutines(ctx context.Context, schemaName string) ([]Routine, error) {
	s, err := c.resolveSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	q, a := c.cat.GetRoutinesQuery(s)
	out := []Routine{}
	err = c.query(ctx, q, a, func(rows *sql.Rows) error {
		var sc, n, t, r sql.NullString
		if err := rows.Scan(&sc, &n, &t, &r); err != nil {
			return err
		}
		out = append(out, Routine{Name: n.String, Schema: sc.String, Type: strings.ToLower(t.String), ReturnType: r.String})
		return nil
	})
	return out, err
}

func (c *SQLClient) ListTableColumns(ctx context.Context, table, schemaName string) ([]TableColumn, error) {
	s, err := c.resolveSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	q, a := c.cat.GetColumnsQuery(s, table)
	out := []TableColumn{}
	err = c.query(ctx, q, a, func(rows *sql.Rows) error {
		var (
			name, typ, nullable, def, comment sql.NullString
			ordinal                           sql.NullInt64
		)
		if err := rows.Scan(&name, &typ, &nullable, &def, &ordinal, &comment); err != nil {
			return err
		}
		col := TableColumn{
			Table:    table,
			Schema:   s,
			Name:     name.String,
			DataType: typ.String,
			Nullable: isYes(nullable.String),
			Ordinal:  int(ordinal.Int64),
		}
		if def.Valid {
			v := strings.TrimSpace(def.String)
			col.DefaultValue = &v
		}
		if comment.Valid {
			v := comment.String
			col.Comment = &v
		}
		out = append(out, col)
		return nil
	})
	return out, err
}

func isYes(s string) bool {
	return strings.EqualFold(s, "YES") || strings.EqualFold(s, "Y")
}

func (c *SQLClient) ListTableIndexes(ctx context.Context, table, schemaName string) ([]TableIndex, error) {
	if c.data.Disabled.CreateIndex {
		return []TableIndex{}, nil
	}
	s, err := c.resolveSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	q, a := c.cat.GetIndexesQuery(s, table)
	out := []TableIndex{}
	byName := make(map[string]int)
	err = c.query(ctx, q, a, func(rows *sql.Rows) error {
		var (
			name, column, order sql.NullString
			unique, primary     sql.NullInt64
		)
		if err := rows.Scan(&name, &unique, &primary, &column, &order); err != nil {
			return err
		}
		i, ok := byName[name.String]
		if !ok {
			i = len(out)
			byName[name.String] = i
			out = append(out, TableIndex{
				Name:    name.String,
				Table:   table,
				Schema:  s,
				Unique:  unique.Int64 == 1,
				Primary: primary.Int64 == 1,
			})
		}
		if column.Valid {
			o := schema.Asc
			if strings.EqualFold(order.String, "DESC") {
				o = schema.Desc
			}
			out[i].Columns = append(out[i].Columns, schema.IndexColumn{Name: column.String, Order: o})
		}
		return nil
	})
	return out, err
}

func (c *SQLClient) ListTableTriggers(ctx context.Context, table, schemaName string) ([]TableTrigger, error) {
	if c.data.Disabled.Triggers {
		return []TableTrigger{}, nil
	}
	s, err := c.resolveSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	q, a := c.cat.GetTriggersQuery(s, table)
	out := []TableTrigger{}
	err = c.query(ctx, q, a, func(rows *sql.Rows) error {
		var name, timing, event, action sql.NullString
		if err := rows.Scan(&name, &timing, &event, &action); err != nil {
			return err
		}
		out = append(out, TableTrigger{
			Name:   name.String,
			Table:  table,
			Schema: s,
			Timing: timing.String,
			Event:  event.String,
			Action: action.String,
		})
		return nil
	})
	return out, err
}

func (c *SQLClient) GetTableKeys(ctx context.Context, table, schemaName string) ([]TableKey, error) {
	if c.data.Disabled.Relations {
		return []TableKey{}, nil
	}
	s, err := c.resolveSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	q, a := c.cat.GetForeignKeysQuery(s, table)
	out := []TableKey{}
	err = c.query(ctx, q, a, func(rows *sql.Rows) error {
		var f [9]sql.NullString
		if err := rows.Scan(&f[0], &f[1], &f[2], &f[3], &f[4], &f[5], &f[6], &f[7], &f[8]); err != nil {
			return err
		}
		out = append(out, TableKey{
			ConstraintName: f[0].String,
			FromSchema:     f[1].String,
			FromTable:      f[2].String,
			FromColumn:     f[3].String,
			ToSchema:       f[4].String,
			ToTable:        f[5].String,
			ToColumn:       f[6].String,
			OnUpdate:       strings.ReplaceAll(f[7].String, "_", " "),
			OnDelete:       strings.ReplaceAll(f[8].String, "_", " "),
		})
		return nil
	})
	return out, err
}

func (c *SQLClient) GetPrimaryKeys(ctx context.Context, table, schemaName string) ([]PrimaryKey, error) {
	s, err := c.resolveSchema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	q, a := c.cat.GetPrimaryKeysQuery(s, table)
	out := []PrimaryKey{}
	err = c.query(ctx, q, a, func(rows *sql.Rows) error {
		var (
			name sql.NullString
			pos  sql.NullInt64
		)
		if err := rows.Scan(&name, &pos); err != nil {
			return err
		}
		out = append(out, PrimaryKey{ColumnName: name.String, Position: int(pos.Int64)})
		return nil
	})
	return out, err
}

func (c *SQLClient) listNames(ctx context.Context, q string) ([]string, error) {
	out := []string{}
	err := c.query(ctx, q, nil, func(rows *sql.Rows) error {
		var n sql.NullString
		if err := rows.Scan(&n); err != nil {
			return err
		}
		out = append(out, n.String)
		return nil
	})
	return out, err
}

func (c *SQLClient) ListSchemas(ctx context.Context) ([]string, error) {
	return c.listNames(ctx, c.cat.GetSchemasQuery())
}

func (c *SQLClient) ListDatabases(ctx context.Context) ([]string, error) {
	return c.listNames(ctx, c.cat.GetDatabasesQuery())
}

// GetTableCreateScript prefers the backend's own DDL and otherwise rebuilds
// CREATE TABLE from the introspected columns.
func (c *SQLClient) GetTableCreateScript(ctx context.Context, table, schemaName string) (string, error) {
	s, err := c.resolveSchema(ctx, schemaName)
	if err != nil {
		return "", err
	}
	if q, a := c.cat.GetCreateScriptQuery(s, table); q != "" {
		var script string
		err := c.query(ctx, q, a, func(rows *sql.Rows) error {
			cols, err := rows.Columns()
			if err != nil {
				return err
			}
			vals := make([]sql.NullString, len(cols))
			ptrs := make([]any, len(cols))
			for i := range vals {
				ptrs[i] = &vals[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return err
			}
			script = vals[len(vals)-1].String
			return nil
		})
		if err != nil {
			return "", err
		}
		if script == "" {
			return "", dberr.NotFound("table", table)
		}
		return script, nil
	}

	cols, err := c.ListTableColumns(ctx, table, s)
	if err != nil {
		return "", err
	}
	if len(cols) == 0 {
		return "", dberr.NotFound("table", table)
	}
	pks, err := c.GetPrimaryKeys(ctx, table, s)
	if err != nil {
		return "", err
	}
	isPK := make(map[string]bool, len(pks))
	for _, pk := range pks {
		isPK[pk.ColumnName] = true
	}
	spec := schema.Schema{Name: table, Schema: s}
	for _, col := range cols {
		item := col.SchemaItem()
		item.PrimaryKey = isPK[col.Name]
		spec.Columns = append(spec.Columns, item)
	}
	return builder.NewGenerator(c.data.Dialect).BuildSQL(spec)
}

func (c *SQLClient) SelectTopSQL(opts SelectOptions) (string, []any, error) {
	if opts.Schema == "" {
		opts.Schema = c.schema
	}
	return buildSelect(c.data, opts, true)
}

func (c *SQLClient) SelectTop(ctx context.Context, opts SelectOptions) (*SelectResult, error) {
	q, a, err := c.SelectTopSQL(opts)
	if err != nil {
		return nil, err
	}
	fields, rows, err := c.queryAll(ctx, q, a)
	if err != nil {
		return nil, err
	}
	return &SelectResult{Fields: fields, Rows: rows}, nil
}

// queryAll buffers a whole result, turning text columns into strings.
func (c *SQLClient) queryAll(ctx context.Context, q string, args []any) ([]cursor.Column, [][]any, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, nil, execError(q, err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, nil, fmt.Errorf("result columns: %w", err)
	}
	fields := make([]cursor.Column, len(types))
	for i, t := range types {
		fields[i] = cursor.Column{Name: t.Name(), DatabaseType: t.DatabaseTypeName(), Binary: cursor.IsBinaryType(t.DatabaseTypeName())}
	}

	out := [][]any{}
	for rows.Next() {
		values := make([]any, len(fields))
		ptrs := make([]any, len(fields))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok && !fields[i].Binary {
				values[i] = string(b)
			}
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, execError(q, err)
	}
	return fields, out, nil
}

// SelectTopStream counts the matching rows and returns a started cursor.
// Backends without server cursors are paged with LIMIT/OFFSET.
func (c *SQLClient) SelectTopStream(ctx context.Context, opts StreamOptions) (*StreamResult, error) {
	if opts.Schema == "" {
		opts.Schema = c.schema
	}
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = c.chunkSize
	}

	cq, ca, err := buildCount(c.data, opts.Table, opts.Schema, opts.Filters)
	if err != nil {
		return nil, err
	}
	var total int64
	if err := c.db.QueryRowContext(ctx, cq, ca...).Scan(&total); err != nil {
		return nil, execError(cq, err)
	}

	sel := SelectOptions{
		Table:   opts.Table,
		Schema:  opts.Schema,
		Columns: opts.Columns,
		OrderBy: opts.OrderBy,
		Filters: opts.Filters,
	}

	if c.data.UsesOffsetPagination {
		sel.Limit = 1
		first, err := c.SelectTop(ctx, sel)
		if err != nil {
			return nil, err
		}
		fetch := func(ctx context.Context, offset, limit int) ([][]any, error) {
			page := sel
			page.Offset, page.Limit = offset, limit
			res, err := c.SelectTop(ctx, page)
			if err != nil {
				return nil, err
			}
			return res.Rows, nil
		}
		cur := cursor.NewPage(chunk, fetch, nil)
		if err := cur.Start(ctx); err != nil {
			return nil, err
		}
		return &StreamResult{TotalRows: total, Columns: first.Fields, Cursor: cur}, nil
	}

	q, a, err := buildSelect(c.data, sel, false)
	if err != nil {
		return nil, err
	}
	return c.stream(ctx, q, a, chunk, total)
}

// QueryStream streams an arbitrary query; its row count is unknown.
func (c *SQLClient) QueryStream(ctx context.Context, query string, chunkSize int) (*StreamResult, error) {
	if chunkSize <= 0 {
		chunkSize = c.chunkSize
	}
	return c.stream(ctx, strings.TrimRight(strings.TrimSpace(query), ";"), nil, chunkSize, -1)
}

func (c *SQLClient) stream(ctx context.Context, q string, a []any, chunk int, total int64) (*StreamResult, error) {
	cur := cursor.NewRows(c.db, q, cursor.RowsOptions{
		ChunkSize: chunk,
		Args:      a,
		Canceller: cursor.CancellerFor(c.data.Dialect),
	})
	if err := cur.Start(ctx); err != nil {
		return nil, err
	}
	return &StreamResult{TotalRows: total, Columns: cur.Columns(), Cursor: cur}, nil
}

var rowReturning = []string{"SELECT", "WITH", "SHOW", "PRAGMA", "EXPLAIN", "VALUES", "DESCRIBE", "DESC ", "TABLE "}

// ExecuteQuery runs one statement typed by a user.
func (c *SQLClient) ExecuteQuery(ctx context.Context, query string) (*QueryResult, error) {
	q := strings.TrimRight(strings.TrimSpace(query), ";")
	upper := strings.ToUpper(q)
	for _, p := range rowReturning {
		if strings.HasPrefix(upper, p) {
			fields, rows, err := c.queryAll(ctx, q, nil)
			if err != nil {
				return nil, err
			}
			return &QueryResult{Fields: fields, Rows: rows}, nil
		}
	}

	res, err := c.db.ExecContext(ctx, q)
	if err != nil {
		return nil, execError(q, err)
	}
	n, _ := res.RowsAffected()
	return &QueryResult{Fields: []cursor.Column{}, Rows: [][]any{}, RowsAffected: n}, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// inTx runs fn inside a transaction when the backend supports them.
func (c *SQLClient) inTx(ctx context.Context, fn func(execer) error) error {
	if c.data.Disabled.Transactions {
		return fn(c.db)
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (c *SQLClient) ApplyChangesSQL(changes TableChanges) (string, error) {
	sts, err := buildChanges(c.data, c.withSchema(changes), true)
	if err != nil {
		return "", err
	}
	return joinSQL(sts), nil
}

// ApplyChanges runs inserts, then updates, then deletes and returns the
// number of affected rows.
func (c *SQLClient) ApplyChanges(ctx context.Context, changes TableChanges) (int64, error) {
	sts, err := buildChanges(c.data, c.withSchema(changes), false)
	if err != nil {
		return 0, err
	}
	var affected int64
	err = c.inTx(ctx, func(ex execer) error {
		for _, st := range sts {
			res, err := ex.ExecContext(ctx, st.sql, st.args...)
			if err != nil {
				return execError(st.sql, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				affected += n
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

func (c *SQLClient) withSchema(changes TableChanges) TableChanges {
	if c.schema == "" {
		return changes
	}
	out := TableChanges{
		Inserts: append([]TableInsert(nil), changes.Inserts...),
		Updates: append([]TableUpdate(nil), changes.Updates...),
		Deletes: append([]TableDelete(nil), changes.Deletes...),
	}
	for i := range out.Inserts {
		if out.Inserts[i].Schema == "" {
			out.Inserts[i].Schema = c.schema
		}
	}
	for i := range out.Updates {
		if out.Updates[i].Schema == "" {
			out.Updates[i].Schema = c.schema
		}
	}
	for i := range out.Deletes {
		if out.Deletes[i].Schema == "" {
			out.Deletes[i].Schema = c.schema
		}
	}
	return out
}

// execScript runs builder output. SQL Server keeps the whole batch so its
// DECLARE'd variables stay in scope; other backends get one Exec per
// statement.
func (c *SQLClient) execScript(ctx context.Context, script string) error {
	if script == "" {
		return nil
	}
	statements := []string{script}
	if c.data.Dialect != dialect.SQLServer {
		statements = c.data.SplitScript(script)
	}
	return c.inTx(ctx, func(ex execer) error {
		for _, st := range statements {
			if _, err := ex.ExecContext(ctx, st); err != nil {
				return execError(st, err)
			}
		}
		return nil
	})
}

// AlterTableSQL loads the current columns so MODIFY-style dialects can
// restate full definitions, then builds the ALTER script.
func (c *SQLClient) AlterTableSQL(ctx context.Context, spec schema.AlterTableSpec) (string, error) {
	var opts []builder.Option
	if len(spec.Alterations) > 0 || spec.Reorder != nil {
		cols, err := c.ListTableColumns(ctx, spec.Table, spec.Schema)
		if err != nil {
			slog.Warn("could not load existing columns", "table", spec.Table, "error", err)
		} else {
			items := make([]schema.SchemaItem, len(cols))
			for i, col := range cols {
				items[i] = col.SchemaItem()
			}
			opts = append(opts, builder.WithExistingColumns(items))
		}
	}
	return builder.New(c.data.Dialect, opts...).AlterTable(spec)
}

func (c *SQLClient) AlterTable(ctx context.Context, spec schema.AlterTableSpec) error {
	script, err := c.AlterTableSQL(ctx, spec)
	if err != nil {
		return err
	}
	return c.execScript(ctx, script)
}

func (c *SQLClient) AlterIndexes(ctx context.Context, a schema.IndexAlterations) error {
	script, err := builder.New(c.data.Dialect).AlterIndexes(a)
	if err != nil {
		return err
	}
	return c.execScript(ctx, script)
}

func (c *SQLClient) AlterRelations(ctx context.Context, a schema.RelationAlterations) error {
	script, err := builder.New(c.data.Dialect).AlterRelations(a)
	if err != nil {
		return err
	}
	return c.execScript(ctx, script)
}

func (c *SQLClient) AlterPartitions(ctx context.Context, a schema.AlterPartitionsSpec) error {
	script, err := builder.New(c.data.Dialect).AlterPartitions(a)
	if err != nil {
		return err
	}
	return c.execScript(ctx, script)
}

func (c *SQLClient) DropElement(ctx context.Context, name string, kind ElementType, schemaName string) error {
	if name == "" {
		return dberr.Validation("drop needs a name")
	}
	var target string
	switch kind {
	case ElementTable, ElementView, ElementMaterializedView, ElementFunction, ElementProcedure:
		target = c.data.QualifiedName(name, schemaName)
	case ElementSchema, ElementDatabase:
		target = c.data.WrapIdentifier(name)
	default:
		return dberr.Validation("unknown element type %q", kind)
	}
	if kind == ElementMaterializedView && c.data.Dialect != dialect.Postgres {
		return dberr.NotSupported(c.data.Dialect.String(), "materialized views")
	}
	return c.execScript(ctx, fmt.Sprintf("DROP %s %s;", kind, target))
}

func (c *SQLClient) TruncateElement(ctx context.Context, table, schemaName string) error {
	if c.data.Disabled.TruncateElement {
		return dberr.NotSupported(c.data.Dialect.String(), "truncate")
	}
	q := c.data.QualifiedName(table, schemaName)
	if c.data.Dialect == dialect.SQLite {
		return c.execScript(ctx, "DELETE FROM "+q+";")
	}
	return c.execScript(ctx, "TRUNCATE TABLE "+q+";")
}

// DuplicateTableSQL copies structure and rows of table into newName.
func (c *SQLClient) DuplicateTableSQL(table, newName, schemaName string) (string, error) {
	if c.data.Disabled.DuplicateTable {
		return "", dberr.NotSupported(c.data.Dialect.String(), "duplicate table")
	}
	if newName == "" || strings.EqualFold(newName, table) {
		return "", dberr.Validation("duplicate of %s needs a new name", table)
	}
	from := c.data.QualifiedName(table, schemaName)
	to := c.data.QualifiedName(newName, schemaName)
	switch c.data.Dialect {
	case dialect.Postgres, dialect.CockroachDB, dialect.Redshift:
		return fmt.Sprintf("CREATE TABLE %s (LIKE %s INCLUDING ALL);\nINSERT INTO %s SELECT * FROM %s;", to, from, to, from), nil
	case dialect.MySQL, dialect.MariaDB:
		return fmt.Sprintf("CREATE TABLE %s LIKE %s;\nINSERT INTO %s SELECT * FROM %s;", to, from, to, from), nil
	case dialect.SQLServer:
		return fmt.Sprintf("SELECT * INTO %s FROM %s;", to, from), nil
	}
	return fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM %s;", to, from), nil
}

func (c *SQLClient) DuplicateTable(ctx context.Context, table, newName, schemaName string) error {
	script, err := c.DuplicateTableSQL(table, newName, schemaName)
	if err != nil {
		return err
	}
	return c.execScript(ctx, script)
}

// CreateTableSQL renders the CREATE TABLE script for s, defaulting its
// schema to the client's.
func (c *SQLClient) CreateTableSQL(s schema.Schema) (string, error) {
	if s.Schema == "" {
		s.Schema = c.schema
	}
	return builder.NewGenerator(c.data.Dialect).BuildSQL(s)
}

func (c *SQLClient) CreateTable(ctx context.Context, s schema.Schema) error {
	script, err := c.CreateTableSQL(s)
	if err != nil {
		return err
	}
	return c.execScript(ctx, script)
}

func (c *SQLClient) SetTableDescription(ctx context.Context, table, description, schemaName string) error {
	if c.data.Disabled.Comments {
		return dberr.NotSupported(c.data.Dialect.String(), "table comments")
	}
	q := c.data.QualifiedName(table, schemaName)
	lit := c.data.EscapeString(description, true)
	switch c.data.Dialect {
	case dialect.MySQL, dialect.MariaDB:
		return c.execScript(ctx, fmt.Sprintf("ALTER TABLE %s COMMENT = %s;", q, lit))
	case dialect.Postgres, dialect.CockroachDB, dialect.Redshift, dialect.Oracle:
		return c.execScript(ctx, fmt.Sprintf("COMMENT ON TABLE %s IS %s;", q, lit))
	}
	return dberr.NotSupported(c.data.Dialect.String(), "table comments")
}
