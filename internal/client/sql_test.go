package client_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"dbkeeper/internal/client"
	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const fixture = `
CREATE TABLE authors (id INTEGER PRIMARY KEY, name TEXT NOT NULL, country TEXT DEFAULT 'KR');
CREATE TABLE books (
    id INTEGER PRIMARY KEY,
    author_id INTEGER REFERENCES authors(id) ON DELETE CASCADE,
    title VARCHAR(200),
    cover BLOB
);
CREATE UNIQUE INDEX books_title ON books (title DESC);
CREATE VIEW book_titles AS SELECT title FROM books;
INSERT INTO authors (id, name) VALUES (1, 'Han'), (2, 'Kim'), (3, 'Lee');
INSERT INTO books (id, author_id, title, cover) VALUES (1, 1, 'A', x'0102'), (2, 1, 'B', NULL), (3, 2, 'C', NULL);
`

func openSQLite(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(fixture)
	require.NoError(t, err)
	return db
}

func newSQLite(t *testing.T) *client.SQLClient {
	return client.New(openSQLite(t), dialect.SQLite)
}

func TestCatalogListing(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)

	v, err := c.VersionString(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, v)

	tables, err := c.ListTables(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []client.TableOrView{
		{Name: "authors", Schema: "main", Entity: "table"},
		{Name: "books", Schema: "main", Entity: "table"},
	}, tables)

	views, err := c.ListViews(ctx, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "book_titles", views[0].Name)

	routines, err := c.ListRoutines(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, routines)

	schemas, err := c.ListSchemas(ctx)
	require.NoError(t, err)
	assert.Contains(t, schemas, "main")
}

func TestListTableColumns(t *testing.T) {
	cols, err := newSQLite(t).ListTableColumns(context.Background(), "authors", "")
	require.NoError(t, err)
	require.Len(t, cols, 3)

	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, 1, cols[0].Ordinal)
	assert.False(t, cols[1].Nullable)
	assert.Equal(t, "TEXT", cols[1].DataType)
	assert.True(t, cols[2].Nullable)
	require.NotNil(t, cols[2].DefaultValue)
	assert.Equal(t, "'KR'", *cols[2].DefaultValue)
	assert.Nil(t, cols[0].DefaultValue)
}

func TestListTableIndexesAndKeys(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)

	idx, err := c.ListTableIndexes(ctx, "books", "")
	require.NoError(t, err)
	require.Len(t, idx, 1)
	assert.Equal(t, "books_title", idx[0].Name)
	assert.True(t, idx[0].Unique)
	assert.Equal(t, []schema.IndexColumn{{Name: "title", Order: schema.Desc}}, idx[0].Columns)

	pks, err := c.GetPrimaryKeys(ctx, "books", "")
	require.NoError(t, err)
	assert.Equal(t, []client.PrimaryKey{{ColumnName: "id", Position: 1}}, pks)

	// relations are disabled for sqlite, so foreign keys are not reported
	keys, err := c.GetTableKeys(ctx, "books", "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	triggers, err := c.ListTableTriggers(ctx, "books", "")
	require.NoError(t, err)
	assert.Empty(t, triggers)
}

func TestSupportedFeatures(t *testing.T) {
	f := newSQLite(t).SupportedFeatures()
	assert.False(t, f.CustomRoutines)
	assert.False(t, f.Comments)
	assert.False(t, f.Properties)
	assert.True(t, f.Transactions)
	assert.False(t, f.EditPartitions)
}

func TestSelectTop(t *testing.T) {
	res, err := newSQLite(t).SelectTop(context.Background(), client.SelectOptions{
		Table:   "books",
		Columns: []string{"id", "title", "cover"},
		Limit:   2,
		Offset:  1,
		OrderBy: []client.OrderBy{{Field: "id"}},
	})
	require.NoError(t, err)
	require.Len(t, res.Fields, 3)
	assert.True(t, res.Fields[2].Binary)
	assert.Equal(t, [][]any{{int64(2), "B", nil}, {int64(3), "C", nil}}, res.Rows)
}

func TestSelectTopStream(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)
	res, err := c.SelectTopStream(ctx, client.StreamOptions{
		Table:     "authors",
		OrderBy:   []client.OrderBy{{Field: "id", Dir: "DESC"}},
		Filters:   client.StructuredFilters{{Field: "id", Type: "<", Value: 3}},
		ChunkSize: 1,
	})
	require.NoError(t, err)
	defer res.Cursor.Close(ctx)

	assert.EqualValues(t, 2, res.TotalRows)
	require.Len(t, res.Columns, 3)
	assert.Equal(t, "name", res.Columns[1].Name)

	var ids []any
	for {
		rows, err := res.Cursor.Read(ctx)
		require.NoError(t, err)
		if len(rows) == 0 {
			break
		}
		assert.Len(t, rows, 1)
		ids = append(ids, rows[0][0])
	}
	assert.Equal(t, []any{int64(2), int64(1)}, ids)
}

func TestSelectTopStreamPagesWithOffset(t *testing.T) {
	ctx := context.Background()
	// ClickHouse has no server cursor; its backtick quoting and LIMIT/OFFSET
	// pagination are understood by sqlite.
	c := client.New(openSQLite(t), dialect.ClickHouse)
	res, err := c.SelectTopStream(ctx, client.StreamOptions{
		Table:     "authors",
		Columns:   []string{"name"},
		OrderBy:   []client.OrderBy{{Field: "id"}},
		ChunkSize: 2,
	})
	require.NoError(t, err)
	defer res.Cursor.Close(ctx)

	assert.EqualValues(t, 3, res.TotalRows)
	require.Len(t, res.Columns, 1)

	first, err := res.Cursor.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Han"}, {"Kim"}}, first)
	second, err := res.Cursor.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Lee"}}, second)
	done, err := res.Cursor.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, done)
}

func TestQueryStream(t *testing.T) {
	ctx := context.Background()
	res, err := newSQLite(t).QueryStream(ctx, "SELECT name FROM authors ORDER BY id;", 10)
	require.NoError(t, err)
	defer res.Cursor.Close(ctx)

	assert.EqualValues(t, -1, res.TotalRows)
	rows, err := res.Cursor.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExecuteQuery(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)

	res, err := c.ExecuteQuery(ctx, "select count(*) as n from books")
	require.NoError(t, err)
	assert.Equal(t, "n", res.Fields[0].Name)
	assert.Equal(t, [][]any{{int64(3)}}, res.Rows)

	res, err = c.ExecuteQuery(ctx, "UPDATE books SET title = title || '!';")
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.RowsAffected)

	_, err = c.ExecuteQuery(ctx, "UPDATE nope SET x = 1")
	assert.ErrorIs(t, err, dberr.ErrExecution)
}

func TestApplyChanges(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)

	n, err := c.ApplyChanges(ctx, client.TableChanges{
		Inserts: []client.TableInsert{{Table: "authors", Data: []map[string]any{
			{"id": 10, "name": "Park"},
			{"id": 11, "name": "Choi", "country": "JP"},
		}}},
		Updates: []client.TableUpdate{{Table: "authors", PrimaryKeys: []client.PrimaryKeyValue{{Column: "id", Value: 1}}, Column: "name", Value: "Hong"}},
		Deletes: []client.TableDelete{{Table: "authors", PrimaryKeys: []client.PrimaryKeyValue{{Column: "id", Value: 3}}}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)

	res, err := c.SelectTop(ctx, client.SelectOptions{Table: "authors", Columns: []string{"name", "country"}, Limit: 10, OrderBy: []client.OrderBy{{Field: "id"}}})
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"Hong", "KR"}, {"Kim", "KR"}, {"Park", nil}, {"Choi", "JP"}}, res.Rows)
}

func TestApplyChangesRollsBack(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)

	_, err := c.ApplyChanges(ctx, client.TableChanges{
		Inserts: []client.TableInsert{{Table: "authors", Data: []map[string]any{{"id": 20, "name": "New"}}}},
		Updates: []client.TableUpdate{{Table: "authors", PrimaryKeys: []client.PrimaryKeyValue{{Column: "id", Value: 1}}, Column: "missing", Value: 1}},
	})
	require.ErrorIs(t, err, dberr.ErrExecution)

	res, err := c.ExecuteQuery(ctx, "SELECT COUNT(*) FROM authors WHERE id = 20")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(0)}}, res.Rows)
}

func TestApplyChangesSQL(t *testing.T) {
	script, err := newSQLite(t).ApplyChangesSQL(client.TableChanges{
		Updates: []client.TableUpdate{{Table: "authors", PrimaryKeys: []client.PrimaryKeyValue{{Column: "id", Value: 1}}, Column: "name", Value: "O'Neil"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "authors" SET "name" = 'O''Neil' WHERE "id" = 1;`, script)
}

func TestAlterTable(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)

	err := c.AlterTable(ctx, schema.AlterTableSpec{
		Table: "authors",
		Adds:  []schema.SchemaItem{{ColumnName: "born", DataType: "integer", Nullable: true}},
		Alterations: []schema.SchemaItemChange{
			{ColumnName: "country", ChangeType: schema.ChangeColumnName, NewValue: "nation"},
		},
	})
	require.NoError(t, err)

	cols, err := c.ListTableColumns(ctx, "authors", "")
	require.NoError(t, err)
	var names []string
	for _, col := range cols {
		names = append(names, col.Name)
	}
	assert.Equal(t, []string{"id", "name", "nation", "born"}, names)
}

func TestAlterIndexes(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)

	err := c.AlterIndexes(ctx, schema.IndexAlterations{
		Table:     "books",
		Drops:     []schema.DropIndexSpec{{Name: "books_title"}},
		Additions: []schema.CreateIndexSpec{{Name: "books_author", Columns: []schema.IndexColumn{{Name: "author_id"}}}},
	})
	require.NoError(t, err)

	idx, err := c.ListTableIndexes(ctx, "books", "")
	require.NoError(t, err)
	require.Len(t, idx, 1)
	assert.Equal(t, "books_author", idx[0].Name)
	assert.False(t, idx[0].Unique)
}

func TestGetTableCreateScript(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)

	script, err := c.GetTableCreateScript(ctx, "authors", "")
	require.NoError(t, err)
	assert.Contains(t, script, "CREATE TABLE authors")

	_, err = c.GetTableCreateScript(ctx, "ghost", "")
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}

func TestTruncateAndDuplicate(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)

	require.NoError(t, c.DuplicateTable(ctx, "authors", "authors_copy", ""))
	res, err := c.ExecuteQuery(ctx, "SELECT COUNT(*) FROM authors_copy")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(3)}}, res.Rows)

	require.NoError(t, c.TruncateElement(ctx, "authors_copy", ""))
	res, err = c.ExecuteQuery(ctx, "SELECT COUNT(*) FROM authors_copy")
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(0)}}, res.Rows)

	require.NoError(t, c.DropElement(ctx, "authors_copy", client.ElementTable, ""))
	tables, err := c.ListTables(ctx, "")
	require.NoError(t, err)
	assert.Len(t, tables, 2)

	assert.ErrorIs(t, c.DuplicateTable(ctx, "authors", "AUTHORS", ""), dberr.ErrValidation)
	assert.ErrorIs(t, c.DropElement(ctx, "x", client.ElementType("INDEX"), ""), dberr.ErrValidation)
}

func TestUnsupportedMutations(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)
	assert.True(t, dberr.IsNotSupported(c.SetTableDescription(ctx, "authors", "people", "")))

	surreal := client.New(openSQLite(t), dialect.SurrealDB)
	assert.True(t, dberr.IsNotSupported(surreal.TruncateElement(ctx, "authors", "")))
	assert.True(t, dberr.IsNotSupported(surreal.DuplicateTable(ctx, "authors", "copy", "")))
}

func TestDuplicateTableSQL(t *testing.T) {
	pg := client.New(nil, dialect.Postgres)
	script, err := pg.DuplicateTableSQL("users", "users_copy", "public")
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "public"."users_copy" (LIKE "public"."users" INCLUDING ALL);`+"\n"+
		`INSERT INTO "public"."users_copy" SELECT * FROM "public"."users";`, script)

	ms := client.New(nil, dialect.SQLServer)
	script, err = ms.DuplicateTableSQL("users", "users_copy", "dbo")
	require.NoError(t, err)
	assert.Equal(t, `SELECT * INTO [dbo].[users_copy] FROM [dbo].[users];`, script)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := client.Open(context.Background(), client.Config{Dialect: dialect.Redis, DSN: "redis://localhost"})
	assert.True(t, dberr.IsNotSupported(err))
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	c, err := client.Open(ctx, client.Config{Dialect: dialect.SQLite, DSN: filepath.Join(t.TempDir(), "open.db"), ChunkSize: 50})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, dialect.SQLite, c.Dialect())
	s, err := c.DefaultSchema(ctx)
	require.NoError(t, err)
	assert.Empty(t, s)
}

func TestCreateTable(t *testing.T) {
	ctx := context.Background()
	c := newSQLite(t)
	def := "0"
	spec := schema.Schema{Name: "tags", Columns: []schema.SchemaItem{
		{ColumnName: "id", DataType: "INTEGER", PrimaryKey: true},
		{ColumnName: "label", DataType: "TEXT", Nullable: true},
		{ColumnName: "uses", DataType: "INTEGER", DefaultValue: &def},
	}}
	script, err := c.CreateTableSQL(spec)
	require.NoError(t, err)
	assert.Contains(t, script, `CREATE TABLE "tags"`)

	require.NoError(t, c.CreateTable(ctx, spec))
	cols, err := c.ListTableColumns(ctx, "tags", "")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "label", cols[1].Name)

	assert.ErrorIs(t, c.CreateTable(ctx, schema.Schema{Name: "empty"}), dberr.ErrValidation)
}
