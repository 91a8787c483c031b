package client_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"dbkeeper/internal/client"
	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T, d dialect.Dialect, opts ...client.Option) (*client.SQLClient, sqlmock.Sqlmock) {
	t.Helper()
	db, mk, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mk.ExpectationsWereMet())
		db.Close()
	})
	return client.New(db, d, opts...), mk
}

func TestPostgresDefaultSchema(t *testing.T) {
	c, mk := newMock(t, dialect.Postgres)
	mk.ExpectQuery(`SELECT current_schema\(\)`).
		WillReturnRows(sqlmock.NewRows([]string{"current_schema"}).AddRow("app"))
	mk.ExpectQuery(`FROM information_schema.tables WHERE table_schema = \$1`).
		WithArgs("app").
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name"}).AddRow("app", "orders"))

	tables, err := c.ListTables(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []client.TableOrView{{Name: "orders", Schema: "app", Entity: "table"}}, tables)
}

func TestConfiguredSchemaSkipsLookup(t *testing.T) {
	c, mk := newMock(t, dialect.Postgres, client.WithSchema("billing"))
	mk.ExpectQuery(`FROM information_schema.views`).
		WithArgs("billing").
		WillReturnRows(sqlmock.NewRows([]string{"table_schema", "table_name"}))

	views, err := c.ListViews(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.NotNil(t, views)
}

func TestPostgresColumnsAndIndexes(t *testing.T) {
	ctx := context.Background()
	c, mk := newMock(t, dialect.Postgres)

	mk.ExpectQuery(`FROM information_schema.columns c`).
		WithArgs("public", "users").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default", "ordinal_position", "comment"}).
			AddRow("id", "integer", "NO", "nextval('users_id_seq'::regclass)", 1, nil).
			AddRow("email", "character varying(255)", "YES", nil, 2, "login"))
	cols, err := c.ListTableColumns(ctx, "users", "public")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.False(t, cols[0].Nullable)
	assert.Equal(t, "nextval('users_id_seq'::regclass)", *cols[0].DefaultValue)
	assert.Equal(t, "character varying(255)", cols[1].DataType)
	assert.Equal(t, "login", *cols[1].Comment)

	mk.ExpectQuery(`FROM pg_index ix`).
		WithArgs("public", "users").
		WillReturnRows(sqlmock.NewRows([]string{"relname", "unique", "primary", "attname", "order"}).
			AddRow("users_pkey", 1, 1, "id", "ASC").
			AddRow("users_name_idx", 0, 0, "last", "ASC").
			AddRow("users_name_idx", 0, 0, "first", "DESC"))
	idx, err := c.ListTableIndexes(ctx, "users", "public")
	require.NoError(t, err)
	require.Len(t, idx, 2)
	assert.True(t, idx[0].Primary)
	assert.Equal(t, []schema.IndexColumn{{Name: "last", Order: schema.Asc}, {Name: "first", Order: schema.Desc}}, idx[1].Columns)
}

func TestSQLServerForeignKeyRules(t *testing.T) {
	c, mk := newMock(t, dialect.SQLServer)
	mk.ExpectQuery(`FROM sys.foreign_keys`).
		WithArgs("dbo", "orders").
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}).
			AddRow("fk_orders_users", "dbo", "orders", "user_id", "dbo", "users", "id", "NO_ACTION", "SET_NULL"))

	keys, err := c.GetTableKeys(context.Background(), "orders", "dbo")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, "NO ACTION", keys[0].OnUpdate)
	assert.Equal(t, "SET NULL", keys[0].OnDelete)
	assert.Equal(t, "users", keys[0].ToTable)
}

func TestDisabledCapabilitiesReturnEmpty(t *testing.T) {
	ctx := context.Background()
	c, _ := newMock(t, dialect.ClickHouse, client.WithSchema("default"))

	idx, err := c.ListTableIndexes(ctx, "events", "")
	require.NoError(t, err)
	assert.Empty(t, idx)

	keys, err := c.GetTableKeys(ctx, "events", "")
	require.NoError(t, err)
	assert.Empty(t, keys)

	triggers, err := c.ListTableTriggers(ctx, "events", "")
	require.NoError(t, err)
	assert.Empty(t, triggers)
}

func TestSetTableDescription(t *testing.T) {
	c, mk := newMock(t, dialect.Postgres)
	mk.ExpectBegin()
	mk.ExpectExec(`COMMENT ON TABLE "public"."users" IS 'people''s table'`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mk.ExpectCommit()

	require.NoError(t, c.SetTableDescription(context.Background(), "users", "people's table", "public"))
}

func TestSQLServerAlterRunsAsOneBatch(t *testing.T) {
	c, mk := newMock(t, dialect.SQLServer)
	mk.ExpectBegin()
	mk.ExpectExec(`(?s)ALTER TABLE \[dbo\]\.\[users\] ADD \[age\] int NULL.*DROP COLUMN \[nick\]`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mk.ExpectCommit()

	err := c.AlterTable(context.Background(), schema.AlterTableSpec{
		Table:  "users",
		Schema: "dbo",
		Adds:   []schema.SchemaItem{{ColumnName: "age", DataType: "int", Nullable: true}},
		Drops:  []string{"nick"},
	})
	require.NoError(t, err)
}

func TestExecutionErrorCarriesSQLState(t *testing.T) {
	c, mk := newMock(t, dialect.Postgres)
	mk.ExpectQuery(`SELECT version\(\)`).
		WillReturnError(&pgconn.PgError{Code: "42501", Message: "permission denied"})

	_, err := c.VersionString(context.Background())
	require.ErrorIs(t, err, dberr.ErrExecution)

	var e *dberr.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "42501", e.Context()["sqlstate"])
}

func TestApplyChangesWithoutTransactions(t *testing.T) {
	c, mk := newMock(t, dialect.ClickHouse)
	mk.ExpectExec("INSERT INTO `events` \\(`id`\\) VALUES \\(\\?\\)").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mk.ExpectExec("INSERT INTO `events` \\(`id`\\) VALUES \\(\\?\\)").
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := c.ApplyChanges(context.Background(), client.TableChanges{
		Inserts: []client.TableInsert{{Table: "events", Data: []map[string]any{{"id": 1}, {"id": 2}}}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestSemicolonInLiteralStaysOneStatement(t *testing.T) {
	c, mk := newMock(t, dialect.Postgres)
	mk.ExpectBegin()
	mk.ExpectExec(regexp.QuoteMeta(`COMMENT ON TABLE "app"."t;x" IS 'first;` + "\n" + `second'`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mk.ExpectCommit()

	require.NoError(t, c.SetTableDescription(context.Background(), "t;x", "first;\nsecond", "app"))
}

func TestMySQLCommentWithSemicolon(t *testing.T) {
	c, mk := newMock(t, dialect.MySQL)
	mk.ExpectBegin()
	mk.ExpectExec(regexp.QuoteMeta("ALTER TABLE `shop`.`orders` COMMENT = 'a;b'")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mk.ExpectCommit()

	require.NoError(t, c.SetTableDescription(context.Background(), "orders", "a;b", "shop"))
}
