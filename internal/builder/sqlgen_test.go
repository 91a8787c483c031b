package builder_test

import (
	"strings"
	"testing"

	"dbkeeper/internal/builder"
	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func usersSchema() schema.Schema {
	return schema.Schema{
		Name:   "users",
		Schema: "public",
		Columns: []schema.SchemaItem{
			{ColumnName: "id", DataType: "integer", PrimaryKey: true},
			{ColumnName: "name", DataType: "text", Nullable: true, Comment: strPtr("Display")},
		},
	}
}

func TestGeneratorPostgres(t *testing.T) {
	out, err := builder.NewGenerator(dialect.Postgres).BuildSQL(usersSchema())
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE \"public\".\"users\" (\n"+
		"  \"id\" integer NOT NULL,\n"+
		"  \"name\" text NULL,\n"+
		"  PRIMARY KEY (\"id\")\n"+
		");\n"+
		"COMMENT ON COLUMN \"public\".\"users\".\"name\" IS 'Display';", out)
}

func TestGeneratorInlineComments(t *testing.T) {
	s := usersSchema()
	s.Schema = ""

	out, err := builder.NewGenerator(dialect.MySQL).BuildSQL(s)
	require.NoError(t, err)
	assert.Contains(t, out, "`name` text NULL COMMENT 'Display'")
	assert.Equal(t, 1, strings.Count(out, ";"))

	out, err = builder.NewGenerator(dialect.ClickHouse).BuildSQL(s)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE `users` (\n"+
		"  `id` integer,\n"+
		"  `name` Nullable(text) COMMENT 'Display'\n"+
		") ENGINE = MergeTree() ORDER BY (`id`);", out)

	out, err = builder.NewGenerator(dialect.BigQuery).BuildSQL(s)
	require.NoError(t, err)
	assert.Contains(t, out, "PRIMARY KEY (`id`) NOT ENFORCED")
	assert.Contains(t, out, "`id` integer NOT NULL")
}

func TestGeneratorSkipsDisabledComments(t *testing.T) {
	out, err := builder.NewGenerator(dialect.SQLite).BuildSQL(usersSchema())
	require.NoError(t, err)
	assert.NotContains(t, out, "COMMENT")
	assert.True(t, strings.HasSuffix(out, ");"))
}

func TestGeneratorNoSQL(t *testing.T) {
	s := schema.Schema{Name: "users", Columns: []schema.SchemaItem{{ColumnName: "id", DataType: "int"}}}

	out, err := builder.NewGenerator(dialect.SurrealDB).BuildSQL(s)
	require.NoError(t, err)
	assert.Equal(t, "DEFINE TABLE users SCHEMAFULL;\nDEFINE FIELD id ON TABLE users TYPE int;", out)

	_, err = builder.NewGenerator(dialect.Redis).BuildSQL(s)
	assert.True(t, dberr.IsNotSupported(err))
}

func TestGeneratorValidates(t *testing.T) {
	_, err := builder.NewGenerator(dialect.Postgres).BuildSQL(schema.Schema{Name: "empty"})
	assert.ErrorIs(t, err, dberr.ErrValidation)
}
