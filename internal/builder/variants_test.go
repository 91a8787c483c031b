package builder

import (
	"testing"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/schema"

	"github.com/stretchr/testify/assert"
)

func TestRedisOpsRejectEverything(t *testing.T) {
	v := New(dialect.Redis).variant("session", "")

	_, err := v.addColumn(schema.SchemaItem{ColumnName: "a", DataType: "string"})
	assert.True(t, dberr.IsNotSupported(err))
	_, err = v.dropColumn("a")
	assert.True(t, dberr.IsNotSupported(err))
	_, err = v.alterColumn(schema.ColumnChanges{Column: "a"})
	assert.True(t, dberr.IsNotSupported(err))
	_, err = v.renameColumn("a", "b")
	assert.True(t, dberr.IsNotSupported(err))
	_, err = v.setComment("a", "x")
	assert.True(t, dberr.IsNotSupported(err))
	_, err = v.reorderColumns(schema.ColumnReorder{})
	assert.True(t, dberr.IsNotSupported(err))
	_, err = v.createIndex(schema.CreateIndexSpec{})
	assert.True(t, dberr.IsNotSupported(err))
	_, err = v.createRelation(schema.CreateRelationSpec{})
	assert.True(t, dberr.IsNotSupported(err))
}

func TestVariantSelection(t *testing.T) {
	cases := map[dialect.Dialect]any{
		dialect.Postgres:    &postgresOps{},
		dialect.CockroachDB: &postgresOps{},
		dialect.MariaDB:     &mysqlOps{},
		dialect.SQLServer:   &sqlServerOps{},
		dialect.SQLAnywhere: &sqlAnywhereOps{},
		dialect.Oracle:      &oracleOps{},
		dialect.SurrealDB:   &surrealOps{},
		dialect.ClickHouse:  &clickhouseOps{},
		dialect.BigQuery:    &bigQueryOps{},
		dialect.SQLite:      &base{},
	}
	for d, want := range cases {
		assert.IsType(t, want, New(d).variant("t", ""), d)
	}
}

func TestJoinStatements(t *testing.T) {
	assert.Equal(t, "", joinStatements([]string{"", " ; ", ";"}))
	assert.Equal(t, "a;\nb;", joinStatements([]string{"a;;", "", "b"}))
}
