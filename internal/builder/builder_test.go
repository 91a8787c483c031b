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

func strPtr(s string) *string { return &s }

func change(col string, t schema.ChangeType, v any) schema.SchemaItemChange {
	return schema.SchemaItemChange{ColumnName: col, ChangeType: t, NewValue: v}
}

func TestAlterTableEndsWithExactlyOneSemicolon(t *testing.T) {
	for _, d := range dialect.All() {
		t.Run(string(d), func(t *testing.T) {
			data := dialect.Get(d)
			spec := schema.AlterTableSpec{
				Table: "items",
				Adds: []schema.SchemaItem{{
					ColumnName:   "note",
					DataType:     data.ColumnTypes[0].Pretty(),
					Nullable:     true,
					DefaultValue: strPtr("NULL;"),
				}},
				Drops: []string{"legacy"},
			}

			out, err := builder.New(d).AlterTable(spec)
			if d == dialect.Redis {
				assert.ErrorIs(t, err, dberr.ErrNotSupported)
				return
			}
			require.NoError(t, err)
			if out == "" {
				return
			}
			assert.True(t, strings.HasSuffix(out, ";"), out)
			assert.False(t, strings.HasSuffix(out, ";;"), out)
			assert.NotContains(t, out, ";;")
		})
	}
}

func TestAlterTableNoOpReturnsEmpty(t *testing.T) {
	out, err := builder.New(dialect.Postgres).AlterTable(schema.AlterTableSpec{Table: "users"})
	require.NoError(t, err)
	assert.Empty(t, out)

	// A disabled feature on a relational dialect is filtered, not refused.
	out, err = builder.New(dialect.SQLite).AlterTable(schema.AlterTableSpec{
		Table:       "users",
		Alterations: []schema.SchemaItemChange{change("name", schema.ChangeComment, "x")},
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRedisRefusesColumnChanges(t *testing.T) {
	b := builder.New(dialect.Redis)
	specs := map[string]schema.AlterTableSpec{
		"add":  {Table: "session", Adds: []schema.SchemaItem{{ColumnName: "ttl", DataType: "string", Nullable: true}}},
		"drop": {Table: "session", Drops: []string{"ttl"}},
		"rename": {Table: "session", Alterations: []schema.SchemaItemChange{
			change("y", schema.ChangeColumnName, "z"),
		}},
		"type": {Table: "session", Alterations: []schema.SchemaItemChange{
			change("y", schema.ChangeDataType, "hash"),
		}},
		"comment": {Table: "session", Alterations: []schema.SchemaItemChange{
			change("y", schema.ChangeComment, "note"),
		}},
		"reorder": {Table: "session", Reorder: &schema.ColumnReorder{}},
	}
	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			out, err := b.AlterTable(spec)
			assert.ErrorIs(t, err, dberr.ErrNotSupported)
			assert.Empty(t, out)
		})
	}
}

func TestAlterTableRejectsInvalidSpec(t *testing.T) {
	_, err := builder.New(dialect.Postgres).AlterTable(schema.AlterTableSpec{
		Table: "users",
		Adds:  []schema.SchemaItem{{ColumnName: "age"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, dberr.ErrValidation)
}

func TestPostgresAlterTable(t *testing.T) {
	spec := schema.AlterTableSpec{
		Table:  "users",
		Schema: "public",
		Adds: []schema.SchemaItem{
			{ColumnName: "age", DataType: "integer", Nullable: true, Comment: strPtr("years")},
		},
		Drops: []string{"legacy"},
		Alterations: []schema.SchemaItemChange{
			change("name", schema.ChangeDataType, "varchar(100)"),
			change("name", schema.ChangeNullable, false),
			change("name", schema.ChangeColumnName, "full_name"),
			change("name", schema.ChangeComment, "Display name"),
			change("created_at", schema.ChangeDefaultValue, "now()"),
			change("updated_at", schema.ChangeDefaultValue, nil),
		},
	}

	out, err := builder.New(dialect.Postgres).AlterTable(spec)
	require.NoError(t, err)

	want := strings.Join([]string{
		`ALTER TABLE "public"."users" ADD COLUMN "age" integer NULL, DROP COLUMN "legacy", ` +
			`ALTER COLUMN "name" TYPE varchar(100), ALTER COLUMN "name" SET NOT NULL, ` +
			`ALTER COLUMN "created_at" SET DEFAULT now(), ALTER COLUMN "updated_at" DROP DEFAULT`,
		`ALTER TABLE "public"."users" RENAME COLUMN "name" TO "full_name"`,
		`COMMENT ON COLUMN "public"."users"."age" IS 'years'`,
		`COMMENT ON COLUMN "public"."users"."full_name" IS 'Display name'`,
	}, ";\n") + ";"
	assert.Equal(t, want, out)
}

func TestPostgresReorderIsNotSupported(t *testing.T) {
	_, err := builder.New(dialect.Postgres).AlterTable(schema.AlterTableSpec{
		Table:   "users",
		Reorder: &schema.ColumnReorder{OldOrder: []string{"a", "b"}, NewOrder: []string{"b", "a"}},
	})
	require.Error(t, err)
	assert.True(t, dberr.IsNotSupported(err))
}

func TestSQLServerDefaultChange(t *testing.T) {
	out, err := builder.New(dialect.SQLServer).AlterTable(schema.AlterTableSpec{
		Table: "users",
		Alterations: []schema.SchemaItemChange{
			change("status", schema.ChangeDefaultValue, "'active'"),
		},
	})
	require.NoError(t, err)

	assert.NotContains(t, out, "SET DEFAULT")
	drop := strings.Index(out, "DROP CONSTRAINT")
	add := strings.Index(out, "ALTER TABLE [users] ADD DEFAULT 'active' FOR [status]")
	require.GreaterOrEqual(t, drop, 0, out)
	require.Greater(t, add, drop, out)
	assert.Contains(t, out, "sys.default_constraints")
	assert.Contains(t, out, "COLUMNPROPERTY(OBJECT_ID('[users]'), 'status', 'ColumnId')")
	assert.True(t, strings.HasSuffix(out, "FOR [status];"), out)
}

func TestSQLServerClearDefaultOnlyDropsConstraint(t *testing.T) {
	out, err := builder.New(dialect.SQLServer).AlterTable(schema.AlterTableSpec{
		Table:       "users",
		Alterations: []schema.SchemaItemChange{change("status", schema.ChangeDefaultValue, nil)},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "DROP CONSTRAINT")
	assert.NotContains(t, out, "ADD DEFAULT")
}

func TestSQLServerGroupsTypeAndNullAndRenamesLast(t *testing.T) {
	b := builder.New(dialect.SQLServer, builder.WithExistingColumns([]schema.SchemaItem{
		{ColumnName: "qty", DataType: "int", Nullable: true},
	}))
	out, err := b.AlterTable(schema.AlterTableSpec{
		Table:  "orders",
		Schema: "dbo",
		Adds:   []schema.SchemaItem{{ColumnName: "note", DataType: "nvarchar(50)", Nullable: true}},
		Alterations: []schema.SchemaItemChange{
			change("qty", schema.ChangeDataType, "bigint"),
			change("ref", schema.ChangeColumnName, "reference"),
		},
	})
	require.NoError(t, err)

	want := strings.Join([]string{
		"ALTER TABLE [dbo].[orders] ADD [note] nvarchar(50) NULL",
		"ALTER TABLE [dbo].[orders] ALTER COLUMN [qty] bigint NULL",
		"EXEC sp_rename 'dbo.orders.ref', 'reference', 'COLUMN'",
	}, ";\n") + ";"
	assert.Equal(t, want, out)
}

func TestSQLServerTypeChangeNeedsExistingDefinition(t *testing.T) {
	_, err := builder.New(dialect.SQLServer).AlterTable(schema.AlterTableSpec{
		Table:       "orders",
		Alterations: []schema.SchemaItemChange{change("qty", schema.ChangeDataType, "bigint")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, dberr.ErrValidation)
}

func TestSurrealDB(t *testing.T) {
	b := builder.New(dialect.SurrealDB)

	out, err := b.AlterTable(schema.AlterTableSpec{
		Table: "users",
		Adds:  []schema.SchemaItem{{ColumnName: "email", DataType: "string"}},
		Drops: []string{"phone"},
	})
	require.NoError(t, err)
	assert.Equal(t, "DEFINE FIELD email ON TABLE users TYPE string;\nREMOVE FIELD phone ON TABLE users;", out)

	out, err = b.AlterTable(schema.AlterTableSpec{
		Table:       "users",
		Alterations: []schema.SchemaItemChange{change("age", schema.ChangeDataType, "int")},
	})
	require.NoError(t, err)
	assert.Equal(t, "DEFINE FIELD OVERWRITE age ON TABLE users TYPE int;", out)

	for _, ch := range []schema.SchemaItemChange{
		change("email", schema.ChangeNullable, true),
		change("email", schema.ChangeColumnName, "mail"),
		change("email", schema.ChangeComment, "address"),
	} {
		_, err := b.AlterTable(schema.AlterTableSpec{Table: "users", Alterations: []schema.SchemaItemChange{ch}})
		require.Error(t, err, ch.ChangeType)
		assert.True(t, dberr.IsNotSupported(err), ch.ChangeType)
	}

	out, err = b.AlterTable(schema.AlterTableSpec{Table: "users", Reorder: &schema.ColumnReorder{}})
	assert.ErrorIs(t, err, dberr.ErrNotSupported)
	assert.Empty(t, out)
}

func TestSurrealDBFieldTypes(t *testing.T) {
	out, err := builder.New(dialect.SurrealDB).AlterTable(schema.AlterTableSpec{
		Table: "users",
		Adds: []schema.SchemaItem{
			{ColumnName: "email", DataType: "string"},
			{ColumnName: "nick", DataType: "string", Nullable: true},
		},
	})
	require.NoError(t, err)
	// Required fields keep the plain TYPE form; nullable ones are wrapped in
	// option<> so NONE is accepted.
	assert.Equal(t, "DEFINE FIELD email ON TABLE users TYPE string;\n"+
		"DEFINE FIELD nick ON TABLE users TYPE option<string>;", out)
}

func TestMySQLAlterations(t *testing.T) {
	b := builder.New(dialect.MySQL, builder.WithExistingColumns([]schema.SchemaItem{
		{ColumnName: "a", DataType: "int"},
		{ColumnName: "b", DataType: "text", Nullable: true},
		{ColumnName: "c", DataType: "int", Nullable: true, Comment: strPtr("counter")},
	}))

	out, err := b.AlterTable(schema.AlterTableSpec{
		Table:       "t",
		Alterations: []schema.SchemaItemChange{change("a", schema.ChangeDefaultValue, "0")},
	})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE `t` ALTER COLUMN `a` SET DEFAULT 0;", out)

	out, err = b.AlterTable(schema.AlterTableSpec{
		Table:       "t",
		Alterations: []schema.SchemaItemChange{change("c", schema.ChangeNullable, false)},
	})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE `t` MODIFY COLUMN `c` int NOT NULL COMMENT 'counter';", out)

	out, err = b.AlterTable(schema.AlterTableSpec{
		Table:   "t",
		Reorder: &schema.ColumnReorder{OldOrder: []string{"a", "b", "c"}, NewOrder: []string{"b", "a", "c"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE `t` MODIFY COLUMN `b` text NULL FIRST, "+
		"MODIFY COLUMN `a` int NOT NULL AFTER `b`, "+
		"MODIFY COLUMN `c` int NULL COMMENT 'counter' AFTER `a`;", out)

	out, err = b.AlterTable(schema.AlterTableSpec{
		Table: "t",
		Adds: []schema.SchemaItem{{
			ColumnName: "id2", DataType: "bigint", Extra: strPtr("AUTO_INCREMENT"), Comment: strPtr("it's"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE `t` ADD COLUMN `id2` bigint NOT NULL AUTO_INCREMENT COMMENT 'it''s';", out)
}

func TestOracleGroupsModifyInFixedOrder(t *testing.T) {
	out, err := builder.New(dialect.Oracle).AlterTable(schema.AlterTableSpec{
		Table: "T",
		Adds:  []schema.SchemaItem{{ColumnName: "D", DataType: "DATE", Nullable: true}},
		Alterations: []schema.SchemaItemChange{
			change("C", schema.ChangeNullable, false),
			change("C", schema.ChangeDefaultValue, "0"),
			change("C", schema.ChangeDataType, "NUMBER"),
		},
		Drops: []string{"E"},
	})
	require.NoError(t, err)
	want := strings.Join([]string{
		`ALTER TABLE "T" ADD ("D" DATE NULL)`,
		`ALTER TABLE "T" DROP ("E")`,
		`ALTER TABLE "T" MODIFY ("C" NUMBER DEFAULT 0 NOT NULL)`,
	}, ";\n") + ";"
	assert.Equal(t, want, out)
}

func TestSQLiteFiltersAlterColumnButKeepsRename(t *testing.T) {
	b := builder.New(dialect.SQLite)
	out, err := b.AlterTable(schema.AlterTableSpec{
		Table: "t",
		Alterations: []schema.SchemaItemChange{
			change("a", schema.ChangeDataType, "integer"),
			change("a", schema.ChangeColumnName, "b"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "t" RENAME COLUMN "a" TO "b";`, out)

	out, err = b.AlterTable(schema.AlterTableSpec{
		Table:       "t",
		Alterations: []schema.SchemaItemChange{change("a", schema.ChangeNullable, true)},
	})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSQLAnywhereModifyAndRename(t *testing.T) {
	out, err := builder.New(dialect.SQLAnywhere).AlterTable(schema.AlterTableSpec{
		Table: "t",
		Alterations: []schema.SchemaItemChange{
			change("c", schema.ChangeDefaultValue, "'x'"),
			change("c", schema.ChangeDataType, "varchar(10)"),
			change("c", schema.ChangeNullable, false),
			change("a", schema.ChangeColumnName, "b"),
		},
		Drops: []string{"z"},
	})
	require.NoError(t, err)
	want := `ALTER TABLE "t" DROP "z", MODIFY "c" varchar(10) NOT NULL DEFAULT 'x';` + "\n" +
		`ALTER TABLE "t" RENAME "a" TO "b";`
	assert.Equal(t, want, out)
}

func TestClickHouseNullableAndComment(t *testing.T) {
	b := builder.New(dialect.ClickHouse, builder.WithExistingColumns([]schema.SchemaItem{
		{ColumnName: "c", DataType: "String"},
	}))
	out, err := b.AlterTable(schema.AlterTableSpec{
		Table: "t",
		Alterations: []schema.SchemaItemChange{
			change("c", schema.ChangeNullable, true),
			change("c", schema.ChangeComment, "free text"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE `t` MODIFY COLUMN `c` Nullable(String), COMMENT COLUMN `c` 'free text';", out)
}

func TestBigQueryRestrictions(t *testing.T) {
	b := builder.New(dialect.BigQuery)

	out, err := b.AlterTable(schema.AlterTableSpec{
		Table:  "events",
		Schema: "analytics",
		Alterations: []schema.SchemaItemChange{
			change("kind", schema.ChangeDataType, "STRING"),
			change("kind", schema.ChangeNullable, true),
			change("kind", schema.ChangeComment, "it's"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "ALTER TABLE `analytics`.`events` ALTER COLUMN `kind` SET DATA TYPE STRING, "+
		"ALTER COLUMN `kind` DROP NOT NULL, "+
		"ALTER COLUMN `kind` SET OPTIONS (description='it\\'s');", out)

	_, err = b.AlterTable(schema.AlterTableSpec{
		Table:       "events",
		Alterations: []schema.SchemaItemChange{change("kind", schema.ChangeNullable, false)},
	})
	assert.True(t, dberr.IsNotSupported(err))

	_, err = b.AlterTable(schema.AlterTableSpec{
		Table: "events",
		Adds:  []schema.SchemaItem{{ColumnName: "id", DataType: "INT64"}},
	})
	assert.True(t, dberr.IsNotSupported(err))
}

func TestDefaultLiteralCannotSmuggleStatements(t *testing.T) {
	out, err := builder.New(dialect.Postgres).AlterTable(schema.AlterTableSpec{
		Table:       "t",
		Alterations: []schema.SchemaItemChange{change("c", schema.ChangeDefaultValue, "1; DROP TABLE t")},
	})
	require.NoError(t, err)
	assert.Equal(t, `ALTER TABLE "t" ALTER COLUMN "c" SET DEFAULT 1 DROP TABLE t;`, out)
}
