package schema_test

import (
	"testing"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlterTableSpecValidate(t *testing.T) {
	cases := []struct {
		name string
		spec schema.AlterTableSpec
		ok   bool
	}{
		{
			name: "empty spec on a table",
			spec: schema.AlterTableSpec{Table: "users"},
			ok:   true,
		},
		{
			name: "missing table",
			spec: schema.AlterTableSpec{Drops: []string{"a"}},
		},
		{
			name: "add without type",
			spec: schema.AlterTableSpec{Table: "users", Adds: []schema.SchemaItem{{ColumnName: "a"}}},
		},
		{
			name: "add and drop same column",
			spec: schema.AlterTableSpec{
				Table: "users",
				Adds:  []schema.SchemaItem{{ColumnName: "a", DataType: "int"}},
				Drops: []string{"a"},
			},
		},
		{
			name: "add and alter same column",
			spec: schema.AlterTableSpec{
				Table: "users",
				Adds:  []schema.SchemaItem{{ColumnName: "a", DataType: "int"}},
				Alterations: []schema.SchemaItemChange{
					{ColumnName: "a", ChangeType: schema.ChangeNullable, NewValue: true},
				},
			},
		},
		{
			name: "unknown change type",
			spec: schema.AlterTableSpec{
				Table: "users",
				Alterations: []schema.SchemaItemChange{
					{ColumnName: "a", ChangeType: "collation", NewValue: "C"},
				},
			},
		},
		{
			name: "rename without value",
			spec: schema.AlterTableSpec{
				Table: "users",
				Alterations: []schema.SchemaItemChange{
					{ColumnName: "a", ChangeType: schema.ChangeColumnName},
				},
			},
		},
		{
			name: "clearing a default is allowed",
			spec: schema.AlterTableSpec{
				Table: "users",
				Alterations: []schema.SchemaItemChange{
					{ColumnName: "a", ChangeType: schema.ChangeDefaultValue},
				},
			},
			ok: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.spec.Validate()
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, dberr.ErrValidation)
		})
	}
}

func TestSchemaValidateRejectsDuplicates(t *testing.T) {
	s := schema.Schema{
		Name: "t",
		Columns: []schema.SchemaItem{
			{ColumnName: "id", DataType: "int"},
			{ColumnName: "id", DataType: "text"},
		},
	}
	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `column "id" is defined twice`)
}

func TestGroupAlterationsKeepsOrder(t *testing.T) {
	groups := schema.GroupAlterations([]schema.SchemaItemChange{
		{ColumnName: "b", ChangeType: schema.ChangeDataType, NewValue: "int"},
		{ColumnName: "a", ChangeType: schema.ChangeNullable, NewValue: false},
		{ColumnName: "b", ChangeType: schema.ChangeDefaultValue, NewValue: "1"},
	})
	require.Len(t, groups, 2)
	assert.Equal(t, "b", groups[0].Column)
	assert.Len(t, groups[0].Changes, 2)
	assert.Equal(t, "a", groups[1].Column)

	def, ok := groups[0].Get(schema.ChangeDefaultValue)
	require.True(t, ok)
	assert.Equal(t, "1", def.Text())

	_, ok = groups[1].Get(schema.ChangeComment)
	assert.False(t, ok)
}

func TestSchemaItemChangeBool(t *testing.T) {
	assert.True(t, schema.SchemaItemChange{NewValue: "YES"}.Bool())
	assert.True(t, schema.SchemaItemChange{NewValue: true}.Bool())
	assert.False(t, schema.SchemaItemChange{NewValue: "no"}.Bool())
	assert.True(t, schema.SchemaItemChange{}.IsNull())
}
