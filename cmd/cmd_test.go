package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dbkeeper/internal/importer"
	"dbkeeper/internal/schema"
)

func TestDelimiter(t *testing.T) {
	assert.Equal(t, ',', delimiter(""))
	assert.Equal(t, ';', delimiter(";"))
	assert.Equal(t, '\t', delimiter(`\t`))
	assert.Equal(t, '\t', delimiter("tab"))
}

func TestParseMapping(t *testing.T) {
	m, err := parseMapping([]string{"Full Name = name", "ignored="})
	require.NoError(t, err)
	assert.Equal(t, []importer.ColumnMapping{
		{FileColumn: "Full Name", TableColumn: "name"},
		{FileColumn: "ignored", TableColumn: ""},
	}, m)

	_, err = parseMapping([]string{"name"})
	assert.Error(t, err)
}

func TestToInt64(t *testing.T) {
	for _, v := range []any{int64(7), int32(7), 7, float64(7), []byte("7"), "7"} {
		n, ok := toInt64(v)
		assert.True(t, ok, "%T", v)
		assert.Equal(t, int64(7), n)
	}
	_, ok := toInt64(nil)
	assert.False(t, ok)
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadDocument(t *testing.T) {
	want := schema.Schema{
		Name:    "users",
		Columns: []schema.SchemaItem{{ColumnName: "id", DataType: "integer", PrimaryKey: true}},
	}

	docs := map[string]string{
		"users.json": `{"name":"users","columns":[{"columnName":"id","dataType":"integer","nullable":false,"primaryKey":true}]}`,
		"users.yaml": "name: users\ncolumns:\n  - columnName: id\n    dataType: integer\n    primaryKey: true\n",
		"users.toml": "name = \"users\"\n\n[[columns]]\ncolumnName = \"id\"\ndataType = \"integer\"\nprimaryKey = true\n",
	}
	for name, body := range docs {
		t.Run(name, func(t *testing.T) {
			var got schema.Schema
			require.NoError(t, loadDocument(writeFile(t, name, body), &got))
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadDocumentRejectsUnknownKeys(t *testing.T) {
	var s schema.Schema
	assert.Error(t, loadDocument(writeFile(t, "bad.yaml", "name: users\ncolour: red\n"), &s))
	assert.Error(t, loadDocument(writeFile(t, "bad.toml", "name = \"users\"\ncolour = \"red\"\n"), &s))
	assert.Error(t, loadDocument(writeFile(t, "bad.json", `{"name":"users","colour":"red"}`), &s))
	assert.Error(t, loadDocument(writeFile(t, "users.xml", "<x/>"), &s))
}

func TestOpenParserByExtension(t *testing.T) {
	p, err := openParser(writeFile(t, "rows.tsv", "a\tb\n1\t2\n"))
	require.NoError(t, err)
	defer p.Close()
	cols, rows, err := importer.Preview(context.Background(), p, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cols)
	assert.Equal(t, [][]any{{"1", "2"}}, rows)

	_, err = openParser(writeFile(t, "rows.parquet", ""))
	assert.Error(t, err)
}
