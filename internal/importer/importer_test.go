package importer_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"dbkeeper/internal/client"
	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/importer"
	"dbkeeper/internal/job"

	_ "modernc.org/sqlite"
)

func openTarget(t *testing.T) (*sql.DB, client.Client) {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "target.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(`CREATE TABLE people (id INTEGER PRIMARY KEY, name TEXT NOT NULL, city TEXT)`)
	require.NoError(t, err)
	return db, client.New(db, dialect.SQLite)
}

func people(t *testing.T, db *sql.DB) [][]any {
	t.Helper()
	rows, err := db.Query(`SELECT id, name, city FROM people ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	var out [][]any
	for rows.Next() {
		var id int64
		var name string
		var city sql.NullString
		require.NoError(t, rows.Scan(&id, &name, &city))
		var c any
		if city.Valid {
			c = city.String
		}
		out = append(out, []any{id, name, c})
	}
	require.NoError(t, rows.Err())
	return out
}

func TestCSVParserStripsBOM(t *testing.T) {
	p := importer.NewCSV(strings.NewReader("\ufeffid;name\n1;Ann\n2;\"B;o\"\n"), importer.CSVOptions{Delimiter: ';'})
	cols, rows, err := importer.Preview(context.Background(), p, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, cols)
	assert.Equal(t, [][]any{{"1", "Ann"}, {"2", "B;o"}}, rows)
}

func TestCSVParserWithoutHeader(t *testing.T) {
	p := importer.NewCSV(strings.NewReader("1,Ann\n2,Bo,extra\n3\n"), importer.CSVOptions{NoHeader: true})
	ctx := context.Background()
	cols, err := p.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"column_1", "column_2"}, cols)

	rows, err := p.Next(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"1", "Ann"}, {"2", "Bo"}}, rows)
	rows, err = p.Next(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"3", nil}}, rows)
	rows, err = p.Next(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestJSONParserKeepsKeyOrder(t *testing.T) {
	src := `[{"name":"Ann","id":1,"tags":["a"]},{"id":2.5,"name":"Bo","extra":true},{"name":null}]`
	ctx := context.Background()
	p := importer.NewJSON(strings.NewReader(src))
	cols, err := p.Columns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id", "tags"}, cols)

	rows, err := p.Next(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Ann", rows[0][0])
	assert.Equal(t, json.Number("1"), rows[0][1])
	assert.Equal(t, []any{"a"}, rows[0][2])
	assert.Equal(t, "Bo", rows[1][0])
	assert.Nil(t, rows[1][2])
	assert.Equal(t, []any{nil, nil, nil}, rows[2])
}

func TestJSONParserRejectsObjects(t *testing.T) {
	p := importer.NewJSON(strings.NewReader(`{"id":1}`))
	_, err := p.Columns(context.Background())
	assert.ErrorIs(t, err, dberr.ErrValidation)
}

func TestJSONLParser(t *testing.T) {
	p := importer.NewJSONL(strings.NewReader("{\"id\":1,\"name\":\"Ann\"}\n\n{\"id\":2,\"name\":\"Bo\"}\n"))
	cols, rows, err := importer.Preview(context.Background(), p, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, cols)
	assert.Len(t, rows, 2)

	p = importer.NewJSONL(strings.NewReader("{\"id\":1}\nnot json\n"))
	_, _, err = importer.Preview(context.Background(), p, 10)
	assert.ErrorContains(t, err, "line 2")
}

func TestXLSXParser(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"id", "name", "city"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{1, "Ann", "Oslo"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{2, "Bo"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	p, err := importer.NewXLSX(buf, "")
	require.NoError(t, err)
	defer p.Close()
	cols, rows, err := importer.Preview(context.Background(), p, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "city"}, cols)
	assert.Equal(t, [][]any{{"1", "Ann", "Oslo"}, {"2", "Bo", nil}}, rows)
}

func TestImportCSVWithAutomap(t *testing.T) {
	db, c := openTarget(t)
	src := "ID,Name,City,ignored\n1, Ann ,Oslo,x\n2,Bo,NULL,y\n3,Cy,,z\n"

	var events []job.Progress
	im := importer.New(importer.NewCSV(strings.NewReader(src), importer.CSVOptions{}), c, importer.Options{
		Table:      "people",
		Trim:       true,
		NullValues: []string{"NULL", ""},
		ChunkSize:  2,
		Total:      3,
		OnProgress: func(p job.Progress) { events = append(events, p) },
	})
	require.NoError(t, im.Run(context.Background()))

	assert.Equal(t, job.Completed, im.Status())
	assert.Equal(t, [][]any{{int64(1), "Ann", "Oslo"}, {int64(2), "Bo", nil}, {int64(3), "Cy", nil}}, people(t, db))
	require.Len(t, events, 2)
	assert.EqualValues(t, 3, events[1].CountExported)
	assert.InDelta(t, 100.0, events[1].PercentComplete, 0.001)
}

func TestImportJSONWithMapping(t *testing.T) {
	db, c := openTarget(t)
	_, err := db.Exec(`INSERT INTO people VALUES (9, 'Old', NULL)`)
	require.NoError(t, err)

	src := `[{"key":7,"who":"Ann","where":{"town":"Oslo"}}]`
	im := importer.New(importer.NewJSON(strings.NewReader(src)), c, importer.Options{
		Table: "people",
		Mapping: []importer.ColumnMapping{
			{FileColumn: "key", TableColumn: "ID"},
			{FileColumn: "who", TableColumn: "name"},
			{FileColumn: "where", TableColumn: "city"},
		},
		TruncateTable: true,
	})
	require.NoError(t, im.Run(context.Background()))
	assert.Equal(t, [][]any{{int64(7), "Ann", `{"town":"Oslo"}`}}, people(t, db))
}

func TestImportValidation(t *testing.T) {
	_, c := openTarget(t)
	ctx := context.Background()

	im := importer.New(importer.NewCSV(strings.NewReader("a,b\n1,2\n"), importer.CSVOptions{}), c, importer.Options{Table: "people"})
	err := im.Run(ctx)
	require.ErrorIs(t, err, dberr.ErrImport)
	assert.ErrorIs(t, err, dberr.ErrValidation)
	assert.Equal(t, job.Error, im.Status())

	im = importer.New(importer.NewCSV(strings.NewReader("id\n1\n"), importer.CSVOptions{}), c, importer.Options{
		Table:   "people",
		Mapping: []importer.ColumnMapping{{FileColumn: "nope", TableColumn: "id"}},
	})
	assert.ErrorIs(t, im.Run(ctx), dberr.ErrValidation)

	im = importer.New(importer.NewCSV(strings.NewReader("id\n1\n"), importer.CSVOptions{}), c, importer.Options{Table: "missing"})
	assert.ErrorIs(t, im.Run(ctx), dberr.ErrNotFound)
}

func TestImportStopsAtFailedChunk(t *testing.T) {
	db, c := openTarget(t)
	src := "id,name\n1,Ann\n2,Bo\n3,NULL\n4,Di\n"
	im := importer.New(importer.NewCSV(strings.NewReader(src), importer.CSVOptions{}), c, importer.Options{
		Table:      "people",
		NullValues: []string{"NULL"},
		ChunkSize:  2,
	})
	err := im.Run(context.Background())
	require.ErrorIs(t, err, dberr.ErrImport)
	assert.ErrorContains(t, err, "rows 3-4")

	snap := im.Snapshot()
	assert.Equal(t, job.Error, snap.Status)
	assert.EqualValues(t, 2, snap.CountExported)
	assert.Len(t, people(t, db), 2, "applied chunks stay committed")
}

func TestImportAbort(t *testing.T) {
	db, c := openTarget(t)
	src := "id,name\n1,Ann\n2,Bo\n3,Cy\n"

	var im *importer.Import
	im = importer.New(importer.NewCSV(strings.NewReader(src), importer.CSVOptions{}), c, importer.Options{
		Table:      "people",
		ChunkSize:  1,
		OnProgress: func(job.Progress) { im.Abort() },
	})
	require.NoError(t, im.Run(context.Background()))
	assert.Equal(t, job.Aborted, im.Status())
	assert.Len(t, people(t, db), 1)
}
