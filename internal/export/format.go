package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"dbkeeper/internal/cursor"
	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
)

// Formatter turns rows into one output format. A formatter is used by a
// single export and may keep state between calls.
type Formatter interface {
	Extension() string
	Header(w io.Writer, cols []cursor.Column) error
	// Row writes one record; index counts rows already written.
	Row(w io.Writer, cols []cursor.Column, row []any, index int64) error
	Footer(w io.Writer, written int64) error
}

var (
	_ Formatter = (*CSV)(nil)
	_ Formatter = (*JSON)(nil)
	_ Formatter = JSONL{}
	_ Formatter = (*SQL)(nil)
)

// Format names a built in formatter.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatSQL   Format = "sql"
)

// FormatOptions configures NewFormatter.
type FormatOptions struct {
	// CSV
	Header    bool
	Delimiter rune

	// JSON
	Pretty bool

	// SQL
	Dialect      dialect.Dialect
	Table        string
	Schema       string
	CreateScript string
}

// NewFormatter builds the formatter for f.
func NewFormatter(f Format, opts FormatOptions) (Formatter, error) {
	switch Format(strings.ToLower(string(f))) {
	case FormatCSV:
		return &CSV{WithHeader: opts.Header, Delimiter: opts.Delimiter}, nil
	case FormatJSON:
		return &JSON{Pretty: opts.Pretty}, nil
	case FormatJSONL:
		return JSONL{}, nil
	case FormatSQL:
		if opts.Table == "" {
			return nil, dberr.Validation("sql export needs a table name")
		}
		return &SQL{Dialect: opts.Dialect, Table: opts.Table, Schema: opts.Schema, CreateScript: opts.CreateScript}, nil
	}
	return nil, dberr.Validation("unknown export format %q", f)
}

// CSV writes RFC 4180 records with \n line endings.
type CSV struct {
	WithHeader bool
	Delimiter  rune

	cw *csv.Writer
	w  io.Writer
}

func (c *CSV) Extension() string { return "csv" }

func (c *CSV) writer(w io.Writer) *csv.Writer {
	if c.cw == nil || c.w != w {
		c.cw = csv.NewWriter(w)
		if c.Delimiter != 0 {
			c.cw.Comma = c.Delimiter
		}
		c.w = w
	}
	return c.cw
}

func (c *CSV) Header(w io.Writer, cols []cursor.Column) error {
	if !c.WithHeader {
		return nil
	}
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return c.write(w, names)
}

func (c *CSV) Row(w io.Writer, _ []cursor.Column, row []any, _ int64) error {
	rec := make([]string, len(row))
	for i, v := range row {
		rec[i] = csvValue(v)
	}
	return c.write(w, rec)
}

func (c *CSV) write(w io.Writer, rec []string) error {
	cw := c.writer(w)
	if err := cw.Write(rec); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func (c *CSV) Footer(io.Writer, int64) error { return nil }

func csvValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
	return fmt.Sprint(v)
}

// JSON writes one array of objects with keys in column order.
type JSON struct {
	Pretty bool
}

func (j *JSON) Extension() string { return "json" }

func (j *JSON) Header(w io.Writer, _ []cursor.Column) error {
	_, err := io.WriteString(w, "[\n")
	return err
}

func (j *JSON) Row(w io.Writer, cols []cursor.Column, row []any, index int64) error {
	obj, err := object(cols, row)
	if err != nil {
		return err
	}
	if j.Pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, obj, "  ", "  "); err != nil {
			return err
		}
		obj = append([]byte("  "), buf.Bytes()...)
	}
	if index > 0 {
		if _, err := io.WriteString(w, ",\n"); err != nil {
			return err
		}
	}
	_, err = w.Write(obj)
	return err
}

func (j *JSON) Footer(w io.Writer, written int64) error {
	end := "]"
	if written > 0 {
		end = "\n]"
	}
	_, err := io.WriteString(w, end)
	return err
}

// JSONL writes one object per line.
type JSONL struct{}

func (JSONL) Extension() string                       { return "jsonl" }
func (JSONL) Header(io.Writer, []cursor.Column) error { return nil }
func (JSONL) Footer(io.Writer, int64) error           { return nil }

func (JSONL) Row(w io.Writer, cols []cursor.Column, row []any, _ int64) error {
	obj, err := object(cols, row)
	if err != nil {
		return err
	}
	_, err = w.Write(append(obj, '\n'))
	return err
}

// object encodes a row as a JSON object, keeping column order.
func object(cols []cursor.Column, row []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range cols {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		var v any
		if i < len(row) {
			v = row[i]
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode column %s: %w", col.Name, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SQL writes one INSERT per row, each terminated by ";\n".
type SQL struct {
	Dialect      dialect.Dialect
	Table        string
	Schema       string
	CreateScript string

	data *dialect.Data
	head string
}

func (s *SQL) Extension() string { return "sql" }

func (s *SQL) Header(w io.Writer, cols []cursor.Column) error {
	s.data = dialect.Get(s.Dialect)
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = s.data.WrapIdentifier(col.Name)
	}
	s.head = fmt.Sprintf("insert into %s (%s) values (", s.data.QualifiedName(s.Table, s.Schema), strings.Join(names, ", "))

	if s.CreateScript == "" {
		return nil
	}
	script := strings.TrimRight(strings.TrimSpace(s.CreateScript), ";")
	_, err := io.WriteString(w, script+";\n\n")
	return err
}

func (s *SQL) Row(w io.Writer, _ []cursor.Column, row []any, _ int64) error {
	var sb strings.Builder
	sb.WriteString(s.head)
	for i, v := range row {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(s.data.Literal(v))
	}
	sb.WriteString(");\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func (s *SQL) Footer(io.Writer, int64) error { return nil }
