package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"dbkeeper/internal/dberr"
)

// Parser produces the rows of a source file in chunks.
type Parser interface {
	// Columns returns the source column names. It reads the header, or the
	// first record when the format has none.
	Columns(ctx context.Context) ([]string, error)
	// Next returns up to n rows aligned with Columns; empty at the end.
	Next(ctx context.Context, n int) ([][]any, error)
	Close() error
}

// Preview parses the first n rows without writing anything.
func Preview(ctx context.Context, p Parser, n int) ([]string, [][]any, error) {
	cols, err := p.Columns(ctx)
	if err != nil {
		return nil, nil, err
	}
	rows, err := p.Next(ctx, n)
	if err != nil {
		return nil, nil, err
	}
	return cols, rows, nil
}

// CSVOptions configures NewCSV.
type CSVOptions struct {
	Delimiter rune
	// NoHeader names columns column_1, column_2, ... instead of reading a
	// header row.
	NoHeader bool
}

// CSVParser reads delimited text. UTF-8 and UTF-16 byte order marks are
// honoured and stripped.
type CSVParser struct {
	r       *csv.Reader
	c       io.Closer
	opts    CSVOptions
	cols    []string
	pending []string
	done    bool
}

var _ Parser = (*CSVParser)(nil)

// NewCSV reads from r; r is closed by Close when it is an io.Closer.
func NewCSV(r io.Reader, opts CSVOptions) *CSVParser {
	cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	cr.FieldsPerRecord = -1
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}
	c, _ := r.(io.Closer)
	return &CSVParser{r: cr, c: c, opts: opts}
}

func (p *CSVParser) Columns(context.Context) ([]string, error) {
	if p.cols != nil {
		return p.cols, nil
	}
	rec, err := p.r.Read()
	if errors.Is(err, io.EOF) {
		p.done = true
		p.cols = []string{}
		return p.cols, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if p.opts.NoHeader {
		p.cols = make([]string, len(rec))
		for i := range rec {
			p.cols[i] = fmt.Sprintf("column_%d", i+1)
		}
		p.pending = rec
		return p.cols, nil
	}
	p.cols = rec
	return p.cols, nil
}

func (p *CSVParser) Next(ctx context.Context, n int) ([][]any, error) {
	if _, err := p.Columns(ctx); err != nil {
		return nil, err
	}
	out := [][]any{}
	if p.pending != nil {
		out = append(out, p.row(p.pending))
		p.pending = nil
	}
	for len(out) < n && !p.done {
		rec, err := p.r.Read()
		if errors.Is(err, io.EOF) {
			p.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		out = append(out, p.row(rec))
	}
	return out, nil
}

// row pads or cuts rec to the header width.
func (p *CSVParser) row(rec []string) []any {
	out := make([]any, len(p.cols))
	for i := range out {
		if i < len(rec) {
			out[i] = rec[i]
		}
	}
	return out
}

func (p *CSVParser) Close() error {
	if p.c != nil {
		return p.c.Close()
	}
	return nil
}

// object is a decoded JSON object with its key order.
type object struct {
	keys   []string
	values map[string]any
}

// readObject decodes one object token by token so key order survives.
func readObject(dec *json.Decoder) (object, error) {
	tok, err := dec.Token()
	if err != nil {
		return object{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return object{}, dberr.Validation("expected a JSON object, got %v", tok)
	}
	obj := object{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return object{}, err
		}
		key, _ := tok.(string)
		var v any
		if err := dec.Decode(&v); err != nil {
			return object{}, fmt.Errorf("decode %q: %w", key, err)
		}
		if _, seen := obj.values[key]; !seen {
			obj.keys = append(obj.keys, key)
		}
		obj.values[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return object{}, err
	}
	return obj, nil
}

// jsonParser aligns a stream of objects with the keys of the first one.
type jsonParser struct {
	next    func() (object, bool, error)
	c       io.Closer
	cols    []string
	index   map[string]int
	pending *object
	done    bool
}

func (p *jsonParser) Columns(context.Context) ([]string, error) {
	if p.cols != nil {
		return p.cols, nil
	}
	obj, ok, err := p.next()
	if err != nil {
		return nil, err
	}
	p.cols = []string{}
	p.index = make(map[string]int)
	if !ok {
		p.done = true
		return p.cols, nil
	}
	for _, k := range obj.keys {
		p.index[k] = len(p.cols)
		p.cols = append(p.cols, k)
	}
	p.pending = &obj
	return p.cols, nil
}

func (p *jsonParser) Next(ctx context.Context, n int) ([][]any, error) {
	if _, err := p.Columns(ctx); err != nil {
		return nil, err
	}
	out := [][]any{}
	if p.pending != nil {
		out = append(out, p.row(*p.pending))
		p.pending = nil
	}
	for len(out) < n && !p.done {
		obj, ok, err := p.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			p.done = true
			break
		}
		out = append(out, p.row(obj))
	}
	return out, nil
}

func (p *jsonParser) row(obj object) []any {
	out := make([]any, len(p.cols))
	for _, k := range obj.keys {
		i, ok := p.index[k]
		if !ok {
			slog.Debug("ignoring key missing from the first object", "key", k)
			continue
		}
		out[i] = obj.values[k]
	}
	return out
}

func (p *jsonParser) Close() error {
	if p.c != nil {
		return p.c.Close()
	}
	return nil
}

// NewJSON streams a top level array of objects.
func NewJSON(r io.Reader) Parser {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	opened := false
	next := func() (object, bool, error) {
		if !opened {
			tok, err := dec.Token()
			if err != nil {
				return object{}, false, fmt.Errorf("read json: %w", err)
			}
			if d, ok := tok.(json.Delim); !ok || d != '[' {
				return object{}, false, dberr.Validation("json import expects an array of objects")
			}
			opened = true
		}
		if !dec.More() {
			return object{}, false, nil
		}
		obj, err := readObject(dec)
		if err != nil {
			return object{}, false, fmt.Errorf("read json: %w", err)
		}
		return obj, true, nil
	}
	c, _ := r.(io.Closer)
	return &jsonParser{next: next, c: c}
}

// NewJSONL reads one object per line; blank lines are skipped.
func NewJSONL(r io.Reader) Parser {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	line := 0
	next := func() (object, bool, error) {
		for sc.Scan() {
			line++
			b := bytes.TrimSpace(sc.Bytes())
			if len(b) == 0 {
				continue
			}
			dec := json.NewDecoder(bytes.NewReader(b))
			dec.UseNumber()
			obj, err := readObject(dec)
			if err != nil {
				return object{}, false, fmt.Errorf("read jsonl line %d: %w", line, err)
			}
			return obj, true, nil
		}
		if err := sc.Err(); err != nil {
			return object{}, false, fmt.Errorf("read jsonl: %w", err)
		}
		return object{}, false, nil
	}
	c, _ := r.(io.Closer)
	return &jsonParser{next: next, c: c}
}

// XLSXParser reads one worksheet; the first row is the header.
type XLSXParser struct {
	f    *excelize.File
	rows *excelize.Rows
	cols []string
	done bool
}

var _ Parser = (*XLSXParser)(nil)

// NewXLSX opens a workbook. An empty sheet selects the first one.
func NewXLSX(r io.Reader, sheet string) (*XLSXParser, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			f.Close()
			return nil, dberr.Validation("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open sheet %s: %w", sheet, err)
	}
	return &XLSXParser{f: f, rows: rows}, nil
}

func (p *XLSXParser) readRow() ([]string, bool, error) {
	if p.done || !p.rows.Next() {
		p.done = true
		if err := p.rows.Error(); err != nil {
			return nil, false, fmt.Errorf("read sheet: %w", err)
		}
		return nil, false, nil
	}
	rec, err := p.rows.Columns()
	if err != nil {
		return nil, false, fmt.Errorf("read sheet: %w", err)
	}
	return rec, true, nil
}

func (p *XLSXParser) Columns(context.Context) ([]string, error) {
	if p.cols != nil {
		return p.cols, nil
	}
	rec, ok, err := p.readRow()
	if err != nil {
		return nil, err
	}
	p.cols = []string{}
	if ok {
		p.cols = rec
	}
	return p.cols, nil
}

func (p *XLSXParser) Next(ctx context.Context, n int) ([][]any, error) {
	if _, err := p.Columns(ctx); err != nil {
		return nil, err
	}
	out := [][]any{}
	for len(out) < n {
		rec, ok, err := p.readRow()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		// trailing empty cells are omitted by the reader
		row := make([]any, len(p.cols))
		for i := range row {
			if i < len(rec) {
				row[i] = rec[i]
			}
		}
		out = append(out, row)
	}
	return out, nil
}

func (p *XLSXParser) Close() error {
	return errors.Join(p.rows.Close(), p.f.Close())
}
