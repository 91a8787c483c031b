package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"dbkeeper/internal/client"
	"dbkeeper/internal/importer"
)

// Pool holds key values of filled tables so child rows can reference them.
type Pool struct {
	mu   sync.Mutex
	keys map[string][]any
}

func NewPool() *Pool {
	return &Pool{keys: make(map[string][]any)}
}

func (p *Pool) Values(table string) []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.keys[strings.ToLower(table)]
}

func (p *Pool) Add(table string, values ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	k := strings.ToLower(table)
	p.keys[k] = append(p.keys[k], values...)
}

// Selecter reads rows from a table.
type Selecter interface {
	SelectTop(ctx context.Context, opts client.SelectOptions) (*client.SelectResult, error)
}

// Load reads up to limit key values of t into the pool. Tables without a
// single column primary key are skipped.
func (p *Pool) Load(ctx context.Context, s Selecter, t Table, limit int) error {
	if len(t.PrimaryKey) != 1 {
		return nil
	}
	res, err := s.SelectTop(ctx, client.SelectOptions{
		Table:   t.Name,
		Schema:  t.Schema,
		Columns: t.PrimaryKey,
		Limit:   limit,
	})
	if err != nil {
		return fmt.Errorf("load keys of %s: %w", t.Name, err)
	}
	vals := make([]any, 0, len(res.Rows))
	for _, r := range res.Rows {
		if len(r) > 0 && r[0] != nil {
			vals = append(vals, r[0])
		}
	}
	p.Add(t.Name, vals...)
	return nil
}

// Source generates rows for one table. It implements importer.Parser so
// generated data goes through the same batched insert path as files.
type Source struct {
	table   Table
	cols    []Column
	gen     *Generator
	pool    *Pool
	target  int
	emitted int
	attempt int

	unique    map[string]map[string]bool
	composite map[string]bool
}

var _ importer.Parser = (*Source)(nil)

// NewSource generates count rows for t, capped by the range of a small
// integer key.
func NewSource(t Table, count int, gen *Generator, pool *Pool) *Source {
	s := &Source{
		table:     t,
		cols:      t.Insertable(),
		gen:       gen,
		pool:      pool,
		target:    count,
		unique:    make(map[string]map[string]bool),
		composite: make(map[string]bool),
	}
	for _, c := range t.Columns {
		if c.PrimaryKey && (c.Generated || len(t.PrimaryKey) == 1) {
			if capped := MaxRows(c.DataType, count); capped < s.target {
				slog.Warn("row count limited by key type", "table", t.Name, "column", c.Name, "type", c.DataType, "rows", capped)
				s.target = capped
			}
		}
	}
	for _, c := range s.cols {
		if c.Unique {
			s.unique[c.Name] = make(map[string]bool)
		}
	}
	return s
}

// Target is the number of rows the source will try to produce.
func (s *Source) Target() int { return s.target }

func (s *Source) Columns(context.Context) ([]string, error) {
	names := make([]string, len(s.cols))
	for i, c := range s.cols {
		names[i] = c.Name
	}
	return names, nil
}

// Next generates up to n rows. Rows repeating a unique value or a
// composite key are regenerated; after ten attempts per requested row the
// source gives up and ends early.
func (s *Source) Next(ctx context.Context, n int) ([][]any, error) {
	maxAttempts := s.target * 10
	out := [][]any{}
	for len(out) < n && s.emitted < s.target {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if s.attempt >= maxAttempts {
			slog.Warn("giving up on duplicate values", "table", s.table.Name, "rows", s.emitted, "target", s.target)
			s.target = s.emitted
			break
		}
		s.attempt++
		row, ok := s.row(s.attempt)
		if !ok {
			continue
		}
		out = append(out, row)
		s.emitted++
	}
	return out, nil
}

func (s *Source) row(index int) ([]any, bool) {
	row := make([]any, len(s.cols))
	var pk []string
	for i, c := range s.cols {
		row[i] = s.value(c, index)
		if c.PrimaryKey {
			pk = append(pk, fmt.Sprint(row[i]))
		}
	}

	key := strings.Join(pk, "|")
	if len(pk) > 1 && s.composite[key] {
		return nil, false
	}
	for i, c := range s.cols {
		if used, ok := s.unique[c.Name]; ok && row[i] != nil && used[fmt.Sprint(row[i])] {
			return nil, false
		}
	}
	if len(pk) > 1 {
		s.composite[key] = true
	}
	for i, c := range s.cols {
		if used, ok := s.unique[c.Name]; ok && row[i] != nil {
			used[fmt.Sprint(row[i])] = true
		}
	}
	return row, true
}

func (s *Source) value(c Column, index int) any {
	if c.References != "" {
		if vals := s.pool.Values(c.References); len(vals) > 0 {
			// unique and composite keys walk the pool in order
			if c.Unique || c.PrimaryKey {
				return vals[(index-1)%len(vals)]
			}
			return vals[s.gen.f.Number(0, len(vals)-1)]
		}
		// parent not filled yet, e.g. a cycle
		if c.Nullable {
			return nil
		}
		if c.Unique {
			return index
		}
		return 1
	}
	if c.PrimaryKey && !c.Generated && isInteger(c.DataType) {
		return index
	}
	return s.gen.Value(c, s.table.Name)
}

func isInteger(dataType string) bool {
	return strings.Contains(dataType, "int") || strings.Contains(dataType, "serial")
}

func (s *Source) Close() error { return nil }
