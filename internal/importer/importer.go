// Package importer loads CSV, JSON, JSONL and XLSX files into a table in
// chunked inserts, tracked as a pausable job.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"dbkeeper/internal/client"
	"dbkeeper/internal/dberr"
	"dbkeeper/internal/job"
)

const defaultChunkSize = 500

// Target is the part of a client an import writes through.
type Target interface {
	ListTableColumns(ctx context.Context, table, schema string) ([]client.TableColumn, error)
	TruncateElement(ctx context.Context, table, schema string) error
	ApplyChanges(ctx context.Context, changes client.TableChanges) (int64, error)
}

var _ Target = (client.Client)(nil)

// ColumnMapping routes a file column into a table column. An empty
// TableColumn skips the file column.
type ColumnMapping struct {
	FileColumn  string `json:"fileColumn" yaml:"fileColumn" mapstructure:"file_column"`
	TableColumn string `json:"tableColumn" yaml:"tableColumn" mapstructure:"table_column"`
}

// Options configures an Import.
type Options struct {
	ID     string
	Table  string
	Schema string
	// Mapping is matched case-insensitively. When empty, file columns are
	// mapped to table columns of the same name.
	Mapping []ColumnMapping
	Trim    bool
	// NullValues are string cells stored as NULL, compared after trimming.
	NullValues    []string
	TruncateTable bool
	ChunkSize     int
	// Total is the expected row count, if known.
	Total      int64
	OnProgress func(job.Progress)
}

// Import is one file-to-table job.
type Import struct {
	*job.Tracker

	parser Parser
	target Target
	opts   Options
}

// New returns an idle import. The parser is closed when Run returns.
func New(p Parser, t Target, opts Options) *Import {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = defaultChunkSize
	}
	return &Import{
		Tracker: job.NewTracker(opts.ID, job.Importing),
		parser:  p,
		target:  t,
		opts:    opts,
	}
}

// Run inserts every parsed row. The first failed chunk stops the job;
// chunks already applied stay committed.
func (im *Import) Run(ctx context.Context) error {
	if err := im.Begin(); err != nil {
		return err
	}
	err := im.run(ctx)
	if cerr := im.parser.Close(); cerr != nil {
		slog.Warn("close import source", "id", im.ID(), "error", cerr)
	}
	if err != nil {
		err = dberr.Import(im.ID(), err)
	}
	im.Finish(err)
	return err
}

// mapped is one resolved column route.
type mapped struct {
	src int
	dst string
}

func (im *Import) run(ctx context.Context) error {
	if im.opts.Table == "" {
		return dberr.Validation("import needs a target table")
	}
	fileCols, err := im.parser.Columns(ctx)
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}
	tableCols, err := im.target.ListTableColumns(ctx, im.opts.Table, im.opts.Schema)
	if err != nil {
		return fmt.Errorf("list columns of %s: %w", im.opts.Table, err)
	}
	if len(tableCols) == 0 {
		return dberr.NotFound("table", im.opts.Table)
	}
	routes, err := resolveMapping(fileCols, tableCols, im.opts.Mapping)
	if err != nil {
		return err
	}
	if im.opts.Total > 0 {
		im.SetTotal(im.opts.Total)
	}

	if im.opts.TruncateTable {
		if err := im.target.TruncateElement(ctx, im.opts.Table, im.opts.Schema); err != nil {
			return fmt.Errorf("truncate %s: %w", im.opts.Table, err)
		}
	}

	nulls := make(map[string]struct{}, len(im.opts.NullValues))
	for _, v := range im.opts.NullValues {
		nulls[v] = struct{}{}
	}

	var done int64
	for {
		ok, err := im.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			slog.Info("import aborted", "id", im.ID(), "rows", done)
			return nil
		}
		rows, err := im.parser.Next(ctx, im.opts.ChunkSize)
		if err != nil {
			if im.Status() == job.Aborted {
				return nil
			}
			return fmt.Errorf("parse after row %d: %w", done, err)
		}
		if len(rows) == 0 {
			return nil
		}

		data := make([]map[string]any, len(rows))
		for i, row := range rows {
			rec := make(map[string]any, len(routes))
			for _, r := range routes {
				var v any
				if r.src < len(row) {
					v = row[r.src]
				}
				rec[r.dst] = cellValue(v, im.opts.Trim, nulls)
			}
			data[i] = rec
		}
		_, err = im.target.ApplyChanges(ctx, client.TableChanges{Inserts: []client.TableInsert{{
			Table:  im.opts.Table,
			Schema: im.opts.Schema,
			Data:   data,
		}}})
		if err != nil {
			if im.Status() == job.Aborted {
				slog.Info("import aborted", "id", im.ID(), "rows", done)
				return nil
			}
			return fmt.Errorf("insert rows %d-%d: %w", done+1, done+int64(len(rows)), err)
		}
		done += int64(len(rows))

		p := im.Add(len(rows), 0)
		if im.opts.OnProgress != nil {
			im.opts.OnProgress(p)
		}
	}
}

// resolveMapping matches file columns to table columns, returning the
// table's spelling of each target.
func resolveMapping(fileCols []string, tableCols []client.TableColumn, mapping []ColumnMapping) ([]mapped, error) {
	byName := make(map[string]string, len(tableCols))
	for _, c := range tableCols {
		byName[strings.ToLower(c.Name)] = c.Name
	}
	fileIdx := make(map[string]int, len(fileCols))
	for i, c := range fileCols {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, dup := fileIdx[key]; !dup {
			fileIdx[key] = i
		}
	}

	var out []mapped
	if len(mapping) == 0 {
		for i, c := range fileCols {
			if dst, ok := byName[strings.ToLower(strings.TrimSpace(c))]; ok {
				out = append(out, mapped{src: i, dst: dst})
			}
		}
	} else {
		for _, m := range mapping {
			if m.TableColumn == "" {
				continue
			}
			src, ok := fileIdx[strings.ToLower(strings.TrimSpace(m.FileColumn))]
			if !ok {
				return nil, dberr.Validation("file has no column %q", m.FileColumn)
			}
			dst, ok := byName[strings.ToLower(m.TableColumn)]
			if !ok {
				return nil, dberr.Validation("table has no column %q", m.TableColumn)
			}
			out = append(out, mapped{src: src, dst: dst})
		}
	}

	if len(out) == 0 {
		return nil, dberr.Validation("no file column matches a table column")
	}
	seen := make(map[string]bool, len(out))
	for _, m := range out {
		if seen[m.dst] {
			return nil, dberr.Validation("column %q is mapped twice", m.dst)
		}
		seen[m.dst] = true
	}
	return out, nil
}

// cellValue turns a parsed cell into a bind value.
func cellValue(v any, trim bool, nulls map[string]struct{}) any {
	switch x := v.(type) {
	case string:
		if trim {
			x = strings.TrimSpace(x)
		}
		if _, ok := nulls[strings.TrimSpace(x)]; ok {
			return nil
		}
		return x
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
	return v
}
