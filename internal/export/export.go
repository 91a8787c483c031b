// Package export streams a cursor into a file through a Formatter, with
// progress events, pause/resume and abort.
package export

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"dbkeeper/internal/client"
	"dbkeeper/internal/cursor"
	"dbkeeper/internal/dberr"
	"dbkeeper/internal/dialect"
	"dbkeeper/internal/job"
)

// Source opens the stream to export. It is called once by Run.
type Source func(ctx context.Context) (*client.StreamResult, error)

// TableSource streams a table, optionally filtered and ordered.
func TableSource(c client.Client, opts client.StreamOptions) Source {
	return func(ctx context.Context) (*client.StreamResult, error) {
		return c.SelectTopStream(ctx, opts)
	}
}

// QuerySource streams the result of a free form query.
func QuerySource(c client.Client, query string, chunkSize int) Source {
	return func(ctx context.Context) (*client.StreamResult, error) {
		return c.QueryStream(ctx, query, chunkSize)
	}
}

// Options configures an Export.
type Options struct {
	ID   string
	Path string
	// Dialect of the source, used for dialect specific value formatting.
	Dialect       dialect.Dialect
	DeleteOnAbort bool
	// OnProgress runs on the export goroutine after each chunk.
	OnProgress func(job.Progress)
}

// Export is one streaming export job.
type Export struct {
	*job.Tracker

	source    Source
	formatter Formatter
	opts      Options

	mu  sync.Mutex
	cur cursor.Cursor
}

// New returns an idle export writing to opts.Path.
func New(source Source, f Formatter, opts Options) *Export {
	return &Export{
		Tracker:   job.NewTracker(opts.ID, job.Exporting),
		source:    source,
		formatter: f,
		opts:      opts,
	}
}

func (e *Export) Path() string { return e.opts.Path }

// Abort stops the loop at the next chunk and cancels the running query.
func (e *Export) Abort() bool {
	if !e.Tracker.Abort() {
		return false
	}
	e.mu.Lock()
	cur := e.cur
	e.mu.Unlock()
	if cur != nil {
		if err := cur.Cancel(context.Background()); err != nil {
			slog.Warn("cancel export cursor", "id", e.ID(), "error", err)
		}
	}
	return true
}

// countingWriter tracks the number of bytes written to the file.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Run drives the export to completion, abort or failure. Failures are
// recorded on the job and returned; an abort returns nil.
func (e *Export) Run(ctx context.Context) error {
	if err := e.Begin(); err != nil {
		return err
	}
	err := e.run(ctx)
	if err != nil {
		err = dberr.Export(e.ID(), err)
	}
	e.Finish(err)
	return err
}

func (e *Export) run(ctx context.Context) (err error) {
	if e.opts.Path == "" {
		return dberr.Validation("export needs an output path")
	}
	f, err := os.Create(e.opts.Path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	keep := false
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
			keep = false
		}
		if !keep {
			e.cleanup()
		}
	}()

	res, err := e.source(ctx)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	e.mu.Lock()
	e.cur = res.Cursor
	e.mu.Unlock()
	defer func() {
		if cerr := res.Cursor.Close(ctx); cerr != nil {
			slog.Warn("close export cursor", "id", e.ID(), "error", cerr)
		}
	}()
	e.SetTotal(res.TotalRows)

	cw := &countingWriter{w: f}
	w := bufio.NewWriter(cw)
	if err := e.formatter.Header(w, res.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	var written int64
	for {
		ok, err := e.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			// aborted
			keep = !e.opts.DeleteOnAbort
			if flushErr := w.Flush(); flushErr != nil {
				slog.Warn("flush aborted export", "id", e.ID(), "error", flushErr)
			}
			return nil
		}

		rows, err := res.Cursor.Read(ctx)
		if err != nil {
			if e.Status() == job.Aborted {
				keep = !e.opts.DeleteOnAbort
				return nil
			}
			return fmt.Errorf("read chunk: %w", err)
		}
		if len(rows) == 0 {
			break
		}

		for _, row := range rows {
			if err := e.formatter.Row(w, res.Columns, mutateRow(e.opts.Dialect, res.Columns, row), written); err != nil {
				return fmt.Errorf("write row %d: %w", written+1, err)
			}
			written++
		}
		if err := w.Flush(); err != nil {
			return fmt.Errorf("write chunk: %w", err)
		}

		p := e.Add(len(rows), cw.n)
		if e.opts.OnProgress != nil {
			e.opts.OnProgress(p)
		}
	}

	if err := e.formatter.Footer(w, written); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write footer: %w", err)
	}
	e.Add(0, cw.n)
	keep = true
	return nil
}

// cleanup removes the partial output file.
func (e *Export) cleanup() {
	if err := os.Remove(e.opts.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("remove partial export", "path", e.opts.Path, "error", err)
	}
}
