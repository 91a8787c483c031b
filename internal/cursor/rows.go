package cursor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"dbkeeper/internal/dberr"
)

// RowsOptions configures a RowsCursor.
type RowsOptions struct {
	ChunkSize int
	Args      []any
	// Canceller issues a server-side cancel. Nil means Cancel only aborts
	// the client side context.
	Canceller *Canceller
}

// RowsCursor streams a query over one dedicated connection, so the backend
// session id stays valid for server-side cancellation.
type RowsCursor struct {
	lifecycle

	db    *sql.DB
	query string
	opts  RowsOptions

	conn      *sql.Conn
	rows      *sql.Rows
	columns   []Column
	backendID int64
	stop      context.CancelFunc
}

var _ Cursor = (*RowsCursor)(nil)

// NewRows returns an unstarted cursor for query.
func NewRows(db *sql.DB, query string, opts RowsOptions) *RowsCursor {
	c := &RowsCursor{db: db, query: query, opts: opts}
	c.init(opts.ChunkSize)
	return c
}

// Columns returns the result columns; nil before Start.
func (c *RowsCursor) Columns() []Column {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.columns
}

func (c *RowsCursor) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Created {
		return nil
	}

	conn, err := c.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("cursor connection: %w", err)
	}

	if cc := c.opts.Canceller; cc != nil && cc.IDQuery != "" {
		if err := conn.QueryRowContext(ctx, cc.IDQuery).Scan(&c.backendID); err != nil {
			slog.Warn("could not read backend id, server-side cancel disabled", "error", err)
			c.backendID = 0
		}
	}

	// The query outlives this call; it ends on Close or Cancel.
	qctx, stop := context.WithCancel(context.WithoutCancel(ctx))
	rows, err := conn.QueryContext(qctx, c.query, c.opts.Args...)
	if err != nil {
		stop()
		return errors.Join(dberr.Execution(c.query, err), conn.Close())
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		stop()
		return errors.Join(fmt.Errorf("cursor columns: %w", err), rows.Close(), conn.Close())
	}
	c.columns = make([]Column, len(types))
	for i, t := range types {
		c.columns[i] = Column{
			Name:         t.Name(),
			DatabaseType: t.DatabaseTypeName(),
			Binary:       IsBinaryType(t.DatabaseTypeName()),
		}
	}

	c.conn, c.rows, c.stop = conn, rows, stop
	c.state = Started
	return nil
}

func (c *RowsCursor) Read(ctx context.Context) ([][]any, error) {
	done, err := c.beginRead()
	if err != nil || done {
		return nil, err
	}

	batch, err := c.readChunk(ctx)
	c.endRead(len(batch), err)
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func (c *RowsCursor) readChunk(ctx context.Context) ([][]any, error) {
	batch := make([][]any, 0, c.chunkSize)
	for len(batch) < c.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !c.rows.Next() {
			if err := c.rows.Err(); err != nil {
				return nil, fmt.Errorf("cursor read: %w", err)
			}
			break
		}

		values := make([]any, len(c.columns))
		ptrs := make([]any, len(c.columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := c.rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("cursor scan: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok && !c.columns[i].Binary {
				values[i] = string(b)
			}
		}
		batch = append(batch, values)
	}
	return batch, nil
}

// Cancel asks the server to stop the running statement from a separate
// connection, then aborts the client side and releases resources.
func (c *RowsCursor) Cancel(ctx context.Context) error {
	c.mu.Lock()
	id, stop, state := c.backendID, c.stop, c.state
	c.mu.Unlock()

	if state == Closed {
		return nil
	}
	if cc := c.opts.Canceller; cc != nil && cc.Kill != nil && id != 0 && state != Created {
		if err := cc.Kill(ctx, c.db, id); err != nil {
			slog.Warn("server-side cancel failed", "backend", id, "error", err)
		}
	}
	if stop != nil {
		stop()
	}
	return c.Close(ctx)
}

func (c *RowsCursor) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return nil
	}
	c.state = Closed

	var errs []error
	if c.rows != nil {
		errs = append(errs, c.rows.Close())
	}
	if c.stop != nil {
		c.stop()
	}
	if c.conn != nil {
		errs = append(errs, c.conn.Close())
	}
	err := errors.Join(errs...)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
