package cursor

import (
	"context"
	"fmt"
)

// PageFunc fetches one page.
type PageFunc func(ctx context.Context, offset, limit int) ([][]any, error)

// PageCursor emulates a cursor with LIMIT/OFFSET style pages for backends
// without server-side cursors: offset = Pos * ChunkSize.
type PageCursor struct {
	lifecycle

	fetch PageFunc
	count func(ctx context.Context) (int64, error)
	total int64
	stop  context.CancelFunc
	ctx   context.Context
}

var _ Cursor = (*PageCursor)(nil)

// NewPage returns an unstarted page cursor. count is optional and runs once
// in Start.
func NewPage(chunkSize int, fetch PageFunc, count func(ctx context.Context) (int64, error)) *PageCursor {
	c := &PageCursor{fetch: fetch, count: count, total: -1}
	c.init(chunkSize)
	return c
}

// NewSlice pages over rows already in memory.
func NewSlice(rows [][]any, chunkSize int) *PageCursor {
	fetch := func(_ context.Context, offset, limit int) ([][]any, error) {
		if offset >= len(rows) {
			return nil, nil
		}
		end := offset + limit
		if end > len(rows) {
			end = len(rows)
		}
		return rows[offset:end], nil
	}
	count := func(context.Context) (int64, error) { return int64(len(rows)), nil }
	return NewPage(chunkSize, fetch, count)
}

// Total is the row count computed by Start, or -1 when unknown.
func (c *PageCursor) Total() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *PageCursor) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Created {
		return nil
	}
	if c.count != nil {
		n, err := c.count(ctx)
		if err != nil {
			return fmt.Errorf("cursor count: %w", err)
		}
		c.total = n
	}
	c.ctx, c.stop = context.WithCancel(context.WithoutCancel(ctx))
	c.state = Started
	return nil
}

func (c *PageCursor) Read(ctx context.Context) ([][]any, error) {
	done, err := c.beginRead()
	if err != nil || done {
		return nil, err
	}

	c.mu.Lock()
	offset := c.pos * c.chunkSize
	cctx := c.ctx
	c.mu.Unlock()

	// Either the caller's context or Cancel stops the fetch.
	rctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-cctx.Done():
			cancel()
		case <-rctx.Done():
		}
	}()

	batch, err := c.fetch(rctx, offset, c.chunkSize)
	if err == nil {
		err = cctx.Err()
	}
	c.endRead(len(batch), err)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		batch = [][]any{}
	}
	return batch, nil
}

func (c *PageCursor) Cancel(ctx context.Context) error {
	c.mu.Lock()
	stop := c.stop
	c.mu.Unlock()
	if stop != nil {
		stop()
	}
	return c.Close(ctx)
}

func (c *PageCursor) Close(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Closed {
		return nil
	}
	c.state = Closed
	if c.stop != nil {
		c.stop()
	}
	return nil
}
