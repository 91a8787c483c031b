// Package cursor defines the chunked, cancellable read contract shared by
// database clients and streaming jobs, with a database/sql implementation
// and an offset-pagination implementation.
package cursor

import (
	"context"
	"strings"
	"sync"

	"dbkeeper/internal/dberr"
)

// State is the lifecycle position of a cursor.
type State int

const (
	Created State = iota
	Started
	Reading
	Idle
	Closed
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Started:
		return "started"
	case Reading:
		return "reading"
	case Idle:
		return "idle"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Cursor reads a result set in chunks. A cursor is owned by exactly one
// reader; only Cancel may be called from another goroutine.
type Cursor interface {
	ChunkSize() int
	// Pos is the number of successful Read calls so far.
	Pos() int
	// Start runs any setup query. Calling it again is a no-op.
	Start(ctx context.Context) error
	// Read returns up to ChunkSize rows; an empty batch means exhausted.
	Read(ctx context.Context) ([][]any, error)
	// Cancel stops the query, server side where the backend allows it.
	// It is safe to call at any time, including after Close.
	Cancel(ctx context.Context) error
	Close(ctx context.Context) error
}

// Column describes one result column.
type Column struct {
	Name         string `json:"name"`
	DatabaseType string `json:"databaseType,omitempty"`
	// Binary columns keep their []byte values.
	Binary bool `json:"binary,omitempty"`
}

// DefaultChunkSize is used when a cursor is created with a non-positive size.
const DefaultChunkSize = 1000

var binaryTypes = []string{"BLOB", "BINARY", "BYTEA", "RAW", "IMAGE", "BIT", "BYTES"}

// IsBinaryType reports whether values of a database type should stay bytes.
func IsBinaryType(databaseType string) bool {
	t := strings.ToUpper(databaseType)
	for _, b := range binaryTypes {
		if strings.Contains(t, b) {
			return true
		}
	}
	return false
}

// lifecycle carries the state shared by every implementation.
type lifecycle struct {
	mu        sync.Mutex
	state     State
	pos       int
	chunkSize int
	exhausted bool
}

func (l *lifecycle) init(chunkSize int) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	l.chunkSize = chunkSize
}

func (l *lifecycle) ChunkSize() int { return l.chunkSize }

func (l *lifecycle) Pos() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pos
}

// State returns the current lifecycle state.
func (l *lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// beginRead moves Started/Idle to Reading. done reports an exhausted cursor
// that must return an empty batch without touching the backend.
func (l *lifecycle) beginRead() (done bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.state {
	case Created:
		return false, dberr.Cursor("read before start")
	case Closed:
		return false, dberr.Cursor("read after close")
	case Reading:
		return false, dberr.Cursor("concurrent read")
	}
	if l.exhausted {
		l.pos++
		return true, nil
	}
	l.state = Reading
	return false, nil
}

// endRead records the outcome of a read started with beginRead.
func (l *lifecycle) endRead(rows int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Reading {
		l.state = Idle
	}
	if err != nil {
		return
	}
	l.pos++
	if rows < l.chunkSize {
		l.exhausted = true
	}
}
