// Package job tracks the state of one long running export or import: its
// status machine, counters and the progress event sent after every chunk.
package job

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"dbkeeper/internal/dberr"
)

// Status is the lifecycle of a job:
//
//	idle -> exporting|importing -> paused <-> exporting|importing
//	     -> aborted | completed | error
type Status string

const (
	Idle      Status = "idle"
	Exporting Status = "exporting"
	Importing Status = "importing"
	Paused    Status = "paused"
	Aborted   Status = "aborted"
	Completed Status = "completed"
	Error     Status = "error"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	return s == Aborted || s == Completed || s == Error
}

// Progress is emitted after each chunk.
type Progress struct {
	TotalRecords     int64   `json:"totalRecords"`
	CountExported    int64   `json:"countExported"`
	SecondsElapsed   int64   `json:"secondsElapsed"`
	SecondsRemaining int64   `json:"secondsRemaining"`
	Status           Status  `json:"status"`
	PercentComplete  float64 `json:"percentComplete"`
}

// Snapshot is the externally visible state of a job.
type Snapshot struct {
	ID            string `json:"id"`
	Status        Status `json:"status"`
	CountExported int64  `json:"countExported"`
	CountTotal    int64  `json:"countTotal"`
	FileSize      int64  `json:"fileSize"`
	Err           string `json:"error,omitempty"`
}

// Tracker is embedded by export and import jobs. All methods are safe for
// concurrent use; only the owning loop calls Begin, Next, Add and Finish.
type Tracker struct {
	mu       sync.Mutex
	id       string
	active   Status
	status   Status
	count    int64
	total    int64
	fileSize int64
	err      error
	started  time.Time
	resumed  chan struct{}

	now func() time.Time
}

// NewTracker returns an idle tracker. An empty id gets a random uuid;
// active is the running status (Exporting or Importing).
func NewTracker(id string, active Status) *Tracker {
	if id == "" {
		id = uuid.NewString()
	}
	return &Tracker{id: id, active: active, status: Idle, total: -1, now: time.Now}
}

func (t *Tracker) ID() string { return t.id }

func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Err is the failure recorded by Finish, if any.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Begin moves an idle job to its running status. A job runs once.
func (t *Tracker) Begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != Idle {
		return dberr.InProgress(t.id).With("status", string(t.status))
	}
	t.status = t.active
	t.started = t.now()
	slog.Info("job started", "id", t.id, "status", t.status)
	return nil
}

// SetTotal records the expected row count; negative means unknown.
func (t *Tracker) SetTotal(total int64) {
	t.mu.Lock()
	t.total = total
	t.mu.Unlock()
}

// Pause suspends a running job at its next chunk boundary.
func (t *Tracker) Pause() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != t.active {
		return false
	}
	t.status = Paused
	t.resumed = make(chan struct{})
	return true
}

func (t *Tracker) Resume() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != Paused {
		return false
	}
	t.status = t.active
	close(t.resumed)
	return true
}

// Abort stops the job at its next chunk boundary. It returns false when the
// job already finished.
func (t *Tracker) Abort() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.Terminal() {
		return false
	}
	if t.status == Paused {
		close(t.resumed)
	}
	t.status = Aborted
	slog.Info("job aborted", "id", t.id)
	return true
}

// Next is checked at the top of every loop iteration. It blocks while the
// job is paused and reports whether the loop should continue. An aborted job
// reports (false, nil) even when its context is already cancelled, so
// callers take their abort path rather than their error path.
func (t *Tracker) Next(ctx context.Context) (bool, error) {
	t.mu.Lock()
	for t.status == Paused {
		ch := t.resumed
		t.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
		}
		t.mu.Lock()
		if t.status == Paused && ctx.Err() != nil {
			t.mu.Unlock()
			return false, ctx.Err()
		}
	}
	status := t.status
	t.mu.Unlock()
	if status == Aborted {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return status == t.active, nil
}

// Add counts n processed rows and returns the progress event for the chunk.
// fileSize is the output size so far, or 0 when there is no output file.
func (t *Tracker) Add(n int, fileSize int64) Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.count += int64(n)
	if fileSize > 0 {
		t.fileSize = fileSize
	}
	return t.progress()
}

// Finish records the outcome. An aborted job stays aborted.
func (t *Tracker) Finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == Aborted {
		return
	}
	if err != nil {
		t.status = Error
		t.err = err
		slog.Error("job failed", "id", t.id, "error", err)
		return
	}
	t.status = Completed
	slog.Info("job completed", "id", t.id, "rows", t.count)
}

// Progress returns the current progress event.
func (t *Tracker) Progress() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress()
}

// progress extrapolates linearly: time per record so far times the records
// left.
func (t *Tracker) progress() Progress {
	p := Progress{TotalRecords: t.total, CountExported: t.count, Status: t.status}
	if t.started.IsZero() {
		return p
	}
	elapsed := t.now().Sub(t.started)
	p.SecondsElapsed = int64(elapsed / time.Second)
	if t.total > 0 {
		p.PercentComplete = float64(t.count) / float64(t.total) * 100
		if t.count > 0 && t.total > t.count {
			perRecord := float64(elapsed.Milliseconds()) / float64(t.count)
			p.SecondsRemaining = int64(perRecord * float64(t.total-t.count) / 1000)
		}
	}
	return p
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{
		ID:            t.id,
		Status:        t.status,
		CountExported: t.count,
		CountTotal:    t.total,
		FileSize:      t.fileSize,
	}
	if t.err != nil {
		s.Err = t.err.Error()
	}
	return s
}
