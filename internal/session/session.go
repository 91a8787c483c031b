// Package session holds the long running jobs of one process: exports and
// imports keyed by id, and the lock set that keeps two of them from working
// on the same key.
package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"dbkeeper/internal/dberr"
	"dbkeeper/internal/job"
)

// Job is a tracked export or import.
type Job interface {
	ID() string
	Run(ctx context.Context) error
	Abort() bool
	Snapshot() job.Snapshot
}

type entry struct {
	job  Job
	done chan struct{}
	err  error
}

// Session owns its jobs. The zero value is not usable; call New.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	jobs  map[string]*entry
	order []string
	locks *Locks
	wg    sync.WaitGroup
}

// New returns a session whose jobs run under ctx.
func New(ctx context.Context) *Session {
	ctx, cancel := context.WithCancel(ctx)
	return &Session{
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(map[string]*entry),
		locks:  NewLocks(),
	}
}

func (s *Session) Locks() *Locks { return s.locks }

// Start runs j on its own goroutine. A job id can only be registered once.
func (s *Session) Start(j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[j.ID()]; ok {
		return dberr.InProgress(j.ID())
	}
	e := &entry{job: j, done: make(chan struct{})}
	s.jobs[j.ID()] = e
	s.order = append(s.order, j.ID())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(e.done)
		e.err = j.Run(s.ctx)
		slog.Debug("job returned", "id", j.ID(), "status", j.Snapshot().Status)
	}()
	return nil
}

func (s *Session) entry(id string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[id]
	if !ok {
		return nil, dberr.NotFound("job", id)
	}
	return e, nil
}

// Get returns a registered job.
func (s *Session) Get(id string) (Job, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return e.job, nil
}

// Wait blocks until the job's Run returns and reports its error.
func (s *Session) Wait(ctx context.Context, id string) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	select {
	case <-e.done:
		return e.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// List returns snapshots in start order.
func (s *Session) List() []job.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]job.Snapshot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.jobs[id].job.Snapshot())
	}
	return out
}

// Remove forgets a job that has stopped running.
func (s *Session) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[id]
	if !ok {
		return dberr.NotFound("job", id)
	}
	select {
	case <-e.done:
	default:
		return dberr.InProgress(id)
	}
	delete(s.jobs, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Close aborts running jobs and waits for them to return.
func (s *Session) Close() {
	s.mu.Lock()
	for _, e := range s.jobs {
		e.job.Abort()
	}
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

// Locks is a set of held keys. Acquire does not wait.
type Locks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewLocks() *Locks {
	return &Locks{held: make(map[string]struct{})}
}

// Acquire takes key or fails with dberr.ErrInProgress. The returned
// release func is idempotent.
func (l *Locks) Acquire(key string) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return nil, dberr.InProgress(key)
	}
	l.held[key] = struct{}{}
	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}

// Held lists the held keys, sorted.
func (l *Locks) Held() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.held))
	for k := range l.held {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
