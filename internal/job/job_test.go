package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"dbkeeper/internal/dberr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestTrackerLifecycle(t *testing.T) {
	tr := NewTracker("", Exporting)
	assert.NotEmpty(t, tr.ID())
	assert.Equal(t, Idle, tr.Status())

	require.NoError(t, tr.Begin())
	assert.Equal(t, Exporting, tr.Status())
	assert.ErrorIs(t, tr.Begin(), dberr.ErrInProgress)

	tr.Finish(nil)
	assert.Equal(t, Completed, tr.Status())
	assert.False(t, tr.Abort(), "finished jobs cannot be aborted")
}

func TestTrackerErrorIsRecorded(t *testing.T) {
	tr := NewTracker("job-1", Importing)
	require.NoError(t, tr.Begin())
	tr.Finish(errors.New("disk full"))

	snap := tr.Snapshot()
	assert.Equal(t, Error, snap.Status)
	assert.Equal(t, "disk full", snap.Err)
	assert.Equal(t, "job-1", snap.ID)
}

func TestAbortWinsOverFinish(t *testing.T) {
	tr := NewTracker("", Exporting)
	require.NoError(t, tr.Begin())
	require.True(t, tr.Abort())
	tr.Finish(errors.New("late failure"))
	assert.Equal(t, Aborted, tr.Status())
	assert.NoError(t, tr.Err())
}

func TestPauseBlocksNextUntilResume(t *testing.T) {
	tr := NewTracker("", Exporting)
	require.NoError(t, tr.Begin())
	require.True(t, tr.Pause())
	assert.False(t, tr.Pause())

	done := make(chan bool)
	go func() {
		ok, _ := tr.Next(context.Background())
		done <- ok
	}()

	select {
	case <-done:
		t.Fatal("Next returned while paused")
	case <-time.After(20 * time.Millisecond):
	}

	require.True(t, tr.Resume())
	assert.True(t, <-done)
}

func TestAbortReleasesPausedLoop(t *testing.T) {
	tr := NewTracker("", Exporting)
	require.NoError(t, tr.Begin())
	require.True(t, tr.Pause())

	done := make(chan bool)
	go func() {
		ok, _ := tr.Next(context.Background())
		done <- ok
	}()
	require.True(t, tr.Abort())
	assert.False(t, <-done)
}

func TestAbortedJobIgnoresCancelledContext(t *testing.T) {
	tr := NewTracker("", Exporting)
	require.NoError(t, tr.Begin())
	require.True(t, tr.Pause())

	ctx, cancel := context.WithCancel(context.Background())
	type result struct {
		ok  bool
		err error
	}
	done := make(chan result)
	go func() {
		ok, err := tr.Next(ctx)
		done <- result{ok, err}
	}()
	require.True(t, tr.Abort())
	cancel()

	r := <-done
	assert.False(t, r.ok)
	assert.NoError(t, r.err)

	ok, err := tr.Next(ctx)
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestNextHonoursContext(t *testing.T) {
	tr := NewTracker("", Exporting)
	require.NoError(t, tr.Begin())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ok, err := tr.Next(ctx)
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProgressExtrapolatesLinearly(t *testing.T) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	tr := NewTracker("", Exporting)
	tr.now = c.now
	require.NoError(t, tr.Begin())
	tr.SetTotal(100)

	c.t = c.t.Add(10 * time.Second)
	p := tr.Add(25, 2048)
	assert.EqualValues(t, 25, p.CountExported)
	assert.EqualValues(t, 10, p.SecondsElapsed)
	assert.EqualValues(t, 30, p.SecondsRemaining)
	assert.InDelta(t, 25.0, p.PercentComplete, 0.001)
	assert.Equal(t, Exporting, p.Status)
	assert.EqualValues(t, 2048, tr.Snapshot().FileSize)
}

func TestProgressWithUnknownTotal(t *testing.T) {
	tr := NewTracker("", Exporting)
	require.NoError(t, tr.Begin())
	p := tr.Add(10, 0)
	assert.EqualValues(t, -1, p.TotalRecords)
	assert.Zero(t, p.SecondsRemaining)
	assert.Zero(t, p.PercentComplete)
}
