package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/pr-summarizer/internal/core"
)

// blockingJob holds every run until a value arrives on release.
type blockingJob struct {
	started chan *core.GitHubEvent
	release chan struct{}
	runs    atomic.Int32
}

func newBlockingJob() *blockingJob {
	return &blockingJob{started: make(chan *core.GitHubEvent, 10), release: make(chan struct{})}
}

func (j *blockingJob) Run(_ context.Context, event *core.GitHubEvent) error {
	j.started <- event
	<-j.release
	j.runs.Add(1)
	return nil
}

func eventFor(pr int) *core.GitHubEvent {
	e := validEvent()
	e.PRNumber = pr
	return e
}

func eventWithHeadFor(pr int, head string) *core.GitHubEvent {
	e := eventFor(pr)
	e.HeadSHA = head
	e.Trigger = "synchronize"
	return e
}

func TestDispatcher_RefusesDuplicateQueuedPR(t *testing.T) {
	job := newBlockingJob()
	d := NewDispatcher(job, 1, 10, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Dispatch(context.Background(), eventFor(1)))
	assert.Equal(t, "octo/hello#1", (<-job.started).Key())

	// queued behind the running job
	require.NoError(t, d.Dispatch(context.Background(), eventFor(2)))
	assert.ErrorIs(t, d.Dispatch(context.Background(), eventFor(2)), ErrAlreadyQueued)

	close(job.release)
	d.Stop()
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestDispatcher_NewHeadWhileRunningIsRerun(t *testing.T) {
	job := newBlockingJob()
	d := NewDispatcher(job, 2, 10, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Dispatch(context.Background(), eventWithHeadFor(1, "aaaa")))
	first := <-job.started
	assert.Equal(t, "aaaa", first.HeadSHA)

	// both pushes land during the run, only the newest is rerun
	require.NoError(t, d.Dispatch(context.Background(), eventWithHeadFor(1, "bbbb")))
	require.NoError(t, d.Dispatch(context.Background(), eventWithHeadFor(1, "cccc")))

	// the second worker must not pick up the same pull request
	select {
	case e := <-job.started:
		t.Fatalf("overlapping run for %s at %s", e.Key(), e.HeadSHA)
	case <-time.After(50 * time.Millisecond):
	}

	job.release <- struct{}{}
	second := <-job.started
	assert.Equal(t, "cccc", second.HeadSHA)
	job.release <- struct{}{}

	d.Stop()
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestDispatcher_QueuedPRTakesNewestEvent(t *testing.T) {
	job := newBlockingJob()
	d := NewDispatcher(job, 1, 10, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Dispatch(context.Background(), eventFor(1)))
	<-job.started

	require.NoError(t, d.Dispatch(context.Background(), eventWithHeadFor(2, "aaaa")))
	assert.ErrorIs(t, d.Dispatch(context.Background(), eventWithHeadFor(2, "bbbb")), ErrAlreadyQueued)

	job.release <- struct{}{}
	queued := <-job.started
	assert.Equal(t, 2, queued.PRNumber)
	assert.Equal(t, "bbbb", queued.HeadSHA)
	job.release <- struct{}{}

	d.Stop()
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestDispatcher_AcceptsPRAgainAfterRun(t *testing.T) {
	job := &countingJob{done: make(chan struct{}, 2)}
	d := NewDispatcher(job, 2, 10, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Dispatch(context.Background(), eventFor(3)))
	<-job.done

	require.Eventually(t, func() bool {
		return d.Dispatch(context.Background(), eventFor(3)) == nil
	}, time.Second, 10*time.Millisecond)

	d.Stop()
	assert.Equal(t, int32(2), job.runs.Load())
}

func TestDispatcher_QueueFull(t *testing.T) {
	job := newBlockingJob()
	d := NewDispatcher(job, 1, 1, slog.New(slog.DiscardHandler))

	require.NoError(t, d.Dispatch(context.Background(), eventFor(1)))
	<-job.started
	require.NoError(t, d.Dispatch(context.Background(), eventFor(2)))
	assert.ErrorIs(t, d.Dispatch(context.Background(), eventFor(3)), ErrQueueFull)

	close(job.release)
	d.Stop()
}

func TestDispatcher_StopRejectsNewEvents(t *testing.T) {
	job := newBlockingJob()
	close(job.release)
	d := NewDispatcher(job, 0, 0, slog.New(slog.DiscardHandler))

	d.Stop()
	d.Stop()
	assert.ErrorIs(t, d.Dispatch(context.Background(), eventFor(1)), ErrStopped)
}

type countingJob struct {
	done chan struct{}
	runs atomic.Int32
}

func (j *countingJob) Run(context.Context, *core.GitHubEvent) error {
	j.runs.Add(1)
	j.done <- struct{}{}
	return nil
}
