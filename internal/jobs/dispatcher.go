package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sevigo/pr-summarizer/internal/core"
)

var (
	// ErrAlreadyQueued is returned when the pull request is already waiting for a worker.
	// The waiting job is updated to the newer event.
	ErrAlreadyQueued = errors.New("pull request already queued")
	// ErrQueueFull is returned when the queue cannot take another event.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned by Dispatch after Stop.
	ErrStopped = errors.New("dispatcher stopped")
)

// dispatcher implements core.JobDispatcher with a fixed pool of workers
// reading from a bounded queue.
type dispatcher struct {
	job        core.Job
	jobQueue   chan *core.GitHubEvent
	maxWorkers int
	wg         sync.WaitGroup
	logger     *slog.Logger

	mu      sync.Mutex
	pending map[string]*prState // keyed by GitHubEvent.Key
	stopped bool
}

// prState tracks one pull request between Dispatch and the end of its last run.
// Runs for the same pull request never overlap.
type prState struct {
	latest  *core.GitHubEvent // newest event seen while queued
	running bool
	rerun   *core.GitHubEvent // newest event seen while running
}

// NewDispatcher initializes a dispatcher with a worker pool.
// Non-positive maxWorkers and queueSize default to 1 and 100.
func NewDispatcher(job core.Job, maxWorkers, queueSize int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if queueSize <= 0 {
		queueSize = 100
	}
	d := &dispatcher{
		job:        job,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.GitHubEvent, queueSize),
		pending:    make(map[string]*prState),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Debug("starting summarize worker", "id", workerID)

	for event := range d.jobQueue {
		d.processEvent(workerID, event)
	}

	d.logger.Debug("shutting down summarize worker", "id", workerID)
}

func (d *dispatcher) processEvent(workerID int, event *core.GitHubEvent) {
	key := event.Key()
	for event = d.start(key, event); event != nil; event = d.finish(key) {
		d.logger.Info("worker processing job", "worker_id", workerID, "repo", event.RepoFullName, "pr", event.PRNumber, "head", event.HeadSHA)

		if err := d.job.Run(context.Background(), event); err != nil {
			d.logger.Error("summarize job failed",
				"repo", event.RepoFullName,
				"pr", event.PRNumber,
				"error", err,
			)
		}
	}
}

// start marks key as running and returns the newest event queued for it.
func (d *dispatcher) start(key string, event *core.GitHubEvent) *core.GitHubEvent {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, ok := d.pending[key]
	if !ok {
		st = &prState{}
		d.pending[key] = st
	}
	if st.latest != nil {
		event = st.latest
	}
	st.latest = nil
	st.running = true
	return event
}

// finish returns the event that arrived during the run, or releases key.
func (d *dispatcher) finish(key string) *core.GitHubEvent {
	d.mu.Lock()
	defer d.mu.Unlock()

	st := d.pending[key]
	if st == nil || st.rerun == nil {
		delete(d.pending, key)
		return nil
	}
	next := st.rerun
	st.rerun = nil
	d.logger.Info("rerunning summarize job for newer event", "repo", next.RepoFullName, "pr", next.PRNumber, "head", next.HeadSHA)
	return next
}

// Dispatch queues a GitHub event for processing by a worker.
func (d *dispatcher) Dispatch(_ context.Context, event *core.GitHubEvent) error {
	key := event.Key()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return ErrStopped
	}
	if st, ok := d.pending[key]; ok {
		if st.running {
			// picked up by the running worker once the current run ends
			st.rerun = event
			d.logger.Info("summarize job running, scheduled rerun", "repo", event.RepoFullName, "pr", event.PRNumber, "trigger", event.Trigger)
			return nil
		}
		st.latest = event
		return fmt.Errorf("%w: %s", ErrAlreadyQueued, key)
	}

	select {
	case d.jobQueue <- event:
		d.pending[key] = &prState{}
		d.logger.Info("queued summarize job", "repo", event.RepoFullName, "pr", event.PRNumber, "trigger", event.Trigger)
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for queued, running and rerun jobs to finish.
func (d *dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.jobQueue)
	d.mu.Unlock()

	d.logger.Info("stopping dispatcher and waiting for jobs to finish")
	d.wg.Wait()
	d.logger.Info("all summarize jobs have finished")
}
