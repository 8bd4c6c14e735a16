package core

import (
	"context"
)

// JobDispatcher accepts and queues background jobs for asynchronous processing.
// It decouples the webhook handler from the job execution mechanism.
type JobDispatcher interface {
	// Dispatch queues the event for processing. It returns an error if the job
	// cannot be queued, for example when the queue is full or the same pull
	// request is already waiting.
	Dispatch(ctx context.Context, event *GitHubEvent) error

	// Stop waits for in-flight jobs and releases the workers.
	Stop()
}

// Job is a single executable unit of work triggered by a GitHubEvent.
type Job interface {
	Run(ctx context.Context, event *GitHubEvent) error
}
