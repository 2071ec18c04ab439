package profecoin_api

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

var ErrQueueStopped = errors.New("submit queue stopped")

const (
	submissionQueued int32 = iota
	submissionRunning
	submissionAbandoned
)

type submission struct {
	ctx   context.Context
	fn    func(ctx context.Context) error
	done  chan error
	state atomic.Int32
}

// SubmitQueue runs submissions one at a time, in arrival order, on a single
// goroutine. One queue exists per signer so nonces are assigned without gaps
// or reuse.
type SubmitQueue struct {
	submissions chan *submission
	stopped     chan struct{}
}

func NewSubmitQueue(size int) *SubmitQueue {
	if size < 0 {
		size = 0
	}
	return &SubmitQueue{
		submissions: make(chan *submission, size),
		stopped:     make(chan struct{}),
	}
}

// Start consumes submissions until ctx is done. Submissions still queued at
// that point fail with ErrQueueStopped.
func (q *SubmitQueue) Start(ctx context.Context) {
	log.Info().Msg("Submit queue starting")
	defer close(q.stopped)

	for {
		select {
		case s := <-q.submissions:
			q.run(s)
		case <-ctx.Done():
			q.drain()
			log.Info().Msg("Submit queue stopped")
			return
		}
	}
}

func (q *SubmitQueue) run(s *submission) {
	// the caller gave up while queued
	if !s.state.CompareAndSwap(submissionQueued, submissionRunning) {
		return
	}

	s.done <- s.fn(s.ctx)
}

func (q *SubmitQueue) drain() {
	for {
		select {
		case s := <-q.submissions:
			s.done <- ErrQueueStopped
		default:
			return
		}
	}
}

// Do enqueues fn and blocks until it ran or ctx ended. A submission whose
// ctx ends while queued never runs.
func (q *SubmitQueue) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	s := &submission{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case q.submissions <- s:
	case <-ctx.Done():
		return ctx.Err()
	case <-q.stopped:
		return ErrQueueStopped
	}

	select {
	case err := <-s.done:
		return err
	case <-ctx.Done():
		if s.state.CompareAndSwap(submissionQueued, submissionAbandoned) {
			return ctx.Err()
		}
		// already running; fn observes the same ctx
		return <-s.done
	case <-q.stopped:
		// drained or finished right before stopping
		select {
		case err := <-s.done:
			return err
		default:
			return ErrQueueStopped
		}
	}
}
