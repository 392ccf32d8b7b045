package anim

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultFrameInterval paces a Task at 60 frames per second.
const DefaultFrameInterval = time.Second / 60

// Task owns the goroutine that drives a Queue, if any. Stop must be called; it is
// idempotent and returns only after the goroutine has exited, so no frame
// callback runs afterwards.
type Task struct {
	cancel  context.CancelFunc
	done    chan struct{}
	once    sync.Once
	onStop  func()
	logger  *zap.Logger
	started time.Time
}

// RunQueue fires q every interval until ctx is cancelled or Stop is called.
func RunQueue(ctx context.Context, q *Queue, interval time.Duration, logger *zap.Logger) *Task {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{}), logger: logger, started: time.Now()}

	go func() {
		defer close(t.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				// Stop may race with a tick; re-check before firing.
				if ctx.Err() != nil {
					return
				}
				q.Fire(time.Since(t.started))
			}
		}
	}()
	return t
}

// idleTask is a Task without a goroutine; Stop only runs onStop.
func idleTask(logger *zap.Logger) *Task {
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan struct{})
	close(done)
	return &Task{cancel: func() {}, done: done, logger: logger, started: time.Now()}
}

// Done is closed once the frame goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() {
		t.cancel()
		<-t.done
		if t.onStop != nil {
			t.onStop()
		}
		t.logger.Debug("frame task stopped", zap.Duration("ran", time.Since(t.started)))
	})
}
