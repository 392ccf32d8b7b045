package anim

import (
	"sort"
	"sync"
	"time"
)

// FrameID identifies a pending frame callback. Zero is never issued.
type FrameID uint64

// FrameFunc runs right before the next repaint with the time since the
// scheduler started.
type FrameFunc func(now time.Duration)

// Scheduler requests and cancels one-shot frame callbacks.
type Scheduler interface {
	Request(fn FrameFunc) FrameID
	Cancel(id FrameID)
}

// Queue is a Scheduler whose callbacks run when Fire is called: by the host
// frame loop, by a Task, or directly by tests.
type Queue struct {
	mu      sync.Mutex
	next    FrameID
	pending map[FrameID]FrameFunc
}

func NewQueue() *Queue {
	return &Queue{pending: make(map[FrameID]FrameFunc)}
}

func (q *Queue) Request(fn FrameFunc) FrameID {
	if q == nil || fn == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending[q.next] = fn
	return q.next
}

func (q *Queue) Cancel(id FrameID) {
	if q == nil {
		return
	}
	q.mu.Lock()
	delete(q.pending, id)
	q.mu.Unlock()
}

// Pending reports how many callbacks are waiting.
func (q *Queue) Pending() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Fire runs every callback requested before the call, in request order.
// Callbacks requested while firing wait for the next Fire. A callback
// cancelled by an earlier one in the same batch does not run.
func (q *Queue) Fire(now time.Duration) int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	ids := make([]FrameID, 0, len(q.pending))
	for id := range q.pending {
		ids = append(ids, id)
	}
	q.mu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ran := 0
	for _, id := range ids {
		q.mu.Lock()
		fn, ok := q.pending[id]
		delete(q.pending, id)
		q.mu.Unlock()
		if !ok {
			continue
		}
		fn(now)
		ran++
	}
	return ran
}
