package progress

import "sync"

// noticeQueue is an unbounded FIFO of stamped notices.
//
// Operations enqueue while holding the engine lock; a single deliverer
// (Drain or Run) dequeues. The signal channel coalesces wake-ups so Run can
// wait with a select on ctx.Done().
type noticeQueue struct {
	mu      sync.Mutex
	notices []Notice
	closed  bool
	signal  chan struct{}
}

func newNoticeQueue() *noticeQueue {
	return &noticeQueue{
		notices: make([]Notice, 0, 16),
		signal:  make(chan struct{}, 1),
	}
}

// Enqueue appends n. Returns false once the queue is closed.
func (q *noticeQueue) Enqueue(n Notice) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.notices = append(q.notices, n)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes the front notice without blocking.
func (q *noticeQueue) TryDequeue() (Notice, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.notices) == 0 {
		return Notice{}, false
	}
	n := q.notices[0]
	q.notices[0] = Notice{}
	if len(q.notices) == 1 {
		q.notices = q.notices[:0]
	} else {
		q.notices = q.notices[1:]
	}
	return n, true
}

// Wait returns a channel that fires when notices may be available. It is
// closed when the queue closes.
func (q *noticeQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the number of queued notices.
func (q *noticeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.notices)
}

// Closed reports whether Close has been called.
func (q *noticeQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close stops further enqueues and wakes waiters. Queued notices can still
// be dequeued.
func (q *noticeQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
