package input

import (
	"context"
	"errors"
	"sync"

	"github.com/gogpu/gpucontext"
)

// ErrClosed is returned by Next once the queue is closed and empty.
var ErrClosed = errors.New("input: queue closed")

// Source delivers events to the viewer.
type Source interface {
	// Next blocks until an event is available or ctx is done.
	Next(ctx context.Context) (Event, error)

	// TryNext returns the next event if one is already queued.
	TryNext() (Event, bool)
}

// Queue is a FIFO of events.
//
// Push may be called from any goroutine. Events are delivered in push order.
type Queue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	notify chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Push appends ev to the queue. Events pushed after Close are dropped.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.events = append(q.events, ev)
	q.mu.Unlock()
	q.wake()
}

// Close stops the queue. Queued events are still delivered.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

// Pending returns the number of queued events.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// TryNext returns the oldest queued event without blocking.
func (q *Queue) TryNext() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// Next returns the oldest event, blocking until one is pushed, the queue is
// closed, or ctx is done.
func (q *Queue) Next(ctx context.Context) (Event, error) {
	for {
		q.mu.Lock()
		ev, ok := q.pop()
		closed := q.closed
		q.mu.Unlock()

		switch {
		case ok:
			return ev, nil
		case closed:
			return nil, ErrClosed
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Wait blocks until an event is queued, the queue is closed, or ctx is done.
// It does not remove the event. A closed queue reports ErrClosed once it is
// empty.
func (q *Queue) Wait(ctx context.Context) error {
	for {
		q.mu.Lock()
		n, closed := len(q.events), q.closed
		q.mu.Unlock()

		switch {
		case n > 0:
			return nil
		case closed:
			return ErrClosed
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// pop removes the head. Must be called with lock held.
func (q *Queue) pop() (Event, bool) {
	if len(q.events) == 0 {
		return nil, false
	}
	ev := q.events[0]
	q.events[0] = nil
	q.events = q.events[1:]
	if len(q.events) == 0 {
		q.events = nil
	}
	return ev, true
}

func (q *Queue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Attach routes key presses, resizes and focus gains from a gogpu event
// source into q. A focus gain is delivered as Expose since the compositor
// may have discarded the window contents.
func Attach(src gpucontext.EventSource, q *Queue) {
	src.OnKeyPress(func(key gpucontext.Key, mods gpucontext.Modifiers) {
		q.Push(Key{Key: key, Mods: mods})
	})
	src.OnResize(func(width, height int) {
		q.Push(Resize{Width: width, Height: height})
	})
	src.OnFocus(func(focused bool) {
		if focused {
			q.Push(Expose{})
		}
	})
}
