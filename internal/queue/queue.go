// Package queue provides the single-flight FIFO that feeds the execution
// engine. The front element is the one being executed; it stays in the
// queue until the executor dequeues it.
package queue

import (
	"errors"
	"sync"
)

var ErrHalted = errors.New("queue: halted after a failed command")

// Queue is a thread-safe FIFO that starts its consumer whenever an element
// is added to an empty queue.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
	start func(T)
	err   error
}

// New creates an empty queue. start is called, outside the lock, with the
// new front element each time the queue goes from empty to non-empty.
func New[T any](start func(T)) *Queue[T] {
	return &Queue[T]{
		items: make([]T, 0),
		start: start,
	}
}

// Enqueue appends v. It returns ErrHalted once the queue has been halted.
func (q *Queue[T]) Enqueue(v T) error {
	q.mu.Lock()
	if q.err != nil {
		q.mu.Unlock()
		return ErrHalted
	}
	q.items = append(q.items, v)
	wasEmpty := len(q.items) == 1
	q.mu.Unlock()

	if wasEmpty && q.start != nil {
		q.start(v)
	}
	return nil
}

// Dequeue removes the front element and reports the element behind it,
// which becomes the new front.
func (q *Queue[T]) Dequeue() (next T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) > 0 {
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
	}
	if len(q.items) == 0 {
		return next, false
	}
	return q.items[0], true
}

// Front returns the element currently being executed.
func (q *Queue[T]) Front() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}

// Len returns the number of elements, the front included.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty returns true if the queue has no elements.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Halt stops the queue with err. Elements are kept, the failed one at the
// front, and later Enqueue calls fail.
func (q *Queue[T]) Halt(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err == nil {
		q.err = err
	}
}

// Err returns the error the queue was halted with, if any.
func (q *Queue[T]) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// Reset clears a halted queue, discarding its elements, and returns them.
// It must not be called while a consumer is draining.
func (q *Queue[T]) Reset() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	dropped := q.items
	q.items = make([]T, 0, cap(q.items))
	q.err = nil
	return dropped
}

// Snapshot returns a copy of the queued elements in order.
func (q *Queue[T]) Snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
