package queue

import (
	"errors"
	"sync"
	"testing"
)

type recorder struct {
	mu     sync.Mutex
	starts []int
}

func (r *recorder) start(v int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, v)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.starts)
}

func TestQueue_StartsOnlyWhenEmpty(t *testing.T) {
	r := &recorder{}
	q := New(r.start)

	for i := 1; i <= 3; i++ {
		if err := q.Enqueue(i); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if r.count() != 1 || r.starts[0] != 1 {
		t.Fatalf("expected one start with 1, got %v", r.starts)
	}
	if q.Len() != 3 {
		t.Errorf("expected length 3, got %d", q.Len())
	}
}

func TestQueue_DequeueReportsNext(t *testing.T) {
	q := New[int](nil)
	_ = q.Enqueue(1)
	_ = q.Enqueue(2)

	front, ok := q.Front()
	if !ok || front != 1 {
		t.Fatalf("expected front 1, got %d %v", front, ok)
	}

	next, ok := q.Dequeue()
	if !ok || next != 2 {
		t.Errorf("expected next 2, got %d %v", next, ok)
	}
	if q.Len() != 1 {
		t.Errorf("expected length 1, got %d", q.Len())
	}

	_, ok = q.Dequeue()
	if ok {
		t.Error("expected no next element")
	}
	if !q.Empty() {
		t.Error("expected empty queue")
	}

	// Dequeue on empty is a no-op.
	if _, ok := q.Dequeue(); ok {
		t.Error("expected no next element on empty queue")
	}
}

func TestQueue_RestartsAfterDrain(t *testing.T) {
	r := &recorder{}
	q := New(r.start)

	_ = q.Enqueue(1)
	q.Dequeue()
	_ = q.Enqueue(2)

	if r.count() != 2 {
		t.Fatalf("expected two starts, got %v", r.starts)
	}
	if r.starts[1] != 2 {
		t.Errorf("expected second start with 2, got %d", r.starts[1])
	}
}

func TestQueue_Halt(t *testing.T) {
	q := New[int](nil)
	_ = q.Enqueue(1)
	_ = q.Enqueue(2)

	boom := errors.New("boom")
	q.Halt(boom)
	q.Halt(errors.New("later"))

	if !errors.Is(q.Err(), boom) {
		t.Errorf("expected first halt error, got %v", q.Err())
	}
	if err := q.Enqueue(3); !errors.Is(err, ErrHalted) {
		t.Errorf("expected ErrHalted, got %v", err)
	}
	if front, _ := q.Front(); front != 1 {
		t.Errorf("expected failed element kept at front, got %d", front)
	}

	dropped := q.Reset()
	if len(dropped) != 2 {
		t.Errorf("expected 2 dropped, got %v", dropped)
	}
	if q.Err() != nil {
		t.Error("expected error cleared by reset")
	}
	if err := q.Enqueue(4); err != nil {
		t.Errorf("expected enqueue after reset to succeed, got %v", err)
	}
}

func TestQueue_SnapshotIsCopy(t *testing.T) {
	q := New[int](nil)
	_ = q.Enqueue(1)
	_ = q.Enqueue(2)

	snap := q.Snapshot()
	snap[0] = 99
	if front, _ := q.Front(); front != 1 {
		t.Errorf("snapshot aliased queue storage")
	}
}

func TestQueue_ConcurrentEnqueueStartsOnce(t *testing.T) {
	r := &recorder{}
	q := New(r.start)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_ = q.Enqueue(v)
		}(i)
	}
	wg.Wait()

	if r.count() != 1 {
		t.Errorf("expected exactly one start, got %d", r.count())
	}
	if q.Len() != 100 {
		t.Errorf("expected 100 items, got %d", q.Len())
	}
}
