package feed

import (
	"sync"
	"testing"
	"time"
)

func TestQueue_PushPop(t *testing.T) {
	q := NewQueue[int](10)

	for i := 0; i < 5; i++ {
		if !q.Push(i) {
			t.Fatalf("Push(%d) returned false", i)
		}
	}

	if got := q.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}

	for i := 0; i < 5; i++ {
		got, ok := q.Pop()
		if !ok {
			t.Fatalf("Pop() returned false at %d", i)
		}
		if got != i {
			t.Errorf("Pop() = %d, want %d", got, i)
		}
	}
}

func TestQueue_GrowsUnderPressure(t *testing.T) {
	q := NewQueue[int](4)

	for i := 0; i < 100; i++ {
		if !q.Push(i) {
			t.Fatalf("Push(%d) returned false", i)
		}
	}

	stats := q.Stats()
	if stats.Count != 100 {
		t.Errorf("Count = %d, want 100", stats.Count)
	}
	if stats.Capacity < 100 {
		t.Errorf("Capacity = %d, want >= 100", stats.Capacity)
	}
	if stats.Resizes == 0 {
		t.Error("expected at least one resize")
	}

	// FIFO order survives the grows.
	for i := 0; i < 100; i++ {
		got, ok := q.TryPop()
		if !ok {
			t.Fatalf("TryPop() returned false at %d", i)
		}
		if got != i {
			t.Errorf("TryPop() = %d, want %d", got, i)
		}
	}
}

func TestQueue_GrowWhileWrapped(t *testing.T) {
	q := NewQueue[int](8)

	// Advance head so the ring wraps before growing.
	for i := 0; i < 4; i++ {
		q.Push(i)
	}
	for i := 0; i < 4; i++ {
		q.TryPop()
	}
	for i := 10; i < 30; i++ {
		q.Push(i)
	}

	for i := 10; i < 30; i++ {
		got, ok := q.TryPop()
		if !ok {
			t.Fatalf("TryPop() returned false at %d", i)
		}
		if got != i {
			t.Errorf("TryPop() = %d, want %d", got, i)
		}
	}
}

func TestQueue_TryPopEmpty(t *testing.T) {
	q := NewQueue[string](4)

	if _, ok := q.TryPop(); ok {
		t.Error("TryPop() on empty queue returned true")
	}
}

func TestQueue_PopBlocksUntilPush(t *testing.T) {
	q := NewQueue[int](4)

	done := make(chan int, 1)
	go func() {
		v, ok := q.Pop()
		if !ok {
			done <- -1
			return
		}
		done <- v
	}()

	time.Sleep(20 * time.Millisecond)
	q.Push(42)

	select {
	case got := <-done:
		if got != 42 {
			t.Errorf("Pop() = %d, want 42", got)
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not return after Push")
	}
}

func TestQueue_Close(t *testing.T) {
	q := NewQueue[int](4)

	q.Push(1)
	q.Push(2)
	q.Close()

	if q.Push(3) {
		t.Error("Push after Close returned true")
	}

	// Remaining items stay poppable.
	if got, ok := q.Pop(); !ok || got != 1 {
		t.Errorf("Pop() = %d, %v, want 1, true", got, ok)
	}
	if got, ok := q.Pop(); !ok || got != 2 {
		t.Errorf("Pop() = %d, %v, want 2, true", got, ok)
	}

	if _, ok := q.Pop(); ok {
		t.Error("Pop on closed empty queue returned true")
	}
}

func TestQueue_CloseWakesBlockedPop(t *testing.T) {
	q := NewQueue[int](4)

	done := make(chan bool, 1)
	go func() {
		_, ok := q.Pop()
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		if ok {
			t.Error("Pop on closed empty queue returned true")
		}
	case <-time.After(time.Second):
		t.Fatal("Pop did not return after Close")
	}
}

func TestQueue_ConcurrentPushPop(t *testing.T) {
	q := NewQueue[int](8)
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			q.Push(i)
		}
		q.Close()
	}()

	seen := 0
	for {
		_, ok := q.Pop()
		if !ok {
			break
		}
		seen++
	}
	wg.Wait()

	if seen != n {
		t.Errorf("popped %d items, want %d", seen, n)
	}

	stats := q.Stats()
	if stats.TotalPushed != n {
		t.Errorf("TotalPushed = %d, want %d", stats.TotalPushed, n)
	}
	if stats.TotalPopped != n {
		t.Errorf("TotalPopped = %d, want %d", stats.TotalPopped, n)
	}
}
