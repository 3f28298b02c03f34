package distlock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	km := NewKeyedMutex()
	ctx := context.Background()

	var mu sync.Mutex
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := km.Acquire(ctx, "c1")
			if err != nil {
				t.Error(err)
				return
			}
			defer release()
			mu.Lock()
			counter++
			mu.Unlock()
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d, want 50", counter)
	}
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := NewKeyedMutex()
	ctx := context.Background()

	releaseA, err := km.Acquire(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	defer releaseA()

	// A held lock on "a" must not block "b".
	releaseB, err := km.Acquire(ctx, "b")
	if err != nil {
		t.Fatal(err)
	}
	releaseB()
}

func TestKeyedMutexCancelledContext(t *testing.T) {
	km := NewKeyedMutex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := km.Acquire(ctx, "a"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestKeyedMutexCancelWhileWaiting(t *testing.T) {
	km := NewKeyedMutex()

	release, err := km.Acquire(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}

	// A waiter behind the holder must give up when its deadline hits,
	// not sit blocked until the slot frees.
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := km.Acquire(ctx, "a"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire while held = %v, want deadline exceeded", err)
	}

	// The slot is still usable after the abandoned wait.
	release()
	release2, err := km.Acquire(context.Background(), "a")
	if err != nil {
		t.Fatal(err)
	}
	release2()
}
