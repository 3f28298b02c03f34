// Package distlock serializes campaign mutations.
//
// The persistence gateway is whole-snapshot load/replace, so two
// concurrent click or quiz recordings risk a lost update unless the
// read-mutate-write window runs under a lock keyed by campaign id.
// KeyedMutex covers the single-process case; RedisLocker covers a fleet
// of tracking hosts sharing one store.
package distlock

import (
	"context"
	"sync"
)

// Locker acquires a lock for a key, blocking until the lock is held or
// ctx is done. The returned release function must be called exactly once.
//
// Services key locks by campaign id, which serializes writers within one
// campaign only. Because the stores replace the whole snapshot on Save,
// two writers in different campaigns that interleave load and save can
// still lose the other's campaign. Deployments where cross-campaign
// writes overlap heavily should pass the same constant key for every
// acquisition, collapsing to one global lock at the cost of throughput.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// KeyedMutex is an in-process Locker with one slot per key, implemented
// as buffered channels so waiters can give up when ctx is done.
// Keys are never evicted; the key space (campaign ids) is small.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

// NewKeyedMutex creates an in-process keyed locker.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]chan struct{})}
}

// Acquire takes the slot for key, waiting behind the current holder
// until the slot frees or ctx is done.
func (k *KeyedMutex) Acquire(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	k.mu.Lock()
	ch, ok := k.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		k.locks[key] = ch
	}
	k.mu.Unlock()

	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
