package concurrency

import (
	"context"
	"sync"
)

// LockManager hands out one exclusive lock per key. Locks are
// channel-backed so a waiter gives up when its context ends.
type LockManager struct {
	locks sync.Map // key -> chan struct{} with capacity 1
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{}
}

func (lm *LockManager) slot(key string) chan struct{} {
	ch, _ := lm.locks.LoadOrStore(key, make(chan struct{}, 1))
	return ch.(chan struct{})
}

// Acquire blocks until the lock for key is held or ctx is done.
// The returned release func must be called exactly once.
func (lm *LockManager) Acquire(ctx context.Context, key string) (release func(), err error) {
	ch := lm.slot(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-ch })
		}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryAcquire takes the lock for key only if it is free.
func (lm *LockManager) TryAcquire(key string) (release func(), ok bool) {
	ch := lm.slot(key)
	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() { <-ch })
		}, true
	default:
		return nil, false
	}
}
