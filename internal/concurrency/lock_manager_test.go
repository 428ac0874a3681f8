package concurrency

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockManager_SerializesSameKey(t *testing.T) {
	lm := NewLockManager()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		inside  int
		maxSeen int
	)

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := lm.Acquire(ctx, "player-1")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestLockManager_DifferentKeysDoNotBlock(t *testing.T) {
	lm := NewLockManager()

	releaseA, err := lm.Acquire(context.Background(), "a")
	require.NoError(t, err)
	defer releaseA()

	releaseB, ok := lm.TryAcquire("b")
	require.True(t, ok)
	releaseB()
}

func TestLockManager_AcquireHonoursContext(t *testing.T) {
	lm := NewLockManager()
	release, err := lm.Acquire(context.Background(), "k")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = lm.Acquire(ctx, "k")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLockManager_ReleaseIsIdempotent(t *testing.T) {
	lm := NewLockManager()
	release, ok := lm.TryAcquire("k")
	require.True(t, ok)

	release()
	release()

	_, ok = lm.TryAcquire("k")
	assert.True(t, ok)
}
