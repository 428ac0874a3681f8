package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

func TestReplayCache_SetAndGet(t *testing.T) {
	c := NewReplayCache(10, time.Minute)
	a := domain.Attempt{PlayerID: "p1", AttemptID: "a1", Operation: domain.OperationPull, Response: []byte(`{"x":1}`)}

	c.Set(a)

	got, ok := c.Get("p1", "a1")
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = c.Get("p2", "a1")
	assert.False(t, ok, "attempt ids are scoped per player")
}

func TestReplayCache_StaleVersionIsDropped(t *testing.T) {
	c := NewReplayCache(10, time.Minute)
	c.lru.Add(replayKey("p1", "a1"), &replayEntry{Version: "0.9", Attempt: domain.Attempt{PlayerID: "p1", AttemptID: "a1"}})

	_, ok := c.Get("p1", "a1")

	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestReplayCache_Expires(t *testing.T) {
	c := NewReplayCache(10, 20*time.Millisecond)
	c.Set(domain.Attempt{PlayerID: "p1", AttemptID: "a1"})

	assert.Eventually(t, func() bool {
		_, ok := c.Get("p1", "a1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
