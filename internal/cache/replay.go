// Package cache holds the in-process and Redis caches in front of the
// reward store.
package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// SchemaVersion is bumped when a cached structure changes so stale entries
// are dropped instead of decoded.
const SchemaVersion = "1.0"

type replayEntry struct {
	Version string
	Attempt domain.Attempt
}

// ReplayCache keeps recently completed attempts so a retried request can be
// answered without opening a transaction. The store remains the source of
// truth; a miss here always falls through to it.
type ReplayCache struct {
	lru *expirable.LRU[string, *replayEntry]
}

// NewReplayCache creates a cache of at most size attempts kept for ttl.
func NewReplayCache(size int, ttl time.Duration) *ReplayCache {
	return &ReplayCache{
		lru: expirable.NewLRU[string, *replayEntry](size, nil, ttl),
	}
}

func replayKey(playerID, attemptID string) string {
	return playerID + ":" + attemptID
}

// Get returns the stored attempt if present and current.
func (c *ReplayCache) Get(playerID, attemptID string) (domain.Attempt, bool) {
	key := replayKey(playerID, attemptID)
	entry, ok := c.lru.Get(key)
	if !ok {
		return domain.Attempt{}, false
	}
	if entry.Version != SchemaVersion {
		c.lru.Remove(key)
		return domain.Attempt{}, false
	}
	return entry.Attempt, true
}

// Set remembers a committed attempt.
func (c *ReplayCache) Set(a domain.Attempt) {
	c.lru.Add(replayKey(a.PlayerID, a.AttemptID), &replayEntry{Version: SchemaVersion, Attempt: a})
}

// Len reports the number of cached attempts.
func (c *ReplayCache) Len() int {
	return c.lru.Len()
}
