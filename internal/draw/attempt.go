package draw

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/cache"
	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/metrics"
	"github.com/osse101/RewardEngine_Go/internal/repository"
)

// Attempts stores responses by attempt id so a retried request returns the
// original result instead of drawing again. The cache is optional.
type Attempts struct {
	cache *cache.ReplayCache
}

// NewAttempts creates an Attempts log backed by c, which may be nil.
func NewAttempts(c *cache.ReplayCache) *Attempts {
	return &Attempts{cache: c}
}

// Cached decodes a replay from the in-process cache into out.
func (a *Attempts) Cached(playerID, attemptID, operation string, out any) (bool, error) {
	if a.cache == nil || attemptID == "" {
		return false, nil
	}
	att, ok := a.cache.Get(playerID, attemptID)
	if !ok {
		return false, nil
	}
	return true, decode(att, operation, out)
}

// Stored decodes a replay found in the player's transaction into out.
func (a *Attempts) Stored(ctx context.Context, tx repository.RewardTx, playerID, attemptID, operation string, out any) (bool, error) {
	if attemptID == "" {
		return false, nil
	}
	att, err := tx.GetAttempt(ctx, playerID, attemptID)
	if err != nil {
		return false, fmt.Errorf("failed to look up attempt: %w", err)
	}
	if att == nil {
		return false, nil
	}
	if a.cache != nil {
		a.cache.Set(*att)
	}
	return true, decode(*att, operation, out)
}

// Save writes response under the attempt id inside tx. The returned
// attempt should be passed to Remember once tx commits.
func (a *Attempts) Save(ctx context.Context, tx repository.RewardTx, playerID, attemptID, operation string, response any, now time.Time) (*domain.Attempt, error) {
	if attemptID == "" {
		return nil, nil
	}
	data, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	att := domain.Attempt{
		PlayerID:  playerID,
		AttemptID: attemptID,
		Operation: operation,
		Response:  data,
		CreatedAt: now,
	}
	if err := tx.SaveAttempt(ctx, att); err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}
	return &att, nil
}

// Remember caches a committed attempt.
func (a *Attempts) Remember(att *domain.Attempt) {
	if a.cache != nil && att != nil {
		a.cache.Set(*att)
	}
}

func decode(att domain.Attempt, operation string, out any) error {
	if att.Operation != operation {
		return &domain.ValidationError{
			Field:  "attempt_id",
			Reason: fmt.Sprintf("already used for %s", att.Operation),
			Err:    domain.ErrAttemptConflict,
		}
	}
	if err := json.Unmarshal(att.Response, out); err != nil {
		return domain.NewInternalConsistencyError("attempts", "stored response for %s is unreadable: %v", att.AttemptID, err)
	}
	metrics.IdempotentReplays.WithLabelValues(operation).Inc()
	return nil
}
