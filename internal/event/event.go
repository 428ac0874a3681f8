package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version  string                 `json:"version"`
	Type     Type                   `json:"type"`
	Payload  interface{}            `json:"payload"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Event types published after a committed reward transaction
const (
	PullCompleted  Type = "gacha.pull.completed"
	SpinCompleted  Type = "wheel.spin.completed"
	JackpotUpdated Type = "wheel.jackpot.updated"
	JackpotWon     Type = "wheel.jackpot.won"
)

// DrawV1 is one draw inside a pull or spin payload
type DrawV1 struct {
	ItemID           string           `json:"item_id"`
	Rarity           domain.Rarity    `json:"rarity"`
	WasFeatured      bool             `json:"was_featured"`
	WasPityTriggered bool             `json:"was_pity_triggered"`
	GrantKind        domain.GrantKind `json:"grant_kind"`
	Currency         domain.Currency  `json:"currency,omitempty"`
	Amount           int64            `json:"amount,omitempty"`
}

// PullCompletedPayloadV1 is the typed payload for pull events
type PullCompletedPayloadV1 struct {
	PlayerID  string   `json:"player_id"`
	PoolType  string   `json:"pool_type"`
	BannerID  string   `json:"banner_id,omitempty"`
	CostPaid  int64    `json:"cost_paid"`
	Draws     []DrawV1 `json:"draws"`
	Timestamp int64    `json:"timestamp"`
}

// SpinCompletedPayloadV1 is the typed payload for wheel spin events
type SpinCompletedPayloadV1 struct {
	PlayerID  string          `json:"player_id"`
	WheelID   string          `json:"wheel_id"`
	SpinType  domain.SpinType `json:"spin_type"`
	Draw      DrawV1          `json:"draw"`
	Streak    int             `json:"streak,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// JackpotPayloadV1 is the typed payload for jackpot updates and wins
type JackpotPayloadV1 struct {
	Pool      domain.JackpotPool `json:"pool"`
	WinnerID  string             `json:"winner_id,omitempty"`
	Amount    int64              `json:"amount,omitempty"`
	Timestamp int64              `json:"timestamp"`
}

// DrawFromOutcome flattens a draw for event payloads.
func DrawFromOutcome(o domain.DrawOutcome) DrawV1 {
	return DrawV1{
		ItemID:           o.Item.ID,
		Rarity:           o.Rarity,
		WasFeatured:      o.WasFeatured,
		WasPityTriggered: o.WasPityTriggered,
		GrantKind:        o.Grant.Kind,
		Currency:         o.Grant.Currency,
		Amount:           o.Grant.Amount,
	}
}

// NewPullCompletedEvent creates a pull event
func NewPullCompletedEvent(playerID, poolType, bannerID string, cost int64, draws []domain.DrawOutcome, now time.Time) Event {
	out := make([]DrawV1, len(draws))
	for i, d := range draws {
		out[i] = DrawFromOutcome(d)
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    PullCompleted,
		Payload: PullCompletedPayloadV1{
			PlayerID:  playerID,
			PoolType:  poolType,
			BannerID:  bannerID,
			CostPaid:  cost,
			Draws:     out,
			Timestamp: now.Unix(),
		},
	}
}

// NewSpinCompletedEvent creates a wheel spin event
func NewSpinCompletedEvent(playerID, wheelID string, spinType domain.SpinType, draw domain.DrawOutcome, streak int, now time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinCompleted,
		Payload: SpinCompletedPayloadV1{
			PlayerID:  playerID,
			WheelID:   wheelID,
			SpinType:  spinType,
			Draw:      DrawFromOutcome(draw),
			Streak:    streak,
			Timestamp: now.Unix(),
		},
	}
}

// NewJackpotUpdatedEvent creates a jackpot snapshot event
func NewJackpotUpdatedEvent(pool domain.JackpotPool, now time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    JackpotUpdated,
		Payload: JackpotPayloadV1{Pool: pool, Timestamp: now.Unix()},
	}
}

// NewJackpotWonEvent creates a jackpot win event; pool is the state after reset
func NewJackpotWonEvent(pool domain.JackpotPool, winnerID string, amount int64, now time.Time) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    JackpotWon,
		Payload: JackpotPayloadV1{
			Pool:      pool,
			WinnerID:  winnerID,
			Amount:    amount,
			Timestamp: now.Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and joins their errors.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type]
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}
	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
