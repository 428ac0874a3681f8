package feed

import (
	"context"
	"log/slog"

	"github.com/osse101/RewardEngine_Go/internal/event"
)

// Subscriber bridges the internal event bus to the feed hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new feed subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers handlers for jackpot events
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.JackpotUpdated, s.handleJackpotUpdated)
	s.bus.Subscribe(event.JackpotWon, s.handleJackpotWon)

	slog.Info("Feed subscriber registered for event types",
		"types", []string{string(event.JackpotUpdated), string(event.JackpotWon)})
}

func (s *Subscriber) handleJackpotUpdated(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.JackpotPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn("Invalid jackpot updated event payload", "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeJackpotUpdated, JackpotSnapshotPayload{
		WheelID:       p.Pool.WheelID,
		CurrentAmount: p.Pool.CurrentAmount,
		BaseAmount:    p.Pool.BaseAmount,
	})
	slog.Debug(LogMsgEventBroadcast, "event_type", EventTypeJackpotUpdated, "wheel_id", p.Pool.WheelID)
	return nil
}

func (s *Subscriber) handleJackpotWon(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.JackpotPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn("Invalid jackpot won event payload", "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeJackpotWon, JackpotWonPayload{
		WheelID:       p.Pool.WheelID,
		WinnerID:      p.WinnerID,
		Amount:        p.Amount,
		CurrentAmount: p.Pool.CurrentAmount,
		WonAt:         p.Pool.LastWinTime,
	})
	slog.Debug(LogMsgEventBroadcast,
		"event_type", EventTypeJackpotWon,
		"wheel_id", p.Pool.WheelID,
		"winner_id", p.WinnerID,
		"amount", p.Amount)
	return nil
}
