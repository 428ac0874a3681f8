package metrics

import (
	"context"
	"fmt"

	"github.com/osse101/RewardEngine_Go/internal/domain"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/logger"
)

// EventMetricsCollector subscribes to reward events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all reward events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, t := range []event.Type{event.PullCompleted, event.SpinCompleted, event.JackpotUpdated, event.JackpotWon} {
		bus.Subscribe(t, e.HandleEvent)
	}
}

// HandleEvent updates metrics from one event
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.PullCompleted:
		p, err := event.DecodePayload[event.PullCompletedPayloadV1](evt.Payload)
		if err != nil {
			return fmt.Errorf("decode %s: %w", evt.Type, err)
		}
		CurrencySpent.WithLabelValues(p.PoolType).Add(float64(p.CostPaid))
		for _, d := range p.Draws {
			recordDraw(p.PoolType, d)
		}

	case event.SpinCompleted:
		p, err := event.DecodePayload[event.SpinCompletedPayloadV1](evt.Payload)
		if err != nil {
			return fmt.Errorf("decode %s: %w", evt.Type, err)
		}
		if p.SpinType == domain.SpinTypeFree {
			FreeSpins.WithLabelValues(p.WheelID).Inc()
		}
		recordDraw(p.WheelID, p.Draw)

	case event.JackpotUpdated, event.JackpotWon:
		p, err := event.DecodePayload[event.JackpotPayloadV1](evt.Payload)
		if err != nil {
			return fmt.Errorf("decode %s: %w", evt.Type, err)
		}
		JackpotAmount.WithLabelValues(p.Pool.WheelID).Set(float64(p.Pool.CurrentAmount))
		if evt.Type == event.JackpotWon {
			JackpotPayouts.WithLabelValues(p.Pool.WheelID).Inc()
			JackpotPaidAmount.WithLabelValues(p.Pool.WheelID).Add(float64(p.Amount))
		}
	}

	logger.FromContext(ctx).Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func recordDraw(pool string, d event.DrawV1) {
	DrawsTotal.WithLabelValues(pool, string(d.Rarity)).Inc()
	if d.WasPityTriggered {
		PityTriggers.WithLabelValues(pool).Inc()
	}
	if d.WasFeatured {
		FeaturedDraws.WithLabelValues(pool).Inc()
	}
	if d.GrantKind == domain.GrantCompensation {
		DuplicateCompensations.WithLabelValues(string(d.Rarity)).Inc()
	}
}
