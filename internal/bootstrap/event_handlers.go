package bootstrap

import (
	"log/slog"

	"github.com/osse101/RewardEngine_Go/internal/cache"
	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/feed"
	"github.com/osse101/RewardEngine_Go/internal/metrics"
	"github.com/osse101/RewardEngine_Go/internal/notify"
)

// EventHandlerDependencies holds the subscribers attached to the bus.
// Announcer is nil when Discord is not configured.
type EventHandlerDependencies struct {
	EventBus      event.Bus
	JackpotReader *cache.JackpotReader
	Hub           *feed.Hub
	Announcer     *notify.Announcer
}

// RegisterEventHandlers subscribes metrics, the jackpot cache, the
// websocket feed and the Discord announcer to reward events.
func RegisterEventHandlers(deps EventHandlerDependencies) {
	metrics.NewEventMetricsCollector().Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	deps.JackpotReader.Register(deps.EventBus)
	slog.Info(LogMsgJackpotCacheRegistered)

	feed.NewSubscriber(deps.Hub, deps.EventBus).Subscribe()
	slog.Info(LogMsgFeedSubscriberRegistered)

	if deps.Announcer != nil {
		deps.Announcer.Register(deps.EventBus)
	}
}
