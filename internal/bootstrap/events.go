package bootstrap

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/event"
)

type eventSettings struct {
	maxRetries     int
	retryDelay     time.Duration
	deadLetterPath string
}

// resolveEventSettings fills unset (zero) values with the defaults.
func resolveEventSettings(cfg *config.Config) eventSettings {
	return eventSettings{
		maxRetries:     cmp.Or(cfg.EventMaxRetries, EventDefaultMaxRetries),
		retryDelay:     cmp.Or(cfg.EventRetryDelay, EventDefaultRetryDelay),
		deadLetterPath: cmp.Or(cfg.EventDeadLetterPath, EventDefaultDeadLetterPath),
	}
}

// InitializeEventSystem returns the bus subscribers attach to and the
// publisher services publish through. Deliveries that keep failing end up
// in the dead-letter file.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	s := resolveEventSettings(cfg)
	if err := os.MkdirAll(filepath.Dir(s.deadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	bus := event.NewMemoryBus()
	publisher, err := event.NewResilientPublisher(bus, s.maxRetries, s.retryDelay, s.deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", s.maxRetries,
		"retry_delay", s.retryDelay,
		"deadletter_path", s.deadLetterPath)
	return bus, publisher, nil
}
