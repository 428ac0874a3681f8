package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/RewardEngine_Go/internal/event"
	"github.com/osse101/RewardEngine_Go/internal/feed"
	"github.com/osse101/RewardEngine_Go/internal/scheduler"
	"github.com/osse101/RewardEngine_Go/internal/server"
	"github.com/osse101/RewardEngine_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	Hub                *feed.Hub
	ResilientPublisher *event.ResilientPublisher
	Storage            *Storage

	// Closers are closed last, in order (redis client, discord session).
	Closers map[string]io.Closer
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and worker pool (no new broadcasts)
// 3. Feed hub (close websocket clients)
// 4. Event publisher (flush pending retries)
// 5. Storage and external clients
//
// Errors are logged and do not stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.WorkerPool != nil {
		c.WorkerPool.Stop()
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.Storage != nil {
		c.Storage.Close()
	}

	for name, closer := range c.Closers {
		if closer == nil {
			continue
		}
		slog.Debug(LogMsgClosingResource, "resource", name)
		if err := closer.Close(); err != nil {
			slog.Error(LogMsgCloseFailed, "resource", name, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
