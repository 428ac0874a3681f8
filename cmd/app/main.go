package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/RewardEngine_Go/internal/bootstrap"
	"github.com/osse101/RewardEngine_Go/internal/cache"
	"github.com/osse101/RewardEngine_Go/internal/catalog"
	"github.com/osse101/RewardEngine_Go/internal/config"
	"github.com/osse101/RewardEngine_Go/internal/draw"
	"github.com/osse101/RewardEngine_Go/internal/economy"
	"github.com/osse101/RewardEngine_Go/internal/feed"
	"github.com/osse101/RewardEngine_Go/internal/gacha"
	"github.com/osse101/RewardEngine_Go/internal/grant"
	"github.com/osse101/RewardEngine_Go/internal/notify"
	"github.com/osse101/RewardEngine_Go/internal/sampler"
	"github.com/osse101/RewardEngine_Go/internal/scheduler"
	"github.com/osse101/RewardEngine_Go/internal/server"
	"github.com/osse101/RewardEngine_Go/internal/validation"
	"github.com/osse101/RewardEngine_Go/internal/wheel"
	"github.com/osse101/RewardEngine_Go/internal/worker"
)

// shutdownTimeout bounds graceful shutdown after a signal
const shutdownTimeout = 15 * time.Second

// @title Reward Engine API
// @version 1.0
// @description Gacha pulls, wheel spins and jackpot escrow.
// @BasePath /api/v1
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	if err := run(cfg); err != nil {
		slog.Error("Reward engine stopped with error", "error", err)
		_ = logFile.Close()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := catalog.NewLoader(validation.NewSchemaValidator()).Load(ctx, cfg.CatalogPath)
	if err != nil {
		return err
	}

	storage, err := bootstrap.InitializeStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}

	jackpotCache, rdb, err := bootstrap.InitializeJackpotCache(ctx, cfg)
	if err != nil {
		storage.Close()
		return err
	}
	closers := map[string]io.Closer{}
	if rdb != nil {
		closers["redis"] = rdb
	}

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		storage.Close()
		return err
	}

	executor := draw.NewExecutor(sampler.New(sampler.DefaultSource()), grant.NewResolver(cat.Compensation))
	attempts := draw.NewAttempts(cache.NewReplayCache(cfg.ReplayCacheSize, cfg.ReplayCacheTTL))
	jackpots := cache.NewJackpotReader(storage.Store, jackpotCache)

	gachaService := gacha.NewService(storage.Store, cat, executor, attempts, publisher)
	wheelService := wheel.NewService(storage.Store, cat, executor, attempts, jackpots, publisher)
	economyService := economy.NewService(storage.Store)

	if err := wheelService.EnsureJackpots(ctx); err != nil {
		storage.Close()
		return err
	}

	hub := feed.NewHub()
	hub.Start()

	var announcer *notify.Announcer
	if cfg.DiscordEnabled() {
		session, err := notify.NewSession(cfg.DiscordToken)
		if err != nil {
			slog.Error("Discord announcements disabled", "error", err)
		} else {
			announcer = notify.NewAnnouncer(session, cfg.DiscordJackpotChannelID)
			closers["discord"] = session
		}
	}

	bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:      eventBus,
		JackpotReader: jackpots,
		Hub:           hub,
		Announcer:     announcer,
	})

	pool := worker.NewPool(config.DefaultWorkerCount, config.DefaultWorkerQueueSize)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(cfg.JackpotBroadcastInterval, worker.NewJackpotBroadcastJob(cat.WheelIDs(), storage.Store, publisher))

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, bootstrap.ReadinessChecks(storage, rdb), gachaService, wheelService, economyService, hub)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         pool,
		Hub:                hub,
		ResilientPublisher: publisher,
		Storage:            storage,
		Closers:            closers,
	})

	return runErr
}
