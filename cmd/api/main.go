package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/swopnil/Guardify/internal/adapters/assistant"
	"github.com/swopnil/Guardify/internal/adapters/directions"
	"github.com/swopnil/Guardify/internal/adapters/http"
	natsadapter "github.com/swopnil/Guardify/internal/adapters/nats"
	"github.com/swopnil/Guardify/internal/adapters/peoplefeed"
	"github.com/swopnil/Guardify/internal/adapters/postgres"
	"github.com/swopnil/Guardify/internal/adapters/valkey"
	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/ports"
	"github.com/swopnil/Guardify/internal/core/usecases"
	"github.com/swopnil/Guardify/internal/pkg/config"
	"github.com/swopnil/Guardify/internal/pkg/logging"
	"github.com/swopnil/Guardify/internal/pkg/metrics"
	"github.com/swopnil/Guardify/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("guardify-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("guardify-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	var cacheSvc ports.CacheService
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		cacheSvc = cache
		defer cache.Close()
	}

	// NATS publisher: alerts, fence transitions, escalation requests
	var eventPub ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		eventPub = pub
		defer pub.Close()
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	alertRepo := postgres.NewAlertRepo(db.Pool)
	chatRepo := postgres.NewChatRepo(db.Pool)

	// Outbound clients
	assistantClient := assistant.NewClient(
		cfg.Assistant.ChatURL,
		cfg.Assistant.DetectionURL,
		time.Duration(cfg.Assistant.Timeout)*time.Second,
	)
	directionsClient := directions.NewClient(
		cfg.Directions.URL,
		time.Duration(cfg.Directions.Timeout)*time.Second,
	)

	// Campus fence
	region := domain.GeoRegion{
		Center: domain.GeoPoint{Lat: cfg.Fence.CenterLat, Lon: cfg.Fence.CenterLon},
		Span:   domain.GeoSpan{LatDelta: cfg.Fence.SpanLat, LonDelta: cfg.Fence.SpanLon},
	}

	// Use cases
	peopleSvc := usecases.NewPeopleService(eventPub)
	geofenceSvc := usecases.NewGeofenceService(region, eventPub)
	navigationSvc := usecases.NewNavigationService(geofenceSvc)
	alertSvc := usecases.NewAlertService(alertRepo, eventPub)
	chatSvc := usecases.NewChatService(assistantClient, chatRepo, alertSvc)
	routeSvc := usecases.NewRouteService(directionsClient, peopleSvc, cacheSvc)
	transcriptionSvc := usecases.NewTranscriptionService(alertSvc, assistantClient)

	// Warm the people map from the poller's bootstrap snapshot.
	if cache != nil {
		if snap, err := cache.LoadSnapshot(ctx); err == nil && snap != nil {
			peopleSvc.Apply(snap)
			slog.Info("people snapshot bootstrapped from cache",
				"people", len(snap.People), "as_of", snap.Time)
		}
	}

	// Live snapshots: poll the feed in-process, or subscribe to the poller's
	// publishes over the broker.
	if cfg.PeopleFeed.Embedded {
		feedClient := peoplefeed.NewClient(cfg.PeopleFeed.URL, time.Duration(cfg.PeopleFeed.Timeout)*time.Second)
		var store peoplefeed.SnapshotStore
		if cache != nil {
			store = cache
		}
		poller := peoplefeed.NewPoller(feedClient, peopleSvc, store, time.Duration(cfg.PeopleFeed.PollInterval)*time.Second)
		go poller.Run(ctx)
		slog.Info("embedded people poller started", "url", cfg.PeopleFeed.URL)
	} else {
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("people snapshot subscription unavailable", "error", err)
		} else {
			defer sub.Close()
			err := sub.SubscribePeopleSnapshots(ctx, func(ctx context.Context, snap *domain.PeopleSnapshot) error {
				peopleSvc.Apply(snap)
				metrics.PeopleTracked.Set(float64(len(snap.People)))
				return nil
			})
			if err != nil {
				slog.Warn("subscribe people snapshots failed", "error", err)
			}
		}
	}

	// Idle navigation sessions are pruned in the background.
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Sessions.PruneInterval) * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := navigationSvc.Prune(cfg.Sessions.MaxIdle()); n > 0 {
					slog.Info("pruned idle navigation sessions", "count", n)
				}
				metrics.NavigationSessions.Set(float64(navigationSvc.ActiveSessions()))
			case <-ctx.Done():
				return
			}
		}
	}()

	// Database pool gauges
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			case <-ctx.Done():
				return
			}
		}
	}()

	deps := &http.Dependencies{
		Routes:         routeSvc,
		People:         peopleSvc,
		Geofence:       geofenceSvc,
		Navigation:     navigationSvc,
		Alerts:         alertSvc,
		Chat:           chatSvc,
		Transcriptions: transcriptionSvc,
		NATS:           natsConn,
		DB:             db,
		Cache:          cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Guardify API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.guardify.app",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
