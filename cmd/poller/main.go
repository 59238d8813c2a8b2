package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	natsadapter "github.com/swopnil/Guardify/internal/adapters/nats"
	"github.com/swopnil/Guardify/internal/adapters/peoplefeed"
	"github.com/swopnil/Guardify/internal/adapters/valkey"
	"github.com/swopnil/Guardify/internal/core/usecases"
	"github.com/swopnil/Guardify/internal/pkg/config"
	"github.com/swopnil/Guardify/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("guardify-poller")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("guardify-poller", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// NATS is the poller's output; without it there is nothing to do.
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer pub.Close()

	// Valkey is optional: it only feeds the API's restart bootstrap.
	cache, err := valkey.New(cfg.Valkey.Addr)
	var store peoplefeed.SnapshotStore
	if err != nil {
		slog.Warn("valkey unavailable, snapshot bootstrap disabled", "error", err)
		cache = nil
	} else {
		store = cache
		defer cache.Close()
	}

	people := usecases.NewPeopleService(pub)
	client := peoplefeed.NewClient(cfg.PeopleFeed.URL, time.Duration(cfg.PeopleFeed.Timeout)*time.Second)
	poller := peoplefeed.NewPoller(client, people, store, time.Duration(cfg.PeopleFeed.PollInterval)*time.Second)

	slog.Info("people feed poller starting",
		"url", cfg.PeopleFeed.URL,
		"interval_s", cfg.PeopleFeed.PollInterval)

	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, stopping poller", "signal", sig.String())
	cancel()
	<-done

	// A dead poller must not leave a bootstrap snapshot behind; the API
	// would serve it as current until the TTL ran out.
	if cache != nil {
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cache.DropSnapshot(dropCtx); err != nil {
			slog.Warn("drop bootstrap snapshot failed", "error", err)
		}
		dropCancel()
	}

	slog.Info("poller stopped")
}
