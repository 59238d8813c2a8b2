package peoplefeed

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/pkg/metrics"
)

// SnapshotSink receives each validated feed refresh.
// *usecases.PeopleService satisfies it.
type SnapshotSink interface {
	Replace(ctx context.Context, positions []domain.GeoPoint) *domain.PeopleSnapshot
}

// SnapshotStore persists the latest snapshot so a restarting API instance
// has positions before the next broker publish arrives.
type SnapshotStore interface {
	StoreSnapshot(ctx context.Context, snap *domain.PeopleSnapshot) error
}

// Poller drives the people feed at a fixed cadence and fans each refresh
// into the sink. The sink owns downstream publishing.
type Poller struct {
	client   *Client
	sink     SnapshotSink
	store    SnapshotStore
	interval time.Duration
}

// NewPoller creates a poller. store may be nil when no bootstrap cache is
// available.
func NewPoller(client *Client, sink SnapshotSink, store SnapshotStore, interval time.Duration) *Poller {
	return &Poller{
		client:   client,
		sink:     sink,
		store:    store,
		interval: interval,
	}
}

// Run polls until ctx is cancelled. The first poll happens immediately so
// the people map is warm before the first tick.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	start := time.Now()
	positions, err := p.client.Fetch(ctx)
	metrics.FeedPollDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		metrics.FeedPollErrors.Inc()
		slog.Error("people feed poll failed", "error", err)
		return
	}

	snap := p.sink.Replace(ctx, positions)
	metrics.SnapshotsIngested.Inc()
	metrics.PeopleTracked.Set(float64(len(snap.People)))

	if p.store != nil {
		if err := p.store.StoreSnapshot(ctx, snap); err != nil {
			slog.Warn("snapshot cache write failed", "error", err)
		}
	}

	slog.Debug("people snapshot ingested", "people", len(snap.People), "took", time.Since(start).String())
}
