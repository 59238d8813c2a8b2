package peoplefeed

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
)

type chanSink struct {
	got chan []domain.GeoPoint
}

func (s *chanSink) Replace(ctx context.Context, positions []domain.GeoPoint) *domain.PeopleSnapshot {
	people := make([]domain.Person, 0, len(positions))
	for _, p := range positions {
		people = append(people, domain.NewPerson(p))
	}
	select {
	case s.got <- positions:
	default:
	}
	return &domain.PeopleSnapshot{Time: time.Now().UTC(), People: people}
}

type recordingStore struct {
	mu    sync.Mutex
	snaps []*domain.PeopleSnapshot
}

func (s *recordingStore) StoreSnapshot(ctx context.Context, snap *domain.PeopleSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
	return nil
}

func (s *recordingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snaps)
}

func TestPoller_PollsImmediatelyThenOnTick(t *testing.T) {
	srv := feedServer(t, http.StatusOK,
		`[{"latitude":40.0365,"longitude":-75.3492},{"latitude":40.0371,"longitude":-75.3505}]`)
	sink := &chanSink{got: make(chan []domain.GeoPoint, 8)}
	store := &recordingStore{}
	p := NewPoller(NewClient(srv.URL, time.Second), sink, store, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	// First delivery is the immediate poll, second comes from the ticker.
	for i := 0; i < 2; i++ {
		select {
		case positions := <-sink.got:
			if len(positions) != 2 {
				t.Fatalf("poll %d: expected 2 positions, got %d", i, len(positions))
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for poll %d", i)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	if store.count() < 2 {
		t.Errorf("expected at least 2 cached snapshots, got %d", store.count())
	}
}

func TestPoll_FeedErrorSkipsSink(t *testing.T) {
	srv := feedServer(t, http.StatusInternalServerError, `oops`)
	sink := &chanSink{got: make(chan []domain.GeoPoint, 1)}
	p := NewPoller(NewClient(srv.URL, time.Second), sink, nil, time.Hour)

	p.poll(context.Background())

	select {
	case <-sink.got:
		t.Fatal("sink should not receive a snapshot when the feed fails")
	default:
	}
}

func TestPoll_NilStore(t *testing.T) {
	srv := feedServer(t, http.StatusOK, `[{"latitude":40.0365,"longitude":-75.3492}]`)
	sink := &chanSink{got: make(chan []domain.GeoPoint, 1)}
	p := NewPoller(NewClient(srv.URL, time.Second), sink, nil, time.Hour)

	p.poll(context.Background())

	select {
	case positions := <-sink.got:
		if len(positions) != 1 {
			t.Fatalf("expected 1 position, got %d", len(positions))
		}
	default:
		t.Fatal("sink should have received the snapshot")
	}
}
