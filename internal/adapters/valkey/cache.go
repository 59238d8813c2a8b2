package valkey

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// snapshotKey holds the most recent people snapshot. The poller writes it
// after every upstream fetch so an API instance that restarts can serve
// positions immediately instead of waiting for the next NATS publish.
const snapshotKey = "guardify:people:latest"

// snapshotTTL bounds how old a bootstrap snapshot can be. Readers still
// check the embedded timestamp before trusting it.
const snapshotTTL = 60

// Cache wraps a Valkey (Redis-compatible) client.
type Cache struct {
	client valkey.Client
}

// New creates a new Valkey cache client.
func New(addr string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Cache{client: client}, nil
}

// Ping verifies the connection is alive.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := c.client.Do(ctx, c.client.B().Get().Key(key).Build())
	if cmd.Error() != nil {
		return nil, cmd.Error()
	}
	b, err := cmd.AsBytes()
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set stores a value with a TTL in seconds.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	cmd := c.client.Do(ctx,
		c.client.B().Set().Key(key).Value(string(value)).Ex(time.Duration(ttlSeconds)*time.Second).Build(),
	)
	return cmd.Error()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	cmd := c.client.Do(ctx, c.client.B().Del().Key(key).Build())
	return cmd.Error()
}

// StoreSnapshot persists the latest people snapshot for API bootstrap.
func (c *Cache) StoreSnapshot(ctx context.Context, snap *domain.PeopleSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return c.Set(ctx, snapshotKey, b, snapshotTTL)
}

// LoadSnapshot returns the cached people snapshot, or nil when none is
// stored or the stored value cannot be decoded.
func (c *Cache) LoadSnapshot(ctx context.Context) (*domain.PeopleSnapshot, error) {
	b, err := c.Get(ctx, snapshotKey)
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	var snap domain.PeopleSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// DropSnapshot removes the cached snapshot, used when the poller shuts
// down so a dead feed does not leave a bootstrap value behind.
func (c *Cache) DropSnapshot(ctx context.Context) error {
	return c.Delete(ctx, snapshotKey)
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}
