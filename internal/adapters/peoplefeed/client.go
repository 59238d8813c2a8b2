package peoplefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// feedEntry is the upstream wire shape, one tracked device per element.
type feedEntry struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client fetches position snapshots from the campus people feed.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a feed client for the given endpoint.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs one GET against the feed and returns the validated
// positions. A single malformed coordinate rejects the whole snapshot;
// a partial snapshot would skew route scores, so none is better than some.
func (c *Client) Fetch(ctx context.Context) ([]domain.GeoPoint, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, c.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var entries []feedEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	points := make([]domain.GeoPoint, 0, len(entries))
	for i, e := range entries {
		p := domain.GeoPoint{Lat: e.Latitude, Lon: e.Longitude}
		if err := domain.ValidatePoint(p); err != nil {
			return nil, fmt.Errorf("feed entry %d: %w", i, err)
		}
		points = append(points, p)
	}
	return points, nil
}
