package directions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// walkRequest is the provider request body. Mode is always walking; the
// scorer has no calibration for anything faster.
type walkRequest struct {
	Origin       domain.GeoPoint `json:"origin"`
	Destination  domain.GeoPoint `json:"destination"`
	Mode         string          `json:"mode"`
	Alternatives bool            `json:"alternatives"`
}

type walkResponse struct {
	Routes []domain.RouteCandidate `json:"routes"`
}

// Client fetches walking route candidates from an HTTP directions provider.
// Implements ports.DirectionsProvider.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates a directions client for the given provider endpoint.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// WalkingRoutes returns candidates between origin and destination. Every
// candidate is validated here so downstream scoring can assume well-formed
// polylines.
func (c *Client) WalkingRoutes(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.RouteCandidate, error) {
	body, err := json.Marshal(walkRequest{
		Origin:       origin,
		Destination:  destination,
		Mode:         "walking",
		Alternatives: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, c.url)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var decoded walkResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode routes: %w", err)
	}

	for i, route := range decoded.Routes {
		if err := route.Validate(); err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		for j, pt := range route.Points {
			if err := domain.ValidatePoint(pt); err != nil {
				return nil, fmt.Errorf("route %d point %d: %w", i, j, err)
			}
		}
		for j, st := range route.Steps {
			if err := domain.ValidatePoint(st.Anchor); err != nil {
				return nil, fmt.Errorf("route %d step %d anchor: %w", i, j, err)
			}
		}
	}
	return decoded.Routes, nil
}
