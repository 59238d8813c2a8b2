package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// chatRequest and chatResponse mirror the assistant backend contract. The
// malicious verdict arrives as the string "true" or "false", not a JSON
// boolean; that wire shape is fixed upstream.
type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	BotMessage string `json:"bot_message"`
	Malicious  string `json:"malicious"`
}

type detectionRequest struct {
	Transcription string `json:"transcription"`
}

// Client talks to the companion assistant backend. It implements both
// ports.AssistantClient (chat) and ports.DetectionClient (transcriptions);
// the two endpoints live on the same upstream service.
type Client struct {
	chatURL      string
	detectionURL string
	client       *http.Client
}

// NewClient creates an assistant client.
func NewClient(chatURL, detectionURL string, timeout time.Duration) *Client {
	return &Client{
		chatURL:      chatURL,
		detectionURL: detectionURL,
		client:       &http.Client{Timeout: timeout},
	}
}

// Send forwards a user message and returns the reply plus the backend's
// malicious verdict.
func (c *Client) Send(ctx context.Context, message string) (string, bool, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", false, fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("POST %s: %w", c.chatURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("HTTP %d for %s", resp.StatusCode, c.chatURL)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("read body: %w", err)
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", false, fmt.Errorf("decode chat response: %w", err)
	}

	return decoded.BotMessage, strings.EqualFold(decoded.Malicious, "true"), nil
}

// Report forwards a voice transcription for danger-phrase analysis. The
// upstream defines no response body; any 2xx counts as delivered.
func (c *Client) Report(ctx context.Context, transcription string) error {
	body, err := json.Marshal(detectionRequest{Transcription: transcription})
	if err != nil {
		return fmt.Errorf("marshal detection request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.detectionURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", c.detectionURL, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, c.detectionURL)
	}
	return nil
}
