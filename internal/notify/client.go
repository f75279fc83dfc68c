package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client signals booking completion to a running reservation server. It is
// the library behind the notifier command a training job calls when it
// finishes ahead of its reserved slot.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config configures a completion client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Result reports the server's answer to a completion signal.
type Result struct {
	OK      bool
	Status  int
	Message string
}

// NewClient creates a completion client for the server at config.BaseURL.
func NewClient(config Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.With("component", "notify_client"),
	}
}

type completeRequest struct {
	CompletedAt string `json:"completed_at,omitempty"`
}

// SignalCompletion marks the booking done. A nil completedAt lets the server
// use its own clock.
func (c *Client) SignalCompletion(ctx context.Context, bookingID int64, completedAt *time.Time) (*Result, error) {
	url := fmt.Sprintf("%s/api/v1/bookings/%d/complete", c.baseURL, bookingID)

	var payload completeRequest
	if completedAt != nil {
		payload.CompletedAt = completedAt.UTC().Format(time.RFC3339)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach server: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	result := &Result{
		OK:      resp.StatusCode == http.StatusOK,
		Status:  resp.StatusCode,
		Message: serverMessage(raw),
	}

	if result.OK {
		c.logger.Info("completion signalled",
			"booking_id", bookingID,
			"status", resp.StatusCode,
		)
	} else {
		c.logger.Warn("completion rejected",
			"booking_id", bookingID,
			"status", resp.StatusCode,
			"message", result.Message,
		)
	}
	return result, nil
}

// serverMessage extracts the human readable message from an API response
// body, falling back to the raw payload.
func serverMessage(raw []byte) string {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return strings.TrimSpace(string(raw))
}
