package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Event is the payload delivered to the notification webhook.
type Event struct {
	Type       string         `json:"type"`
	SchoolID   string         `json:"school_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Data       map[string]any `json:"data,omitempty"`
}

// Client posts domain events to an external notification webhook. Delivery is
// retried a few times with linear backoff; Skip short-circuits delivery when
// no webhook is configured.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Skip    bool
	Retries int
}

// New creates a client. skip disables delivery entirely.
func New(baseURL string, skip bool) *Client {
	return &Client{
		BaseURL: baseURL,
		Skip:    skip || baseURL == "",
		Retries: 3,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Health probes the webhook endpoint.
func (c *Client) Health(ctx context.Context) error {
	if c.Skip {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("notify: webhook unhealthy (%d)", resp.StatusCode)
	}
	return nil
}

// Send delivers one event, retrying transient failures.
func (c *Client) Send(ctx context.Context, evt Event) error {
	if c.Skip {
		return nil
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}
	raw, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("notify: encode event failed: %w", err)
	}

	attempts := c.Retries
	if attempts <= 0 {
		attempts = 1
	}
	var lastErr error
	for i := 1; i <= attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode < 300 {
				return nil
			}
			lastErr = fmt.Errorf("notify: webhook returned %d", resp.StatusCode)
			// Client errors will not succeed on retry.
			if resp.StatusCode < 500 {
				return lastErr
			}
		} else {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i) * 500 * time.Millisecond):
		}
	}
	return fmt.Errorf("notify: delivery failed after %d attempts: %w", attempts, lastErr)
}
