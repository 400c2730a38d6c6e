package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bfsi-ai/voice-agent/pkg/logging"
)

const notifyTimeout = 2 * time.Second

// Client pushes conversation events to the dashboard mirror. Pushes are
// strictly best-effort: one attempt, short timeout, failures logged and
// swallowed. The mirror is never on the voice response path.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a mirror client for the given dashboard base URL. An
// empty URL disables the mirror.
func NewClient(baseURL string, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: notifyTimeout},
		logger:     logger,
	}
}

// Notify asynchronously mirrors one conversation event. It returns
// immediately; delivery is fire-and-forget with no retry.
func (c *Client) Notify(role, text string) {
	if c == nil || c.baseURL == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := c.post(ctx, Event{Role: role, Text: text}); err != nil {
			c.logger.Warn("dashboard push failed", "error", err)
		}
	}()
}

func (c *Client) post(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("dashboard: marshal event: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/conversation", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("dashboard: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dashboard: post event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("dashboard: mirror status %d", resp.StatusCode)
	}
	return nil
}
