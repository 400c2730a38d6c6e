package twilio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bfsi-ai/voice-agent/pkg/logging"
)

const (
	defaultAPIBaseURL = "https://api.twilio.com"
	callTimeout       = 15 * time.Second
)

// Client places outbound calls through the Twilio REST API. It backs the
// dashboard's "call me" demo trigger.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// ClientConfig configures the outbound call client.
type ClientConfig struct {
	// AccountSID and AuthToken are the Twilio REST credentials.
	AccountSID string
	AuthToken  string
	// BaseURL overrides the Twilio API base URL (for testing).
	BaseURL string
	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// NewClient creates a client for initiating outbound calls.
func NewClient(cfg ClientConfig) (*Client, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, fmt.Errorf("twilio client: account SID and auth token required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: callTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CallRequest contains the parameters for an outbound call.
type CallRequest struct {
	// To is the callee's phone number (E.164).
	To string
	// From is the Twilio number placing the call (E.164).
	From string
	// VoiceURL is the public /voice webhook Twilio fetches TwiML from.
	VoiceURL string
	// StatusCallbackURL receives lifecycle events; optional.
	StatusCallbackURL string
}

// Call is the subset of the Twilio call resource the demo cares about.
type Call struct {
	SID      string `json:"sid"`
	Status   string `json:"status"`
	From     string `json:"from"`
	To       string `json:"to"`
	Duration string `json:"duration"`
}

// CreateCall starts an outbound call that connects the callee to the voice
// agent's /voice webhook.
func (c *Client) CreateCall(ctx context.Context, req CallRequest) (*Call, error) {
	if req.To == "" || req.From == "" {
		return nil, fmt.Errorf("twilio client: to and from phone numbers required")
	}
	if req.VoiceURL == "" {
		return nil, fmt.Errorf("twilio client: voice URL required")
	}

	form := url.Values{}
	form.Set("To", req.To)
	form.Set("From", req.From)
	form.Set("Url", req.VoiceURL)
	form.Set("Method", "POST")
	if req.StatusCallbackURL != "" {
		form.Set("StatusCallback", req.StatusCallbackURL)
		for _, ev := range []string{"initiated", "ringing", "answered", "completed"} {
			form.Add("StatusCallbackEvent", ev)
		}
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	call, err := c.do(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}

	c.logger.Info("twilio: outbound call initiated", "call_sid", call.SID, "status", call.Status)
	return call, nil
}

// GetCall fetches the current state of a call.
func (c *Client) GetCall(ctx context.Context, callSID string) (*Call, error) {
	if callSID == "" {
		return nil, fmt.Errorf("twilio client: call SID required")
	}
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls/%s.json", c.baseURL, c.accountSID, callSID)
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*Call, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("twilio client: create request: %w", err)
	}
	httpReq.SetBasicAuth(c.accountSID, c.authToken)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("twilio client: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("twilio client: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("twilio client: api status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var call Call
	if err := json.Unmarshal(respBody, &call); err != nil {
		return nil, fmt.Errorf("twilio client: decode response: %w", err)
	}
	return &call, nil
}
