// Package upstream talks to the third-party affirmation API.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/affirmly/affirmation-api/internal/core/domain"
)

const (
	DefaultURL     = "https://www.affirmations.dev/"
	defaultTimeout = 5 * time.Second

	// maxBodyBytes caps how much of the upstream body we decode.
	maxBodyBytes = 64 << 10
)

// Config holds the upstream endpoint settings.
type Config struct {
	URL       string
	Timeout   time.Duration
	UserAgent string
}

type affirmationResponse struct {
	Affirmation string `json:"affirmation"`
}

// userAgentRoundTripper stamps every outgoing request with a fixed User-Agent.
type userAgentRoundTripper struct {
	wrapped   http.RoundTripper
	userAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", rt.userAgent)
	return rt.wrapped.RoundTrip(clone)
}

// Client implements ports.AffirmationSource over HTTP.
type Client struct {
	url    string
	client *http.Client
}

// NewClient builds a Client. Empty fields fall back to DefaultURL and a 5s timeout.
func NewClient(cfg Config) *Client {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = DefaultURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var transport http.RoundTripper = http.DefaultTransport
	if cfg.UserAgent != "" {
		transport = &userAgentRoundTripper{wrapped: transport, userAgent: cfg.UserAgent}
	}

	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Fetch performs one GET against the upstream. Non-200 statuses, bodies that
// are not JSON and empty affirmation fields all wrap domain.ErrNoAffirmation;
// every other error is a transport failure.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build upstream request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return "", fmt.Errorf("%w: status %d", domain.ErrNoAffirmation, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read upstream body: %w", err)
	}

	var payload affirmationResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("%w: decode body: %v", domain.ErrNoAffirmation, err)
	}
	if payload.Affirmation == "" {
		return "", fmt.Errorf("%w: empty affirmation field", domain.ErrNoAffirmation)
	}
	return payload.Affirmation, nil
}
