// Package rtm talks to Slack: it fetches the startup snapshot that seeds the
// directory and streams real-time events over a websocket.
package rtm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flemzord/rtmtail/internal/directory"
)

const (
	// DefaultAPIURL is the Slack Web API base URL.
	DefaultAPIURL = "https://slack.com/api"

	maxRetries       = 3
	initialBackoff   = time.Second
	maxResponseBytes = 64 << 20 // rtm.start embeds every user and conversation.
)

// Client is a thin HTTP wrapper around the Slack Web API.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewClient creates a Web API client. An empty baseURL selects DefaultAPIURL.
func NewClient(token, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		token:   token,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// apiStatus is the envelope shared by every Web API response.
type apiStatus struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// do POSTs form params to the given Web API method and decodes the response
// into T. HTTP 429 is retried (max 3 attempts) honouring Retry-After.
func do[T any](ctx context.Context, c *Client, method string, params url.Values) (*T, error) {
	endpoint := c.baseURL + "/" + method
	encoded := params.Encode()

	backoff := initialBackoff

	for attempt := range maxRetries {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(encoded))
		if err != nil {
			return nil, fmt.Errorf("rtm: create %s request: %w", method, err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("rtm: %s request failed: %w", method, err)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("rtm: read %s response: %w", method, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
			if attempt == maxRetries-1 {
				return nil, &APIError{Method: method, Code: "ratelimited", RetryAfter: retryAfter}
			}
			if retryAfter > 0 {
				backoff = time.Duration(retryAfter) * time.Second
			}

			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
			backoff *= 2
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("rtm: %s: unexpected status %d", method, resp.StatusCode)
		}

		var status apiStatus
		if err := json.Unmarshal(body, &status); err != nil {
			return nil, fmt.Errorf("rtm: decode %s response: %w", method, err)
		}
		if !status.OK {
			return nil, &APIError{Method: method, Code: status.Error}
		}

		var result T
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("rtm: decode %s response: %w", method, err)
		}
		return &result, nil
	}

	return nil, fmt.Errorf("rtm: %s: max retries exceeded", method)
}

// startResponse is the rtm.start payload: the stream URL plus the lists
// that seed the directory.
type startResponse struct {
	URL string `json:"url"`
	directory.Snapshot
}

// StartRTM calls rtm.start and returns the stream URL with the workspace
// snapshot.
func (c *Client) StartRTM(ctx context.Context) (*Session, error) {
	resp, err := do[startResponse](ctx, c, "rtm.start", url.Values{})
	if err != nil {
		return nil, err
	}
	if resp.URL == "" {
		return nil, ErrNoURL
	}
	return &Session{URL: resp.URL, Snapshot: resp.Snapshot}, nil
}
