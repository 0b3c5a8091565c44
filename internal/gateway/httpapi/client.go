package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Client talks JSON to the message service. Requests carry the bearer
// token when one is configured; a 429 answer is retried after the delay
// the service asks for, or after a doubling delay when it names none.
type Client struct {
	baseURL     string
	token       string
	httpClient  *http.Client
	maxRetries  int
	backoffBase time.Duration
	maxWait     time.Duration
}

// NewClient returns a client for the service rooted at baseURL, for
// example https://messagerie.assemblee.ga/api. An empty token sends no
// Authorization header.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		httpClient:  &http.Client{Timeout: timeout},
		maxRetries:  3,
		backoffBase: time.Second,
		maxWait:     30 * time.Second,
	}
}

// Get decodes the JSON answer of GET path into result.
func (c *Client) Get(ctx context.Context, path string, result any) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post sends body as JSON and decodes the answer into result. Either may
// be nil.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s %s: %w", method, path, err)
		}
		payload = data
	}

	for attempt := 0; ; attempt++ {
		resp, respBody, err := c.roundTrip(ctx, method, path, payload)
		if err != nil {
			return err
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			if attempt == c.maxRetries {
				return fmt.Errorf("%s %s still rate limited after %d retries", method, path, c.maxRetries)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.rateLimitWait(resp.Header, attempt)):
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &StatusError{
				Method:  method,
				Path:    path,
				Code:    resp.StatusCode,
				Message: errorMessage(respBody),
			}
		}
		if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding %s %s: %w", method, path, err)
		}
		return nil
	}
}

// roundTrip sends one request and returns the response with its body
// already read and closed.
func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("building %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s %s: %w", method, path, err)
	}
	return resp, data, nil
}

// rateLimitWait is the pause before retry number attempt+1. Retry-After
// may be given in seconds or as an HTTP date; without it the pause
// doubles from backoffBase. The result never exceeds maxWait.
func (c *Client) rateLimitWait(h http.Header, attempt int) time.Duration {
	wait := c.backoffBase << uint(attempt)
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			wait = time.Duration(secs) * time.Second
		} else if at, err := http.ParseTime(v); err == nil {
			wait = time.Until(at)
		}
	}
	if wait < 0 {
		wait = 0
	}
	if wait > c.maxWait {
		wait = c.maxWait
	}
	return wait
}

// errorMessage extracts a readable message from an error response body.
func errorMessage(body []byte) string {
	var e errorResponse
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
