// Package backend is the HTTP client for the marketplace API. Responses are
// validated against the documented envelope shape at this boundary; anything
// that does not match fails with a typed error instead of propagating zero
// values into the console.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bazario/console/core"
	"github.com/bazario/console/ports"
)

// DefaultTimeout bounds every backend call.
const DefaultTimeout = 30 * time.Second

// Client talks to the marketplace API. Authenticated calls read the bearer
// token from the token store on every request, so a token refreshed by a
// login is picked up immediately.
type Client struct {
	baseURL string
	httpc   *http.Client
	store   ports.TokenStore
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, store ports.TokenStore) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: DefaultTimeout},
		store:   store,
	}
}

// envelope is the response wrapper every backend endpoint uses.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, authed bool) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if authed {
		token, err := c.store.Access(ctx)
		if errors.Is(err, core.ErrNoToken) {
			return nil, core.ErrUnauthenticated
		}
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d: %s", core.ErrUnauthenticated, resp.StatusCode, serverMessage(raw))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d: %s", core.ErrRequestFailed, resp.StatusCode, serverMessage(raw))
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrBadResponse, err)
	}
	return &env, nil
}

// serverMessage extracts the backend's message from an error body, falling
// back to the raw text.
func serverMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return strings.TrimSpace(string(raw))
}

func decodeData(env *envelope, out any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: missing data field", core.ErrBadResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %v", core.ErrBadResponse, err)
	}
	return nil
}

// timeoutSeconds accepts the resend timeout either as a JSON number or as a
// numeric string, which is how the backend reports it.
type timeoutSeconds int64

func (t *timeoutSeconds) UnmarshalJSON(b []byte) error {
	value, err := strconv.ParseInt(strings.Trim(string(b), `"`), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timeout %s", b)
	}
	*t = timeoutSeconds(value)
	return nil
}
