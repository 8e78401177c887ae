// ABOUTME: HTTP transport wrapper for the Farmbase API
// ABOUTME: Request/response interceptors: auth header, tenant prefix, error classification
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmwise/fbconsole/notify"
)

// fallbackErrorText is shown for a 500 whose body carries no detail.
const fallbackErrorText = "Something has gone wrong. Please retry or let your admin know that you received this error."

// globalPrefixes are tenant-independent resources that must not be prefixed
// with the active organization segment.
var globalPrefixes = []string{
	"/markets",
	"/commodities",
	"/market_prices",
	"/crop-varieties",
	"/agronomy",
	"/auth",
}

// Error is a structured API failure carrying the HTTP status and the
// server-supplied human-readable detail. Handled means the response
// interceptor already surfaced it as a notification, so callers must not
// notify again.
type Error struct {
	Status  int
	Detail  string
	Handled bool
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: %d", e.Status)
}

// IsHandled reports whether the pipeline already surfaced err to the user.
func IsHandled(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Handled
}

// StatusOf returns the HTTP status carried by err, or 0 for transport-level
// failures.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client wraps an HTTP client with the console's interceptor pipeline.
type Client struct {
	http     *http.Client
	baseURL  string
	org      func() string
	token    func() string
	notifier *notify.Queue
	onUnauth func()
	log      *zap.Logger
}

type Config struct {
	// BaseURL is the API root, e.g. https://api.example.com/api/v1.
	BaseURL string
	// Timeout bounds every request; zero means 20s.
	Timeout time.Duration
	// Organization resolves the active tenant slug at dispatch time.
	Organization func() string
	// Token resolves the bearer credential at dispatch time; "" disables
	// the Authorization header.
	Token func() string
	// Notifier receives classified error notifications.
	Notifier *notify.Queue
	// OnUnauthorized is the session-invalidation hook run on a 401.
	OnUnauthorized func()
	// Logger; nil means nop.
	Logger *zap.Logger
}

func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	org := cfg.Organization
	if org == nil {
		org = func() string { return "default" }
	}
	token := cfg.Token
	if token == nil {
		token = func() string { return "" }
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		org:      org,
		token:    token,
		notifier: cfg.Notifier,
		onUnauth: cfg.OnUnauthorized,
		log:      log,
	}
}

type requestOptions struct {
	skipErrorHandle bool
}

type RequestOption func(*requestOptions)

// SkipErrorHandle opts a single call out of notification-raising; the error
// is still classified and returned.
func SkipErrorHandle() RequestOption {
	return func(o *requestOptions) { o.skipErrorHandle = true }
}

// Do issues a request through the interceptor pipeline and decodes the JSON
// response into out when out is non-nil. The returned error is always the
// original failure; the pipeline never swallows it.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, out any, opts ...RequestOption) error {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	query = pruneQuery(query)
	path = c.prefixPath(path)

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return c.classify(resp, ro)
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// prefixPath prepends the active organization segment unless the path
// already addresses organizations or a tenant-independent resource.
func (c *Client) prefixPath(path string) string {
	if strings.Contains(path, "organization") {
		return path
	}
	for _, prefix := range globalPrefixes {
		if strings.HasPrefix(path, prefix) {
			return path
		}
	}
	org := c.org()
	if org == "" {
		org = "default"
	}
	return "/" + org + path
}

// pruneQuery drops an empty q parameter and any parameter whose values are
// all empty, so meaningless search terms and blank filters never hit the
// wire.
func pruneQuery(query url.Values) url.Values {
	if query == nil {
		return nil
	}
	pruned := url.Values{}
	for key, values := range query {
		if key == "q" {
			if len(values) == 0 || values[0] == "" {
				continue
			}
		}
		var kept []string
		for _, v := range values {
			if v != "" {
				kept = append(kept, v)
			}
		}
		if len(kept) > 0 {
			pruned[key] = kept
		}
	}
	return pruned
}

// classify implements the response stage of the pipeline. It always returns
// the original error so callers can still react (stop a spinner, keep a
// dialog open).
func (c *Client) classify(resp *http.Response, ro requestOptions) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	apiErr := &Error{Status: resp.StatusCode, Detail: extractDetail(raw)}

	if resp.StatusCode == http.StatusUnauthorized {
		// Session teardown, not a notification.
		if c.onUnauth != nil {
			c.onUnauth()
		}
		return apiErr
	}

	if ro.skipErrorHandle {
		return apiErr
	}

	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusConflict, http.StatusUnprocessableEntity:
		if apiErr.Detail != "" && c.notifier != nil {
			c.notifier.Error(apiErr.Detail)
			apiErr.Handled = true
		}
	case http.StatusInternalServerError:
		text := apiErr.Detail
		if text == "" {
			text = fallbackErrorText
		}
		if c.notifier != nil {
			c.notifier.Error(text)
			apiErr.Handled = true
		}
	}
	return apiErr
}

// extractDetail parses the backend error envelope: detail is either a
// string or a list whose items carry a msg field (or are plain strings).
func extractDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []json.RawMessage
	if err := json.Unmarshal(envelope.Detail, &items); err != nil {
		return ""
	}
	var parts []string
	for _, item := range items {
		var withMsg struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(item, &withMsg); err == nil && withMsg.Msg != "" {
			parts = append(parts, withMsg.Msg)
			continue
		}
		var plain string
		if err := json.Unmarshal(item, &plain); err == nil && plain != "" {
			parts = append(parts, plain)
		}
	}
	return strings.Join(parts, " ")
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, out, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, out, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, out, opts...)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPatch, path, nil, body, out, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil, opts...)
}
