// ABOUTME: Tests for the transport interceptor pipeline
// ABOUTME: Query pruning, auth header, tenant prefixing, error classification
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/fbconsole/notify"
)

type capture struct {
	mu       sync.Mutex
	requests []*http.Request
	queries  []url.Values
}

func (c *capture) record(r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, r.Clone(context.Background()))
	c.queries = append(c.queries, r.URL.Query())
}

func (c *capture) last() *http.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requests[len(c.requests)-1]
}

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg Config) (*Client, *capture) {
	t.Helper()
	cap := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.record(r)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	cfg.BaseURL = srv.URL
	return NewClient(cfg), cap
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	_ = json.NewEncoder(w).Encode(map[string]any{"items": []any{}, "total": 0})
}

func TestEmptySearchTermIsStripped(t *testing.T) {
	client, cap := newTestClient(t, okHandler, Config{})

	query := url.Values{}
	query.Set("q", "")
	query.Set("page", "1")
	require.NoError(t, client.Get(context.Background(), "/contacts", query, nil))

	got := cap.last().URL.Query()
	assert.False(t, got.Has("q"))
	assert.Equal(t, "1", got.Get("page"))
}

func TestBlankFilterValuesAreStripped(t *testing.T) {
	client, cap := newTestClient(t, okHandler, Config{})

	query := url.Values{}
	query["filters[role]"] = []string{"", "farmer", ""}
	query["filters[gender]"] = []string{""}
	require.NoError(t, client.Get(context.Background(), "/contacts", query, nil))

	got := cap.last().URL.Query()
	assert.Equal(t, []string{"farmer"}, got["filters[role]"])
	assert.False(t, got.Has("filters[gender]"))
}

func TestNonEmptySearchTermSurvives(t *testing.T) {
	client, cap := newTestClient(t, okHandler, Config{})

	query := url.Values{}
	query.Set("q", "maize")
	require.NoError(t, client.Get(context.Background(), "/contacts", query, nil))

	assert.Equal(t, "maize", cap.last().URL.Query().Get("q"))
}

func TestAuthorizationHeaderFromTokenSource(t *testing.T) {
	token := ""
	client, cap := newTestClient(t, okHandler, Config{
		Token: func() string { return token },
	})

	require.NoError(t, client.Get(context.Background(), "/contacts", nil, nil))
	assert.Empty(t, cap.last().Header.Get("Authorization"))

	// The credential is read at dispatch time, not at client build time.
	token = "tok-123"
	require.NoError(t, client.Get(context.Background(), "/contacts", nil, nil))
	assert.Equal(t, "Bearer tok-123", cap.last().Header.Get("Authorization"))
}

func TestRequestIDHeaderIsSet(t *testing.T) {
	client, cap := newTestClient(t, okHandler, Config{})

	require.NoError(t, client.Get(context.Background(), "/contacts", nil, nil))
	assert.NotEmpty(t, cap.last().Header.Get("X-Request-ID"))
}

func TestTenantPrefixing(t *testing.T) {
	client, cap := newTestClient(t, okHandler, Config{
		Organization: func() string { return "acme" },
	})

	cases := []struct {
		path string
		want string
	}{
		{"/contacts", "/acme/contacts"},
		{"/farms/3/notes", "/acme/farms/3/notes"},
		{"/markets", "/markets"},
		{"/commodities", "/commodities"},
		{"/market_prices", "/market_prices"},
		{"/crop-varieties/maize", "/crop-varieties/maize"},
		{"/agronomy/crop-cycles/crop/maize", "/agronomy/crop-cycles/crop/maize"},
		{"/organizations/acme/members", "/organizations/acme/members"},
	}
	for _, tc := range cases {
		require.NoError(t, client.Get(context.Background(), tc.path, nil, nil), tc.path)
		assert.Equal(t, tc.want, cap.last().URL.Path, tc.path)
	}
}

func TestEmptyOrganizationFallsBackToDefault(t *testing.T) {
	client, cap := newTestClient(t, okHandler, Config{
		Organization: func() string { return "" },
	})

	require.NoError(t, client.Get(context.Background(), "/contacts", nil, nil))
	assert.Equal(t, "/default/contacts", cap.last().URL.Path)
}

func TestUnauthorizedTearsDownSessionWithoutToast(t *testing.T) {
	queue := notify.NewStaticQueue()
	var torn bool
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "token expired"})
	}, Config{
		Notifier:       queue,
		OnUnauthorized: func() { torn = true },
	})

	err := client.Get(context.Background(), "/contacts", nil, nil)
	require.Error(t, err)
	assert.True(t, torn)
	assert.Equal(t, 401, StatusOf(err))
	assert.False(t, IsHandled(err))
	assert.Empty(t, queue.Active())
}

func TestValidationErrorNotifiesWithJoinedDetail(t *testing.T) {
	queue := notify.NewStaticQueue()
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": [{"msg": "name required"}, {"msg": "phone invalid"}]}`))
	}, Config{Notifier: queue})

	err := client.Post(context.Background(), "/contacts", map[string]string{}, nil)
	require.Error(t, err)
	assert.True(t, IsHandled(err))
	assert.Equal(t, 422, StatusOf(err))

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "name required phone invalid", active[0].Text)
	assert.Equal(t, notify.TypeError, active[0].Type)
}

func TestStringDetailNotifiedVerbatim(t *testing.T) {
	queue := notify.NewStaticQueue()
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail": "not allowed for this role"}`))
	}, Config{Notifier: queue})

	err := client.Get(context.Background(), "/users", nil, nil)
	require.Error(t, err)
	assert.True(t, IsHandled(err))

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "not allowed for this role", active[0].Text)
}

func TestServerErrorFallsBackToGenericText(t *testing.T) {
	queue := notify.NewStaticQueue()
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`oops`))
	}, Config{Notifier: queue})

	err := client.Get(context.Background(), "/contacts", nil, nil)
	require.Error(t, err)
	assert.True(t, IsHandled(err))

	active := queue.Active()
	require.Len(t, active, 1)
	assert.Equal(t, fallbackErrorText, active[0].Text)
}

func TestServerErrorNotifiesExactlyOnce(t *testing.T) {
	queue := notify.NewStaticQueue()
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail": "db down"}`))
	}, Config{Notifier: queue})

	err := client.Get(context.Background(), "/contacts", nil, nil)
	require.Error(t, err)

	// The Handled flag is the contract that stops a second toast upstream.
	assert.True(t, IsHandled(err))
	require.Len(t, queue.Active(), 1)
	assert.Equal(t, "db down", queue.Active()[0].Text)
}

func TestSkipErrorHandleSuppressesToastButReturnsError(t *testing.T) {
	queue := notify.NewStaticQueue()
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": "wrong password"}`))
	}, Config{Notifier: queue})

	err := client.Post(context.Background(), "/auth/login", map[string]string{}, nil, SkipErrorHandle())
	require.Error(t, err)
	assert.False(t, IsHandled(err))
	assert.Equal(t, 422, StatusOf(err))
	assert.Empty(t, queue.Active())
}

func TestDetailMissingOn422MeansNoToast(t *testing.T) {
	queue := notify.NewStaticQueue()
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{}`))
	}, Config{Notifier: queue})

	err := client.Get(context.Background(), "/contacts", nil, nil)
	require.Error(t, err)
	assert.False(t, IsHandled(err))
	assert.Empty(t, queue.Active())
}

func TestTransportFailureHasNoStatus(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})

	err := client.Get(context.Background(), "/contacts", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
	assert.False(t, IsHandled(err))
}

func TestExtractDetail(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"string", `{"detail": "plain"}`, "plain"},
		{"msg list", `{"detail": [{"msg": "a"}, {"msg": "b"}]}`, "a b"},
		{"string list", `{"detail": ["a", "b"]}`, "a b"},
		{"mixed list", `{"detail": [{"msg": "a"}, "b"]}`, "a b"},
		{"absent", `{}`, ""},
		{"not json", `oops`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, extractDetail([]byte(tc.body)))
		})
	}
}
