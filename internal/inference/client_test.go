package inference

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical-ai/scitrans/internal/domain"
)

type recordingSleeper struct {
	calls []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.calls = append(s.calls, d)
	return ctx.Err()
}

// scriptedServer answers with statuses[i] on the i-th request and repeats the last one.
func scriptedServer(t *testing.T, statuses []int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(atomic.AddInt32(&hits, 1)) - 1
		if n >= len(statuses) {
			n = len(statuses) - 1
		}
		w.WriteHeader(statuses[n])
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newTestClient(t *testing.T, endpoint string, s *recordingSleeper) *Client {
	t.Helper()
	c, err := NewClient(Config{APIKey: "hf_test", Endpoint: endpoint}, WithSleeper(s.sleep))
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantError bool
	}{
		{name: "defaults applied", cfg: Config{APIKey: "hf_test"}},
		{name: "custom endpoint", cfg: Config{APIKey: "hf_test", Endpoint: "http://localhost/model", MaxAttempts: 5}},
		{name: "empty api key", cfg: Config{}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClient(tt.cfg)
			if tt.wantError {
				require.Error(t, err)
				assert.Equal(t, domain.ErrorTypeConfig, domain.TypeOf(err))
				return
			}
			require.NoError(t, err)
			if tt.cfg.Endpoint == "" {
				assert.Equal(t, defaultEndpoint, c.cfg.Endpoint)
			}
			if tt.cfg.MaxAttempts == 0 {
				assert.Equal(t, 3, c.cfg.MaxAttempts)
			}
			assert.Equal(t, defaultRetryDelay, c.cfg.RetryDelay)
		})
	}
}

func TestCallSendsBearerAndInputs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer hf_test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Explain this clearly:\n\"ATP\"", req["inputs"])

		_, _ = io.WriteString(w, `[{"generated_text":"ok"}]`)
	}))
	defer srv.Close()

	s := &recordingSleeper{}
	resp := newTestClient(t, srv.URL, s).Call(context.Background(), "Explain this clearly:\n\"ATP\"")

	assert.True(t, resp.OK())
	assert.Equal(t, `[{"generated_text":"ok"}]`, resp.Body)
	assert.Equal(t, 1, resp.Attempts)
	assert.Empty(t, s.calls)
}

func TestCallRetriesOn503ThenSucceeds(t *testing.T) {
	srv, hits := scriptedServer(t, []int{503, 503, 200}, `{"summary":"s"}`)
	s := &recordingSleeper{}
	c, err := NewClient(Config{APIKey: "k", Endpoint: srv.URL, RetryDelay: time.Second}, WithSleeper(s.sleep))
	require.NoError(t, err)

	resp := c.Call(context.Background(), "p")

	assert.True(t, resp.OK())
	assert.Equal(t, `{"summary":"s"}`, resp.Body)
	assert.Equal(t, 3, resp.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
	assert.Equal(t, []time.Duration{time.Second, time.Second}, s.calls)
}

func TestCallDoesNotRetryOtherStatuses(t *testing.T) {
	for _, status := range []int{400, 401, 404, 429, 500, 502} {
		srv, hits := scriptedServer(t, []int{status}, "nope")
		s := &recordingSleeper{}

		resp := newTestClient(t, srv.URL, s).Call(context.Background(), "p")

		assert.False(t, resp.OK())
		assert.NoError(t, resp.Err)
		assert.Equal(t, status, resp.StatusCode)
		assert.Equal(t, "nope", resp.Body)
		assert.Equal(t, 1, resp.Attempts)
		assert.Equal(t, int32(1), atomic.LoadInt32(hits))
		assert.Empty(t, s.calls)
	}
}

func TestCallExhaustsOn503(t *testing.T) {
	srv, hits := scriptedServer(t, []int{503}, "loading")
	s := &recordingSleeper{}

	resp := newTestClient(t, srv.URL, s).Call(context.Background(), "p")

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "loading", resp.Body)
	assert.Contains(t, resp.Status, "503")
	assert.Equal(t, 3, resp.Attempts)
	assert.Equal(t, int32(3), atomic.LoadInt32(hits))
	assert.Len(t, s.calls, 2)
}

func TestCallTransportFailureExhausts(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	s := &recordingSleeper{}
	resp := newTestClient(t, url, s).Call(context.Background(), "p")

	require.Error(t, resp.Err)
	assert.False(t, resp.OK())
	assert.Equal(t, 3, resp.Attempts)
	assert.Len(t, s.calls, 2)
	assert.Equal(t, domain.ErrorTypeAPI, domain.TypeOf(resp.Err))
	assert.Contains(t, resp.Err.Error(), "request failed after 3 attempts")
}

func TestCallStopsWhenSleeperCancelled(t *testing.T) {
	srv, hits := scriptedServer(t, []int{503}, "")
	ctx, cancel := context.WithCancel(context.Background())

	c, err := NewClient(Config{APIKey: "k", Endpoint: srv.URL, MaxAttempts: 5}, WithSleeper(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}))
	require.NoError(t, err)

	resp := c.Call(ctx, "p")

	require.Error(t, resp.Err)
	assert.ErrorIs(t, resp.Err, context.Canceled)
	assert.Equal(t, 1, resp.Attempts)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestCallTruncatesOversizedBody(t *testing.T) {
	srv, _ := scriptedServer(t, []int{200}, strings.Repeat("a", 100))
	c, err := NewClient(Config{APIKey: "k", Endpoint: srv.URL, MaxResponseBytes: 10})
	require.NoError(t, err)

	resp := c.Call(context.Background(), "p")
	assert.Equal(t, "aaaaaaaaaa", resp.Body)
}

func TestCallEntities(t *testing.T) {
	c, err := NewClient(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.False(t, c.HasEntityEndpoint())
	resp := c.CallEntities(context.Background(), "text")
	assert.Equal(t, domain.ErrorTypeConfig, domain.TypeOf(resp.Err))

	srv, hits := scriptedServer(t, []int{200}, `[{"word":"ATP","entity_group":"MISC"}]`)
	c, err = NewClient(Config{APIKey: "k", EntityEndpoint: srv.URL})
	require.NoError(t, err)
	assert.True(t, c.HasEntityEndpoint())
	resp = c.CallEntities(context.Background(), "text")
	assert.True(t, resp.OK())
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
