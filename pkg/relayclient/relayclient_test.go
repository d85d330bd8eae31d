package relayclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/germanamz/tasksolver/pkg/relayclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *relayclient.Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return relayclient.New(srv.URL, relayclient.Auth{}, nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := relayclient.New("http://relay.local/", relayclient.Auth{}, nil)
	assert.Equal(t, "http://relay.local", c.BaseURL)
}

func TestNewRequest_BearerAuth(t *testing.T) {
	c := relayclient.New("http://relay.local", relayclient.Auth{Key: "anon"}, nil)

	req, err := c.NewRequest(context.Background(), http.MethodGet, "/health", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://relay.local/health", req.URL.String())
	assert.Equal(t, "Bearer anon", req.Header.Get("Authorization"))
}

func TestNewRequest_CustomHeader(t *testing.T) {
	c := relayclient.New("http://relay.local", relayclient.Auth{Key: "anon", Header: "apikey"}, nil)
	c.Headers = map[string]string{"X-Client": "cli"}

	req, err := c.NewRequest(context.Background(), http.MethodGet, "/health", nil)
	require.NoError(t, err)
	assert.Equal(t, "anon", req.Header.Get("apikey"))
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.Equal(t, "cli", req.Header.Get("X-Client"))
}

func TestSolveTask_Success(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, relayclient.PathSolveTask, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		req := readBody(t, r)
		assert.Equal(t, "2+2", req["task"])

		writeJSON(t, w, http.StatusOK, map[string]any{"solution": "4"})
	})

	got, err := c.SolveTask(context.Background(), map[string]any{"task": "2+2"})
	require.NoError(t, err)
	assert.Equal(t, "4", got)
}

func TestSolveTask_MissingSolution(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"answer": "4"})
	})

	_, err := c.SolveTask(context.Background(), map[string]any{})
	assert.ErrorIs(t, err, relayclient.ErrMalformedResponse)
}

func TestSolveTask_StatusError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]any{
			"error": "API key not found. Please configure your OpenRouter API key first.",
		})
	})

	_, err := c.SolveTask(context.Background(), map[string]any{})

	var se *relayclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Status)
	assert.Equal(t, "API key not found. Please configure your OpenRouter API key first.", se.Message)
}

func TestDo_NonJSONErrorBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.GetJSON(context.Background(), "/anything")

	var se *relayclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Status)
	assert.Equal(t, "bad gateway", se.Message)
}

func TestDo_RateLimited(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "3")
		writeJSON(t, w, http.StatusTooManyRequests, map[string]any{"error": "rate limit exceeded"})
	})

	_, err := c.SolveTask(context.Background(), map[string]any{})

	var se *relayclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 3*time.Second, se.RetryAfter)
	assert.Contains(t, se.Error(), "retry after 3s")
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := relayclient.New(srv.URL, relayclient.Auth{}, nil)
	_, err := c.SolveTask(context.Background(), map[string]any{})

	require.Error(t, err)
	var se *relayclient.StatusError
	assert.False(t, errors.As(err, &se))
}

func TestPostJSON_MarshalError(t *testing.T) {
	c := relayclient.New("http://relay.local", relayclient.Auth{}, nil)

	_, err := c.PostJSON(context.Background(), "/x", make(chan int))
	assert.ErrorContains(t, err, "marshal payload")
}

func TestSaveAPIKey(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, relayclient.PathAPIKey, r.URL.Path)
		assert.Equal(t, "sk-or-123", readBody(t, r)["apiKey"])

		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	})

	require.NoError(t, c.SaveAPIKey(context.Background(), "sk-or-123"))
}

func TestDeleteAPIKey(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, relayclient.PathAPIKey, r.URL.Path)

		writeJSON(t, w, http.StatusOK, map[string]any{"success": true})
	})

	require.NoError(t, c.DeleteAPIKey(context.Background()))
}

func TestHasAPIKey(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api-key/user 1", r.URL.Path)

		writeJSON(t, w, http.StatusOK, map[string]any{"hasApiKey": true})
	})

	has, err := c.HasAPIKey(context.Background(), "user 1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestHasAPIKey_Malformed(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"hasApiKey": "yes"})
	})

	_, err := c.HasAPIKey(context.Background(), "u")
	assert.ErrorIs(t, err, relayclient.ErrMalformedResponse)
}

func TestHealth(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, relayclient.PathHealth, r.URL.Path)
		writeJSON(t, w, http.StatusOK, map[string]any{"status": "ok"})
	})

	assert.NoError(t, c.Health(context.Background()))
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 5*time.Second, relayclient.ParseRetryAfter("5"))
	assert.Zero(t, relayclient.ParseRetryAfter(""))
	assert.Zero(t, relayclient.ParseRetryAfter("soon"))
	assert.Zero(t, relayclient.ParseRetryAfter("Mon, 02 Jan 2006 15:04:05 GMT"))

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	assert.Greater(t, relayclient.ParseRetryAfter(future), 50*time.Minute)
}
