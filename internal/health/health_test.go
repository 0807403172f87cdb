package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialapi/internal/shared/httpx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type count int64

func (c count) Count(context.Context) (int64, error) { return int64(c), nil }

func get(t *testing.T, h http.Handler) (int, map[string]any) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr.Code, body
}

func TestLive(t *testing.T) {
	code, body := get(t, httpx.Wrap(NewHandler(pinger{}, count(0), count(0), count(0), count(0)).Live))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "API is healthy", body["message"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestDatabase(t *testing.T) {
	h := NewHandler(pinger{}, count(3), count(5), count(2), count(7))
	code, body := get(t, httpx.Wrap(h.Database))
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{
		"database": "up",
		"totals":   map[string]any{"users": float64(3), "posts": float64(5), "follows": float64(2), "likes": float64(7)},
	}, body["data"])

	h = NewHandler(pinger{err: errors.New("dial tcp: connection refused")}, count(0), count(0), count(0), count(0))
	code, body = get(t, httpx.Wrap(h.Database))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "Database connection failed", body["error"])
}
