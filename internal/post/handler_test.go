package post

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"socialapi/internal/idem"
	"socialapi/internal/shared/httpx"
	"socialapi/internal/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMux(t *testing.T, f *fixture) *http.ServeMux {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := NewHandler(f.svc, idem.New(rdb))
	mux := http.NewServeMux()
	mux.Handle("POST /api/posts", httpx.Wrap(h.Create))
	mux.Handle("GET /api/posts", httpx.Wrap(h.Public))
	mux.Handle("GET /api/posts/{id}", httpx.Wrap(h.Get))
	mux.Handle("DELETE /api/posts/{id}", httpx.Wrap(h.Delete))
	mux.Handle("GET /api/users/{id}/posts", httpx.Wrap(h.ByUser))
	return mux
}

func send(t *testing.T, mux http.Handler, method, path, body string, as *user.User, hdr map[string]string) (int, map[string]any) {
	t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range hdr {
		r.Header.Set(k, v)
	}
	if as != nil {
		r = r.WithContext(httpx.WithIdentity(r.Context(), httpx.Identity{ID: as.ID, Username: as.Username}))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, r)
	var m map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &m))
	return rr.Code, m
}

func TestCreateEndpoint(t *testing.T) {
	f := newFixture(t)
	mux := newMux(t, f)
	alice := f.user(t, "alice")

	code, body := send(t, mux, http.MethodPost, "/api/posts", `{"text":"  hi\u0007 there  "}`, alice, nil)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Post created successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "hi there", data["text"])
	assert.Equal(t, "alice", data["author"].(map[string]any)["username"])

	code, body = send(t, mux, http.MethodPost, "/api/posts", `{"text":"   "}`, alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation failed", body["error"])

	code, _ = send(t, mux, http.MethodPost, "/api/posts", `{"text":"`+strings.Repeat("x", 501)+`"}`, alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = send(t, mux, http.MethodPost, "/api/posts", `{"text":"ok","mediaUrl":"nope"}`, alice, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["details"], "Media URL must be a valid URL")

	code, _ = send(t, mux, http.MethodPost, "/api/posts", `{"text":"x"}`, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestCreateIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	mux := newMux(t, f)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	key := map[string]string{"Idempotency-Key": "k-1"}

	code, _ := send(t, mux, http.MethodPost, "/api/posts", `{"text":"once"}`, alice, key)
	require.Equal(t, http.StatusCreated, code)

	code, body := send(t, mux, http.MethodPost, "/api/posts", `{"text":"once"}`, alice, key)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Duplicate request", body["error"])

	// keys are scoped per user
	code, _ = send(t, mux, http.MethodPost, "/api/posts", `{"text":"once"}`, bob, key)
	assert.Equal(t, http.StatusCreated, code)

	got, err := f.svc.Public(context.Background(), 20, 0, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReadAndDeleteEndpoints(t *testing.T) {
	f := newFixture(t)
	mux := newMux(t, f)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	p := f.post(t, alice, "first", 1)
	f.post(t, alice, "second", 2)

	code, body := send(t, mux, http.MethodGet, "/api/posts?limit=1", "", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"count": float64(1), "limit": float64(1), "skip": float64(0), "type": "public_timeline"}, body["meta"])

	code, body = send(t, mux, http.MethodGet, "/api/posts?limit=101", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Limit cannot exceed 100", body["error"])

	code, body = send(t, mux, http.MethodGet, "/api/posts/"+p.ID, "", nil, nil)
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, "first", data["text"])
	assert.Equal(t, float64(0), data["likeCount"])
	assert.Equal(t, false, data["isLiked"])

	code, body = send(t, mux, http.MethodGet, "/api/users/"+alice.ID+"/posts", "", nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"userId": alice.ID, "username": "alice", "count": float64(2), "limit": float64(20)}, body["meta"])
	assert.Equal(t, alice.ID, body["data"].([]any)[0].(map[string]any)["authorId"])

	code, _ = send(t, mux, http.MethodGet, "/api/users/nonexistent-id/posts", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, body = send(t, mux, http.MethodDelete, "/api/posts/"+p.ID, "", bob, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You can only delete your own posts", body["error"])

	code, body = send(t, mux, http.MethodDelete, "/api/posts/"+p.ID, "", alice, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, p.ID, body["data"].(map[string]any)["id"])

	code, body = send(t, mux, http.MethodGet, "/api/posts/"+p.ID, "", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Post not found", body["error"])
}
