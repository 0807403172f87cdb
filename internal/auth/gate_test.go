package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"socialapi/internal/shared/httpx"
	"socialapi/internal/shared/jwt"
	"socialapi/internal/user"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[string]*user.User

func (f fakeUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	if id == "broken" {
		return nil, &pgconn.PgError{Code: "08006"}
	}
	u, ok := f[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

var echo = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.OptionalUser(r)
	httpx.WriteJSON(w, map[string]any{"authed": ok, "username": id.Username}, http.StatusOK)
})

func setup() (*Gate, *jwt.Codec) {
	tokens := jwt.NewCodec("gate-secret", time.Hour)
	users := fakeUsers{"u1": {ID: "u1", Username: "alice", Email: "alice@example.com"}}
	return NewGate(tokens, users), tokens
}

func call(h http.Handler, token string) (int, map[string]any) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	var body map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &body)
	return rr.Code, body
}

func TestRequired(t *testing.T) {
	g, tokens := setup()
	h := g.Required(echo)

	good, err := tokens.Make(jwt.Claims{UserID: "u1"})
	require.NoError(t, err)
	code, body := call(h, good)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "alice", body["username"])

	code, body = call(h, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Access token required", body["error"])

	code, body = call(h, "garbage")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid token", body["error"])

	gone, _ := tokens.Make(jwt.Claims{UserID: "deleted"})
	code, body = call(h, gone)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "User not found", body["error"])

	broken, _ := tokens.Make(jwt.Claims{UserID: "broken"})
	code, _ = call(h, broken)
	assert.Equal(t, http.StatusServiceUnavailable, code)
}

func TestRequiredExpired(t *testing.T) {
	g, _ := setup()
	expired, err := jwt.NewCodec("gate-secret", -time.Minute).Make(jwt.Claims{UserID: "u1"})
	require.NoError(t, err)

	code, body := call(g.Required(echo), expired)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token has expired", body["error"])
}

func TestOptional(t *testing.T) {
	g, tokens := setup()
	h := g.Optional(echo)

	code, body := call(h, "")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["authed"])

	code, body = call(h, "garbage")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["authed"])

	good, _ := tokens.Make(jwt.Claims{UserID: "u1"})
	_, body = call(h, good)
	assert.Equal(t, true, body["authed"])
}

func TestErrUserGoneIsUnauthorized(t *testing.T) {
	code, _, _ := httpx.Translate(ErrUserGone)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, errors.Is(ErrUserGone, user.ErrNotFound))
}
