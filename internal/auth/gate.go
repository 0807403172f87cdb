package auth

import (
	"context"
	"errors"
	"net/http"

	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/httpx"
	"socialapi/internal/shared/jwt"
	"socialapi/internal/user"
)

var ErrUserGone = apperr.Unauthorized("User not found")

type UserFinder interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

// Gate resolves bearer tokens to users. The user row is loaded on every
// request, so a deleted account loses access immediately.
type Gate struct {
	tokens *jwt.Codec
	users  UserFinder
}

func NewGate(tokens *jwt.Codec, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

func (g *Gate) resolve(r *http.Request) (httpx.Identity, error) {
	tok := httpx.BearerToken(r)
	if tok == "" {
		return httpx.Identity{}, httpx.ErrUnauthorized
	}
	claims, err := g.tokens.Parse(tok)
	if err != nil {
		return httpx.Identity{}, err
	}
	u, err := g.users.FindByID(r.Context(), claims.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return httpx.Identity{}, ErrUserGone
	}
	if err != nil {
		return httpx.Identity{}, err
	}
	return httpx.Identity{ID: u.ID, Username: u.Username, Email: u.Email}, nil
}

// Required rejects the request with 401 unless a valid token names a live user.
func (g *Gate) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := g.resolve(r)
		if err != nil {
			code, msg, _ := httpx.Translate(err)
			if code < http.StatusInternalServerError {
				code = http.StatusUnauthorized
			}
			httpx.WriteError(w, code, msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(httpx.WithIdentity(r.Context(), id)))
	})
}

// Optional attaches the identity when it can and otherwise proceeds anonymously.
func (g *Gate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, err := g.resolve(r); err == nil {
			r = r.WithContext(httpx.WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}
