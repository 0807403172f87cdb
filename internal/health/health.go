package health

import (
	"context"
	"net/http"
	"time"

	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/httpx"

	log "github.com/sirupsen/logrus"
)

var ErrDatabaseDown = apperr.Unavailable("Database connection failed")

type Pinger interface {
	Ping(ctx context.Context) error
}

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type Totals struct {
	Users   int64 `json:"users"`
	Posts   int64 `json:"posts"`
	Follows int64 `json:"follows"`
	Likes   int64 `json:"likes"`
}

type Handler struct {
	db                           Pinger
	users, posts, follows, likes Counter
}

func NewHandler(db Pinger, users, posts, follows, likes Counter) *Handler {
	return &Handler{db: db, users: users, posts: posts, follows: follows, likes: likes}
}

func (h *Handler) Live(w http.ResponseWriter, _ *http.Request) error {
	httpx.WriteJSON(w, map[string]any{
		"success":   true,
		"message":   "API is healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
	return nil
}

func (h *Handler) Database(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		log.WithError(err).Error("database health check failed")
		return ErrDatabaseDown
	}
	var t Totals
	for _, c := range []struct {
		dst *int64
		src Counter
	}{{&t.Users, h.users}, {&t.Posts, h.posts}, {&t.Follows, h.follows}, {&t.Likes, h.likes}} {
		n, err := c.src.Count(ctx)
		if err != nil {
			log.WithError(err).Error("database health check failed")
			return ErrDatabaseDown
		}
		*c.dst = n
	}
	httpx.OK(w, http.StatusOK, "", map[string]any{"database": "up", "totals": t}, nil)
	return nil
}
