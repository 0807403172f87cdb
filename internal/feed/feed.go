package feed

import (
	"context"
	"net/http"

	"socialapi/internal/post"
	"socialapi/internal/shared/httpx"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// FolloweeLister is implemented by the follow graph store.
type FolloweeLister interface {
	FolloweeIDs(ctx context.Context, userID string) ([]string, error)
}

// PostLister is implemented by the post service.
type PostLister interface {
	ByAuthors(ctx context.Context, authorIDs []string, limit int, viewerID string) ([]post.View, error)
}

// Service assembles a personalized timeline on read: the user's own posts
// plus those of everyone they follow, newest first.
type Service struct {
	follows FolloweeLister
	posts   PostLister
}

func NewService(follows FolloweeLister, posts PostLister) *Service {
	return &Service{follows: follows, posts: posts}
}

func (s *Service) Timeline(ctx context.Context, userID string, limit int) ([]post.View, error) {
	ids, err := s.follows.FolloweeIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	authors := append(ids, userID)
	return s.posts.ByAuthors(ctx, authors, limit, userID)
}

type meta struct {
	UserID string `json:"userId"`
	Count  int    `json:"count"`
	Limit  int    `json:"limit"`
	Type   string `json:"type"`
}

type Handler struct{ svc *Service }

func NewHandler(s *Service) *Handler { return &Handler{svc: s} }

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	me, err := httpx.UserFromCtx(r)
	if err != nil {
		return err
	}
	limit, err := httpx.Limit(r, defaultLimit, maxLimit)
	if err != nil {
		return err
	}
	views, err := h.svc.Timeline(r.Context(), me.ID, limit)
	if err != nil {
		return err
	}
	httpx.OK(w, http.StatusOK, "", views,
		meta{UserID: me.ID, Count: len(views), Limit: limit, Type: "personalized_feed"})
	return nil
}
