package post

import (
	"context"

	"socialapi/internal/kafka"
	"socialapi/internal/monitoring"
	"socialapi/internal/shared/apperr"
	"socialapi/internal/user"
)

var ErrNotOwner = apperr.Forbidden("You can only delete your own posts")

// LikeStats is implemented by the like store. Both maps are keyed by post ID
// and may omit posts with no likes.
type LikeStats interface {
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
	LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

type Service interface {
	Create(ctx context.Context, authorID string, in CreateReq) (*View, error)
	Get(ctx context.Context, id, viewerID string) (*View, error)
	Public(ctx context.Context, limit, skip int, viewerID string) ([]View, error)
	ByUser(ctx context.Context, userID string, limit int, viewerID string) (*user.User, []View, error)
	ByAuthors(ctx context.Context, authorIDs []string, limit int, viewerID string) ([]View, error)
	Delete(ctx context.Context, id, requesterID string) error
}

type service struct {
	repo   Repository
	users  user.Repository
	likes  LikeStats
	events kafka.Publisher
}

func NewService(r Repository, users user.Repository, likes LikeStats, events kafka.Publisher) Service {
	return &service{repo: r, users: users, likes: likes, events: events}
}

func (s *service) Create(ctx context.Context, authorID string, in CreateReq) (*View, error) {
	p := &Post{Text: in.Text, AuthorID: authorID}
	if in.MediaURL != "" {
		p.MediaURL = &in.MediaURL
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	created, err := s.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	monitoring.PostsCreated.Inc()
	s.events.Publish(ctx, kafka.NewEvent(kafka.PostCreated, authorID, p.ID))
	v := toView(created)
	return &v, nil
}

func (s *service) Get(ctx context.Context, id, viewerID string) (*View, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, []Post{*p}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *service) Public(ctx context.Context, limit, skip int, viewerID string) ([]View, error) {
	posts, err := s.repo.ListPublic(ctx, limit, skip)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

func (s *service) ByUser(ctx context.Context, userID string, limit int, viewerID string) (*user.User, []View, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.repo.ListByAuthor(ctx, userID, limit)
	if err != nil {
		return nil, nil, err
	}
	views, err := s.enrich(ctx, posts, viewerID)
	return u, views, err
}

func (s *service) ByAuthors(ctx context.Context, authorIDs []string, limit int, viewerID string) ([]View, error) {
	posts, err := s.repo.ListByAuthors(ctx, authorIDs, limit)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, posts, viewerID)
}

func (s *service) Delete(ctx context.Context, id, requesterID string) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.AuthorID != requesterID {
		return ErrNotOwner
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.events.Publish(ctx, kafka.NewEvent(kafka.PostDeleted, requesterID, id))
	return nil
}

// enrich attaches like counts and, for a signed-in viewer, isLiked.
func (s *service) enrich(ctx context.Context, posts []Post, viewerID string) ([]View, error) {
	views := make([]View, 0, len(posts))
	if len(posts) == 0 {
		return views, nil
	}
	ids := make([]string, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	counts := map[string]int64{}
	liked := map[string]bool{}
	if s.likes != nil {
		var err error
		if counts, err = s.likes.CountByPosts(ctx, ids); err != nil {
			return nil, err
		}
		if viewerID != "" {
			if liked, err = s.likes.LikedBy(ctx, viewerID, ids); err != nil {
				return nil, err
			}
		}
	}
	for i := range posts {
		v := toView(&posts[i])
		v.LikeCount = counts[v.ID]
		v.IsLiked = liked[v.ID]
		views = append(views, v)
	}
	return views, nil
}
