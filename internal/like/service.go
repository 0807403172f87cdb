package like

import (
	"context"

	"socialapi/internal/kafka"
	"socialapi/internal/monitoring"
	"socialapi/internal/post"
	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/db"
)

var (
	ErrAlreadyLiked = apperr.BadRequest("Post already liked")
	ErrNotLiked     = apperr.BadRequest("Post not liked yet")
)

type Service interface {
	Like(ctx context.Context, userID, postID string) (*Like, error)
	Unlike(ctx context.Context, userID, postID string) error
	List(ctx context.Context, postID string) ([]Like, error)
}

type service struct {
	repo   Repository
	posts  post.Repository
	events kafka.Publisher
}

func NewService(r Repository, posts post.Repository, events kafka.Publisher) Service {
	return &service{repo: r, posts: posts, events: events}
}

func (s *service) requirePost(ctx context.Context, postID string) error {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return post.ErrNotFound
	}
	return nil
}

func (s *service) Like(ctx context.Context, userID, postID string) (*Like, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	already, err := s.repo.IsLiked(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, ErrAlreadyLiked
	}
	l, err := s.repo.Like(ctx, userID, postID)
	if err != nil {
		if db.IsDuplicate(err) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	monitoring.Likes.WithLabelValues("like").Inc()
	s.events.Publish(ctx, kafka.NewEvent(kafka.PostLiked, userID, postID))
	return l, nil
}

func (s *service) Unlike(ctx context.Context, userID, postID string) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	removed, err := s.repo.Unlike(ctx, userID, postID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotLiked
	}
	monitoring.Likes.WithLabelValues("unlike").Inc()
	s.events.Publish(ctx, kafka.NewEvent(kafka.PostUnliked, userID, postID))
	return nil
}

func (s *service) List(ctx context.Context, postID string) ([]Like, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.repo.ListByPost(ctx, postID)
}
