package social

import (
	"context"

	"socialapi/internal/kafka"
	"socialapi/internal/monitoring"
	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/db"
	"socialapi/internal/user"
)

var (
	ErrSelfFollow       = apperr.BadRequest("You cannot follow yourself")
	ErrAlreadyFollowing = apperr.Conflict("You are already following this user")
	ErrNotFollowing     = apperr.Conflict("You are not following this user")
)

type Service interface {
	Follow(ctx context.Context, followerID, followeeID string) (*user.User, error)
	Unfollow(ctx context.Context, followerID, followeeID string) (*user.User, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Status(ctx context.Context, followerID, followeeID string) (*user.User, bool, error)
	Followers(ctx context.Context, userID string) (*user.User, []user.User, error)
	Following(ctx context.Context, userID string) (*user.User, []user.User, error)
}

type service struct {
	repo   Repository
	users  user.Repository
	events kafka.Publisher
}

func NewService(r Repository, users user.Repository, events kafka.Publisher) Service {
	return &service{repo: r, users: users, events: events}
}

func (s *service) Follow(ctx context.Context, followerID, followeeID string) (*user.User, error) {
	followee, err := s.users.FindByID(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	if followerID == followeeID {
		return nil, ErrSelfFollow
	}
	exists, err := s.repo.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyFollowing
	}
	if err := s.repo.Follow(ctx, followerID, followeeID); err != nil {
		if db.IsDuplicate(err) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}
	monitoring.FollowEdges.WithLabelValues("follow").Inc()
	s.events.Publish(ctx, kafka.NewEvent(kafka.UserFollowed, followerID, followeeID))
	return followee, nil
}

func (s *service) Unfollow(ctx context.Context, followerID, followeeID string) (*user.User, error) {
	followee, err := s.users.FindByID(ctx, followeeID)
	if err != nil {
		return nil, err
	}
	deleted, err := s.repo.Unfollow(ctx, followerID, followeeID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, ErrNotFollowing
	}
	monitoring.FollowEdges.WithLabelValues("unfollow").Inc()
	s.events.Publish(ctx, kafka.NewEvent(kafka.UserUnfollowed, followerID, followeeID))
	return followee, nil
}

func (s *service) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == followeeID {
		return false, nil
	}
	return s.repo.IsFollowing(ctx, followerID, followeeID)
}

func (s *service) Status(ctx context.Context, followerID, followeeID string) (*user.User, bool, error) {
	followee, err := s.users.FindByID(ctx, followeeID)
	if err != nil {
		return nil, false, err
	}
	ok, err := s.IsFollowing(ctx, followerID, followeeID)
	return followee, ok, err
}

func (s *service) Followers(ctx context.Context, userID string) (*user.User, []user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.repo.Followers(ctx, userID)
	return u, list, err
}

func (s *service) Following(ctx context.Context, userID string) (*user.User, []user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	list, err := s.repo.Following(ctx, userID)
	return u, list, err
}
