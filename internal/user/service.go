package user

import (
	"context"
	"errors"

	"socialapi/internal/kafka"
	"socialapi/internal/monitoring"
	"socialapi/internal/shared/apperr"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = apperr.Conflict("Username already exists")
	ErrEmailTaken         = apperr.Conflict("Email already exists")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid credentials")
	ErrNothingToUpdate    = apperr.BadRequest("No fields to update")
)

// PostCounter and FollowCounter are implemented by the post and social stores.
type PostCounter interface {
	CountByAuthor(ctx context.Context, userID string) (int64, error)
}

type FollowCounter interface {
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type Service interface {
	Register(ctx context.Context, in RegisterReq) (*User, error)
	Login(ctx context.Context, login, password string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Profile(ctx context.Context, id string) (*Profile, error)
	UpdateProfile(ctx context.Context, id string, in UpdateProfileReq) (*User, error)
	Search(ctx context.Context, q string, limit int) ([]User, error)
}

type service struct {
	repo    Repository
	posts   PostCounter
	follows FollowCounter
	events  kafka.Publisher
	cost    int
}

func NewService(r Repository, posts PostCounter, follows FollowCounter, events kafka.Publisher, bcryptCost int) Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &service{repo: r, posts: posts, follows: follows, events: events, cost: bcryptCost}
}

func (s *service) Register(ctx context.Context, in RegisterReq) (*User, error) {
	if _, err := s.repo.FindByUsername(ctx, in.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, err
	}
	u := &User{Username: in.Username, Email: in.Email, Password: string(hash), Name: in.Name}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	monitoring.RegisterSuccess.Inc()
	s.events.Publish(ctx, kafka.NewEvent(kafka.UserRegistered, u.ID, u.ID))
	return u, nil
}

// Login accepts either a username or an email as the login name.
func (s *service) Login(ctx context.Context, login, password string) (*User, error) {
	u, err := s.repo.FindByUsername(ctx, login)
	if errors.Is(err, ErrNotFound) {
		u, err = s.repo.FindByEmail(ctx, login)
	}
	if errors.Is(err, ErrNotFound) {
		monitoring.LoginFailure.WithLabelValues("unknown_user").Inc()
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		monitoring.LoginFailure.WithLabelValues("bad_password").Inc()
		return nil, ErrInvalidCredentials
	}
	monitoring.LoginSuccess.Inc()
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) Profile(ctx context.Context, id string) (*Profile, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &Profile{Public: ToPublic(u)}
	if p.Stats.Posts, err = s.posts.CountByAuthor(ctx, id); err != nil {
		return nil, err
	}
	if p.Stats.Followers, err = s.follows.CountFollowers(ctx, id); err != nil {
		return nil, err
	}
	if p.Stats.Following, err = s.follows.CountFollowing(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProfile(ctx context.Context, id string, in UpdateProfileReq) (*User, error) {
	fields := map[string]any{}
	set := func(col string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			fields[col] = nil
			return
		}
		fields[col] = *v
	}
	set("name", in.Name)
	set("bio", in.Bio)
	set("avatar", in.Avatar)
	if len(fields) == 0 {
		return nil, ErrNothingToUpdate
	}
	return s.repo.Update(ctx, id, fields)
}

func (s *service) Search(ctx context.Context, q string, limit int) ([]User, error) {
	return s.repo.Search(ctx, q, limit)
}
