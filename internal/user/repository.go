package user

import (
	"context"
	"errors"
	"strings"

	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/db"

	"gorm.io/gorm"
)

var ErrNotFound = apperr.NotFound("User not found")

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, fields map[string]any) (*User, error)
	Search(ctx context.Context, q string, limit int) ([]User, error)
	Count(ctx context.Context) (int64, error)
}

type repo struct{ store *db.Store }

func NewRepository(s *db.Store) Repository { return &repo{store: s} }

func (r *repo) Create(ctx context.Context, u *User) error {
	return r.store.Write(ctx).Create(u).Error
}

func (r *repo) first(q *gorm.DB, where string, arg any) (*User, error) {
	var u User
	if err := q.Where(where, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repo) FindByID(ctx context.Context, id string) (*User, error) {
	return r.first(r.store.Read(ctx), "id = ?", id)
}

// Uniqueness checks go to the primary so a just-registered name is seen.
func (r *repo) FindByUsername(ctx context.Context, username string) (*User, error) {
	return r.first(r.store.Write(ctx), "username = ?", username)
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.first(r.store.Write(ctx), "email = ?", email)
}

func (r *repo) Update(ctx context.Context, id string, fields map[string]any) (*User, error) {
	res := r.store.Write(ctx).Model(&User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.first(r.store.Write(ctx), "id = ?", id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *repo) Search(ctx context.Context, q string, limit int) ([]User, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
	var users []User
	err := r.store.Read(ctx).
		Where(`LOWER(username) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.Read(ctx).Model(&User{}).Count(&n).Error
	return n, err
}
