package post

import (
	"context"
	"errors"

	"socialapi/internal/shared/apperr"
	"socialapi/internal/shared/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNotFound = apperr.NotFound("Post not found")

type Repository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	ListPublic(ctx context.Context, limit, skip int) ([]Post, error)
	ListByAuthor(ctx context.Context, authorID string, limit int) ([]Post, error)
	ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]Post, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type repo struct{ store *db.Store }

func NewRepository(s *db.Store) Repository { return &repo{store: s} }

func newestFirst(q *gorm.DB) *gorm.DB {
	return q.Order("posts.created_at DESC").Order("posts.id DESC")
}

func (r *repo) Create(ctx context.Context, p *Post) error {
	return r.store.Write(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *repo) FindByID(ctx context.Context, id string) (*Post, error) {
	var p Post
	if err := r.store.Write(ctx).Preload("Author").Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repo) Exists(ctx context.Context, id string) (bool, error) {
	var n int64
	err := r.store.Write(ctx).Model(&Post{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *repo) Delete(ctx context.Context, id string) error {
	res := r.store.Write(ctx).Where("id = ?", id).Delete(&Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) ListPublic(ctx context.Context, limit, skip int) ([]Post, error) {
	posts := make([]Post, 0, limit)
	err := newestFirst(r.store.Read(ctx).Preload("Author")).
		Limit(limit).Offset(skip).
		Find(&posts).Error
	return posts, err
}

func (r *repo) ListByAuthor(ctx context.Context, authorID string, limit int) ([]Post, error) {
	posts := make([]Post, 0, limit)
	err := newestFirst(r.store.Read(ctx)).
		Where("author_id = ?", authorID).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListByAuthors selects the newest posts written by any of authorIDs.
func (r *repo) ListByAuthors(ctx context.Context, authorIDs []string, limit int) ([]Post, error) {
	posts := make([]Post, 0, limit)
	if len(authorIDs) == 0 {
		return posts, nil
	}
	err := newestFirst(r.store.Read(ctx).Preload("Author")).
		Where("author_id IN ?", authorIDs).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *repo) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	var n int64
	err := r.store.Read(ctx).Model(&Post{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.Read(ctx).Model(&Post{}).Count(&n).Error
	return n, err
}
