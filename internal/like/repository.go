package like

import (
	"context"

	"socialapi/internal/shared/db"

	"gorm.io/gorm/clause"
)

type Repository interface {
	Like(ctx context.Context, userID, postID string) (*Like, error)
	Unlike(ctx context.Context, userID, postID string) (bool, error)
	IsLiked(ctx context.Context, userID, postID string) (bool, error)
	ListByPost(ctx context.Context, postID string) ([]Like, error)
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
	LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	Count(ctx context.Context) (int64, error)
}

type repo struct{ store *db.Store }

func NewRepository(s *db.Store) Repository { return &repo{store: s} }

func (r *repo) Like(ctx context.Context, userID, postID string) (*Like, error) {
	l := &Like{UserID: userID, PostID: postID}
	if err := r.store.Write(ctx).Omit(clause.Associations).Create(l).Error; err != nil {
		return nil, err
	}
	return l, nil
}

func (r *repo) Unlike(ctx context.Context, userID, postID string) (bool, error) {
	res := r.store.Write(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&Like{})
	return res.RowsAffected > 0, res.Error
}

func (r *repo) IsLiked(ctx context.Context, userID, postID string) (bool, error) {
	var n int64
	err := r.store.Write(ctx).Model(&Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&n).Error
	return n > 0, err
}

func (r *repo) ListByPost(ctx context.Context, postID string) ([]Like, error) {
	likes := []Like{}
	err := r.store.Read(ctx).Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&likes).Error
	return likes, err
}

// CountByPosts returns the like count of every post in postIDs that has any.
func (r *repo) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		PostID string
		N      int64
	}
	err := r.store.Read(ctx).Model(&Like{}).
		Select("post_id, COUNT(*) AS n").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = row.N
	}
	return out, nil
}

func (r *repo) LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(postIDs))
	if userID == "" || len(postIDs) == 0 {
		return out, nil
	}
	var ids []string
	err := r.store.Read(ctx).Model(&Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.Read(ctx).Model(&Like{}).Count(&n).Error
	return n, err
}
