package social

import (
	"context"

	"socialapi/internal/shared/db"
	"socialapi/internal/user"

	"gorm.io/gorm/clause"
)

type Repository interface {
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
	Followers(ctx context.Context, userID string) ([]user.User, error)
	Following(ctx context.Context, userID string) ([]user.User, error)
	FolloweeIDs(ctx context.Context, userID string) ([]string, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type repo struct{ store *db.Store }

func NewRepository(s *db.Store) Repository { return &repo{store: s} }

func (r *repo) Follow(ctx context.Context, followerID, followeeID string) error {
	return r.store.Write(ctx).Omit(clause.Associations).
		Create(&Follow{FollowerID: followerID, FolloweeID: followeeID}).Error
}

func (r *repo) Unfollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	res := r.store.Write(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *repo) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var n int64
	err := r.store.Write(ctx).Model(&Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&n).Error
	return n > 0, err
}

// listBy returns the users on the far side of userID's edges, oldest edge first.
func (r *repo) listBy(ctx context.Context, joinCol, whereCol, userID string) ([]user.User, error) {
	users := make([]user.User, 0)
	err := r.store.Read(ctx).
		Select("users.*").
		Joins("JOIN follows ON follows."+joinCol+" = users.id").
		Where("follows."+whereCol+" = ?", userID).
		Order("follows.created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repo) Followers(ctx context.Context, userID string) ([]user.User, error) {
	return r.listBy(ctx, "follower_id", "followee_id", userID)
}

func (r *repo) Following(ctx context.Context, userID string) ([]user.User, error) {
	return r.listBy(ctx, "followee_id", "follower_id", userID)
}

func (r *repo) FolloweeIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	// primary: a feed read right after unfollow must not see a lagging replica.
	err := r.store.Write(ctx).Model(&Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

func (r *repo) count(ctx context.Context, col, userID string) (int64, error) {
	var n int64
	err := r.store.Read(ctx).Model(&Follow{}).Where(col+" = ?", userID).Count(&n).Error
	return n, err
}

func (r *repo) CountFollowers(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "followee_id", userID)
}

func (r *repo) CountFollowing(ctx context.Context, userID string) (int64, error) {
	return r.count(ctx, "follower_id", userID)
}

func (r *repo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.store.Read(ctx).Model(&Follow{}).Count(&n).Error
	return n, err
}
