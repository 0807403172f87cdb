package migrate

import (
	"context"

	"socialapi/internal/like"
	"socialapi/internal/post"
	"socialapi/internal/shared/db"
	"socialapi/internal/social"
	"socialapi/internal/user"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{&user.User{}, &post.Post{}, &social.Follow{}, &like.Like{}}
}

func AutoMigrateAll(ctx context.Context, store *db.Store) error {
	return store.Write(ctx).AutoMigrate(Models()...)
}
