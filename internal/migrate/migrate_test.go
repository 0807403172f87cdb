package migrate

import (
	"context"
	"testing"

	"socialapi/internal/shared/db/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMigrateAllIsRepeatable(t *testing.T) {
	store := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, AutoMigrateAll(ctx, store))
	require.NoError(t, AutoMigrateAll(ctx, store))

	m := store.Base.Migrator()
	for _, table := range []string{"users", "posts", "follows", "likes"} {
		assert.True(t, m.HasTable(table), table)
	}
	assert.True(t, m.HasIndex("posts", "idx_posts_author_created"))
}
