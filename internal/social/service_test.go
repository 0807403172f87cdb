package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialapi/internal/kafka"
	"socialapi/internal/shared/db/dbtest"
	"socialapi/internal/shared/httpx"
	"socialapi/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   Service
	repo  Repository
	users user.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := dbtest.New(t, &user.User{}, &Follow{})
	users := user.NewRepository(store)
	repo := NewRepository(store)
	return &fixture{svc: NewService(repo, users, kafka.Nop{}), repo: repo, users: users}
}

func (f *fixture) user(t *testing.T, name string) *user.User {
	t.Helper()
	u := &user.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func TestSelfFollowAlwaysFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.user(t, "alice")

	_, err := f.svc.Follow(ctx, alice.ID, alice.ID)
	assert.Equal(t, ErrSelfFollow, err)

	ok, err := f.svc.IsFollowing(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFollowUnfollowRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	followee, err := f.svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", followee.Username)

	ok, err := f.svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// edges are directed
	ok, err = f.svc.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.Follow(ctx, alice.ID, bob.ID)
	assert.Equal(t, ErrAlreadyFollowing, err)

	_, err = f.svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	ok, err = f.svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.svc.Unfollow(ctx, alice.ID, bob.ID)
	assert.Equal(t, ErrNotFollowing, err)
}

func TestFollowUnknownUser(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.svc.Follow(context.Background(), alice.ID, "nonexistent-id")
	assert.Equal(t, user.ErrNotFound, err)
	_, err = f.svc.Unfollow(context.Background(), alice.ID, "nonexistent-id")
	assert.Equal(t, user.ErrNotFound, err)
}

func TestListingsAndCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	for _, edge := range [][2]*user.User{{alice, bob}, {carol, bob}, {bob, carol}} {
		_, err := f.svc.Follow(ctx, edge[0].ID, edge[1].ID)
		require.NoError(t, err)
	}

	u, followers, err := f.svc.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.ElementsMatch(t, []string{"alice", "carol"}, usernames(followers))

	_, following, err := f.svc.Following(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, usernames(following))

	_, following, err = f.svc.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, usernames(following))

	n, err := f.repo.CountFollowers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = f.repo.CountFollowing(ctx, carol.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	ids, err := f.repo.FolloweeIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, ids)

	_, _, err = f.svc.Followers(ctx, "nonexistent-id")
	assert.Equal(t, user.ErrNotFound, err)
}

func usernames(us []user.User) []string {
	out := make([]string, 0, len(us))
	for _, u := range us {
		out = append(out, u.Username)
	}
	return out
}

func TestHandlers(t *testing.T) {
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")
	h := NewHandler(f.svc)

	mux := http.NewServeMux()
	mux.Handle("POST /api/users/{id}/follow", httpx.Wrap(h.Follow))
	mux.Handle("DELETE /api/users/{id}/follow", httpx.Wrap(h.Unfollow))
	mux.Handle("GET /api/users/{id}/followers", httpx.Wrap(h.Followers))
	mux.Handle("GET /api/users/{id}/follow-status", httpx.Wrap(h.Status))

	do := func(method, path string, as *user.User) (int, map[string]any) {
		r := httptest.NewRequest(method, path, nil)
		if as != nil {
			r = r.WithContext(httpx.WithIdentity(r.Context(), httpx.Identity{ID: as.ID, Username: as.Username}))
		}
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, r)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		return rr.Code, body
	}

	code, body := do(http.MethodPost, "/api/users/"+bob.ID+"/follow", alice)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "You are now following bob", body["message"])
	assert.Equal(t, map[string]any{"followeeId": bob.ID, "followeeName": "bob"}, body["data"])

	code, body = do(http.MethodPost, "/api/users/"+bob.ID+"/follow", alice)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "You are already following this user", body["error"])

	code, body = do(http.MethodPost, "/api/users/"+alice.ID+"/follow", alice)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "You cannot follow yourself", body["error"])

	code, body = do(http.MethodGet, "/api/users/"+bob.ID+"/followers", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{"userId": bob.ID, "username": "bob", "count": float64(1)}, body["meta"])

	code, body = do(http.MethodGet, "/api/users/"+bob.ID+"/follow-status", alice)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["data"].(map[string]any)["isFollowing"])

	code, body = do(http.MethodDelete, "/api/users/"+bob.ID+"/follow", alice)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "You are no longer following bob", body["message"])

	code, body = do(http.MethodDelete, "/api/users/"+bob.ID+"/follow", alice)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "You are not following this user", body["error"])

	code, _ = do(http.MethodPost, "/api/users/nonexistent-id/follow", alice)
	assert.Equal(t, http.StatusNotFound, code)
}
