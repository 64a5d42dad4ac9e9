package services

import (
	"context"
	"strings"
	"testing"

	"github.com/anonto42/circle/backend/internal/apperrors"
	"github.com/anonto42/circle/backend/internal/models"
	"github.com/anonto42/circle/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphService_Follow(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)
	graph := NewGraphService(store, quietLogger())
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	t.Run("Self follow is rejected", func(t *testing.T) {
		_, err := graph.Follow(ctx, alice.ID, alice.ID)
		assertKind(t, err, apperrors.KindInvalidInput)
	})

	t.Run("Unknown user", func(t *testing.T) {
		_, err := graph.Follow(ctx, alice.ID, 9999)
		assertKind(t, err, apperrors.KindNotFound)
	})

	t.Run("Following twice stores one edge", func(t *testing.T) {
		created, err := graph.Follow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = graph.Follow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, created)

		var count int64
		db.Model(&models.Follow{}).Count(&count)
		assert.Equal(t, int64(1), count)

		var notifs []models.Notification
		require.NoError(t, db.Where("recipient_id = ?", bob.ID).Find(&notifs).Error)
		require.Len(t, notifs, 1)
		assert.Equal(t, models.NotificationFollow, notifs[0].Type)
		assert.Nil(t, notifs[0].PostID)
	})

	t.Run("Profile counts", func(t *testing.T) {
		profile, err := graph.GetProfile(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), profile.FollowerCount)
		assert.Zero(t, profile.FollowingCount)
		assert.True(t, profile.IsFollowing)

		anon, err := graph.GetProfile(ctx, 0, bob.ID)
		require.NoError(t, err)
		assert.False(t, anon.IsFollowing)

		self, err := graph.GetProfile(ctx, alice.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), self.FollowingCount)
		assert.False(t, self.IsFollowing)
	})

	t.Run("Lists", func(t *testing.T) {
		followers, err := graph.ListFollowers(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, followers, 1)
		assert.Equal(t, "alice", followers[0].Username)

		following, err := graph.ListFollowing(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, following, 1)
		assert.Equal(t, "bob", following[0].Username)

		_, err = graph.ListFollowers(ctx, 9999)
		assertKind(t, err, apperrors.KindNotFound)
	})

	t.Run("Unfollow is idempotent", func(t *testing.T) {
		removed, err := graph.Unfollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = graph.Unfollow(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, removed)

		profile, err := graph.GetProfile(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, profile.IsFollowing)
		assert.Zero(t, profile.FollowerCount)
	})
}

func TestGraphService_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)
	graph := NewGraphService(store, quietLogger())
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	bio := "hi there"
	profile, err := graph.UpdateProfile(ctx, alice.ID, alice.ID, models.UpdateProfileRequest{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, profile.User.Bio)
	assert.Equal(t, bio, *profile.User.Bio)
	assert.Nil(t, profile.User.Image)

	image := "https://cdn.example.com/a.png"
	profile, err = graph.UpdateProfile(ctx, alice.ID, alice.ID, models.UpdateProfileRequest{Image: &image})
	require.NoError(t, err)
	assert.Equal(t, bio, *profile.User.Bio)
	assert.Equal(t, image, *profile.User.Image)

	cleared := ""
	profile, err = graph.UpdateProfile(ctx, alice.ID, alice.ID, models.UpdateProfileRequest{Image: &cleared})
	require.NoError(t, err)
	assert.Nil(t, profile.User.Image)
	assert.Equal(t, bio, *profile.User.Bio)

	_, err = graph.UpdateProfile(ctx, bob.ID, alice.ID, models.UpdateProfileRequest{Bio: &bio})
	assertKind(t, err, apperrors.KindForbidden)

	long := strings.Repeat("é", 501)
	_, err = graph.UpdateProfile(ctx, alice.ID, alice.ID, models.UpdateProfileRequest{Bio: &long})
	assertKind(t, err, apperrors.KindInvalidInput)
}

func TestGraphService_SearchAndUserPosts(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)
	graph := NewGraphService(store, quietLogger())
	alice := testutil.CreateUser(t, db, "alice")
	testutil.CreateUser(t, db, "Alicia")
	testutil.CreateUser(t, db, "bob")
	testutil.CreateUser(t, db, "under_score")

	users, err := graph.SearchUsers(ctx, "ALI")
	require.NoError(t, err)
	require.Len(t, users, 2)

	users, err = graph.SearchUsers(ctx, "_")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "under_score", users[0].Username)

	_, err = graph.SearchUsers(ctx, "  ")
	assertKind(t, err, apperrors.KindInvalidInput)

	testutil.CreatePost(t, db, alice.ID, "mine")
	posts, err := graph.ListUserPosts(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "mine", posts[0].Content)

	_, err = graph.ListUserPosts(ctx, 9999, 0)
	assertKind(t, err, apperrors.KindNotFound)
}
