package repository

import (
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowRepository_CreateAndQuery(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testCtx()

	u1 := createTestUser(t, db, "testuser")
	u2 := createTestUser(t, db, "testuser2")

	require.NoError(t, repo.Create(ctx, u1.ID, u2.ID))

	following, err := repo.IsFollowing(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The edge is directed.
	reverse, err := repo.IsFollowing(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.False(t, reverse)

	followedBy, err := repo.IsFollowedBy(ctx, u2.ID, u1.ID)
	require.NoError(t, err)
	assert.True(t, followedBy)
}

func TestFollowRepository_DuplicateEdge(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testCtx()

	u1 := createTestUser(t, db, "testuser")
	u2 := createTestUser(t, db, "testuser2")

	require.NoError(t, repo.Create(ctx, u1.ID, u2.ID))

	err := repo.Create(ctx, u1.ID, u2.ID)
	require.Error(t, err)

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeUniquenessViolation, appErr.Code)
}

func TestFollowRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testCtx()

	u1 := createTestUser(t, db, "testuser")
	u2 := createTestUser(t, db, "testuser2")

	require.NoError(t, repo.Create(ctx, u1.ID, u2.ID))
	require.NoError(t, repo.Delete(ctx, u1.ID, u2.ID))

	following, err := repo.IsFollowing(ctx, u1.ID, u2.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Deleting an absent edge is a no-op.
	require.NoError(t, repo.Delete(ctx, u1.ID, u2.ID))

	// Refollow after unfollow works because edges are hard-deleted.
	require.NoError(t, repo.Create(ctx, u1.ID, u2.ID))
}

func TestFollowRepository_FollowingAndFollowers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := testCtx()

	u1 := createTestUser(t, db, "testuser")
	u2 := createTestUser(t, db, "testuser2")
	u3 := createTestUser(t, db, "testuser3")

	require.NoError(t, repo.Create(ctx, u1.ID, u2.ID))
	require.NoError(t, repo.Create(ctx, u3.ID, u2.ID))

	following, err := repo.Following(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "@testuser2", following[0].Handle())

	followers, err := repo.Followers(ctx, u2.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	none, err := repo.Followers(ctx, u1.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	cf, err := repo.CountFollowers(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cf)

	cg, err := repo.CountFollowing(ctx, u1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cg)
}
