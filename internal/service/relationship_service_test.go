package service

import (
	"context"
	"testing"

	"warbler/internal/featureflags"
	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelationshipService(follows *followRepoStub, likes *likeRepoStub, users *userRepoStub, messages *messageRepoStub, flags string) *RelationshipService {
	return NewRelationshipService(follows, likes, users, messages, featureflags.NewManager(flags))
}

func TestRelationshipService_Follow(t *testing.T) {
	t.Parallel()

	t.Run("creates the edge", func(t *testing.T) {
		t.Parallel()
		follows := noopFollowRepo()
		var gotFollower, gotFollowed uint
		follows.createFn = func(_ context.Context, followerID, followedID uint) error {
			gotFollower, gotFollowed = followerID, followedID
			return nil
		}
		svc := newRelationshipService(follows, noopLikeRepo(), noopUserRepo(), noopMessageRepo(), "")

		require.NoError(t, svc.Follow(context.Background(), 1, 2))
		assert.Equal(t, uint(1), gotFollower)
		assert.Equal(t, uint(2), gotFollowed)
	})

	t.Run("missing target propagates not found", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := newRelationshipService(noopFollowRepo(), noopLikeRepo(), users, noopMessageRepo(), "")

		err := svc.Follow(context.Background(), 1, 99)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("duplicate edge is idempotent by default", func(t *testing.T) {
		t.Parallel()
		follows := noopFollowRepo()
		follows.createFn = func(context.Context, uint, uint) error {
			return models.NewUniquenessError("Already following this user", nil)
		}
		svc := newRelationshipService(follows, noopLikeRepo(), noopUserRepo(), noopMessageRepo(), "")

		assert.NoError(t, svc.Follow(context.Background(), 1, 2))
	})

	t.Run("duplicate edge conflicts under strict_edges", func(t *testing.T) {
		t.Parallel()
		follows := noopFollowRepo()
		follows.createFn = func(context.Context, uint, uint) error {
			return models.NewUniquenessError("Already following this user", nil)
		}
		svc := newRelationshipService(follows, noopLikeRepo(), noopUserRepo(), noopMessageRepo(), "strict_edges=on")

		err := svc.Follow(context.Background(), 1, 2)
		assertAppErrorCode(t, err, models.CodeUniquenessViolation)
	})

	t.Run("self follow permitted by default", func(t *testing.T) {
		t.Parallel()
		svc := newRelationshipService(noopFollowRepo(), noopLikeRepo(), noopUserRepo(), noopMessageRepo(), "")
		assert.NoError(t, svc.Follow(context.Background(), 3, 3))
	})

	t.Run("self follow rejected under reject_self_edges", func(t *testing.T) {
		t.Parallel()
		svc := newRelationshipService(noopFollowRepo(), noopLikeRepo(), noopUserRepo(), noopMessageRepo(), "reject_self_edges=on")

		err := svc.Follow(context.Background(), 3, 3)
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestRelationshipService_Unfollow(t *testing.T) {
	t.Parallel()

	follows := noopFollowRepo()
	var deleted bool
	follows.deleteFn = func(context.Context, uint, uint) error {
		deleted = true
		return nil
	}
	svc := newRelationshipService(follows, noopLikeRepo(), noopUserRepo(), noopMessageRepo(), "")

	require.NoError(t, svc.Unfollow(context.Background(), 1, 2))
	assert.True(t, deleted)
}

func TestRelationshipService_Like(t *testing.T) {
	t.Parallel()

	ownMessage := func(ctx context.Context, id uint) (*models.Message, error) {
		return &models.Message{ID: id, UserID: 1, Text: "mine"}, nil
	}
	otherMessage := func(ctx context.Context, id uint) (*models.Message, error) {
		return &models.Message{ID: id, UserID: 2, Text: "theirs"}, nil
	}

	t.Run("creates the edge", func(t *testing.T) {
		t.Parallel()
		likes := noopLikeRepo()
		var created bool
		likes.createFn = func(context.Context, uint, uint) error {
			created = true
			return nil
		}
		messages := noopMessageRepo()
		messages.getByIDFn = otherMessage
		svc := newRelationshipService(noopFollowRepo(), likes, noopUserRepo(), messages, "")

		require.NoError(t, svc.Like(context.Background(), 1, 10))
		assert.True(t, created)
	})

	t.Run("missing message propagates not found", func(t *testing.T) {
		t.Parallel()
		messages := noopMessageRepo()
		messages.getByIDFn = func(_ context.Context, id uint) (*models.Message, error) {
			return nil, models.NewNotFoundError("Message", id)
		}
		svc := newRelationshipService(noopFollowRepo(), noopLikeRepo(), noopUserRepo(), messages, "")

		err := svc.Like(context.Background(), 1, 99)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("duplicate like is idempotent by default", func(t *testing.T) {
		t.Parallel()
		likes := noopLikeRepo()
		likes.createFn = func(context.Context, uint, uint) error {
			return models.NewUniquenessError("Message already liked", nil)
		}
		messages := noopMessageRepo()
		messages.getByIDFn = otherMessage
		svc := newRelationshipService(noopFollowRepo(), likes, noopUserRepo(), messages, "")

		assert.NoError(t, svc.Like(context.Background(), 1, 10))
	})

	t.Run("liking own message permitted by default", func(t *testing.T) {
		t.Parallel()
		messages := noopMessageRepo()
		messages.getByIDFn = ownMessage
		svc := newRelationshipService(noopFollowRepo(), noopLikeRepo(), noopUserRepo(), messages, "")

		assert.NoError(t, svc.Like(context.Background(), 1, 10))
	})

	t.Run("liking own message rejected under reject_self_edges", func(t *testing.T) {
		t.Parallel()
		messages := noopMessageRepo()
		messages.getByIDFn = ownMessage
		svc := newRelationshipService(noopFollowRepo(), noopLikeRepo(), noopUserRepo(), messages, "reject_self_edges=on")

		err := svc.Like(context.Background(), 1, 10)
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestRelationshipService_Unlike(t *testing.T) {
	t.Parallel()

	t.Run("removes the edge", func(t *testing.T) {
		t.Parallel()
		likes := noopLikeRepo()
		var deleted bool
		likes.deleteFn = func(context.Context, uint, uint) error {
			deleted = true
			return nil
		}
		svc := newRelationshipService(noopFollowRepo(), likes, noopUserRepo(), noopMessageRepo(), "")

		require.NoError(t, svc.Unlike(context.Background(), 1, 10))
		assert.True(t, deleted)
	})

	t.Run("missing message propagates not found", func(t *testing.T) {
		t.Parallel()
		messages := noopMessageRepo()
		messages.getByIDFn = func(_ context.Context, id uint) (*models.Message, error) {
			return nil, models.NewNotFoundError("Message", id)
		}
		svc := newRelationshipService(noopFollowRepo(), noopLikeRepo(), noopUserRepo(), messages, "")

		err := svc.Unlike(context.Background(), 1, 99)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestRelationshipService_Listings(t *testing.T) {
	t.Parallel()

	t.Run("following requires the user to exist", func(t *testing.T) {
		t.Parallel()
		users := noopUserRepo()
		users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := newRelationshipService(noopFollowRepo(), noopLikeRepo(), users, noopMessageRepo(), "")

		_, err := svc.Following(context.Background(), 99)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})

	t.Run("liked messages come from the like repo", func(t *testing.T) {
		t.Parallel()
		likes := noopLikeRepo()
		likes.messagesLikedByFn = func(context.Context, uint) ([]models.Message, error) {
			return []models.Message{{ID: 10, Text: "liked"}}, nil
		}
		svc := newRelationshipService(noopFollowRepo(), likes, noopUserRepo(), noopMessageRepo(), "")

		msgs, err := svc.LikedMessages(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "liked", msgs[0].Text)
	})
}
