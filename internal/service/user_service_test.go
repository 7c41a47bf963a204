package service

import (
	"context"
	"strings"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func hashedUser(t *testing.T, id uint, password string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{ID: id, Username: "testuser", Email: "test@test.com", Password: string(hashed)}
}

func TestUserService_UpdateProfile(t *testing.T) {
	t.Parallel()

	t.Run("requires the correct password", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return hashedUser(t, id, "pass1234"), nil
		}
		repo.updateFn = func(context.Context, *models.User) error {
			t.Fatal("update should not be called with a wrong password")
			return nil
		}
		svc := NewUserService(repo, noopMessageRepo(), noopFollowRepo(), noopLikeRepo())

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Password: "wrongpassword",
			Bio:      "new bio",
		})
		assertAppErrorCode(t, err, models.CodeUnauthorized)
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			u := hashedUser(t, id, "pass1234")
			u.Bio = "old bio"
			u.Location = "Somewhere"
			return u, nil
		}
		var saved *models.User
		repo.updateFn = func(_ context.Context, u *models.User) error {
			saved = u
			return nil
		}
		svc := NewUserService(repo, noopMessageRepo(), noopFollowRepo(), noopLikeRepo())

		user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Password: "pass1234",
			Bio:      "new bio",
		})
		require.NoError(t, err)
		assert.Equal(t, "new bio", user.Bio)
		assert.Equal(t, "Somewhere", user.Location, "location should be unchanged when not provided")
		assert.Equal(t, "testuser", user.Username)
		require.NotNil(t, saved)
		assert.Equal(t, "new bio", saved.Bio)
	})

	t.Run("invalid fields rejected", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return hashedUser(t, id, "pass1234"), nil
		}
		svc := NewUserService(repo, noopMessageRepo(), noopFollowRepo(), noopLikeRepo())

		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Password: "pass1234",
			Bio:      strings.Repeat("x", 501),
		})
		assertAppErrorCode(t, err, models.CodeValidation)

		_, err = svc.UpdateProfile(context.Background(), UpdateProfileInput{
			UserID:   1,
			Password: "pass1234",
			Email:    "not-an-email",
		})
		assertAppErrorCode(t, err, models.CodeValidation)
	})
}

func TestUserService_DeleteAccount(t *testing.T) {
	t.Parallel()

	t.Run("deletes an existing user", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		var deleted uint
		repo.deleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}
		svc := NewUserService(repo, noopMessageRepo(), noopFollowRepo(), noopLikeRepo())

		require.NoError(t, svc.DeleteAccount(context.Background(), 7))
		assert.Equal(t, uint(7), deleted)
	})

	t.Run("missing user propagates not found", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return nil, models.NewNotFoundError("User", id)
		}
		svc := NewUserService(repo, noopMessageRepo(), noopFollowRepo(), noopLikeRepo())

		err := svc.DeleteAccount(context.Background(), 99)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestUserService_ProfileStats(t *testing.T) {
	t.Parallel()

	users := noopUserRepo()
	messages := noopMessageRepo()
	// Counts come from COUNT queries, so a prolific author's tally is not
	// capped by the profile page's preload limit.
	messages.countByUserFn = func(context.Context, uint) (int64, error) { return 250, nil }
	follows := noopFollowRepo()
	follows.countFollowingFn = func(context.Context, uint) (int64, error) { return 3, nil }
	follows.countFollowersFn = func(context.Context, uint) (int64, error) { return 4, nil }
	likes := noopLikeRepo()
	likes.countByUserFn = func(context.Context, uint) (int64, error) { return 5, nil }

	svc := NewUserService(users, messages, follows, likes)

	stats, err := svc.ProfileStats(context.Background(), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 250, stats.Messages)
	assert.EqualValues(t, 3, stats.Following)
	assert.EqualValues(t, 4, stats.Followers)
	assert.EqualValues(t, 5, stats.Likes)
}
