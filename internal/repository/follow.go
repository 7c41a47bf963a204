package repository

import (
	"context"

	"warbler/internal/database"
	"warbler/internal/middleware"
	"warbler/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followedID uint) error
	Delete(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error)
	Following(ctx context.Context, userID uint) ([]models.User, error)
	Followers(ctx context.Context, userID uint) ([]models.User, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, followerID, followedID uint) error {
	edge := models.Follow{FollowerID: followerID, FollowedID: followedID}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewUniquenessError("Already following this user", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the edge if present. Removing an absent edge is not an
// error.
func (r *followRepository) Delete(ctx context.Context, followerID, followedID uint) error {
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *followRepository) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return r.IsFollowing(ctx, otherID, userID)
}

func (r *followRepository) Following(ctx context.Context, userID uint) ([]models.User, error) {
	defer middleware.TrackQuery("select", "follows")()

	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.followed_id").
		Where("f.follower_id = ? AND users.deleted_at IS NULL", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	defer middleware.TrackQuery("select", "follows")()

	var users []models.User
	if err := r.db.WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.follower_id").
		Where("f.followed_id = ? AND users.deleted_at IS NULL", userID).
		Order("users.username ASC").
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("followed_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
