package repository

import (
	"context"

	"warbler/internal/database"
	"warbler/internal/middleware"
	"warbler/internal/models"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for like edges.
type LikeRepository interface {
	Create(ctx context.Context, userID, messageID uint) error
	Delete(ctx context.Context, userID, messageID uint) error
	Exists(ctx context.Context, userID, messageID uint) (bool, error)
	MessagesLikedBy(ctx context.Context, userID uint) ([]models.Message, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountByMessage(ctx context.Context, messageID uint) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, userID, messageID uint) error {
	edge := models.Like{UserID: userID, MessageID: messageID}
	if err := r.db.WithContext(ctx).Create(&edge).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewUniquenessError("Message already liked", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the edge if present. Removing an absent edge is not an
// error.
func (r *likeRepository) Delete(ctx context.Context, userID, messageID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *likeRepository) MessagesLikedBy(ctx context.Context, userID uint) ([]models.Message, error) {
	defer middleware.TrackQuery("select", "likes")()

	var messages []models.Message
	if err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN likes l ON messages.id = l.message_id").
		Where("l.user_id = ?", userID).
		Order("messages.created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *likeRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *likeRepository) CountByMessage(ctx context.Context, messageID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("message_id = ?", messageID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
