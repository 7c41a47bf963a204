package repository

import (
	"context"
	"errors"
	"strings"

	"warbler/internal/models"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error)
	ListRecent(ctx context.Context, limit int) ([]models.Message, error)
	ListTimeline(ctx context.Context, userID uint, limit int) ([]models.Message, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	// The not-null column constraint does not reject empty strings, so the
	// required-text rule is enforced here at the persistence boundary.
	if strings.TrimSpace(message.Text) == "" {
		return models.NewIntegrityError("Message text is required")
	}
	if len(message.Text) > models.MaxMessageLength {
		return models.NewIntegrityError("Message text exceeds 140 characters")
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &message, nil
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *messageRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	var messages []models.Message
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// ListTimeline returns the most recent messages from users the given user
// follows, plus the user's own messages.
func (r *messageRepository) ListTimeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where(
			"user_id = ? OR user_id IN (?)",
			userID,
			r.db.Model(&models.Follow{}).Select("followed_id").Where("follower_id = ?", userID),
		).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}
