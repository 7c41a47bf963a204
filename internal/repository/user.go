// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"time"

	"warbler/internal/cache"
	"warbler/internal/database"
	"warbler/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDWithMessages(ctx context.Context, id uint, limit int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query string, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// cachedUser is the Redis representation of a user row. models.User hides
// Password from JSON, so marshaling the model directly would strip the hash
// and a cache hit would hand back a user that fails every password check.
// This record round-trips every column.
type cachedUser struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"password_hash"`
	ImageURL       string    `json:"image_url"`
	HeaderImageURL string    `json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newCachedUser(u *models.User) cachedUser {
	return cachedUser{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHash:   u.Password,
		ImageURL:       u.ImageURL,
		HeaderImageURL: u.HeaderImageURL,
		Bio:            u.Bio,
		Location:       u.Location,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (c cachedUser) toModel() *models.User {
	return &models.User{
		ID:             c.ID,
		Username:       c.Username,
		Email:          c.Email,
		Password:       c.PasswordHash,
		ImageURL:       c.ImageURL,
		HeaderImageURL: c.HeaderImageURL,
		Bio:            c.Bio,
		Location:       c.Location,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var rec cachedUser
	key := cache.UserKey(id)

	err := cache.Aside(ctx, key, &rec, cache.UserTTL, func() error {
		var user models.User
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		rec = newCachedUser(&user)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

func (r *userRepository) GetByIDWithMessages(ctx context.Context, id uint, limit int) (*models.User, error) {
	var user models.User
	if limit <= 0 {
		limit = 100
	}
	if limit > 100 {
		limit = 100
	}

	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(limit)
		}).
		First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewUniquenessError("Username or email already taken", err)
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewUniquenessError("Username or email already taken", err)
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Delete removes a user and everything hanging off their account: their
// messages, their likes, likes other users placed on their messages, and
// follow edges in both directions. The whole cascade runs in one
// transaction so a failure leaves no dangling edges.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"message_id IN (?)",
			tx.Model(&models.Message{}).Select("id").Where("user_id = ?", id),
		).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, id)
	return nil
}

func (r *userRepository) List(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	var users []models.User
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	q := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("username ASC")
	if query != "" {
		q = q.Where("username LIKE ?", "%"+query+"%")
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
