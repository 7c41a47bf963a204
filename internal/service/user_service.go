package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles user profile operations.
type UserService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
}

// UpdateProfileInput carries the editable profile fields. Empty fields are
// left unchanged.
type UpdateProfileInput struct {
	UserID         uint
	Password       string
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// ProfileStats aggregates the counts shown on a profile page.
type ProfileStats struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
}

// NewUserService creates a UserService backed by the given repositories.
func NewUserService(userRepo repository.UserRepository, messageRepo repository.MessageRepository, followRepo repository.FollowRepository, likeRepo repository.LikeRepository) *UserService {
	return &UserService{userRepo: userRepo, messageRepo: messageRepo, followRepo: followRepo, likeRepo: likeRepo}
}

func (s *UserService) ListUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, query, limit, offset)
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetUserWithMessages(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.userRepo.GetByIDWithMessages(ctx, id, limit)
}

// UpdateProfile applies a partial profile edit after re-checking the
// caller's password.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	// Profile edits require the current password.
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, models.NewUnauthorizedError("Incorrect password")
	}

	const maxBioLen = 500
	const maxLocationLen = 100

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}
	if in.ImageURL != "" {
		user.ImageURL = in.ImageURL
	}
	if in.HeaderImageURL != "" {
		user.HeaderImageURL = in.HeaderImageURL
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Location != "" {
		if len(in.Location) > maxLocationLen {
			return nil, models.NewValidationError("Location too long (max 100 characters)")
		}
		user.Location = in.Location
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user and all their content and edges.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, userID)
}

// ProfileStats returns the counters shown on a user's profile page.
// Each counter is a COUNT query; the message tally must not be capped by
// the profile page's preload limit.
func (s *UserService) ProfileStats(ctx context.Context, userID uint) (*ProfileStats, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	likes, err := s.likeRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileStats{
		Messages:  messages,
		Following: following,
		Followers: followers,
		Likes:     likes,
	}, nil
}
