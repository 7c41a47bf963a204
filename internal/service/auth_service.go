// Package service contains the application's business logic.
package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles account creation and credential checks.
type AuthService struct {
	userRepo repository.UserRepository
}

// SignupInput carries the fields needed to register a new account.
type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// NewAuthService creates an AuthService backed by the given repository.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Signup validates the input, hashes the password and stores the new user.
// A taken username or email surfaces as a uniqueness violation.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hashed),
		ImageURL: imageURL,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks a username/password pair. A wrong password or an
// unknown username returns (nil, nil): failed authentication is a negative
// result, not an error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil
	}
	return user, nil
}
