package service

import (
	"context"
	"errors"

	"warbler/internal/featureflags"
	"warbler/internal/models"
	"warbler/internal/repository"
)

// RelationshipService handles follow and like edges between users and
// messages.
type RelationshipService struct {
	followRepo  repository.FollowRepository
	likeRepo    repository.LikeRepository
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	flags       *featureflags.Manager
}

// NewRelationshipService creates a RelationshipService.
func NewRelationshipService(
	followRepo repository.FollowRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
	flags *featureflags.Manager,
) *RelationshipService {
	return &RelationshipService{
		followRepo:  followRepo,
		likeRepo:    likeRepo,
		userRepo:    userRepo,
		messageRepo: messageRepo,
		flags:       flags,
	}
}

// Follow adds a follow edge from followerID to followedID. Following a user
// twice is an idempotent success unless strict edge checking is enabled.
// Self-follows are permitted unless the reject_self_edges flag is on.
func (s *RelationshipService) Follow(ctx context.Context, followerID, followedID uint) error {
	if followerID == followedID && s.flags.Enabled(featureflags.RejectSelfEdges, followerID) {
		return models.NewValidationError("You cannot follow yourself")
	}

	// Confirm the target exists before creating the edge.
	if _, err := s.userRepo.GetByID(ctx, followedID); err != nil {
		return err
	}

	err := s.followRepo.Create(ctx, followerID, followedID)
	if err != nil && isUniqueness(err) && !s.flags.Enabled(featureflags.StrictEdges, followerID) {
		return nil
	}
	return err
}

// Unfollow removes a follow edge. Unfollowing someone you do not follow is
// a no-op.
func (s *RelationshipService) Unfollow(ctx context.Context, followerID, followedID uint) error {
	return s.followRepo.Delete(ctx, followerID, followedID)
}

func (s *RelationshipService) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followedID)
}

func (s *RelationshipService) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.followRepo.IsFollowedBy(ctx, userID, otherID)
}

// Following lists the users a given user follows. The user must exist.
func (s *RelationshipService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID)
}

// Followers lists the users following a given user. The user must exist.
func (s *RelationshipService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}

// Like adds a like edge from userID to messageID. Liking a message twice is
// an idempotent success unless strict edge checking is enabled. Liking your
// own message is permitted unless the reject_self_edges flag is on.
func (s *RelationshipService) Like(ctx context.Context, userID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.UserID == userID && s.flags.Enabled(featureflags.RejectSelfEdges, userID) {
		return models.NewValidationError("You cannot like your own message")
	}

	err = s.likeRepo.Create(ctx, userID, messageID)
	if err != nil && isUniqueness(err) && !s.flags.Enabled(featureflags.StrictEdges, userID) {
		return nil
	}
	return err
}

// Unlike removes a like edge. Unliking a message you have not liked is a
// no-op, but the message must exist.
func (s *RelationshipService) Unlike(ctx context.Context, userID, messageID uint) error {
	if _, err := s.messageRepo.GetByID(ctx, messageID); err != nil {
		return err
	}
	return s.likeRepo.Delete(ctx, userID, messageID)
}

func (s *RelationshipService) HasLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, messageID)
}

// LikedMessages lists the messages a user has liked. The user must exist.
func (s *RelationshipService) LikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.likeRepo.MessagesLikedBy(ctx, userID)
}

func isUniqueness(err error) bool {
	var appErr *models.AppError
	return errors.As(err, &appErr) && appErr.Code == models.CodeUniquenessViolation
}
