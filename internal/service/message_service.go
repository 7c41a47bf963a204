package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
)

// MessageService handles composing, reading and deleting messages.
type MessageService struct {
	messageRepo repository.MessageRepository
}

// NewMessageService creates a MessageService backed by the given repository.
func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// Compose creates a new message owned by authorID.
func (s *MessageService) Compose(ctx context.Context, authorID uint, text string) (*models.Message, error) {
	message := &models.Message{Text: text, UserID: authorID}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	return s.messageRepo.GetByID(ctx, message.ID)
}

func (s *MessageService) Get(ctx context.Context, id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// Delete removes a message. Only the message's author may delete it.
func (s *MessageService) Delete(ctx context.Context, id, requesterID uint) error {
	message, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if message.UserID != requesterID {
		return models.NewForbiddenError("You can only delete your own messages")
	}
	return s.messageRepo.Delete(ctx, id)
}

func (s *MessageService) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	return s.messageRepo.ListByUser(ctx, userID, limit)
}

func (s *MessageService) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	return s.messageRepo.ListRecent(ctx, limit)
}

// Timeline returns recent messages from the user and the users they follow.
func (s *MessageService) Timeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	return s.messageRepo.ListTimeline(ctx, userID, limit)
}
