package service

import (
	"context"
	"errors"
	"testing"

	"warbler/internal/models"
)

type userRepoStub struct {
	getByIDFn             func(context.Context, uint) (*models.User, error)
	getByIDWithMessagesFn func(context.Context, uint, int) (*models.User, error)
	getByEmailFn          func(context.Context, string) (*models.User, error)
	getByUsernameFn       func(context.Context, string) (*models.User, error)
	createFn              func(context.Context, *models.User) error
	updateFn              func(context.Context, *models.User) error
	deleteFn              func(context.Context, uint) error
	listFn                func(context.Context, string, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithMessages(ctx context.Context, id uint, limit int) (*models.User, error) {
	return s.getByIDWithMessagesFn(ctx, id, limit)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, query, limit, offset)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:             func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByIDWithMessagesFn: func(context.Context, uint, int) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:          func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:       func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:              func(context.Context, *models.User) error { return nil },
		updateFn:              func(context.Context, *models.User) error { return nil },
		deleteFn:              func(context.Context, uint) error { return nil },
		listFn:                func(context.Context, string, int, int) ([]models.User, error) { return nil, nil },
	}
}

type messageRepoStub struct {
	createFn       func(context.Context, *models.Message) error
	getByIDFn      func(context.Context, uint) (*models.Message, error)
	deleteFn       func(context.Context, uint) error
	listByUserFn   func(context.Context, uint, int) ([]models.Message, error)
	listRecentFn   func(context.Context, int) ([]models.Message, error)
	listTimelineFn func(context.Context, uint, int) ([]models.Message, error)
	countByUserFn  func(context.Context, uint) (int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, message *models.Message) error {
	return s.createFn(ctx, message)
}
func (s *messageRepoStub) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	return s.getByIDFn(ctx, id)
}
func (s *messageRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *messageRepoStub) ListByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	return s.listByUserFn(ctx, userID, limit)
}
func (s *messageRepoStub) ListRecent(ctx context.Context, limit int) ([]models.Message, error) {
	return s.listRecentFn(ctx, limit)
}
func (s *messageRepoStub) ListTimeline(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	return s.listTimelineFn(ctx, userID, limit)
}
func (s *messageRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:       func(context.Context, *models.Message) error { return nil },
		getByIDFn:      func(context.Context, uint) (*models.Message, error) { return &models.Message{}, nil },
		deleteFn:       func(context.Context, uint) error { return nil },
		listByUserFn:   func(context.Context, uint, int) ([]models.Message, error) { return nil, nil },
		listRecentFn:   func(context.Context, int) ([]models.Message, error) { return nil, nil },
		listTimelineFn: func(context.Context, uint, int) ([]models.Message, error) { return nil, nil },
		countByUserFn:  func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type followRepoStub struct {
	createFn         func(context.Context, uint, uint) error
	deleteFn         func(context.Context, uint, uint) error
	isFollowingFn    func(context.Context, uint, uint) (bool, error)
	followingFn      func(context.Context, uint) ([]models.User, error)
	followersFn      func(context.Context, uint) ([]models.User, error)
	countFollowingFn func(context.Context, uint) (int64, error)
	countFollowersFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Create(ctx context.Context, followerID, followedID uint) error {
	return s.createFn(ctx, followerID, followedID)
}
func (s *followRepoStub) Delete(ctx context.Context, followerID, followedID uint) error {
	return s.deleteFn(ctx, followerID, followedID)
}
func (s *followRepoStub) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followedID)
}
func (s *followRepoStub) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.isFollowingFn(ctx, otherID, userID)
}
func (s *followRepoStub) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followingFn(ctx, userID)
}
func (s *followRepoStub) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followersFn(ctx, userID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowersFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:         func(context.Context, uint, uint) error { return nil },
		deleteFn:         func(context.Context, uint, uint) error { return nil },
		isFollowingFn:    func(context.Context, uint, uint) (bool, error) { return false, nil },
		followingFn:      func(context.Context, uint) ([]models.User, error) { return nil, nil },
		followersFn:      func(context.Context, uint) ([]models.User, error) { return nil, nil },
		countFollowingFn: func(context.Context, uint) (int64, error) { return 0, nil },
		countFollowersFn: func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type likeRepoStub struct {
	createFn          func(context.Context, uint, uint) error
	deleteFn          func(context.Context, uint, uint) error
	existsFn          func(context.Context, uint, uint) (bool, error)
	messagesLikedByFn func(context.Context, uint) ([]models.Message, error)
	countByUserFn     func(context.Context, uint) (int64, error)
	countByMessageFn  func(context.Context, uint) (int64, error)
}

func (s *likeRepoStub) Create(ctx context.Context, userID, messageID uint) error {
	return s.createFn(ctx, userID, messageID)
}
func (s *likeRepoStub) Delete(ctx context.Context, userID, messageID uint) error {
	return s.deleteFn(ctx, userID, messageID)
}
func (s *likeRepoStub) Exists(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.existsFn(ctx, userID, messageID)
}
func (s *likeRepoStub) MessagesLikedBy(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.messagesLikedByFn(ctx, userID)
}
func (s *likeRepoStub) CountByUser(ctx context.Context, userID uint) (int64, error) {
	return s.countByUserFn(ctx, userID)
}
func (s *likeRepoStub) CountByMessage(ctx context.Context, messageID uint) (int64, error) {
	return s.countByMessageFn(ctx, messageID)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		createFn:          func(context.Context, uint, uint) error { return nil },
		deleteFn:          func(context.Context, uint, uint) error { return nil },
		existsFn:          func(context.Context, uint, uint) (bool, error) { return false, nil },
		messagesLikedByFn: func(context.Context, uint) ([]models.Message, error) { return nil, nil },
		countByUserFn:     func(context.Context, uint) (int64, error) { return 0, nil },
		countByMessageFn:  func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}
