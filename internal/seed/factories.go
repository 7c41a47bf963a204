// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"time"

	"warbler/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	username := fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999))
	user := &models.User{
		Username: username,
		Email:    gofakeit.Email(),
		Bio:      gofakeit.Sentence(10),
		Location: fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.StateAbr()),
		ImageURL: fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = SeedPassword
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateMessage constructs and persists a sample `models.Message` for the
// given user. Generated text always fits the 140-character cap.
func (f *Factory) CreateMessage(user *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	message := &models.Message{
		Text:   warbleText(),
		UserID: user.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := gofakeit.Number(0, maxDays-1)
	hoursBack := gofakeit.Number(0, 23)
	minsBack := gofakeit.Number(0, 59)
	message.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour -
		time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(message)
	}

	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// CreateFollow persists a directed follow edge from follower to followed.
func (f *Factory) CreateFollow(follower, followed *models.User) error {
	follow := &models.Follow{
		FollowerID: follower.ID,
		FollowedID: followed.ID,
	}
	return f.db.Create(follow).Error
}

// CreateLike persists a like from `user` on `message`.
func (f *Factory) CreateLike(user *models.User, message *models.Message) error {
	like := &models.Like{
		UserID:    user.ID,
		MessageID: message.ID,
	}
	return f.db.Create(like).Error
}

// CreateMessagesBatch persists multiple messages in a single DB call.
func (f *Factory) CreateMessagesBatch(messages []*models.Message) error {
	if len(messages) == 0 {
		return nil
	}
	if err := f.db.Create(&messages).Error; err != nil {
		log.Printf("batch insert of %d messages failed: %v", len(messages), err)
		return err
	}
	return nil
}

// warbleText produces short post text that respects the message length cap.
func warbleText() string {
	text := gofakeit.Sentence(gofakeit.Number(4, 12))
	if len(text) > models.MaxMessageLength {
		text = text[:models.MaxMessageLength]
	}
	return text
}
