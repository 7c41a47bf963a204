package repository

import (
	"context"
	"fmt"
	"testing"

	"warbler/internal/database"
	"warbler/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database with the full schema applied.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@test.com", username),
		Password: "HASHED_PASSWORD",
		ImageURL: models.DefaultImageURL,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestMessage(t *testing.T, db *gorm.DB, userID uint, text string) *models.Message {
	t.Helper()

	message := &models.Message{Text: text, UserID: userID}
	require.NoError(t, db.Create(message).Error)
	return message
}

func testCtx() context.Context {
	return context.Background()
}
