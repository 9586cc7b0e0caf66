package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Gaurav220900/Social/internal/domain"
)

// testDB opens an isolated in-memory sqlite database with the full schema.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.UserModel{},
		&domain.FollowModel{},
		&domain.MessageModel{},
		&domain.ConversationModel{},
		&domain.NotificationModel{},
		&domain.PostModel{},
		&domain.CommentModel{},
		&domain.LikeModel{},
	))
	return db
}

// seedUser inserts a user and returns its id.
func seedUser(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()

	model := domain.UserModel{
		ID:           uuid.New().String(),
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&model).Error)
	return model.ID
}
