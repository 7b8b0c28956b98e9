package repository

import (
	"database/sql"
	"testing"
	"time"

	"campusvibe/internal/database"
	"campusvibe/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var baseTime = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

// setupTestDB returns a private in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// setupMockDB returns a postgres-dialect gorm DB backed by sqlmock.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	var (
		conn *sql.DB
		mock sqlmock.Sqlmock
		err  error
	)
	conn, mock, err = sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func createUser(t *testing.T, db *gorm.DB, device string) *models.User {
	t.Helper()
	u := &models.User{DeviceID: device, CreatedAt: baseTime}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createPost(t *testing.T, db *gorm.DB, userID string, expiresAt *time.Time) *models.Post {
	t.Helper()
	p := &models.Post{
		UserID:    userID,
		Content:   "someone in the library keeps humming",
		Category:  models.CategoryConfession,
		CreatedAt: baseTime,
		ExpiresAt: expiresAt,
	}
	require.NoError(t, NewPostRepository(db).Create(t.Context(), p))
	return p
}

func createComment(t *testing.T, db *gorm.DB, postID, userID string) *models.Comment {
	t.Helper()
	c := &models.Comment{PostID: postID, UserID: userID, Content: "same", CreatedAt: baseTime}
	require.NoError(t, NewCommentRepository(db).Create(t.Context(), c))
	return c
}

func reloadPost(t *testing.T, db *gorm.DB, id string) models.Post {
	t.Helper()
	var p models.Post
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p
}

func countRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }
