package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/bookreview/internal/domain/book"
	"github.com/xiebiao/bookreview/internal/domain/user"
	"github.com/xiebiao/bookreview/internal/infrastructure/config"
)

// newTestDB 在临时目录创建SQLite数据库并完成迁移
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:          "sqlite",
			Path:            filepath.Join(t.TempDir(), "bookreview.db"),
			MaxOpenConns:    4,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			AutoMigrate:     true,
		},
	}
	db, cleanup, err := NewDB(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u := user.NewUser(username, username+"@example.com", "$2a$10$hash")
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func seedBook(t *testing.T, db *gorm.DB, userID uint, title, author, genre string, year int) *book.Book {
	t.Helper()
	b := book.NewBook(title, author, genre, "description", year, userID)
	require.NoError(t, NewBookRepository(db).Create(context.Background(), b))
	return b
}
