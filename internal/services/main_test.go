package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"scitalk/internal/db"
	"scitalk/internal/models"
	"scitalk/internal/utils"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-global connection at a fresh in-memory
// sqlite database, one per test. A single pooled connection keeps the
// background ranking worker from tripping over sqlite's writer lock.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000",
		strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(conn))

	prev := db.DB
	db.DB = conn
	t.Cleanup(func() {
		db.DB = prev
		sqlDB.Close()
	})
	return conn
}

func createTestUser(t *testing.T, handle string) *models.User {
	t.Helper()
	user := &models.User{
		DID:         "did:plc:" + handle,
		Handle:      handle + ".bsky.social",
		DisplayName: handle,
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, author *models.User, typ models.PostType, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Pid:         utils.RandStringBytesMaskImpr(8),
		UserID:      author.ID,
		Type:        typ,
		Title:       title,
		Text:        "some text",
		Points:      1,
		CommentedAt: time.Now(),
	}
	if typ.RequiresURL() {
		post.Text = ""
		post.URL = "https://example.org/paper"
	}
	require.NoError(t, db.DB.Create(post).Error)
	return post
}

// queryCounter is a gorm logger that counts executed statements.
type queryCounter struct {
	logger.Interface
	count atomic.Int64
}

func (c *queryCounter) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	c.count.Add(1)
}

func countQueries(t *testing.T, conn *gorm.DB, fn func(counted *gorm.DB)) int64 {
	t.Helper()
	counter := &queryCounter{Interface: logger.Default.LogMode(logger.Silent)}
	counted := conn.Session(&gorm.Session{Logger: counter})

	prev := db.DB
	db.DB = counted
	defer func() { db.DB = prev }()

	fn(counted)
	return counter.count.Load()
}
