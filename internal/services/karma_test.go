package services

import (
	"testing"

	"scitalk/internal/db"
	"scitalk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestKarmaFloorsAtZero(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		return addKarma(tx, user.ID, -1, ActionPostVoteRetracted)
	})
	require.NoError(t, err)

	var got models.User
	require.NoError(t, db.DB.First(&got, user.ID).Error)
	assert.Equal(t, 0, got.Karma)

	// The audit row is still written; only the balance update is clamped
	var logs int64
	require.NoError(t, db.DB.Model(&models.KarmaLog{}).Where("user_id = ?", user.ID).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
}

func TestKarmaCreditAndDebit(t *testing.T) {
	setupTestDB(t)
	user := createTestUser(t, "alice")

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := addKarma(tx, user.ID, 1, ActionCommentUpvoted); err != nil {
			return err
		}
		return addKarma(tx, user.ID, -1, ActionCommentVoteRetracted)
	})
	require.NoError(t, err)

	var got models.User
	require.NoError(t, db.DB.First(&got, user.ID).Error)
	assert.Equal(t, 0, got.Karma)
}
