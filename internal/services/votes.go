package services

import (
	"errors"
	"fmt"
	"strings"

	"scitalk/internal/models"

	"gorm.io/gorm"
)

// The vote ledger records at most one vote per (user, votable) pair. All
// mutations run on a caller-supplied transaction so the counter updates in
// karma.go commit or roll back together with the ledger row.

// CastVote inserts a vote row. It relies on the unique index rather than a
// check-then-insert, so two concurrent casts cannot both succeed; the loser
// gets ErrDuplicateVote.
func CastVote(tx *gorm.DB, voterID uint, votable models.Votable) (*models.Vote, error) {
	vote := models.Vote{
		UserID:      voterID,
		VotableKind: votable.Kind,
		VotableID:   votable.ID,
		VoteType:    models.VoteUp,
	}
	if err := tx.Create(&vote).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateVote
		}
		return nil, fmt.Errorf("cast vote: %w", err)
	}
	return &vote, nil
}

// RetractVote deletes the voter's vote on the votable, if any.
func RetractVote(tx *gorm.DB, voterID uint, votable models.Votable) error {
	res := tx.Where("user_id = ? AND votable_kind = ? AND votable_id = ?",
		voterID, votable.Kind, votable.ID).Delete(&models.Vote{})
	if res.Error != nil {
		return fmt.Errorf("retract vote: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrVoteNotFound
	}
	return nil
}

// HasVoted reports whether the voter has an active vote on the votable.
// Read-only, used to render vote state in responses.
func HasVoted(conn *gorm.DB, voterID uint, votable models.Votable) (bool, error) {
	var count int64
	err := conn.Model(&models.Vote{}).
		Where("user_id = ? AND votable_kind = ? AND votable_id = ?",
			voterID, votable.Kind, votable.ID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("has voted: %w", err)
	}
	return count > 0, nil
}

// VotedCommentIDs returns which of the given comments the voter has upvoted,
// in a single query regardless of how many comments are passed.
func VotedCommentIDs(conn *gorm.DB, voterID uint, commentIDs []uint) (map[uint]bool, error) {
	voted := make(map[uint]bool)
	if len(commentIDs) == 0 {
		return voted, nil
	}
	var ids []uint
	err := conn.Model(&models.Vote{}).
		Where("user_id = ? AND votable_kind = ? AND votable_id IN ?",
			voterID, models.KindComment, commentIDs).
		Pluck("votable_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("voted comment ids: %w", err)
	}
	for _, id := range ids {
		voted[id] = true
	}
	return voted, nil
}

// isDuplicateKey recognizes unique-constraint violations from both the
// postgres and sqlite drivers.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
