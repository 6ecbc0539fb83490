package services

import (
	"errors"
	"fmt"

	"scitalk/internal/models"

	"gorm.io/gorm"
)

// Karma action descriptions recorded in the KarmaLog audit trail.
const (
	ActionPostUpvoted          = "post upvoted"
	ActionPostVoteRetracted    = "post vote retracted"
	ActionCommentUpvoted       = "comment upvoted"
	ActionCommentVoteRetracted = "comment vote retracted"
)

// The counter maintainer keeps the denormalized points column on posts and
// comments, and the karma column on users, in step with the vote ledger.
// Every call runs on the same transaction as the ledger mutation: either
// both commit or neither does, so the counters never drift from the ledger.

// ApplyVote credits one point to the votable and one karma to its author.
func ApplyVote(tx *gorm.DB, votable models.Votable) error {
	authorID, err := votableAuthor(tx, votable)
	if err != nil {
		return err
	}

	if err := bumpPoints(tx, votable, +1); err != nil {
		return err
	}

	action := ActionPostUpvoted
	if votable.Kind == models.KindComment {
		action = ActionCommentUpvoted
	}
	return addKarma(tx, authorID, 1, action)
}

// ApplyRetraction undoes ApplyVote. The points decrement is guarded so the
// counter never falls below its floor of 1 (the author's implicit base
// point); the paired ledger delete guarantees the guard never fires on a
// well-formed retraction.
func ApplyRetraction(tx *gorm.DB, votable models.Votable) error {
	authorID, err := votableAuthor(tx, votable)
	if err != nil {
		return err
	}

	if err := bumpPoints(tx, votable, -1); err != nil {
		return err
	}

	action := ActionPostVoteRetracted
	if votable.Kind == models.KindComment {
		action = ActionCommentVoteRetracted
	}
	return addKarma(tx, authorID, -1, action)
}

func bumpPoints(tx *gorm.DB, votable models.Votable, delta int) error {
	var q *gorm.DB
	switch votable.Kind {
	case models.KindPost:
		q = tx.Model(&models.Post{}).Where("id = ?", votable.ID)
	case models.KindComment:
		q = tx.Model(&models.Comment{}).Where("id = ?", votable.ID)
	default:
		return fmt.Errorf("bump points: unknown votable kind %q", votable.Kind)
	}
	if delta < 0 {
		q = q.Where("points > 1")
	}
	if err := q.UpdateColumn("points", gorm.Expr("points + ?", delta)).Error; err != nil {
		return fmt.Errorf("bump points: %w", err)
	}
	return nil
}

// addKarma writes the audit row and updates the user's balance on the
// caller's transaction.
func addKarma(tx *gorm.DB, userID uint, amount int, action string) error {
	entry := models.KarmaLog{
		UserID: userID,
		Amount: amount,
		Action: action,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("karma log: %w", err)
	}

	q := tx.Model(&models.User{}).Where("id = ?", userID)
	if amount < 0 {
		// Karma floors at zero, like the points floor above
		q = q.Where("karma > 0")
	}
	if err := q.UpdateColumn("karma", gorm.Expr("karma + ?", amount)).Error; err != nil {
		return fmt.Errorf("update karma: %w", err)
	}
	return nil
}

func votableAuthor(tx *gorm.DB, votable models.Votable) (uint, error) {
	switch votable.Kind {
	case models.KindPost:
		var post models.Post
		if err := tx.Select("user_id").First(&post, votable.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrPostNotFound
			}
			return 0, fmt.Errorf("votable author: %w", err)
		}
		return post.UserID, nil
	case models.KindComment:
		var comment models.Comment
		if err := tx.Select("user_id").First(&comment, votable.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, ErrCommentNotFound
			}
			return 0, fmt.Errorf("votable author: %w", err)
		}
		return comment.UserID, nil
	}
	return 0, fmt.Errorf("votable author: unknown votable kind %q", votable.Kind)
}
