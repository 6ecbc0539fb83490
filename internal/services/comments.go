package services

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"scitalk/internal/db"
	"scitalk/internal/models"
	"scitalk/internal/utils"

	"gorm.io/gorm"
)

// CommentNode is one comment with its direct replies, as reconstructed by
// GetTree.
type CommentNode struct {
	*models.Comment
	Children []*CommentNode
}

// CreateTopLevel adds a depth-0 comment to a post.
func CreateTopLevel(authorID, postID uint, text string) (*models.Comment, error) {
	clean, err := validateCommentText(text)
	if err != nil {
		return nil, err
	}

	var comment models.Comment
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("load post: %w", err)
		}
		if post.Deleted() {
			return ErrPostDeleted
		}

		comment = models.Comment{
			Cid:    utils.RandStringBytesMaskImpr(8),
			PostID: post.ID,
			UserID: authorID,
			Text:   clean,
			Points: 1,
			Depth:  0,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return touchPostActivity(tx, post.ID)
	})
	if err != nil {
		return nil, err
	}

	GetRankingService().ScheduleUpdate(comment.PostID)
	return &comment, nil
}

// CreateReply adds a comment nested under parentID. Depth is fixed here as
// parent depth + 1 and never recomputed afterwards. Replying to a deleted
// comment is rejected so no reply ever hangs off a tombstone it never saw.
func CreateReply(authorID, parentID uint, text string) (*models.Comment, error) {
	clean, err := validateCommentText(text)
	if err != nil {
		return nil, err
	}

	var comment models.Comment
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var parent models.Comment
		if err := tx.First(&parent, parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return fmt.Errorf("load parent comment: %w", err)
		}
		if parent.Deleted() {
			return ErrCommentDeleted
		}

		var post models.Post
		if err := tx.First(&post, parent.PostID).Error; err != nil {
			return fmt.Errorf("load post: %w", err)
		}
		if post.Deleted() {
			return ErrPostDeleted
		}

		parentRef := parent.ID
		comment = models.Comment{
			Cid:      utils.RandStringBytesMaskImpr(8),
			PostID:   parent.PostID,
			UserID:   authorID,
			ParentID: &parentRef,
			Text:     clean,
			Points:   1,
			Depth:    parent.Depth + 1,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("create reply: %w", err)
		}
		return touchPostActivity(tx, post.ID)
	})
	if err != nil {
		return nil, err
	}

	GetRankingService().ScheduleUpdate(comment.PostID)
	return &comment, nil
}

// SoftDeleteComment marks the comment deleted. The row and its subtree stay
// put; only the deletion timestamp is set, presentation layers tombstone the
// text.
func SoftDeleteComment(cid string, requesterID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("cid = ?", cid).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return fmt.Errorf("load comment: %w", err)
		}
		if comment.UserID != requesterID {
			return ErrNotAuthor
		}
		if comment.Deleted() {
			return ErrCommentDeleted
		}

		now := time.Now()
		if err := tx.Model(&comment).UpdateColumn("deleted_at", now).Error; err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
}

// GetComment looks up a comment by its public id.
func GetComment(cid string) (*models.Comment, error) {
	var comment models.Comment
	if err := db.DB.Where("cid = ?", cid).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("load comment: %w", err)
	}
	return &comment, nil
}

// GetTree returns the full comment tree of a post. It issues a fixed number
// of queries no matter how many comments there are or how deep they nest:
// one flat fetch of every comment on the post (plus the author preload), then
// an in-memory pass that buckets children under parents. Soft-deleted
// comments are included so no returned child ever references a parent absent
// from the same snapshot.
//
// Siblings come back in ascending creation order, ties broken by id, which
// keeps the ordering total and the response deterministic.
func GetTree(postID uint) ([]*CommentNode, error) {
	var comments []models.Comment
	err := db.DB.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	nodes := make(map[uint]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{Comment: &comments[i]}
	}

	roots := make([]*CommentNode, 0, len(comments))
	for i := range comments {
		node := nodes[comments[i].ID]
		if comments[i].ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*comments[i].ParentID]
		if !ok {
			// Cannot happen for a consistent tree; keep the comment
			// visible rather than dropping it.
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}
	return roots, nil
}

// touchPostActivity bumps the denormalized comment counter and the
// last-activity timestamp that drives the "active" sort.
func touchPostActivity(tx *gorm.DB, postID uint) error {
	err := tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumns(map[string]interface{}{
			"comment_count": gorm.Expr("comment_count + 1"),
			"commented_at":  time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("touch post activity: %w", err)
	}
	return nil
}

func validateCommentText(text string) (string, error) {
	clean := utils.SanitizeText(text)
	if clean == "" {
		return "", ErrMissingContent
	}
	// Limits are in characters, not bytes
	if utf8.RuneCountInString(clean) > models.TextMaxLen {
		return "", ErrTextTooLong
	}
	return clean, nil
}
