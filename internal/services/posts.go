package services

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"
	"unicode/utf8"

	"scitalk/internal/db"
	"scitalk/internal/models"
	"scitalk/internal/utils"

	"gorm.io/gorm"
)

// PostSort selects the ordering of ListPosts.
type PostSort string

const (
	SortRecent PostSort = "recent" // newest first
	SortActive PostSort = "active" // most recent comment activity first
	SortHot    PostSort = "hot"    // time-decay score first
)

func (s PostSort) Valid() bool {
	return s == SortRecent || s == SortActive || s == SortHot
}

// selfVoteAllowed reads the policy flag. Whether authors may upvote their
// own content is configurable; the default is to reject.
func selfVoteAllowed() bool {
	return os.Getenv("ALLOW_SELF_VOTE") == "true"
}

// CreatePost validates and stores a new post. Each type has exactly one
// content field: url for result/method/review/tool, text for discussion/ask;
// supplying the other field is rejected. Points start at 1, the author's
// implicit base point.
func CreatePost(authorID uint, typ models.PostType, title, rawURL, text string) (*models.Post, error) {
	if !typ.Valid() {
		return nil, ErrInvalidPostType
	}

	// Limits are in characters, not bytes
	cleanTitle := utils.SanitizeText(title)
	if cleanTitle == "" || utf8.RuneCountInString(cleanTitle) > models.TitleMaxLen {
		return nil, ErrMissingContent
	}

	cleanText := utils.SanitizeText(text)
	if typ.RequiresURL() {
		if rawURL == "" || cleanText != "" {
			return nil, ErrMissingContent
		}
		parsed, err := url.ParseRequestURI(rawURL)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return nil, ErrMissingContent
		}
	} else {
		if cleanText == "" || rawURL != "" {
			return nil, ErrMissingContent
		}
		if utf8.RuneCountInString(cleanText) > models.TextMaxLen {
			return nil, ErrTextTooLong
		}
	}

	now := time.Now()
	post := models.Post{
		Pid:         utils.RandStringBytesMaskImpr(8),
		UserID:      authorID,
		Type:        typ,
		Title:       cleanTitle,
		URL:         rawURL,
		Text:        cleanText,
		Points:      1,
		CommentedAt: now, // a fresh post counts as its own latest activity
	}

	if err := db.DB.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	GetRankingService().ScheduleUpdate(post.ID)
	return &post, nil
}

// GetPost looks up a post by its public id, author preloaded. Soft-deleted
// posts are returned as-is; callers decide how to present them.
func GetPost(pid string) (*models.Post, error) {
	var post models.Post
	if err := db.DB.Preload("User").Where("pid = ?", pid).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post: %w", err)
	}
	return &post, nil
}

// SoftDeletePost hides the post from listings. The row and its comment tree
// are retained.
func SoftDeletePost(pid string, requesterID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Where("pid = ?", pid).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("load post: %w", err)
		}
		if post.UserID != requesterID {
			return ErrNotAuthor
		}
		if post.Deleted() {
			return ErrPostDeleted
		}

		if err := tx.Model(&post).UpdateColumn("deleted_at", time.Now()).Error; err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		return nil
	})
}

// VotePost casts the voter's vote on a post. The ledger insert and the
// counter updates share one transaction; a concurrent duplicate cast loses
// at the unique index and surfaces as ErrDuplicateVote with no counter
// change.
func VotePost(voterID uint, postID uint) (*models.Vote, error) {
	var vote *models.Vote
	err := db.DB.Transaction(func(tx *gorm.DB) error {
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
		if post.UserID == voterID && !selfVoteAllowed() {
			return ErrSelfVote
		}

		v, err := CastVote(tx, voterID, models.PostVotable(post.ID))
		if err != nil {
			return err
		}
		if err := ApplyVote(tx, models.PostVotable(post.ID)); err != nil {
			return err
		}
		vote = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	GetRankingService().ScheduleUpdate(postID)
	return vote, nil
}

// VoteComment casts the voter's vote on a comment.
func VoteComment(voterID uint, commentID uint) (*models.Vote, error) {
	var vote *models.Vote
	var postID uint
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return fmt.Errorf("load comment: %w", err)
		}
		if comment.Deleted() {
			return ErrCommentDeleted
		}
		if comment.UserID == voterID && !selfVoteAllowed() {
			return ErrSelfVote
		}
		postID = comment.PostID

		v, err := CastVote(tx, voterID, models.CommentVotable(comment.ID))
		if err != nil {
			return err
		}
		if err := ApplyVote(tx, models.CommentVotable(comment.ID)); err != nil {
			return err
		}
		vote = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	GetRankingService().ScheduleUpdate(postID)
	return vote, nil
}

// RetractPostVote removes the voter's vote from a post and debits the
// counters, as one transaction.
func RetractPostVote(voterID uint, postID uint) error {
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := RetractVote(tx, voterID, models.PostVotable(postID)); err != nil {
			return err
		}
		return ApplyRetraction(tx, models.PostVotable(postID))
	})
	if err != nil {
		return err
	}

	GetRankingService().ScheduleUpdate(postID)
	return nil
}

// RetractCommentVote removes the voter's vote from a comment.
func RetractCommentVote(voterID uint, commentID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := RetractVote(tx, voterID, models.CommentVotable(commentID)); err != nil {
			return err
		}
		return ApplyRetraction(tx, models.CommentVotable(commentID))
	})
}

// ListPosts pages through non-deleted posts. The same parameters always
// produce the same query, so callers can re-issue it to restart a listing;
// id breaks creation-time ties to keep page boundaries stable.
func ListPosts(sort PostSort, typeFilter models.PostType, page, limit int) ([]models.Post, int64, error) {
	if !sort.Valid() {
		sort = SortRecent
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 30
	}

	if typeFilter != "" && !typeFilter.Valid() {
		return nil, 0, ErrInvalidPostType
	}

	filtered := func() *gorm.DB {
		q := db.DB.Model(&models.Post{}).Where("deleted_at IS NULL")
		if typeFilter != "" {
			q = q.Where("type = ?", typeFilter)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	q := filtered()
	switch sort {
	case SortActive:
		q = q.Order("commented_at DESC, id DESC")
	case SortHot:
		q = q.Order("rank_score DESC, id DESC")
	default:
		q = q.Order("created_at DESC, id DESC")
	}

	var posts []models.Post
	err := q.Preload("User").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&posts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return posts, total, nil
}
