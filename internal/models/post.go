package models

import (
	"time"
)

const (
	TitleMaxLen = 300
	TextMaxLen  = 10000
)

// PostType is one of the six fixed content variants. URL-based types carry a
// link, text-based types carry a body; a post never carries both.
type PostType string

const (
	PostResult     PostType = "result"
	PostMethod     PostType = "method"
	PostReview     PostType = "review"
	PostDiscussion PostType = "discussion"
	PostAsk        PostType = "ask"
	PostTool       PostType = "tool"
)

func (t PostType) Valid() bool {
	switch t {
	case PostResult, PostMethod, PostReview, PostDiscussion, PostAsk, PostTool:
		return true
	}
	return false
}

// RequiresURL reports whether this type is link-based.
func (t PostType) RequiresURL() bool {
	switch t {
	case PostResult, PostMethod, PostReview, PostTool:
		return true
	}
	return false
}

// RequiresText reports whether this type is text-based.
func (t PostType) RequiresText() bool {
	return t == PostDiscussion || t == PostAsk
}

type Post struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Pid          string     `gorm:"uniqueIndex;size:8;not null" json:"pid"`
	UserID       uint       `gorm:"not null;index" json:"user_id"`
	User         User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Type         PostType   `gorm:"size:20;not null;index" json:"type"`
	Title        string     `gorm:"size:300;not null" json:"title"`
	URL          string     `json:"url,omitempty"`
	Text         string     `gorm:"type:text" json:"text,omitempty"`
	Points       int        `gorm:"not null;default:1" json:"points"`
	CommentCount int        `gorm:"not null;default:0" json:"comment_count"`
	RankScore    float64    `gorm:"not null;default:0;index" json:"-"` // time-decay score, refreshed asynchronously
	CreatedAt    time.Time  `json:"created_at"`
	CommentedAt  time.Time  `gorm:"index" json:"commented_at"` // last comment activity, drives the "active" sort
	DeletedAt    *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// Deleted reports whether the post has been soft-deleted. The row is kept so
// its comment tree stays referentially intact.
func (p *Post) Deleted() bool {
	return p.DeletedAt != nil
}
