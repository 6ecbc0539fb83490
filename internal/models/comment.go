package models

import (
	"time"
)

type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Cid       string     `gorm:"uniqueIndex;size:8;not null" json:"cid"`
	PostID    uint       `gorm:"not null;index" json:"post_id"`
	Post      Post       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	User      User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	ParentID  *uint      `gorm:"index" json:"parent_id,omitempty"` // nil for top-level comments
	Text      string     `gorm:"type:text;not null" json:"text"`
	Points    int        `gorm:"not null;default:1" json:"points"`
	Depth     int        `gorm:"not null;default:0" json:"depth"` // always parent depth + 1, fixed at creation
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
}

// Deleted reports whether the comment has been soft-deleted. Deleted
// comments stay in the tree as tombstones so their descendants keep context.
func (c *Comment) Deleted() bool {
	return c.DeletedAt != nil
}
