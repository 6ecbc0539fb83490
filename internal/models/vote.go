package models

import (
	"time"
)

// VotableKind discriminates the two entities that can receive a vote.
type VotableKind string

const (
	KindPost    VotableKind = "post"
	KindComment VotableKind = "comment"
)

func (k VotableKind) Valid() bool {
	return k == KindPost || k == KindComment
}

// Votable is an explicit kind+id pair referencing a post or a comment.
type Votable struct {
	Kind VotableKind
	ID   uint
}

func PostVotable(id uint) Votable    { return Votable{Kind: KindPost, ID: id} }
func CommentVotable(id uint) Votable { return Votable{Kind: KindComment, ID: id} }

// VoteUp is the only vote type today. The column exists so adding another
// kind later is a data change, not a schema redesign.
const VoteUp = "up"

// Vote records one upvote. The composite unique index is the concurrency
// arbiter: a second insert for the same (user, kind, id) triple fails at the
// storage layer instead of racing a check-then-insert.
type Vote struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;uniqueIndex:uq_votes_user_votable" json:"user_id"`
	VotableKind VotableKind `gorm:"size:10;not null;uniqueIndex:uq_votes_user_votable" json:"votable_kind"`
	VotableID   uint        `gorm:"not null;uniqueIndex:uq_votes_user_votable" json:"votable_id"`
	VoteType    string      `gorm:"size:10;not null;default:up" json:"vote_type"`
	CreatedAt   time.Time   `json:"created_at"`
}
