package services

import (
	"errors"
)

// Sentinel errors raised at component boundaries and propagated unchanged to
// the HTTP layer, which maps them to status codes. Anything else that comes
// out of a service is an infrastructure failure and is wrapped, not replaced.
var (
	// Vote ledger
	ErrDuplicateVote = errors.New("vote already cast for this item")
	ErrVoteNotFound  = errors.New("no vote to retract")

	// Lookups
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrUserNotFound    = errors.New("user not found")

	// Soft-deleted targets
	ErrPostDeleted    = errors.New("post has been deleted")
	ErrCommentDeleted = errors.New("comment has been deleted")

	// Authorization
	ErrNotAuthor = errors.New("only the author may do this")
	ErrSelfVote  = errors.New("authors may not vote on their own content")

	// Input validation
	ErrInvalidPostType = errors.New("unknown post type")
	ErrMissingContent  = errors.New("required content missing or not allowed")
	ErrTextTooLong     = errors.New("text exceeds the maximum length")
)
