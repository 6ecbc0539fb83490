package handlers

import (
	"net/http"

	"scitalk/internal/services"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct{}

func NewVoteHandler() *VoteHandler {
	return &VoteHandler{}
}

// VotePost records an upvote on a post. Voting twice is a conflict, not an
// increment.
func (h *VoteHandler) VotePost(c *gin.Context) {
	user := currentUser(c)

	post, err := services.GetPost(c.Param("pid"))
	if err != nil {
		AbortError(c, err)
		return
	}

	if _, err := services.VotePost(user.ID, post.ID); err != nil {
		AbortError(c, err)
		return
	}

	// Re-read after commit; concurrent votes may have moved the counter
	updated, err := services.GetPost(post.Pid)
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"points": updated.Points})
}

func (h *VoteHandler) RetractPostVote(c *gin.Context) {
	user := currentUser(c)

	post, err := services.GetPost(c.Param("pid"))
	if err != nil {
		AbortError(c, err)
		return
	}

	if err := services.RetractPostVote(user.ID, post.ID); err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *VoteHandler) VoteComment(c *gin.Context) {
	user := currentUser(c)

	comment, err := services.GetComment(c.Param("cid"))
	if err != nil {
		AbortError(c, err)
		return
	}

	if _, err := services.VoteComment(user.ID, comment.ID); err != nil {
		AbortError(c, err)
		return
	}

	updated, err := services.GetComment(comment.Cid)
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"points": updated.Points})
}

func (h *VoteHandler) RetractCommentVote(c *gin.Context) {
	user := currentUser(c)

	comment, err := services.GetComment(c.Param("cid"))
	if err != nil {
		AbortError(c, err)
		return
	}

	if err := services.RetractCommentVote(user.ID, comment.ID); err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
