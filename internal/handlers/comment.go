package handlers

import (
	"net/http"

	"scitalk/internal/services"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type createCommentRequest struct {
	Text      string `json:"text" binding:"required"`
	ParentCid string `json:"parent_cid"`
}

// Create adds a comment to a post. With parent_cid it becomes a reply nested
// under that comment; without it the comment sits at the top level.
func (h *CommentHandler) Create(c *gin.Context) {
	user := currentUser(c)

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	post, err := services.GetPost(c.Param("pid"))
	if err != nil {
		AbortError(c, err)
		return
	}

	if req.ParentCid == "" {
		created, err := services.CreateTopLevel(user.ID, post.ID, req.Text)
		if err != nil {
			AbortError(c, err)
			return
		}
		created.User = *user
		c.JSON(http.StatusCreated, gin.H{"comment": singleCommentJSON(created)})
		return
	}

	parent, err := services.GetComment(req.ParentCid)
	if err != nil {
		AbortError(c, err)
		return
	}
	if parent.PostID != post.ID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "parent comment belongs to a different post"})
		return
	}

	created, err := services.CreateReply(user.ID, parent.ID, req.Text)
	if err != nil {
		AbortError(c, err)
		return
	}
	created.User = *user
	c.JSON(http.StatusCreated, gin.H{"comment": singleCommentJSON(created)})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if err := services.SoftDeleteComment(c.Param("cid"), user.ID); err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
