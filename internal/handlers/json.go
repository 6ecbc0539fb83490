package handlers

import (
	"scitalk/internal/models"
	"scitalk/internal/services"

	"github.com/gin-gonic/gin"
)

// deletedPlaceholder replaces author and body on soft-deleted content so the
// tree keeps its shape without leaking the removed text.
const deletedPlaceholder = "[deleted]"

func userJSON(user *models.User) gin.H {
	return gin.H{
		"handle":       user.Handle,
		"display_name": user.DisplayName,
		"karma":        user.Karma,
		"created_at":   user.CreatedAt,
	}
}

func postJSON(post *models.Post, hasVoted bool) gin.H {
	obj := gin.H{
		"pid":           post.Pid,
		"type":          post.Type,
		"title":         post.Title,
		"points":        post.Points,
		"comment_count": post.CommentCount,
		"created_at":    post.CreatedAt,
		"commented_at":  post.CommentedAt,
		"has_voted":     hasVoted,
		"deleted":       post.Deleted(),
	}
	if post.Deleted() {
		obj["title"] = deletedPlaceholder
		obj["author"] = nil
		return obj
	}
	if post.URL != "" {
		obj["url"] = post.URL
	}
	if post.Text != "" {
		obj["text"] = post.Text
	}
	obj["author"] = gin.H{
		"handle":       post.User.Handle,
		"display_name": post.User.DisplayName,
	}
	return obj
}

func singleCommentJSON(comment *models.Comment) gin.H {
	return gin.H{
		"cid":        comment.Cid,
		"depth":      comment.Depth,
		"points":     comment.Points,
		"text":       comment.Text,
		"created_at": comment.CreatedAt,
		"author": gin.H{
			"handle":       comment.User.Handle,
			"display_name": comment.User.DisplayName,
		},
	}
}

func commentJSON(node *services.CommentNode, voted map[uint]bool) gin.H {
	obj := gin.H{
		"cid":        node.Cid,
		"depth":      node.Depth,
		"points":     node.Points,
		"created_at": node.CreatedAt,
		"deleted":    node.Deleted(),
	}
	if node.Deleted() {
		obj["text"] = deletedPlaceholder
		obj["author"] = nil
	} else {
		obj["text"] = node.Text
		obj["author"] = gin.H{
			"handle":       node.User.Handle,
			"display_name": node.User.DisplayName,
		}
		obj["has_voted"] = voted[node.ID]
	}

	children := make([]gin.H, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, commentJSON(child, voted))
	}
	obj["children"] = children
	return obj
}
