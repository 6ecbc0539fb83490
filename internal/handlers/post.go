package handlers

import (
	"fmt"
	"net/http"
	"time"

	"scitalk/internal/db"
	"scitalk/internal/models"
	"scitalk/internal/services"
	"scitalk/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 30
	maxPageSize     = 100
	listCacheTTL    = time.Minute
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

type createPostRequest struct {
	Type  string `json:"type" binding:"required"`
	Title string `json:"title" binding:"required"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type and title are required"})
		return
	}

	post, err := services.CreatePost(user.ID, models.PostType(req.Type), req.Title, req.URL, req.Text)
	if err != nil {
		AbortError(c, err)
		return
	}

	// Fresh posts should show up on the front page without waiting out the TTL
	utils.GetCache().Delete(listCacheKey(services.SortRecent, "", 1, defaultPageSize))

	post.User = *user
	c.JSON(http.StatusCreated, gin.H{"post": postJSON(post, false)})
}

func listCacheKey(sort services.PostSort, typeFilter models.PostType, page, limit int) string {
	return fmt.Sprintf("posts:%s:%s:%d:%d", sort, typeFilter, page, limit)
}

type listPayload struct {
	Posts []models.Post
	Total int64
}

func (h *PostHandler) List(c *gin.Context) {
	sort := services.PostSort(c.DefaultQuery("sort", string(services.SortRecent)))
	if !sort.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sort"})
		return
	}

	typeFilter := models.PostType(c.Query("type"))
	if typeFilter != "" && !typeFilter.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown post type"})
		return
	}

	page := utils.StringToInt(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit := utils.StringToInt(c.DefaultQuery("limit", "30"))
	if limit < 1 || limit > maxPageSize {
		limit = defaultPageSize
	}

	cacheKey := listCacheKey(sort, typeFilter, page, limit)
	var payload listPayload
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		payload = cached.(listPayload)
	} else {
		posts, total, err := services.ListPosts(sort, typeFilter, page, limit)
		if err != nil {
			AbortError(c, err)
			return
		}
		payload = listPayload{Posts: posts, Total: total}
		utils.GetCache().Set(cacheKey, payload, listCacheTTL)
	}

	items := make([]gin.H, 0, len(payload.Posts))
	for i := range payload.Posts {
		items = append(items, postJSON(&payload.Posts[i], false))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts": items,
		"total": payload.Total,
		"page":  page,
		"limit": limit,
	})
}

// Detail returns a post with its full comment tree.
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := services.GetPost(c.Param("pid"))
	if err != nil {
		AbortError(c, err)
		return
	}

	tree, err := services.GetTree(post.ID)
	if err != nil {
		AbortError(c, err)
		return
	}

	hasVoted := false
	voted := map[uint]bool{}
	if user := currentUser(c); user != nil {
		hasVoted, err = services.HasVoted(db.DB, user.ID, models.PostVotable(post.ID))
		if err != nil {
			AbortError(c, err)
			return
		}
		voted, err = services.VotedCommentIDs(db.DB, user.ID, collectCommentIDs(tree))
		if err != nil {
			AbortError(c, err)
			return
		}
	}

	comments := make([]gin.H, 0, len(tree))
	for _, node := range tree {
		comments = append(comments, commentJSON(node, voted))
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     postJSON(post, hasVoted),
		"comments": comments,
	})
}

func collectCommentIDs(nodes []*services.CommentNode) []uint {
	var ids []uint
	var walk func([]*services.CommentNode)
	walk = func(level []*services.CommentNode) {
		for _, node := range level {
			if !node.Deleted() {
				ids = append(ids, node.ID)
			}
			walk(node.Children)
		}
	}
	walk(nodes)
	return ids
}

func (h *PostHandler) Delete(c *gin.Context) {
	user := currentUser(c)
	if err := services.SoftDeletePost(c.Param("pid"), user.ID); err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
