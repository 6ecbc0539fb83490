package handlers

import (
	"errors"
	"net/http"
	"scitalk/internal/identity"
	"scitalk/internal/middleware"
	"scitalk/internal/models"
	"scitalk/internal/services"

	"github.com/gin-gonic/gin"
)

// currentUser returns the logged-in user loaded by the session middleware,
// or nil when the request is anonymous.
func currentUser(c *gin.Context) *models.User {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.User)
	}
	return nil
}

// AbortError maps service errors to HTTP status codes and writes a JSON body.
func AbortError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, services.ErrDuplicateVote):
		status = http.StatusConflict
	case errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrVoteNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrPostDeleted),
		errors.Is(err, services.ErrCommentDeleted):
		status = http.StatusGone
	case errors.Is(err, services.ErrNotAuthor),
		errors.Is(err, services.ErrSelfVote):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrInvalidPostType),
		errors.Is(err, services.ErrMissingContent),
		errors.Is(err, services.ErrTextTooLong):
		status = http.StatusBadRequest
	case errors.Is(err, identity.ErrUnavailable):
		status = http.StatusBadGateway
	}

	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
