package handlers

import (
	"net/http"

	"scitalk/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile returns the public view of a user, looked up by handle.
func (h *UserHandler) Profile(c *gin.Context) {
	user, err := services.GetUserByHandle(c.Param("handle"))
	if err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}
