package handlers

import (
	"net/http"
	"scitalk/internal/identity"
	"scitalk/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	provider identity.Provider
}

func NewAuthHandler(provider identity.Provider) *AuthHandler {
	return &AuthHandler{provider: provider}
}

type loginRequest struct {
	Assertion string `json:"assertion" binding:"required"`
}

// Login exchanges an identity assertion for a session cookie, creating the
// account on first login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assertion is required"})
		return
	}

	ident, err := h.provider.Resolve(c.Request.Context(), req.Assertion)
	if err != nil {
		AbortError(c, err)
		return
	}

	user, err := services.EnsureUser(ident)
	if err != nil {
		AbortError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	if err := session.Save(); err != nil {
		AbortError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		AbortError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me returns the logged-in user's own profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"user": userJSON(user)})
}
