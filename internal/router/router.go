package router

import (
	"scitalk/internal/handlers"
	"scitalk/internal/identity"
	"scitalk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler(identity.NewATProtoProvider())
	postHandler := handlers.NewPostHandler()
	commentHandler := handlers.NewCommentHandler()
	voteHandler := handlers.NewVoteHandler()
	userHandler := handlers.NewUserHandler()

	api := r.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:pid", postHandler.Detail)
	api.GET("/users/:handle", userHandler.Profile)

	// Protected routes
	authorized := api.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/me", authHandler.Me)

		authorized.POST("/posts", postHandler.Create)
		authorized.DELETE("/posts/:pid", postHandler.Delete)

		authorized.POST("/posts/:pid/comments", commentHandler.Create)
		authorized.DELETE("/comments/:cid", commentHandler.Delete)

		authorized.POST("/posts/:pid/vote", voteHandler.VotePost)
		authorized.DELETE("/posts/:pid/vote", voteHandler.RetractPostVote)
		authorized.POST("/comments/:cid/vote", voteHandler.VoteComment)
		authorized.DELETE("/comments/:cid/vote", voteHandler.RetractCommentVote)
	}
}
