package main

import (
	"github.com/gin-gonic/gin"
	"github.com/thereayou/anonchat/internal/handlers"
	"github.com/thereayou/anonchat/internal/middleware"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Chat   *handlers.ChatHandler
	Room   *handlers.RoomHandler
	User   *handlers.UserHandler
	Health *handlers.HealthHandler
}

func APIEndpoints(r *gin.Engine, h Handlers, verifier middleware.TokenVerifier) {
	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.GET("/info", h.Health.Info)

	requireSession := middleware.AuthMiddleware(verifier)

	// Auth endpoints
	auth := api.Group("/auth")
	{
		auth.POST("/anonymous", h.Auth.AnonymousLogin)
		auth.GET("/verify", requireSession, h.Auth.Verify)
	}

	chat := api.Group("/chat", requireSession)
	{
		chat.POST("/send", h.Chat.Send)
		chat.GET("/list", h.Chat.List)
	}

	users := api.Group("/users", requireSession)
	{
		users.GET("/me", h.User.GetMe)
		users.GET("/:id", h.User.GetUser)
	}

	rooms := api.Group("/rooms", requireSession)
	{
		rooms.POST("", h.Room.CreateRoom)
		rooms.GET("", h.Room.SearchRooms)
		rooms.GET("/:id", h.Room.GetRoom)
		rooms.POST("/:id/join", h.Room.JoinRoom)
		rooms.POST("/:id/leave", h.Room.LeaveRoom)
		rooms.GET("/:id/members", h.Room.GetRoomMembers)
	}
}
