package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"missionmatch/backend/internal/apperrors"
	"missionmatch/backend/internal/auth"
	"missionmatch/backend/internal/store"
)

type RouterConfig struct {
	JWTSecret string
	// Users backs the admin role check.
	Users store.UserRepository
}

// NewRouter builds the gin engine with every route.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	apperrors.UseJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	requireAuth := auth.AuthMiddleware(cfg.JWTSecret)
	optionalAuth := auth.OptionalAuthMiddleware(cfg.JWTSecret)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/profiles", h.Signup)

		// Public reads; a valid token still fills current_user_vote
		public := apiV1.Group("")
		public.Use(optionalAuth)
		{
			public.GET("/profiles/:id", h.GetProfile)
			public.GET("/tags", h.GetTags)
		}

		// Profile routes (protected)
		profiles := apiV1.Group("/profiles")
		profiles.Use(requireAuth)
		{
			profiles.GET("/search", h.SearchProfiles)
			profiles.GET("/match", h.MatchProfiles)
			profiles.GET("/me", h.GetMyProfile)
			profiles.PUT("/me", h.UpdateMyProfile)
			profiles.DELETE("/me", h.DeleteMyProfile)
			profiles.POST("/tags/add", h.AddProfileTag)
			profiles.POST("/tags/remove", h.RemoveProfileTag)
			profiles.POST("/:id/vote", h.VoteProfile)
			profiles.DELETE("/:id/vote", h.RetractVote)
			profiles.POST("/:id/comments", h.CommentProfile)
		}

		comments := apiV1.Group("/comments")
		comments.Use(requireAuth)
		{
			comments.PUT("/:id", h.UpdateComment)
			comments.DELETE("/:id", h.DeleteComment)
		}

		tags := apiV1.Group("/tags")
		tags.Use(requireAuth)
		{
			tags.POST("", h.CreateTag)
		}

		friendships := apiV1.Group("/friendships")
		friendships.Use(requireAuth)
		{
			friendships.GET("", h.GetFriendships)
			friendships.POST("", h.SendFriendRequest)
			friendships.POST("/:id/respond", h.RespondFriendRequest)
		}

		notifications := apiV1.Group("/notifications")
		notifications.Use(requireAuth)
		{
			notifications.GET("", h.GetNotifications)
			notifications.GET("/unread-count", h.GetUnreadCount)
			notifications.GET("/stream", h.StreamNotifications)
			notifications.POST("/read-all", h.MarkAllNotificationsRead)
			notifications.POST("/:id/read", h.MarkNotificationRead)
			notifications.DELETE("/:id", h.DeleteNotification)
		}

		history := apiV1.Group("/search/history")
		history.Use(requireAuth)
		{
			history.GET("", h.GetSearchHistory)
			history.DELETE("", h.ClearSearchHistory)
		}

		media := apiV1.Group("/media")
		media.Use(requireAuth)
		{
			media.GET("", h.GetMedia)
			media.POST("", h.AddMedia)
			media.DELETE("/:id", h.DeleteMedia)
		}

		// Admin routes (protected by auth and admin check)
		admin := apiV1.Group("/admin")
		admin.Use(requireAuth, auth.AdminMiddleware(cfg.Users))
		{
			admin.PUT("/tags/:id", h.UpdateTag)
			admin.DELETE("/tags/:id", h.DeleteTag)
		}
	}

	return router
}
