package routes

import (
	"timebridge_backend/internal/handlers"
	"timebridge_backend/internal/middleware"
	"timebridge_backend/internal/repositories"
	"timebridge_backend/internal/session"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP-маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	sessions *session.Manager,
	userRepo repositories.UserRepository,
	staticDir string,
) {
	// Локальное хранилище изображений раздаем как /static
	if staticDir != "" {
		ginRouter.Static("/static", staticDir)
	}

	requireAuth := middleware.AuthMiddleware(sessions, userRepo)
	optionalAuth := middleware.OptionalAuthMiddleware(sessions, userRepo)

	api := ginRouter.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", appHandlers.UserHandler.Register)
			auth.POST("/login", appHandlers.UserHandler.Login)
			auth.POST("/logout", requireAuth, appHandlers.UserHandler.Logout)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("/me", appHandlers.UserHandler.Profile)
			users.DELETE("/me", appHandlers.UserHandler.DeleteAccount)
			users.GET("/me/posts", appHandlers.PostHandler.MyPosts)
		}

		posts := api.Group("/posts")
		{
			posts.GET("/missing", appHandlers.PostHandler.SearchMissing)
			posts.GET("/family", appHandlers.PostHandler.SearchFamily)
			posts.POST("", requireAuth, appHandlers.PostHandler.Create)
			posts.GET("/:id", optionalAuth, appHandlers.PostHandler.Detail)
			posts.PUT("/:id", requireAuth, appHandlers.PostHandler.Update)
			posts.DELETE("/:id", requireAuth, appHandlers.PostHandler.Delete)

			posts.GET("/:id/similar", optionalAuth, appHandlers.SimilarityHandler.Similar)
			posts.POST("/similar-by-attributes", optionalAuth, appHandlers.SimilarityHandler.SimilarByAttributes)

			posts.POST("/aging-preview", appHandlers.PostHandler.AgingPreview)
			posts.POST("/:id/aging", requireAuth, appHandlers.PostHandler.RegenerateAging)
			posts.POST("/:id/contact", requireAuth, appHandlers.UserHandler.ContactOwner)
		}

		admin := api.Group("/admin", requireAuth, middleware.AdminMiddleware())
		{
			admin.GET("/posts/pending", appHandlers.AdminHandler.Pending)
			admin.PUT("/posts/:id/moderation", appHandlers.AdminHandler.Moderate)
		}
	}
}
