package routes

import (
	"quotes-backend/internal/config"
	"quotes-backend/internal/handlers"
	"quotes-backend/internal/middleware"
	"quotes-backend/internal/services"
	"quotes-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, store storage.Storage, cfg *config.Config) *gin.Engine {
	router := gin.New()

	router.Use(middleware.LoggerMiddleware())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(60))

	// 本地存储的图片走静态路由
	if cfg.Upload.Driver == "" || cfg.Upload.Driver == "local" {
		router.Static("/uploads", cfg.Upload.Path)
	}

	authService := services.NewAuthService(db)
	quoteService := services.NewQuoteService(db, store)
	topicService := services.NewTopicService(db)

	authHandler := handlers.NewAuthHandler(authService, cfg)
	quoteHandler := handlers.NewQuoteHandler(quoteService, cfg)
	topicHandler := handlers.NewTopicHandler(topicService)

	api := router.Group("/api")

	public := api.Group("")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(db, cfg))
	{
		user := protected.Group("/auth")
		{
			user.GET("/me", authHandler.GetMe)
			user.POST("/logout", authHandler.Logout)
		}

		quotes := protected.Group("/quotes")
		{
			quotes.GET("", quoteHandler.GetQuotes)
			quotes.POST("", quoteHandler.CreateQuote)
			quotes.GET("/inbox", quoteHandler.GetInbox)
			quotes.GET("/random", quoteHandler.GetRandomQuote)
			quotes.GET("/stats", quoteHandler.GetUserStats)

			quotes.POST("/:id/favorite", quoteHandler.ToggleFavorite)

			quotes.GET("/:id", quoteHandler.GetQuote)
			quotes.PUT("/:id", quoteHandler.UpdateQuote)
			quotes.DELETE("/:id", quoteHandler.DeleteQuote)
		}

		topics := protected.Group("/topics")
		{
			topics.GET("", topicHandler.GetTopics)
			topics.POST("", topicHandler.CreateTopic)
			topics.PUT("/:id", topicHandler.UpdateTopic)
			topics.DELETE("/:id", topicHandler.DeleteTopic)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "服务运行正常",
		})
	})

	return router
}
