package http

import (
	"github.com/gin-gonic/gin"

	"github.com/AlvinMun/bestbeforeai/config"
	"github.com/AlvinMun/bestbeforeai/internal/usecase"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, auth *usecase.AuthService) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = multipartMemory(cfg.OCR.MaxUploadBytes)

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/register", handler.Register)
		authRoutes.POST("/login", handler.Login)
		authRoutes.GET("/me", AuthMiddleware(auth), handler.Me)
	}

	protected := router.Group("/", AuthMiddleware(auth))
	{
		items := protected.Group("/items")
		{
			items.GET("", handler.ListItems)
			items.POST("", handler.CreateItem)
			items.PUT("/:id", handler.UpdateItem)
			items.DELETE("/:id", handler.DeleteItem)
			items.PATCH("/:id/favorite", handler.SetFavorite)
		}

		ocr := protected.Group("/ocr")
		{
			ocr.POST("", handler.ScanImage)
			ocr.POST("/add-item", handler.AddScannedItem)
		}
	}

	return router
}

func multipartMemory(maxUpload int64) int64 {
	if maxUpload <= 0 {
		return 32 << 20
	}
	return maxUpload + 1<<20
}
