package routes

import (
	"lms-resource-center/internal/api/handlers"
	"lms-resource-center/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(router *gin.Engine) {
	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	protected := v1.Group("/")
	protected.Use(middleware.JWTAuth())
	{
		resources := protected.Group("/resources")
		{
			resources.GET("", handlers.ListResources)
			resources.POST("", handlers.CreateResource)
			resources.POST("/upload", handlers.UploadResource)
			resources.GET("/:id", handlers.GetResource)
			resources.GET("/:id/file", handlers.ServeResourceFile)
			resources.PATCH("/:id/move", handlers.MoveResource)
			resources.PATCH("/:id/pin", handlers.PinResource)
			resources.PATCH("/:id/view", handlers.MarkViewed)
			resources.DELETE("/:id", handlers.DeleteResource)
			resources.POST("/bulk-pin", handlers.BulkPin)
			resources.POST("/bulk-delete", handlers.BulkDelete)
			resources.POST("/bulk-download", handlers.BulkDownload)
		}

		export := protected.Group("/export")
		{
			export.GET("/csv", handlers.ExportCSV)
			export.GET("/json", handlers.ExportJSON)
		}

		protected.GET("/events", handlers.Events)
	}
}
