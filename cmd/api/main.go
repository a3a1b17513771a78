package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"lms-resource-center/internal/api/routes"
	"lms-resource-center/internal/config"
	"lms-resource-center/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	if err := database.Initialize(cfg); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	routes.SetupRoutes(router)

	log.Printf("Resource center listening on :%s", cfg.Server.Port)
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
