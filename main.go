package main

import (
	"log/slog"
	"os"
	"time"

	"nirmaan-backend/config"
	"nirmaan-backend/internal/handlers"
	"nirmaan-backend/internal/routes"
	"nirmaan-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	config.LoadConfig()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectPO{},
		&models.Invoice{},
		&models.InvoicePayment{},
		&models.ProjectBalance{},
		&models.AuditLog{},
	); err != nil {
		slog.Error("Database migration failed", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(config.StagingDir, 0o755); err != nil {
		slog.Error("Failed to create upload directories", "error", err)
		os.Exit(1)
	}
	handlers.StartStagingSweeper(time.Hour, 24*time.Hour)

	r := gin.Default()
	routes.RegisterAPIRoutes(r)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := r.Run(":" + port); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
