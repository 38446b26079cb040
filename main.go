// kas-mit/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/tutor-digital/KAS-MIT/config"
	"github.com/tutor-digital/KAS-MIT/internal/handlers"
	"github.com/tutor-digital/KAS-MIT/internal/routes"
	"github.com/tutor-digital/KAS-MIT/models"

	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()
	config.ConnectDB()
	config.ConnectRedis()

	if err := config.DB.AutoMigrate(&models.Student{}, &models.Transaction{}); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Event hub for realtime transaction notifications.
	go handlers.GlobalHub.Run()

	r := gin.Default()
	routes.SetupRoutes(r)

	addr := config.ListenAddr()
	slog.Info("KAS MIT is listening", "addr", addr)
	if err := r.Run(addr); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
