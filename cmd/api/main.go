package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"luxury-catalog/internal/cache"
	"luxury-catalog/internal/catalog"
	"luxury-catalog/internal/config"
	"luxury-catalog/internal/database"
	"luxury-catalog/internal/logging"
	"luxury-catalog/internal/middleware"
	"luxury-catalog/internal/routes"
)

func main() {
	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	importMode, err := catalog.ParseMode(cfg.ImportMode)
	if err != nil {
		slog.Error("invalid IMPORT_MODE", "error", err)
		os.Exit(1)
	}

	client := database.Connect(cfg.MongoURI)
	db := client.Database(cfg.MongoDB)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := routes.EnsureIndexes(ctx, db); err != nil {
		slog.Warn("could not ensure indexes", "error", err)
	}
	cancel()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.ErrorHandler(cfg.IsProduction()))

	store := cache.New(5 * time.Minute)
	routes.RegisterRoutes(router, db, store, importMode)

	slog.Info("🚀 Server running on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
	}
}
