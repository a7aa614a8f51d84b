package main

import (
	"context"
	"log"

	"procurement/cmd"
	"procurement/internal/config"
	"procurement/internal/core/container"
	"procurement/internal/core/logger"
	"procurement/internal/core/routes"
	"procurement/internal/database"
	"procurement/internal/middleware"
	"procurement/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Execute migration CMD
	cmd.Execute(ctx)
}

func main() {
	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.Database.URL == "" {
		zapLogger.Fatal("DATABASE_URL is not set")
	}
	if cfg.JWT.Secret == "" {
		zapLogger.Fatal("JWT_SECRET is not set")
	}

	security.Init(cfg.JWT.Secret)
	middleware.SetVersion(version)

	db, err := database.NewPostgresConnection(cfg.Database.URL)
	if err != nil {
		zapLogger.Fatal("failed to connect to the database", zap.Error(err))
	}
	defer db.Close()

	zapLogger.Info("connected to the database")

	appContainer := container.NewAppContainer(db, cfg, zapLogger)

	if err := appContainer.LowStockChecker.Start(cfg.LowStock.Hour); err != nil {
		zapLogger.Fatal("failed to start low stock checker", zap.Error(err))
	}
	defer appContainer.LowStockChecker.Stop()

	router := gin.New()
	router.Use(
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(zapLogger),
		middleware.CORSMiddleware(cfg.Server.CORSOrigins),
	)

	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)
	routes.RegisterUtilityRoutes(router)

	zapLogger.Info("starting server", zap.String("addr", cfg.Server.Host))
	if err := router.Run(cfg.Server.Host); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
