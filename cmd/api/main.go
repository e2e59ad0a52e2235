package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/andremq/user-accounts-backend/internal/adapter/handler"
	"github.com/andremq/user-accounts-backend/internal/adapter/repository/postgres"
	"github.com/andremq/user-accounts-backend/internal/infrastructure/auth"
	"github.com/andremq/user-accounts-backend/internal/infrastructure/config"
	"github.com/andremq/user-accounts-backend/internal/infrastructure/database"
	"github.com/andremq/user-accounts-backend/internal/infrastructure/observability"
	"github.com/andremq/user-accounts-backend/internal/infrastructure/server"
	"github.com/andremq/user-accounts-backend/internal/pkg/validation"
	userUC "github.com/andremq/user-accounts-backend/internal/usecase/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := validation.RegisterPasswordRule(); err != nil {
		logger.Fatal("failed to register validation rules", zap.Error(err))
	}

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	// Repositories
	userRepo := postgres.NewUserRepo(pool, logger)

	// Infrastructure services
	passwordHasher := auth.NewPasswordHasher(12)

	// Use cases
	userSvc := userUC.NewService(userRepo, passwordHasher)

	// Handlers
	userHandler := handler.NewUserHandler(userSvc)

	// Router
	router := server.NewRouter(server.RouterConfig{
		UserHandler: userHandler,
		Logger:      logger,
		Environment: cfg.Server.Environment,
	})

	// Server
	srv := server.NewServer(server.ServerConfig{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Handler:      router.Engine(),
		Logger:       logger,
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("server stopped")
}
