package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/pawhaven/platform/config"
	"github.com/pawhaven/platform/internal/handler"
	"github.com/pawhaven/platform/internal/repository"
	"github.com/pawhaven/platform/internal/router"
	"github.com/pawhaven/platform/internal/service"
	"github.com/pawhaven/platform/pkg/database"
	"github.com/pawhaven/platform/pkg/logger"
	"github.com/pawhaven/platform/pkg/session"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config.App.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.SeedAdmin(db, database.AdminSeed{
		Username: config.Auth.AdminUsername,
		Email:    config.Auth.AdminEmail,
		Password: config.Auth.AdminPassword,
	}); err != nil {
		logger.GetLogger().Error("Failed to seed admin account", zap.Error(err))
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         config.RedisAddress(),
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		logger.GetLogger().Fatal("Failed to connect to session store", zap.Error(err))
	}
	cancel()
	logger.GetLogger().Info("Session store connected", zap.String("addr", config.RedisAddress()))

	sessionStore := session.NewStore(rdb, session.Options{
		CookieName: config.Session.CookieName,
		TTL:        config.Session.TTL,
		Secure:     config.Session.Secure,
	})

	// Repositories
	userRepo := repository.NewUserRepository(db)
	petRepo := repository.NewPetRepository(db)
	newsletterRepo := repository.NewNewsletterRepository(db)

	// Services
	authService, err := service.NewAuthService(
		userRepo,
		config.Auth.BcryptCost,
		config.Auth.RememberTokenTTL,
		config.Auth.CountryPrefix,
	)
	if err != nil {
		logger.GetLogger().Fatal("Failed to initialize auth service", zap.Error(err))
	}
	pageService := service.NewPageService(petRepo, userRepo, newsletterRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, pageService, config.Session.Secure)
	pageHandler := handler.NewPageHandler(pageService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	engine := router.NewRouter(
		authHandler,
		pageHandler,
		healthHandler,
		authService,
		sessionStore,
		config,
	).SetupRoutes()

	server := &http.Server{
		Addr:    ":" + config.App.Port,
		Handler: engine,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger().Error("Server shutdown failed", zap.Error(err))
	}
}
