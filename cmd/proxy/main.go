package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ShinaSIT/Helix-Telebot/internal/api"
	"github.com/ShinaSIT/Helix-Telebot/internal/config"
	"github.com/ShinaSIT/Helix-Telebot/internal/database"
	"github.com/ShinaSIT/Helix-Telebot/internal/logger"
	"github.com/ShinaSIT/Helix-Telebot/internal/middleware"
	"github.com/ShinaSIT/Helix-Telebot/internal/repository"
	"github.com/ShinaSIT/Helix-Telebot/internal/scheduler"
	"github.com/ShinaSIT/Helix-Telebot/internal/services"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Logger.Warnf("Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Logger.Fatal("Failed to load configuration: ", err)
	}

	// Initialize database connection
	db, err := database.InitDB()
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database: ", err)
	}

	// The cache is an optimization; quota correctness never depends on it
	var cache services.CacheService
	redisCache, err := services.NewRedisCacheService(config.NewCacheConfig())
	if err != nil {
		logger.Logger.Warnf("Redis unavailable, running without cache: %v", err)
	} else {
		cache = redisCache
	}

	// Initialize repositories
	usageRepo := repository.NewUsageRepository(db)
	documentRepo := repository.NewDocumentRepository()
	requestLogRepo := repository.NewRequestLogRepository(db)

	// Initialize services
	quotaService := services.NewQuotaService(db, usageRepo, cache, cfg.DailyCap, cfg.Location)
	readService := services.NewReadService(db, documentRepo, quotaService)
	authService := services.NewAuthService(cfg.JWTSecret)
	requestLogService := services.NewRequestLogService(requestLogRepo)

	resetScheduler := scheduler.NewResetScheduler(quotaService, cache)
	resetScheduler.Start(context.Background())
	defer resetScheduler.Stop()

	router := api.SetupRoutes(api.RouterDeps{
		DB:                db,
		ReadService:       readService,
		QuotaService:      quotaService,
		AuthService:       authService,
		RequestLogService: requestLogService,
		Cache:             cache,
		ProxySecret:       cfg.ProxySecret,
	})

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			middleware.SecretHeader,
		},
		MaxAge: 300,
	})

	// Create server with timeouts
	srv := &http.Server{
		Handler:      corsMiddleware.Handler(router),
		Addr:         ":" + cfg.Port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	go func() {
		logger.Logger.WithFields(logrus.Fields{
			"port":      cfg.Port,
			"daily_cap": cfg.DailyCap,
			"timezone":  cfg.Location.String(),
		}).Info("Read proxy starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed: ", err)
		}
	}()

	// Shut down gracefully on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error("Server shutdown error: ", err)
	}
}
