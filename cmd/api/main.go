package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yxngashy/studietid/internal/config"
	"github.com/yxngashy/studietid/internal/database"
	"github.com/yxngashy/studietid/internal/handler"
	"github.com/yxngashy/studietid/internal/middleware"
	"github.com/yxngashy/studietid/internal/models"
	"github.com/yxngashy/studietid/internal/repository"
	"github.com/yxngashy/studietid/internal/router"
	"github.com/yxngashy/studietid/internal/service"
	storage "github.com/yxngashy/studietid/internal/session"
	"github.com/yxngashy/studietid/pkg/googleauth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Activity{}, &models.AuditEntry{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	sessionConfig := session.Config{
		KeyLookup:      "cookie:" + cfg.SessionCookieName,
		Expiration:     cfg.SessionTTL,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	}
	if redisClient != nil {
		sessionConfig.Storage = storage.NewRedisStorage(redisClient, "")
	}
	sessions := session.New(sessionConfig)

	var publisher service.ActivityPublisher = service.NoopActivityPublisher{}
	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
		publisher = service.NewNATSActivityPublisher(natsConn, cfg.NATSSubject, logger)
	}

	var googleClient *googleauth.Client
	if cfg.GoogleEnabled() {
		googleClient, err = googleauth.New(googleauth.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create google oauth client: %v", err)
		}
	} else {
		logger.Warn().Msg("google oauth is not configured; /auth/google is disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	audit := service.NewAuditRecorder(auditRepo, logger)
	userService := service.NewUserService(userRepo, validate, audit, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, logger)
	activityService := service.NewActivityService(activityRepo, publisher, logger)
	reportService := service.NewReportService(activityRepo, auditRepo, logger)

	authHandler := handler.NewAuthHandler(authService, googleClient, sessions, validate, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	adminHandler := handler.NewAdminHandler(reportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		ActivityHandler:    activityHandler,
		AdminHandler:       adminHandler,
		IdentityMiddleware: middleware.ResolveIdentity(sessions, userRepo, cfg.JWTSecret, logger),
		LoginLimiter:       middleware.RateLimit("login", 10, time.Minute),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, db)
}

func waitForShutdown(app *fiber.App, db *gorm.DB) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("server stopped")
}
