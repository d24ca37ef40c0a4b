package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"danceregistry/config"
	_ "danceregistry/docs"
	"danceregistry/internal/adapters/auth"
	"danceregistry/internal/adapters/email"
	delivery "danceregistry/internal/delivery/http"
	"danceregistry/internal/delivery/http/controllers"
	"danceregistry/internal/delivery/http/middleware"
	"danceregistry/internal/repository/postgres"
	"danceregistry/internal/services"
)

// @title Dance Registry API
// @version 1.0
// @description Event registration service with a public registration flow and an admin dashboard API.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}

	logger := config.NewLogger()
	slog.SetDefault(logger)

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	// Adapters
	jwtCodec := auth.NewJWTCodec(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(0)
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	// Services
	emailService := services.NewEmailService(mailer, renderer, cfg.DoorCode)
	authService, err := services.NewAuthService(
		cfg.AdminEmail, cfg.AdminPassword, cfg.AdminPasswordHash,
		hasher, jwtCodec, jwtCodec, cfg.JWTExpiry,
	)
	if err != nil {
		logger.Error("failed to create auth service", "err", err)
		os.Exit(1)
	}
	eventService := services.NewEventService(eventRepo)
	registrationService := services.NewRegistrationService(eventRepo, registrationRepo, emailService, logger)

	// Controllers and router
	authController := controllers.NewAuthController(logger, authService)
	eventController := controllers.NewEventController(logger, eventService)
	registrationController := controllers.NewRegistrationController(logger, registrationService)

	mux := delivery.NewRouter(cfg.Environment, jwtCodec, authController, eventController, registrationController)
	handler := middleware.CORS(cfg.AllowedOrigins, middleware.LoggingMiddleware(logger, mux))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
