// Package main wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventbooking/config"
	_ "eventbooking/docs"
	"eventbooking/internal/adapters/auth"
	"eventbooking/internal/adapters/email"
	"eventbooking/internal/adapters/images"
	delivery "eventbooking/internal/delivery/http"
	"eventbooking/internal/delivery/http/controllers"
	"eventbooking/internal/delivery/http/middleware"
	"eventbooking/internal/repository/postgres"
	"eventbooking/internal/services"
)

const (
	bcryptCost     = 10
	serviceTimeout = 10 * time.Second
)

// @title Event Booking API
// @version 1.0
// @description Event booking backend: events, seat availability, attendee rosters, organizer auth.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger()

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// The pool bounds concurrent in-flight store operations; requests beyond
	// pool capacity queue on a connection rather than fail.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}
	logger.Info("connected to postgres")

	eventRepo := postgres.NewEventRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	userRepo := postgres.NewUserRepository(db)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret)
	hasher := auth.NewBcryptHasher(bcryptCost)

	imageStore, err := images.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Error("init image store", "err", err)
		os.Exit(1)
	}
	mailer, err := email.NewMailer(cfg.Mailer)
	if err != nil {
		logger.Error("init mailer", "err", err)
		os.Exit(1)
	}
	renderer := email.NewTemplateRenderer()

	eventService := services.NewEventService(eventRepo, bookingRepo, mailer, renderer, cfg.RequireOrganizerRole, serviceTimeout)
	authService := services.NewAuthService(userRepo, hasher, jwtManager, cfg.JWTExpiry)

	eventController := controllers.NewEventController(logger, eventService, imageStore)
	authController := controllers.NewAuthController(logger, authService)

	mux := delivery.NewRouter(eventController, authController, jwtManager, cfg.UploadDir)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))

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
