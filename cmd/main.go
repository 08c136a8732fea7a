package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtside/tournament-service/config"
	"github.com/courtside/tournament-service/db"
	"github.com/courtside/tournament-service/handlers"
	"github.com/courtside/tournament-service/live"
	"github.com/courtside/tournament-service/repositories"
	api "github.com/courtside/tournament-service/routes"
	"github.com/courtside/tournament-service/services"
	"github.com/courtside/tournament-service/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewR2Uploader(storage.R2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("R2 uploader initialized")
	} else {
		logger.Warn("R2 storage not configured, logo upload disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("live hub started")

	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	rankingRepo := repositories.NewPostgresRankingRepository(dbConn)
	profileRepo := repositories.NewPostgresProfileRepository(dbConn)

	tournamentService := services.NewTournamentService(
		tournamentRepo,
		teamRepo,
		matchRepo,
		rankingRepo,
		profileRepo,
		uploader,
		hub,
		logger,
	)

	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	healthHandler := handlers.NewHealthHandler(dbConn, cfg.AuthServiceURL, cfg.TeamServiceURL)
	webSocketHandler := handlers.NewWebSocketHandler(hub)

	router := chi.NewRouter()
	api.SetupRoutes(router, api.Config{
		JWTSecret:   []byte(cfg.JWTSecretKey),
		CORSOrigins: cfg.CORSOrigins,
	}, tournamentHandler, healthHandler, webSocketHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
	}
	logger.Info("application exited")
}
