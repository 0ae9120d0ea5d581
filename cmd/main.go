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

	"github.com/Dosada05/club-system/cache"
	"github.com/Dosada05/club-system/config"
	"github.com/Dosada05/club-system/db"
	"github.com/Dosada05/club-system/handlers"
	"github.com/Dosada05/club-system/models"
	"github.com/Dosada05/club-system/realtime"
	"github.com/Dosada05/club-system/repositories"
	api "github.com/Dosada05/club-system/routes"
	"github.com/Dosada05/club-system/services"
	"github.com/Dosada05/club-system/stats"
	"github.com/Dosada05/club-system/storage"
	"github.com/go-chi/chi/v5"
)

// How often the staleness scheduler checks the caches.
const refreshCheckInterval = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

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

	uploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2Config{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	hub := realtime.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	memberRepo := repositories.NewPostgresMemberRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	logger.Info("repositories initialized")

	policy := cache.Policy{
		MemberMaxAge: cfg.MemberCacheMaxAge,
		MatchMaxAge:  cfg.MatchCacheMaxAge,
	}

	matchesCache := cache.NewEntityCache(func(m models.Match) int { return m.ID })
	matchIndex := stats.NewMatchCountIndex(matchesCache)

	rosterService := services.NewRosterService(memberRepo, policy, uploader, hub, logger)
	matchService := services.NewMatchService(matchRepo, matchIndex, rosterService, policy, hub, logger)
	tournamentService := services.NewTournamentService(tournamentRepo, rosterService, hub, logger)
	logger.Info("services initialized")

	// Warm the roster at startup and keep it fresh even when no requests
	// arrive. The matches cache loads lazily on first use.
	go func() {
		ticker := time.NewTicker(refreshCheckInterval)
		defer ticker.Stop()

		refresh := func() {
			if err := rosterService.Refresh(context.Background()); err != nil {
				logger.Error("scheduled roster refresh failed", slog.Any("error", err))
			}
		}
		refresh()
		for range ticker.C {
			refresh()
		}
	}()

	memberHandler := handlers.NewMemberHandler(rosterService)
	matchHandler := handlers.NewMatchHandler(matchService)
	statsHandler := handlers.NewStatsHandler(matchService)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, logger)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		memberHandler,
		matchHandler,
		statsHandler,
		tournamentHandler,
		webSocketHandler,
	)
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
		logger.Info("server stopped gracefully")
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
		logger.Info("server shut down gracefully")
	}
}
