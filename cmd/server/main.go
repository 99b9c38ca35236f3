package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bidouilles/multimaster/internal/api"
	"github.com/bidouilles/multimaster/internal/config"
	"github.com/bidouilles/multimaster/internal/db"
	"github.com/bidouilles/multimaster/internal/jobs"
	"github.com/bidouilles/multimaster/internal/logger"
	"github.com/bidouilles/multimaster/internal/repository/sqlite"
	"github.com/bidouilles/multimaster/internal/services"
	"github.com/bidouilles/multimaster/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("MultiMaster Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("stats_worker_count=%d", cfg.StatsWorkerCount)
	log.Debug("stats_queue_size=%d", cfg.StatsQueueSize)
	log.Debug("classic_question_count=%d", cfg.ClassicQuestionCount)
	log.Debug("time_attack_seconds=%d", cfg.TimeAttackSeconds)
	log.Debug("leaderboard_limit=%d", cfg.LeaderboardLimit)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	userRepo := sqlite.NewUserRepository(database.DB)
	profileRepo := sqlite.NewProfileRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)

	// Initialize worker pool and background jobs
	statsPool := worker.NewPool(cfg.StatsWorkerCount, cfg.StatsQueueSize)
	statsQueue := jobs.NewWorkerQueue(statsPool, sessionRepo, userRepo)

	// Initialize services
	userService := services.NewUserService(userRepo)
	difficultyService := services.NewDifficultyService(profileRepo)
	statsService := services.NewStatsService(sessionRepo, statsQueue)
	quizService := services.NewQuizService(difficultyService, statsService, cfg.ClassicQuestionCount, cfg.TimeAttackSeconds)

	srv := &api.Server{
		UserService:           userService,
		DifficultyService:     difficultyService,
		StatsService:          statsService,
		QuizService:           quizService,
		LeaderboardLimit:      cfg.LeaderboardLimit,
		RecentSessionsDefault: cfg.RecentSessionsDefault,
	}

	ctx, cancel := context.WithCancel(context.Background())
	statsPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping background workers")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Stop active quizzes and wait for workers to finish
	log.Debug("stopping quiz timers")
	quizService.Shutdown()
	log.Debug("stopping stats pool")
	statsPool.Stop()

	log.Info("===========================================")
	log.Info("MultiMaster Server Stopped")
	log.Info("===========================================")
}
