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

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logging"
	"yamdb/internal/mailer"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/router"
	"yamdb/internal/microservices/http-api/service"
)

const (
	codeCleanupInterval = time.Hour
	shutdownTimeout     = 10 * time.Second
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenGorm(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	limiter, closeLimiter := newLimiter(ctx, cfg, logger)
	defer closeLimiter()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	codeRepo := repository.NewConfirmationCodeRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	titleRepo := repository.NewTitleRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, codeRepo, mailer.New(cfg, logger), cfg, logger)

	r := router.New(router.Deps{
		Config:     cfg,
		Log:        logger,
		DB:         sqlDB,
		Limiter:    limiter,
		Auth:       authService,
		Users:      service.NewUserService(userRepo, cfg.Limits),
		Categories: service.NewCategoryService(categoryRepo, cfg.Limits),
		Genres:     service.NewGenreService(genreRepo, cfg.Limits),
		Titles:     service.NewTitleService(titleRepo, categoryRepo, genreRepo, cfg.Limits),
		Reviews:    service.NewReviewService(reviewRepo, titleRepo),
		Comments:   service.NewCommentService(commentRepo, reviewRepo),
	})

	go cleanupCodes(ctx, codeRepo, logger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting http server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logger.Info("server stopped gracefully")
	return nil
}

// newLimiter prefers the shared Redis window and falls back to a per-process
// limiter when Redis is not configured or not reachable.
func newLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (middleware.Limiter, func()) {
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedis(ctx, cfg, logger)
		if err == nil {
			return middleware.NewRedisLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow), func() { rdb.Close() }
		}
		logger.Warn("Redis unavailable, using in-process rate limiter", "error", err)
	}

	local := middleware.NewLocalLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				local.Cleanup(10000)
			}
		}
	}()
	return local, func() {}
}

// cleanupCodes periodically drops confirmation codes past their expiry.
func cleanupCodes(ctx context.Context, codes repository.ConfirmationCodeRepository, logger *slog.Logger) {
	ticker := time.NewTicker(codeCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := codes.DeleteExpired(ctx, time.Now())
			if err != nil {
				logger.Warn("confirmation code cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("expired confirmation codes removed", "count", n)
			}
		}
	}
}
