package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/doshub/portal-backend/internal/app"
	"github.com/doshub/portal-backend/internal/config"
	"github.com/doshub/portal-backend/internal/db"
	"github.com/doshub/portal-backend/internal/pkg/cache"
	"github.com/doshub/portal-backend/internal/pkg/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect DB
	var pool *pgxpool.Pool
	if cfg.DBDSN != "" {
		pool, err = db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to db")
		}
		defer pool.Close()
	}

	// Connect Redis
	var store cache.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "doshub:")
		if err := redisCache.Connect(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		store = redisCache
	}

	container := app.NewContainer(app.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		DBPool:         pool,
		Cache:          store,
		JWTSecret:      cfg.JWTSecret,
		JWTTTL:         cfg.JWTAccessTokenTTL,
		BcryptCost:     cfg.BcryptCost,
		RequestTimeout: cfg.RequestTimeout,
		ListCacheTTL:   cfg.ListCacheTTL,
	})

	// Bootstrap operator account
	if cfg.AdminEmail != "" {
		if err := container.OperatorService.EnsureOperator(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap operator")
		}
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited gracefully")
}
