package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/diewo77/go-salesagent/internal/backend"
	"github.com/diewo77/go-salesagent/internal/config"
	"github.com/diewo77/go-salesagent/internal/db"
	"github.com/diewo77/go-salesagent/internal/kv"
	"github.com/diewo77/go-salesagent/internal/policy"
	"github.com/diewo77/go-salesagent/internal/services"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Load configuration from environment
	cfg := config.Load()

	logger, err := newLogger(cfg.App.Dev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	dbConn, err := db.Connect(cfg.Store, logger.Named("db"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	if *migrateOnlyFlag {
		logger.Info("migrations completed")
		return
	}

	loc, err := cfg.Business.Location()
	if err != nil {
		logger.Fatal("invalid business timezone", zap.Error(err))
	}

	api := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, logger.Named("backend"))
	session := services.NewAgentSession(kv.NewGormStore(dbConn), api,
		services.OptionsFromConfig(cfg, loc, logger.Named("session")))
	defer session.Close()

	routerCfg := policy.NewRouterConfig(session, logger)
	appHandler := NewApp(routerCfg, cfg.App.Lang, logger)

	// Create server with config timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(appHandler, logger),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.Bool("dev", cfg.App.Dev),
			zap.String("backend", cfg.Backend.BaseURL),
			zap.String("timezone", cfg.Business.Timezone))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}
	logger.Info("server stopped gracefully")
}

func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}
