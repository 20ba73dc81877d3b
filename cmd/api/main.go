package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"erasmus33/internal/app"
	"erasmus33/internal/config"
	"erasmus33/internal/database"
	"erasmus33/internal/pkg/logger"
	"erasmus33/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat, "erasmus33-api")
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, zlog.Named("db"))
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	if err := app.Migrate(db); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	ctx := context.Background()
	driver, err := storage.New(ctx, cfg.Storage, zlog.Named("storage"))
	if err != nil {
		zlog.Fatal("storage init failed", zap.Error(err))
	}

	server := app.New(cfg, db, driver, zlog)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           server.Router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv), zap.String("storage", cfg.Storage.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zlog.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	// Shutdown does not close hijacked websocket connections.
	server.Events.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("forced shutdown", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	zlog.Info("server stopped")
}
