package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pig-parade/internal/config"
	"pig-parade/internal/db"
	"pig-parade/internal/geo"
	"pig-parade/internal/server"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	if err := config.LoadDotEnv(".env"); err != nil {
		sugar.Warnw("failed to load .env", "error", err)
	}
	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		sugar.Fatalw("failed to open database", "error", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second)
	}
	if err := db.Migrate(conn); err != nil {
		sugar.Fatalw("database migration failed", "error", err)
	}

	resolver, err := geo.Open(cfg.GeoDBPath)
	if err != nil {
		sugar.Warnw("geo database unavailable, origins will be unknown", "path", cfg.GeoDBPath, "error", err)
		resolver, _ = geo.Open("")
	}
	defer func() { _ = resolver.Close() }()

	srv := server.New(conn, cfg, resolver, sugar)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		sugar.Infow("pig-parade server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("shutdown failed", "error", err)
	}
	if sqlDB, err := conn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
