// @title Equipment Analytics API
// @version 1.0
// @description Upload equipment CSV files, read their summary analytics, previews, PDF reports and charts.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-equipment-analytics/internal/api"
	"go-equipment-analytics/internal/api/handler"
	"go-equipment-analytics/internal/app"
	"go-equipment-analytics/internal/auth"
	"go-equipment-analytics/internal/config"
	"go-equipment-analytics/pkg/logger"
	"go-equipment-analytics/pkg/router"
)

func main() {
	cfgFile := flag.String("config", "", "config file (default ./equipment.yaml)")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn("Using the development JWT secret; set EQUIPMENT_JWT_SECRET in production")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init DB and storage
	a, err := app.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", "error", err)
	}
	defer a.Close()

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL())
	if err != nil {
		log.Fatal("Failed to create token issuer", "error", err)
	}

	h := handler.New(handler.Options{
		Log:                 log,
		Datasets:            a.Store,
		Users:               a.Store,
		Files:               a.Files,
		Ingestor:            a.Ingestor,
		Tokens:              tokens,
		MaxUploadBytes:      cfg.MaxUploadBytes(),
		PreviewDefaultLimit: cfg.PreviewDefaultLimit,
	})

	// Create router and register API routes
	r := router.New(log)
	api.RegisterRoutes(r, h, tokens)

	errCh := make(chan error, 1)
	go func() { errCh <- r.Start(cfg.HTTPAddr) }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped", "error", err)
		}
	case <-ctx.Done():
		log.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
		defer cancel()
		if err := r.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", "error", err)
		}
	}
}
