package app

import (
	"context"
	"fmt"

	"go-equipment-analytics/internal/config"
	"go-equipment-analytics/internal/pipeline"
	"go-equipment-analytics/internal/ports"
	"go-equipment-analytics/internal/storage"
	"go-equipment-analytics/internal/store"
	"go-equipment-analytics/pkg/logger"
)

// App holds the collaborators shared by the server and the operator CLI.
type App struct {
	Store     *store.Store
	Files     ports.FileStore
	Retention *pipeline.Retention
	Ingestor  *pipeline.Ingestor

	closers []func() error
}

// Open connects the database and artifact storage described by cfg.
func Open(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	st, err := store.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a := &App{Store: st, closers: []func() error{st.Close}}

	switch cfg.StorageBackend {
	case config.BackendGCS:
		g, err := storage.NewGCS(ctx, log, cfg.GCSBucket, cfg.GCSPrefix, cfg.GCSCredentialsFile)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Files = g
		a.closers = append(a.closers, g.Close)
	default:
		l, err := storage.NewLocal(cfg.StorageDir)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.Files = l
	}

	a.Retention = pipeline.NewRetention(st, a.Files, log, cfg.RetentionKeep)
	a.Ingestor = pipeline.NewIngestor(st, a.Files, a.Retention, log)
	log.Info("Application initialized",
		"database_driver", cfg.DatabaseDriver,
		"storage_backend", cfg.StorageBackend,
		"retention_keep", cfg.RetentionKeep,
	)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}
