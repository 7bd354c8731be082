package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simaogato/taskconnect-backend/internal/adapter/repository/memory"
	"github.com/simaogato/taskconnect-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/taskconnect-backend/internal/app"
	"github.com/simaogato/taskconnect-backend/internal/config"
	"github.com/simaogato/taskconnect-backend/internal/logger"
)

// runtime is the loaded configuration plus the resources every command needs.
type runtime struct {
	cfg     *config.Config
	log     *slog.Logger
	closers []func() error
}

func newRuntime() (*runtime, error) {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(log)
	return &runtime{cfg: cfg, log: log, closers: []func() error{closeLog}}, nil
}

func (rt *runtime) onClose(fn func() error) {
	rt.closers = append(rt.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (rt *runtime) Close() {
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			rt.log.Warn("failed to release resource", "error", err)
		}
	}
}

// openPostgres connects and brings the schema up to date.
func (rt *runtime) openPostgres(ctx context.Context) (*postgres.DB, error) {
	db, err := postgres.NewDB(ctx, rt.cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	rt.onClose(db.Close)

	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

// repositories opens the configured storage driver.
func (rt *runtime) repositories(ctx context.Context) (app.Repositories, error) {
	switch rt.cfg.Storage.Driver {
	case "postgres":
		db, err := rt.openPostgres(ctx)
		if err != nil {
			return app.Repositories{}, err
		}
		return app.PostgresRepositories(db), nil
	default:
		rt.log.Warn("using in-memory storage, data is lost on exit")
		return app.MemoryRepositories(memory.NewStore()), nil
	}
}
