package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/scoreboard-service/internal/config"
	"github.com/preston-bernstein/scoreboard-service/internal/logging"
	"github.com/preston-bernstein/scoreboard-service/internal/storage"
)

// openStore builds the durable store named by cfg.Driver.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storage.DurableStore, error) {
	logging.Info(logger, "opening durable store", logging.FieldDriver, cfg.Driver)
	switch cfg.Driver {
	case config.DriverMemory, "":
		return storage.NewMemoryStore(), nil
	case config.DriverFS:
		return storage.NewFSStore(cfg.DataDir)
	case config.DriverSQLite:
		return storage.OpenSQLite(ctx, cfg.SQLitePath, logger)
	case config.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("storage driver %s requires DATABASE_URL", cfg.Driver)
		}
		return storage.OpenPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// pinger is implemented by stores backed by a database connection.
type pinger interface {
	Ping(ctx context.Context) error
}
