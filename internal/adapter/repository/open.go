// Package repository selects the persistent store backing the holding partitions.
package repository

import (
	"context"
	"fmt"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository/memory"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository/postgres"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository/sqlite"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/config"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// Partitions is one repository per asset type
type Partitions map[domain.AssetType]domain.HoldingRepository

// Open connects to the store named by cfg.Driver. The returned close
// function releases the connection and is never nil.
func Open(ctx context.Context, cfg config.StorageConfig) (Partitions, func() error, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewPartitions(), func() error { return nil }, nil

	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return db.Partitions(), db.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.NewDB(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database %s: %w", cfg.SQLitePath, err)
		}
		return db.Partitions(), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
