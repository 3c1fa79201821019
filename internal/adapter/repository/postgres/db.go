package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository/sqlstore"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection and makes sure the partition tables exist
// connectionString should be in the format: "host=localhost port=5432 user=postgres password=postgres dbname=portfolio sslmode=disable"
func NewDB(ctx context.Context, connectionString string) (*DB, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := sqlstore.Migrate(ctx, db, sqlstore.Postgres); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db}, nil
}

// Partitions returns the type partitions stored in this database
func (db *DB) Partitions() map[domain.AssetType]domain.HoldingRepository {
	return sqlstore.NewPartitions(db.DB, sqlstore.Postgres)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
