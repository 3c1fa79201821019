package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository/sqlstore"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// InMemory opens a private database that lives as long as the connection
const InMemory = ":memory:"

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// NewDB opens the SQLite database at path and makes sure the partition tables exist
func NewDB(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}

	// SQLite allows a single writer; an in-memory database is also private to its connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := sqlstore.Migrate(ctx, db, sqlstore.SQLite); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{DB: db}, nil
}

// Partitions returns the type partitions stored in this database
func (db *DB) Partitions() map[domain.AssetType]domain.HoldingRepository {
	return sqlstore.NewPartitions(db.DB, sqlstore.SQLite)
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
