package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// Dialect captures the few places where the supported SQL engines disagree
type Dialect struct {
	Name        string
	placeholder func(n int) string
}

var (
	// Postgres uses numbered placeholders ($1, $2, ...)
	Postgres = Dialect{Name: "postgres", placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}
	// SQLite uses anonymous placeholders (?)
	SQLite = Dialect{Name: "sqlite", placeholder: func(int) string { return "?" }}
)

// Placeholder returns the bind parameter marker for the n-th (1-based) argument
func (d Dialect) Placeholder(n int) string {
	return d.placeholder(n)
}

// TableNames maps every partition to its table
var TableNames = map[domain.AssetType]string{
	domain.AssetTypeStock:      "stocks",
	domain.AssetTypeBond:       "bonds",
	domain.AssetTypeETF:        "etfs",
	domain.AssetTypeMutualFund: "mutual_funds",
	domain.AssetTypeCrypto:     "cryptos",
	domain.AssetTypeRealEstate: "real_estates",
	domain.AssetTypeCash:       "cash_holdings",
}

// Decimals are stored as text so both engines round-trip them exactly.
// Timestamps are unix nanoseconds. The *_folded columns hold the lower-cased
// symbol and name used by search, since SQLite's LOWER() only folds ASCII.
const createTableTemplate = `
	CREATE TABLE IF NOT EXISTS %s (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		quantity TEXT NOT NULL,
		buy_price TEXT NOT NULL,
		purchase_date TEXT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL,
		symbol_folded TEXT NOT NULL DEFAULT '',
		name_folded TEXT NOT NULL DEFAULT ''
	)
`

var foldedColumns = []string{"symbol_folded", "name_folded"}

// Migrate creates the partition tables if they do not exist
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	for _, t := range domain.PartitionOrder {
		table := TableNames[t]
		if _, err := db.ExecContext(ctx, fmt.Sprintf(createTableTemplate, table)); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
		if err := addFoldedColumns(ctx, db, d, table); err != nil {
			return err
		}
	}
	return nil
}

// addFoldedColumns upgrades tables created before search columns existed
// and fills them for rows that were written without them.
func addFoldedColumns(ctx context.Context, db *sql.DB, d Dialect, table string) error {
	for _, col := range foldedColumns {
		rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE 1 = 0", col, table))
		if err == nil {
			rows.Close()
			continue
		}
		alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT NOT NULL DEFAULT ''", table, col)
		if _, err := db.ExecContext(ctx, alter); err != nil {
			return fmt.Errorf("failed to add column %s to %s: %w", col, table, err)
		}
	}
	return backfillFolded(ctx, db, d, table)
}

func backfillFolded(ctx context.Context, db *sql.DB, d Dialect, table string) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		"SELECT id, symbol, name FROM %s WHERE symbol_folded = '' OR name_folded = ''", table))
	if err != nil {
		return fmt.Errorf("failed to read %s for search backfill: %w", table, err)
	}
	type pending struct{ id, symbol, name string }
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.symbol, &p.name); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan %s for search backfill: %w", table, err)
		}
		todo = append(todo, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read %s for search backfill: %w", table, err)
	}

	update := fmt.Sprintf("UPDATE %s SET symbol_folded = %s, name_folded = %s WHERE id = %s",
		table, d.Placeholder(1), d.Placeholder(2), d.Placeholder(3))
	for _, p := range todo {
		if _, err := db.ExecContext(ctx, update, fold(p.symbol), fold(p.name), p.id); err != nil {
			return fmt.Errorf("failed to backfill search columns in %s: %w", table, err)
		}
	}
	return nil
}
