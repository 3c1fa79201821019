package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

const dateLayout = "2006-01-02"

const selectColumns = "id, symbol, name, asset_type, quantity, buy_price, purchase_date, created_at, updated_at"

// holdingRepository implements domain.HoldingRepository over one partition table
type holdingRepository struct {
	db        *sql.DB
	assetType domain.AssetType
	table     string

	findAllQuery  string
	findByIDQuery string
	saveQuery     string
	deleteQuery   string
	symbolQuery   string
	nameQuery     string
}

var _ domain.HoldingRepository = (*holdingRepository)(nil)

// NewHoldingRepository creates the repository of the partition holding assetType
func NewHoldingRepository(db *sql.DB, dialect Dialect, assetType domain.AssetType) domain.HoldingRepository {
	table := TableNames[assetType]
	p := dialect.Placeholder

	return &holdingRepository{
		db:        db,
		assetType: assetType,
		table:     table,

		findAllQuery: fmt.Sprintf(`SELECT %s FROM %s ORDER BY created_at, id`, selectColumns, table),
		findByIDQuery: fmt.Sprintf(`SELECT %s FROM %s WHERE id = %s`,
			selectColumns, table, p(1)),
		saveQuery: fmt.Sprintf(`
			INSERT INTO %s (id, symbol, name, asset_type, quantity, buy_price, purchase_date, created_at, updated_at, symbol_folded, name_folded)
			VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
			ON CONFLICT (id) DO UPDATE SET
				symbol = excluded.symbol,
				name = excluded.name,
				symbol_folded = excluded.symbol_folded,
				name_folded = excluded.name_folded,
				quantity = excluded.quantity,
				buy_price = excluded.buy_price,
				purchase_date = excluded.purchase_date,
				updated_at = excluded.updated_at
		`, table, p(1), p(2), p(3), p(4), p(5), p(6), p(7), p(8), p(9), p(10), p(11)),
		deleteQuery: fmt.Sprintf(`DELETE FROM %s WHERE id = %s`, table, p(1)),
		symbolQuery: fmt.Sprintf(`SELECT %s FROM %s WHERE symbol_folded LIKE %s ESCAPE '\' ORDER BY created_at, id`,
			selectColumns, table, p(1)),
		nameQuery: fmt.Sprintf(`SELECT %s FROM %s WHERE name_folded LIKE %s ESCAPE '\' ORDER BY created_at, id`,
			selectColumns, table, p(1)),
	}
}

// NewPartitions creates one repository per asset type sharing the same connection
func NewPartitions(db *sql.DB, dialect Dialect) map[domain.AssetType]domain.HoldingRepository {
	partitions := make(map[domain.AssetType]domain.HoldingRepository, len(domain.PartitionOrder))
	for _, t := range domain.PartitionOrder {
		partitions[t] = NewHoldingRepository(db, dialect, t)
	}
	return partitions
}

// FindAll retrieves every holding of the partition
func (r *holdingRepository) FindAll(ctx context.Context) ([]*domain.Holding, error) {
	return r.query(ctx, r.findAllQuery)
}

// FindByID retrieves a holding by its ID
func (r *holdingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	row := r.db.QueryRowContext(ctx, r.findByIDQuery, id.String())

	holding, err := scanHolding(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get holding from %s: %w", r.table, err)
	}
	return holding, nil
}

// Save inserts or overwrites a holding
func (r *holdingRepository) Save(ctx context.Context, holding *domain.Holding) error {
	var purchaseDate interface{}
	if holding.PurchaseDate != nil {
		purchaseDate = holding.PurchaseDate.Format(dateLayout)
	}

	_, err := r.db.ExecContext(ctx, r.saveQuery,
		holding.ID.String(),
		holding.Symbol,
		holding.Name,
		string(r.assetType),
		holding.Quantity.String(),
		holding.BuyPrice.String(),
		purchaseDate,
		holding.CreatedAt.UnixNano(),
		holding.UpdatedAt.UnixNano(),
		fold(holding.Symbol),
		fold(holding.Name),
	)
	if err != nil {
		return fmt.Errorf("failed to save holding in %s: %w", r.table, err)
	}
	return nil
}

// Delete removes a holding by its ID
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, r.deleteQuery, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete holding from %s: %w", r.table, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete holding from %s: %w", r.table, err)
	}
	if rows == 0 {
		return domain.NotFoundError(id)
	}
	return nil
}

// SearchBySymbol returns holdings whose symbol contains query, ignoring case
func (r *holdingRepository) SearchBySymbol(ctx context.Context, query string) ([]*domain.Holding, error) {
	return r.query(ctx, r.symbolQuery, containsPattern(query))
}

// SearchByName returns holdings whose name contains query, ignoring case
func (r *holdingRepository) SearchByName(ctx context.Context, query string) ([]*domain.Holding, error) {
	return r.query(ctx, r.nameQuery, containsPattern(query))
}

func (r *holdingRepository) query(ctx context.Context, query string, args ...interface{}) ([]*domain.Holding, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		holding, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding from %s: %w", r.table, err)
		}
		holdings = append(holdings, holding)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", r.table, err)
	}
	return holdings, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanHolding(s scanner) (*domain.Holding, error) {
	var (
		holding                  domain.Holding
		idStr, assetType         string
		quantityStr, buyPriceStr string
		purchaseDate             sql.NullString
		createdAtNs, updatedAtNs int64
	)

	err := s.Scan(
		&idStr,
		&holding.Symbol,
		&holding.Name,
		&assetType,
		&quantityStr,
		&buyPriceStr,
		&purchaseDate,
		&createdAtNs,
		&updatedAtNs,
	)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse id: %w", err)
	}
	holding.ID = id

	holding.Type = domain.AssetType(assetType)
	if !holding.Type.IsValid() {
		return nil, &domain.InternalError{Message: fmt.Sprintf("holding %s has unknown asset type %q", id, assetType)}
	}

	// Parse quantity and buy_price (DECIMAL stored as text)
	if holding.Quantity, err = decimal.NewFromString(quantityStr); err != nil {
		return nil, fmt.Errorf("failed to parse quantity: %w", err)
	}
	if holding.BuyPrice, err = decimal.NewFromString(buyPriceStr); err != nil {
		return nil, fmt.Errorf("failed to parse buy_price: %w", err)
	}

	// Parse purchase_date (nullable)
	if purchaseDate.Valid && purchaseDate.String != "" {
		d, err := time.Parse(dateLayout, purchaseDate.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse purchase_date: %w", err)
		}
		holding.PurchaseDate = &d
	}

	holding.CreatedAt = time.Unix(0, createdAtNs).UTC()
	holding.UpdatedAt = time.Unix(0, updatedAtNs).UTC()

	return &holding, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// fold is the case folding shared by stored search columns and queries
func fold(s string) string {
	return strings.ToLower(s)
}

// containsPattern builds a LIKE pattern matching query anywhere, with wildcards in query escaped
func containsPattern(query string) string {
	return "%" + likeEscaper.Replace(fold(query)) + "%"
}
