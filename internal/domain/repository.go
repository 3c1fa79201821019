package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldingRepository defines the persistence operations of a single type partition.
// Each operation is atomic for a single record; no multi-record transactions are offered.
type HoldingRepository interface {
	// FindAll retrieves every holding of the partition in natural storage order
	FindAll(ctx context.Context) ([]*Holding, error)

	// FindByID retrieves a holding by its ID
	// Returns an error wrapping ErrNotFound when the partition does not contain it
	FindByID(ctx context.Context, id uuid.UUID) (*Holding, error)

	// Save inserts the holding or overwrites the stored record with the same ID
	Save(ctx context.Context, holding *Holding) error

	// Delete removes a holding by its ID
	// Returns an error wrapping ErrNotFound when the partition does not contain it
	Delete(ctx context.Context, id uuid.UUID) error

	// SearchBySymbol returns holdings whose symbol contains query, ignoring case
	SearchBySymbol(ctx context.Context, query string) ([]*Holding, error)

	// SearchByName returns holdings whose name contains query, ignoring case
	SearchByName(ctx context.Context, query string) ([]*Holding, error)
}

// QuoteProvider fetches live prices from an external market data source
type QuoteProvider interface {
	// FetchQuote returns the latest price for a normalized symbol.
	// Implementations return an error (typically wrapping ErrQuoteUnavailable)
	// when no price can be obtained.
	FetchQuote(ctx context.Context, symbol string) (decimal.Decimal, error)
}
