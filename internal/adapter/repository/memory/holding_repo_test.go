package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

func newHolding(symbol, name string) *domain.Holding {
	return &domain.Holding{
		ID:       uuid.New(),
		Symbol:   symbol,
		Name:     name,
		Type:     domain.AssetTypeStock,
		Quantity: decimal.NewFromInt(1),
		BuyPrice: decimal.NewFromInt(10),
	}
}

func TestHoldingRepository_PreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewHoldingRepository()

	a, b, c := newHolding("AAA", "Alpha"), newHolding("BBB", "Beta"), newHolding("CCC", "Gamma")
	for _, h := range []*domain.Holding{a, b, c} {
		require.NoError(t, repo.Save(ctx, h))
	}

	// Overwriting keeps the original position
	b.Name = "Beta Updated"
	require.NoError(t, repo.Save(ctx, b))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID, c.ID}, []uuid.UUID{all[0].ID, all[1].ID, all[2].ID})
	assert.Equal(t, "Beta Updated", all[1].Name)
}

func TestHoldingRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewHoldingRepository()
	h := newHolding("AAA", "Alpha")
	require.NoError(t, repo.Save(ctx, h))

	loaded, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	loaded.Symbol = "MUTATED"

	again, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, "AAA", again.Symbol)
}

func TestHoldingRepository_DeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewHoldingRepository()
	h := newHolding("AAA", "Alpha")
	require.NoError(t, repo.Save(ctx, h))

	require.NoError(t, repo.Delete(ctx, h.ID))

	_, err := repo.FindByID(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, h.ID), domain.ErrNotFound)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestHoldingRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := NewHoldingRepository()
	require.NoError(t, repo.Save(ctx, newHolding("AAPL", "Apple Inc.")))
	require.NoError(t, repo.Save(ctx, newHolding("MSFT", "Microsoft")))

	bySymbol, err := repo.SearchBySymbol(ctx, "apl")
	require.NoError(t, err)
	require.Len(t, bySymbol, 1)
	assert.Equal(t, "AAPL", bySymbol[0].Symbol)

	byName, err := repo.SearchByName(ctx, "SOFT")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "MSFT", byName[0].Symbol)
}

func TestNewPartitions(t *testing.T) {
	partitions := NewPartitions()
	assert.Len(t, partitions, len(domain.PartitionOrder))
	for _, typ := range domain.PartitionOrder {
		assert.NotNil(t, partitions[typ], string(typ))
	}
}
