package sqlstore_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository/memory"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository/sqlite"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository/sqlstore"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

var baseTime = time.Date(2024, 1, 2, 3, 4, 5, 6, time.UTC)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.NewDB(context.Background(), sqlite.InMemory)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newHolding(symbol, name string, offset time.Duration) *domain.Holding {
	return &domain.Holding{
		ID:        uuid.New(),
		Symbol:    symbol,
		Name:      name,
		Type:      domain.AssetTypeStock,
		Quantity:  decimal.RequireFromString("10.123456789"),
		BuyPrice:  decimal.RequireFromString("150.25"),
		CreatedAt: baseTime.Add(offset),
		UpdatedAt: baseTime.Add(offset),
	}
}

func TestHoldingRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := sqlstore.NewHoldingRepository(db.DB, sqlstore.SQLite, domain.AssetTypeStock)

	purchased := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
	h := newHolding("AAPL", "Apple Inc.", 0)
	h.PurchaseDate = &purchased
	require.NoError(t, repo.Save(ctx, h))

	loaded, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, h.ID, loaded.ID)
	assert.Equal(t, "AAPL", loaded.Symbol)
	assert.Equal(t, domain.AssetTypeStock, loaded.Type)
	assert.True(t, h.Quantity.Equal(loaded.Quantity))
	assert.True(t, h.BuyPrice.Equal(loaded.BuyPrice))
	require.NotNil(t, loaded.PurchaseDate)
	assert.True(t, purchased.Equal(*loaded.PurchaseDate))
	assert.True(t, baseTime.Equal(loaded.CreatedAt))
}

func TestHoldingRepository_OverwriteKeepsOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := sqlstore.NewHoldingRepository(db.DB, sqlstore.SQLite, domain.AssetTypeStock)

	a := newHolding("AAA", "Alpha", 0)
	b := newHolding("BBB", "Beta", time.Second)
	c := newHolding("CCC", "Gamma", 2*time.Second)
	for _, h := range []*domain.Holding{a, b, c} {
		require.NoError(t, repo.Save(ctx, h))
	}

	a.Name = "Alpha Updated"
	a.UpdatedAt = baseTime.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, a))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"AAA", "BBB", "CCC"}, []string{all[0].Symbol, all[1].Symbol, all[2].Symbol})
	assert.Equal(t, "Alpha Updated", all[0].Name)
	assert.True(t, baseTime.Add(time.Hour).Equal(all[0].UpdatedAt))
	assert.Nil(t, all[0].PurchaseDate)
}

func TestHoldingRepository_DeleteAndNotFound(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := sqlstore.NewHoldingRepository(db.DB, sqlstore.SQLite, domain.AssetTypeBond)

	h := newHolding("UST10", "Treasury", 0)
	h.Type = domain.AssetTypeBond
	require.NoError(t, repo.Save(ctx, h))
	require.NoError(t, repo.Delete(ctx, h.ID))

	_, err := repo.FindByID(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, h.ID), domain.ErrNotFound)
}

func TestHoldingRepository_PartitionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	partitions := db.Partitions()
	require.Len(t, partitions, len(domain.PartitionOrder))

	h := newHolding("BTC", "Bitcoin", 0)
	h.Type = domain.AssetTypeCrypto
	require.NoError(t, partitions[domain.AssetTypeCrypto].Save(ctx, h))

	_, err := partitions[domain.AssetTypeStock].FindByID(ctx, h.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	loaded, err := partitions[domain.AssetTypeCrypto].FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetTypeCrypto, loaded.Type)
}

func TestHoldingRepository_Search(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := sqlstore.NewHoldingRepository(db.DB, sqlstore.SQLite, domain.AssetTypeStock)

	require.NoError(t, repo.Save(ctx, newHolding("AAPL", "Apple Inc.", 0)))
	require.NoError(t, repo.Save(ctx, newHolding("MSFT", "Microsoft", time.Second)))
	require.NoError(t, repo.Save(ctx, newHolding("PCT", "100% Growth_Fund", 2*time.Second)))
	require.NoError(t, repo.Save(ctx, newHolding("ENGI", "Énergie Société", 3*time.Second)))

	tests := []struct {
		name    string
		search  func(context.Context, string) ([]*domain.Holding, error)
		query   string
		symbols []string
	}{
		{name: "Symbol is case-insensitive", search: repo.SearchBySymbol, query: "apl", symbols: []string{"AAPL"}},
		{name: "Name is case-insensitive", search: repo.SearchByName, query: "SOFT", symbols: []string{"MSFT"}},
		{name: "Percent is matched literally", search: repo.SearchByName, query: "0%", symbols: []string{"PCT"}},
		{name: "Underscore is matched literally", search: repo.SearchByName, query: "h_f", symbols: []string{"PCT"}},
		{name: "Underscore does not act as wildcard", search: repo.SearchBySymbol, query: "a_pl", symbols: []string{}},
		{name: "Accented name in lower case", search: repo.SearchByName, query: "énergie", symbols: []string{"ENGI"}},
		{name: "Accented name in upper case", search: repo.SearchByName, query: "ÉNERGIE", symbols: []string{"ENGI"}},
		{name: "Accented name as stored", search: repo.SearchByName, query: "Énergie", symbols: []string{"ENGI"}},
		{name: "Accented name mid-word", search: repo.SearchByName, query: "SOCIÉ", symbols: []string{"ENGI"}},
		{name: "Empty query matches all", search: repo.SearchBySymbol, query: "", symbols: []string{"AAPL", "MSFT", "PCT", "ENGI"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.search(ctx, tt.query)
			require.NoError(t, err)
			symbols := make([]string, 0, len(got))
			for _, h := range got {
				symbols = append(symbols, h.Symbol)
			}
			assert.Equal(t, tt.symbols, symbols)
		})
	}
}

func TestHoldingRepository_SearchMatchesMemoryStore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	stores := map[string]domain.HoldingRepository{
		"sqlite": sqlstore.NewHoldingRepository(db.DB, sqlstore.SQLite, domain.AssetTypeStock),
		"memory": memory.NewHoldingRepository(),
	}

	for _, repo := range stores {
		require.NoError(t, repo.Save(ctx, newHolding("ÖKO", "Öko Énergie Société", 0)))
		require.NoError(t, repo.Save(ctx, newHolding("SAP", "SAP SE", time.Second)))
	}

	for _, query := range []string{"énergie", "ÉNERGIE", "Énergie", "öko", "ÖKO", "se"} {
		counts := make(map[string]int, len(stores))
		for name, repo := range stores {
			byName, err := repo.SearchByName(ctx, query)
			require.NoError(t, err)
			bySymbol, err := repo.SearchBySymbol(ctx, query)
			require.NoError(t, err)
			counts[name] = len(byName) + len(bySymbol)
		}
		assert.Equal(t, counts["memory"], counts["sqlite"], "query %q", query)
		assert.NotZero(t, counts["sqlite"], "query %q", query)
	}
}

func TestMigrate_UpgradesTablesWithoutSearchColumns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "legacy.db")

	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = legacy.ExecContext(ctx, `CREATE TABLE stocks (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		quantity TEXT NOT NULL,
		buy_price TEXT NOT NULL,
		purchase_date TEXT,
		created_at BIGINT NOT NULL,
		updated_at BIGINT NOT NULL
	)`)
	require.NoError(t, err)
	_, err = legacy.ExecContext(ctx,
		`INSERT INTO stocks (id, symbol, name, asset_type, quantity, buy_price, created_at, updated_at)
		 VALUES (?, 'AIR', 'Société Airbus', 'STOCK', '1', '1', 0, 0)`, uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	db, err := sqlite.NewDB(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlstore.NewHoldingRepository(db.DB, sqlstore.SQLite, domain.AssetTypeStock)
	found, err := repo.SearchByName(ctx, "SOCIÉTÉ")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "AIR", found[0].Symbol)

	found, err = repo.SearchBySymbol(ctx, "air")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestHoldingRepository_UnknownStoredTypeIsInternal(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := sqlstore.NewHoldingRepository(db.DB, sqlstore.SQLite, domain.AssetTypeStock)

	id := uuid.New()
	_, err := db.ExecContext(ctx,
		`INSERT INTO stocks (id, symbol, name, asset_type, quantity, buy_price, created_at, updated_at, symbol_folded, name_folded)
		 VALUES (?, 'GLD', 'Gold', 'GOLD', '1', '1', 0, 0, 'gld', 'gold')`, id.String())
	require.NoError(t, err)

	_, err = repo.FindByID(ctx, id)
	var ie *domain.InternalError
	assert.ErrorAs(t, err, &ie)
}

func TestPostgresPlaceholders(t *testing.T) {
	assert.Equal(t, "$3", sqlstore.Postgres.Placeholder(3))
	assert.Equal(t, "?", sqlstore.SQLite.Placeholder(3))
}
