package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/adapter/repository/memory"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/asset"
)

// MockHoldingCreator is a mock implementation of HoldingCreator for testing
type MockHoldingCreator struct {
	mock.Mock
}

func (m *MockHoldingCreator) Create(ctx context.Context, draft domain.HoldingDraft) (*domain.Holding, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Holding), args.Error(1)
}

func TestImport_SkipsMalformedRows(t *testing.T) {
	ctx := context.Background()
	assets, err := asset.NewAssetService(memory.NewPartitions(), zerolog.Nop())
	require.NoError(t, err)
	importer := NewCSVImporter(assets, zerolog.Nop())

	input := strings.Join([]string{
		"symbol,name,type,quantity,buyPrice,purchaseDate",
		"aapl,Apple Inc.,stock,10,150.25,2023-06-30",
		"UST10,Treasury 10Y,BOND,5,98.5",
		"BAD,Too few,STOCK,1",
		"GLD,Gold,COMMODITY,1,1800",
		"XYZ,Bad qty,ETF,abc,10",
		"NEG,Negative,ETF,-1,10",
		"DT,Bad date,CRYPTO,1,10,30/06/2023",
		",No symbol,STOCK,1,1",
		"BTC,Bitcoin,crypto,0.5,30000,",
	}, "\n")

	created, err := importer.Import(ctx, strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, created, 3)

	assert.Equal(t, "AAPL", created[0].Symbol)
	require.NotNil(t, created[0].PurchaseDate)
	assert.Equal(t, time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), *created[0].PurchaseDate)
	assert.Equal(t, domain.AssetTypeBond, created[1].Type)
	assert.Nil(t, created[1].PurchaseDate)
	assert.Equal(t, "BTC", created[2].Symbol)
	assert.True(t, created[2].Quantity.Equal(decimal.RequireFromString("0.5")))

	all, err := assets.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestImport_EmptyFile(t *testing.T) {
	importer := NewCSVImporter(new(MockHoldingCreator), zerolog.Nop())

	_, err := importer.Import(context.Background(), strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestImport_HeaderOnly(t *testing.T) {
	creator := new(MockHoldingCreator)
	importer := NewCSVImporter(creator, zerolog.Nop())

	created, err := importer.Import(context.Background(), strings.NewReader("symbol,name,type,quantity,buyPrice\n"))
	require.NoError(t, err)
	assert.Empty(t, created)
	creator.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestImport_StorageFailureAborts(t *testing.T) {
	ctx := context.Background()
	creator := new(MockHoldingCreator)
	importer := NewCSVImporter(creator, zerolog.Nop())

	first := &domain.Holding{ID: uuid.New(), Symbol: "AAA"}
	creator.On("Create", ctx, mock.MatchedBy(func(d domain.HoldingDraft) bool { return d.Symbol == "AAA" })).Return(first, nil)
	creator.On("Create", ctx, mock.MatchedBy(func(d domain.HoldingDraft) bool { return d.Symbol == "BBB" })).Return(nil, errors.New("disk full"))

	input := "symbol,name,type,quantity,buyPrice\nAAA,A,STOCK,1,1\nBBB,B,STOCK,1,1\nCCC,C,STOCK,1,1\n"
	created, err := importer.Import(ctx, strings.NewReader(input))

	require.Error(t, err)
	assert.Equal(t, []*domain.Holding{first}, created)
	creator.AssertNumberOfCalls(t, "Create", 2)
}

func TestParseRow(t *testing.T) {
	tests := []struct {
		name string
		cols []string
		ok   bool
	}{
		{name: "Minimal row", cols: []string{"AAPL", "Apple", "STOCK", "1", "2"}, ok: true},
		{name: "Lower-case type", cols: []string{"AAPL", "Apple", "mutual_fund", "1", "2"}, ok: true},
		{name: "Empty date is ignored", cols: []string{"AAPL", "Apple", "STOCK", "1", "2", " "}, ok: true},
		{name: "Missing column", cols: []string{"AAPL", "Apple", "STOCK", "1"}},
		{name: "Blank name", cols: []string{"AAPL", " ", "STOCK", "1", "2"}},
		{name: "Bad price", cols: []string{"AAPL", "Apple", "STOCK", "1", "two"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ParseRow(tt.cols)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
