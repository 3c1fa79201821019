package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// MockNewsProvider is a mock implementation of NewsProvider for testing
type MockNewsProvider struct {
	mock.Mock
}

func (m *MockNewsProvider) MarketNews(ctx context.Context, category string) ([]domain.NewsArticle, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NewsArticle), args.Error(1)
}

func (m *MockNewsProvider) CompanyNews(ctx context.Context, symbol string, from, to time.Time) ([]domain.NewsArticle, error) {
	args := m.Called(ctx, symbol, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NewsArticle), args.Error(1)
}

// MockSymbolValidator is a mock implementation of SymbolValidator for testing
type MockSymbolValidator struct {
	mock.Mock
}

func (m *MockSymbolValidator) IsValid(ctx context.Context, symbol string) bool {
	return m.Called(ctx, symbol).Bool(0)
}

var fixedNow = time.Date(2024, 3, 31, 15, 30, 0, 0, time.UTC)

func newService(provider *MockNewsProvider, symbols *MockSymbolValidator) *NewsService {
	s := NewNewsService(provider, symbols, zerolog.Nop())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestMarketNews(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     string
	}{
		{name: "Blank category defaults to general", category: "  ", want: "general"},
		{name: "Category is lower-cased", category: "Crypto", want: "crypto"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockNewsProvider)
			provider.On("MarketNews", mock.Anything, tt.want).Return([]domain.NewsArticle{{ID: 1}}, nil).Once()

			got := newService(provider, new(MockSymbolValidator)).MarketNews(context.Background(), tt.category)
			assert.Len(t, got, 1)
			provider.AssertExpectations(t)
		})
	}
}

func TestMarketNews_ProviderFailureYieldsEmptyList(t *testing.T) {
	provider := new(MockNewsProvider)
	provider.On("MarketNews", mock.Anything, "general").Return(nil, errors.New("rate limited"))

	got := newService(provider, new(MockSymbolValidator)).MarketNews(context.Background(), "")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCompanyNews_DefaultWindow(t *testing.T) {
	provider := new(MockNewsProvider)
	symbols := new(MockSymbolValidator)
	symbols.On("IsValid", mock.Anything, "AAPL").Return(true)

	today := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	provider.On("CompanyNews", mock.Anything, "AAPL", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), today).
		Return([]domain.NewsArticle{{ID: 1}, {ID: 2}}, nil)

	got, err := newService(provider, symbols).CompanyNews(context.Background(), " aapl ", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	provider.AssertExpectations(t)
}

func TestCompanyNews_ExplicitRange(t *testing.T) {
	provider := new(MockNewsProvider)
	symbols := new(MockSymbolValidator)
	symbols.On("IsValid", mock.Anything, "MSFT").Return(true)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	provider.On("CompanyNews", mock.Anything, "MSFT", from, to).Return(nil, errors.New("offline"))

	got, err := newService(provider, symbols).CompanyNews(context.Background(), "MSFT", from, to)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestCompanyNews_Rejected(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		valid  bool
		from   time.Time
		field  string
	}{
		{name: "Blank symbol", symbol: " ", field: "symbol"},
		{name: "Symbol without a live price", symbol: "NOPE", valid: false, field: "symbol"},
		{name: "Start after end", symbol: "AAPL", valid: true, from: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC), field: "from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := new(MockNewsProvider)
			symbols := new(MockSymbolValidator)
			symbols.On("IsValid", mock.Anything, mock.Anything).Return(tt.valid)

			_, err := newService(provider, symbols).CompanyNews(context.Background(), tt.symbol, tt.from, time.Time{})

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			provider.AssertNotCalled(t, "CompanyNews", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
