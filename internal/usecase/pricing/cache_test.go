package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockQuoteProvider is a mock implementation of QuoteProvider for testing
type MockQuoteProvider struct {
	mock.Mock
}

func (m *MockQuoteProvider) FetchQuote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	args := m.Called(ctx, symbol)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// fakeClock is a manually advanced clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func TestGet_CachesWithinTTL(t *testing.T) {
	ctx := context.Background()
	provider := new(MockQuoteProvider)
	clock := newClock()
	cache := NewPriceCache(provider, WithClock(clock.Now))

	provider.On("FetchQuote", mock.Anything, "AAPL").Return(decimal.NewFromInt(120), nil).Once()

	price, ok := cache.Get(ctx, "AAPL")
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(120)))

	clock.Advance(4*time.Minute + 59*time.Second)
	price, ok = cache.Get(ctx, " aapl ")
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(120)))

	provider.AssertNumberOfCalls(t, "FetchQuote", 1)
}

func TestGet_RefetchesAfterTTL(t *testing.T) {
	ctx := context.Background()
	provider := new(MockQuoteProvider)
	clock := newClock()
	cache := NewPriceCache(provider, WithClock(clock.Now))

	provider.On("FetchQuote", mock.Anything, "AAPL").Return(decimal.NewFromInt(120), nil).Once()
	provider.On("FetchQuote", mock.Anything, "AAPL").Return(decimal.NewFromInt(125), nil).Once()

	_, ok := cache.Get(ctx, "AAPL")
	require.True(t, ok)

	clock.Advance(5*time.Minute + time.Second)
	price, ok := cache.Get(ctx, "AAPL")
	require.True(t, ok)
	assert.True(t, price.Equal(decimal.NewFromInt(125)))

	provider.AssertNumberOfCalls(t, "FetchQuote", 2)
}

func TestGet_Unavailable(t *testing.T) {
	tests := []struct {
		name  string
		price decimal.Decimal
		err   error
	}{
		{name: "Provider error", price: decimal.Zero, err: errors.New("rate limited")},
		{name: "Zero price", price: decimal.Zero},
		{name: "Negative price", price: decimal.NewFromInt(-3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			provider := new(MockQuoteProvider)
			cache := NewPriceCache(provider)

			provider.On("FetchQuote", mock.Anything, "XYZ").Return(tt.price, tt.err)

			_, ok := cache.Get(ctx, "XYZ")
			assert.False(t, ok)
			assert.False(t, cache.IsValid(ctx, "XYZ"))

			// failures are not cached
			provider.AssertNumberOfCalls(t, "FetchQuote", 2)
		})
	}
}

func TestGet_FailureKeepsNothingButLaterSuccessIsCached(t *testing.T) {
	ctx := context.Background()
	provider := new(MockQuoteProvider)
	cache := NewPriceCache(provider)

	provider.On("FetchQuote", mock.Anything, "ETH").Return(decimal.Zero, errors.New("boom")).Once()
	provider.On("FetchQuote", mock.Anything, "ETH").Return(decimal.NewFromInt(3000), nil).Once()

	_, ok := cache.Get(ctx, "ETH")
	assert.False(t, ok)

	assert.True(t, cache.IsValid(ctx, "ETH"))
	assert.True(t, cache.IsValid(ctx, "ETH"))
	provider.AssertNumberOfCalls(t, "FetchQuote", 2)
}

func TestGet_TimeoutResolvesToUnavailable(t *testing.T) {
	provider := new(MockQuoteProvider)
	cache := NewPriceCache(provider, WithTimeout(20*time.Millisecond))

	release := make(chan struct{})
	defer close(release)
	provider.On("FetchQuote", mock.Anything, "SLOW").
		Run(func(mock.Arguments) { <-release }).
		Return(decimal.NewFromInt(1), nil)

	start := time.Now()
	_, ok := cache.Get(context.Background(), "SLOW")
	assert.False(t, ok)
	assert.Less(t, time.Since(start), time.Second)
}

func TestGet_CallerCancellationIsNotPropagated(t *testing.T) {
	provider := new(MockQuoteProvider)
	cache := NewPriceCache(provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	provider.On("FetchQuote", mock.Anything, "AAPL").Return(decimal.NewFromInt(10), nil).Run(func(args mock.Arguments) {
		callCtx := args.Get(0).(context.Context)
		assert.NoError(t, callCtx.Err())
	})

	_, ok := cache.Get(ctx, "AAPL")
	assert.True(t, ok)
}

func TestGetMany_OmitsUnavailableAndDeduplicates(t *testing.T) {
	ctx := context.Background()
	provider := new(MockQuoteProvider)
	cache := NewPriceCache(provider, WithConcurrency(2))

	provider.On("FetchQuote", mock.Anything, "AAPL").Return(decimal.NewFromInt(120), nil).Once()
	provider.On("FetchQuote", mock.Anything, "MSFT").Return(decimal.NewFromInt(300), nil).Once()
	provider.On("FetchQuote", mock.Anything, "BAD").Return(decimal.Zero, errors.New("unknown symbol")).Once()

	prices := cache.GetMany(ctx, []string{"AAPL", "msft", "BAD", " aapl", ""})

	require.Len(t, prices, 2)
	assert.True(t, prices["AAPL"].Equal(decimal.NewFromInt(120)))
	assert.True(t, prices["MSFT"].Equal(decimal.NewFromInt(300)))
	_, present := prices["BAD"]
	assert.False(t, present)
	provider.AssertExpectations(t)
}

func TestGet_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	provider := new(MockQuoteProvider)
	cache := NewPriceCache(provider)

	provider.On("FetchQuote", mock.Anything, mock.Anything).Return(decimal.NewFromInt(42), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			symbol := []string{"AAA", "BBB", "CCC"}[i%3]
			price, ok := cache.Get(ctx, symbol)
			assert.True(t, ok)
			assert.True(t, price.Equal(decimal.NewFromInt(42)))
		}(i)
	}
	wg.Wait()
}
