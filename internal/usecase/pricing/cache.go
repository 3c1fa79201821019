package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

const (
	DefaultTTL         = 5 * time.Minute
	DefaultTimeout     = 5 * time.Second
	DefaultConcurrency = 8
)

type cachedPrice struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// PriceCache memoizes live prices for a bounded time window so that the
// rate-limited quote provider is consulted at most once per symbol per TTL.
// It is safe for concurrent use and is meant to live for the whole process.
// Failed lookups are never cached, and concurrent misses on the same symbol
// may each reach the provider.
type PriceCache struct {
	provider    domain.QuoteProvider
	ttl         time.Duration
	timeout     time.Duration
	concurrency int
	now         func() time.Time
	log         zerolog.Logger

	mu      sync.RWMutex
	entries map[string]cachedPrice
}

// Option configures a PriceCache
type Option func(*PriceCache)

// WithTTL sets how long a fetched price stays fresh
func WithTTL(ttl time.Duration) Option {
	return func(c *PriceCache) { c.ttl = ttl }
}

// WithTimeout bounds every provider call
func WithTimeout(timeout time.Duration) Option {
	return func(c *PriceCache) { c.timeout = timeout }
}

// WithConcurrency caps the provider calls GetMany issues in parallel
func WithConcurrency(n int) Option {
	return func(c *PriceCache) { c.concurrency = n }
}

// WithClock replaces time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(c *PriceCache) { c.now = now }
}

// WithLogger sets the logger used for cache activity
func WithLogger(log zerolog.Logger) Option {
	return func(c *PriceCache) { c.log = log.With().Str("component", "price_cache").Logger() }
}

// NewPriceCache creates a new PriceCache in front of provider
func NewPriceCache(provider domain.QuoteProvider, opts ...Option) *PriceCache {
	c := &PriceCache{
		provider:    provider,
		ttl:         DefaultTTL,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		now:         time.Now,
		log:         zerolog.Nop(),
		entries:     make(map[string]cachedPrice),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the price of symbol and whether one is available.
// A fresh cached entry is served without contacting the provider.
func (c *PriceCache) Get(ctx context.Context, symbol string) (decimal.Decimal, bool) {
	symbol = domain.NormalizeSymbol(symbol)
	if symbol == "" {
		return decimal.Zero, false
	}

	if price, ok := c.lookup(symbol); ok {
		c.log.Debug().Str("symbol", symbol).Msg("price cache hit")
		return price, true
	}

	price, err := c.fetch(ctx, symbol)
	if err != nil {
		c.log.Warn().Err(err).Str("symbol", symbol).Msg("price unavailable")
		return decimal.Zero, false
	}

	c.mu.Lock()
	c.entries[symbol] = cachedPrice{price: price, fetchedAt: c.now()}
	c.mu.Unlock()

	c.log.Info().Str("symbol", symbol).Str("price", price.String()).Msg("fetched price")
	return price, true
}

// GetMany returns the prices of the available symbols, keyed by normalized symbol.
// Unavailable symbols are omitted.
func (c *PriceCache) GetMany(ctx context.Context, symbols []string) map[string]decimal.Decimal {
	distinct := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		s = domain.NormalizeSymbol(s)
		if _, dup := seen[s]; dup || s == "" {
			continue
		}
		seen[s] = struct{}{}
		distinct = append(distinct, s)
	}

	var mu sync.Mutex
	prices := make(map[string]decimal.Decimal, len(distinct))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, s := range distinct {
		g.Go(func() error {
			if price, ok := c.Get(ctx, s); ok {
				mu.Lock()
				prices[s] = price
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait() // lookups never fail, they only omit

	return prices
}

// IsValid reports whether a strictly positive price is available for symbol
func (c *PriceCache) IsValid(ctx context.Context, symbol string) bool {
	_, ok := c.Get(ctx, symbol)
	return ok
}

func (c *PriceCache) lookup(symbol string) (decimal.Decimal, bool) {
	c.mu.RLock()
	entry, ok := c.entries[symbol]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return decimal.Zero, false
	}
	return entry.price, true
}

type quoteResult struct {
	price decimal.Decimal
	err   error
}

// fetch calls the provider under its own deadline. The caller's cancellation
// is not propagated to an in-flight call, and a provider that ignores its
// context is abandoned once the deadline passes.
func (c *PriceCache) fetch(ctx context.Context, symbol string) (decimal.Decimal, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	done := make(chan quoteResult, 1)
	go func() {
		price, err := c.provider.FetchQuote(ctx, symbol)
		done <- quoteResult{price: price, err: err}
	}()

	var res quoteResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return decimal.Zero, fmt.Errorf("%w: %s: %v", domain.ErrQuoteUnavailable, symbol, ctx.Err())
	}

	if res.err != nil {
		return decimal.Zero, res.err
	}
	if !res.price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s: non-positive price %s", domain.ErrQuoteUnavailable, symbol, res.price)
	}
	return res.price, nil
}
