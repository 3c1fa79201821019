package valuation

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// PriceSource provides live prices, reporting false when none is available
type PriceSource interface {
	Get(ctx context.Context, symbol string) (decimal.Decimal, bool)
	GetMany(ctx context.Context, symbols []string) map[string]decimal.Decimal
}

// Engine turns raw holdings into valuations.
// Pricing failures are absorbed by falling back to the buy price.
type Engine struct {
	prices PriceSource
	log    zerolog.Logger
}

// NewEngine creates a new Engine
func NewEngine(prices PriceSource, log zerolog.Logger) *Engine {
	return &Engine{
		prices: prices,
		log:    log.With().Str("component", "valuation").Logger(),
	}
}

// Enrich values a single holding
func (e *Engine) Enrich(ctx context.Context, h *domain.Holding) (domain.Valuation, error) {
	if err := checkType(h); err != nil {
		return domain.Valuation{}, err
	}

	var (
		price decimal.Decimal
		live  bool
	)
	if h.Type.IsTradeable() {
		price, live = e.prices.Get(ctx, h.Symbol)
	}
	return value(h, price, live), nil
}

// EnrichAll values holdings in order, looking each distinct tradeable symbol up once
func (e *Engine) EnrichAll(ctx context.Context, holdings []*domain.Holding) ([]domain.Valuation, error) {
	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if err := checkType(h); err != nil {
			return nil, err
		}
		if h.Type.IsTradeable() {
			symbols = append(symbols, h.Symbol)
		}
	}

	var prices map[string]decimal.Decimal
	if len(symbols) > 0 {
		prices = e.prices.GetMany(ctx, symbols)
	}

	valuations := make([]domain.Valuation, 0, len(holdings))
	fallbacks := 0
	for _, h := range holdings {
		var (
			price decimal.Decimal
			live  bool
		)
		if h.Type.IsTradeable() {
			price, live = prices[domain.NormalizeSymbol(h.Symbol)]
			if !live {
				fallbacks++
			}
		}
		valuations = append(valuations, value(h, price, live))
	}

	if fallbacks > 0 {
		e.log.Debug().Int("holdings", len(holdings)).Int("fallbacks", fallbacks).Msg("valued at buy price")
	}
	return valuations, nil
}

func checkType(h *domain.Holding) error {
	if !h.Type.IsValid() {
		return &domain.InternalError{Message: fmt.Sprintf("holding %s has unknown asset type %q", h.ID, h.Type)}
	}
	return nil
}

// value computes the valuation of h. Without a live price the holding is
// valued at its buy price with no gain or loss.
func value(h *domain.Holding, price decimal.Decimal, live bool) domain.Valuation {
	v := domain.Valuation{
		Holding:   *h,
		CostBasis: h.Quantity.Mul(h.BuyPrice),
		LivePrice: live,
	}

	if !live {
		v.CurrentPrice = h.BuyPrice
		v.CurrentValue = v.CostBasis
		v.GainLoss = decimal.Zero
		v.GainLossPercentage = decimal.Zero
		return v
	}

	v.CurrentPrice = price
	v.CurrentValue = h.Quantity.Mul(price)
	v.GainLoss = v.CurrentValue.Sub(v.CostBasis)
	v.GainLossPercentage = domain.Percentage(v.GainLoss, v.CostBasis)
	return v
}
