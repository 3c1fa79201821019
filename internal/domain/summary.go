package domain

import "github.com/shopspring/decimal"

// TopListSize caps the top gainers and top losers lists
const TopListSize = 5

// PortfolioSummary aggregates a set of valuations.
// Only types present in the input appear in the per-type maps.
type PortfolioSummary struct {
	TotalValue              decimal.Decimal
	TotalCostBasis          decimal.Decimal
	TotalGainLoss           decimal.Decimal
	TotalGainLossPercentage decimal.Decimal
	TotalAssets             int

	ValueByType      map[AssetType]decimal.Decimal
	CountByType      map[AssetType]int
	AllocationByType map[AssetType]decimal.Decimal // empty when TotalValue is zero

	Holdings   []Valuation
	TopGainers []Valuation
	TopLosers  []Valuation
}

// TypePerformance is the aggregated performance of one asset type
type TypePerformance struct {
	Type     AssetType
	Value    decimal.Decimal
	Cost     decimal.Decimal
	GainLoss decimal.Decimal
	// Percentage is invalid when Cost is zero
	Percentage decimal.NullDecimal
}
