package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// ComputeSummary aggregates valuations into a portfolio summary
// Logic:
//  1. Sum current value and cost basis over every holding, per type and overall
//  2. Allocation of a type is its share of the total value (omitted when the total is zero)
//  3. Top gainers: positive percentages, highest first; top losers: negative percentages, lowest first
//  4. Both top lists keep input order among equal percentages and are capped at TopListSize
//
// Percentages are rounded half-up to domain.PercentagePlaces; value fields are exact.
func ComputeSummary(valuations []domain.Valuation) *domain.PortfolioSummary {
	summary := &domain.PortfolioSummary{
		TotalValue:              decimal.Zero,
		TotalCostBasis:          decimal.Zero,
		TotalGainLoss:           decimal.Zero,
		TotalGainLossPercentage: decimal.Zero,
		TotalAssets:             len(valuations),
		ValueByType:             make(map[domain.AssetType]decimal.Decimal),
		CountByType:             make(map[domain.AssetType]int),
		AllocationByType:        make(map[domain.AssetType]decimal.Decimal),
		Holdings:                make([]domain.Valuation, len(valuations)),
		TopGainers:              []domain.Valuation{},
		TopLosers:               []domain.Valuation{},
	}
	copy(summary.Holdings, valuations)

	// Step 1: Totals
	for _, v := range valuations {
		summary.TotalValue = summary.TotalValue.Add(v.CurrentValue)
		summary.TotalCostBasis = summary.TotalCostBasis.Add(v.CostBasis)

		current, ok := summary.ValueByType[v.Type]
		if !ok {
			current = decimal.Zero
		}
		summary.ValueByType[v.Type] = current.Add(v.CurrentValue)
		summary.CountByType[v.Type]++
	}
	summary.TotalGainLoss = summary.TotalValue.Sub(summary.TotalCostBasis)
	summary.TotalGainLossPercentage = domain.Percentage(summary.TotalGainLoss, summary.TotalCostBasis)

	// Step 2: Allocation
	if summary.TotalValue.IsPositive() {
		for t, value := range summary.ValueByType {
			summary.AllocationByType[t] = domain.Percentage(value, summary.TotalValue)
		}
	}

	// Step 3 and 4: Top lists
	summary.TopGainers = topN(valuations, func(v domain.Valuation) bool {
		return v.GainLossPercentage.IsPositive()
	}, func(a, b domain.Valuation) bool {
		return a.GainLossPercentage.GreaterThan(b.GainLossPercentage)
	})
	summary.TopLosers = topN(valuations, func(v domain.Valuation) bool {
		return v.GainLossPercentage.IsNegative()
	}, func(a, b domain.Valuation) bool {
		return a.GainLossPercentage.LessThan(b.GainLossPercentage)
	})

	return summary
}

// topN filters valuations and stable-sorts them so ties keep their input order
func topN(valuations []domain.Valuation, keep func(domain.Valuation) bool, less func(a, b domain.Valuation) bool) []domain.Valuation {
	selected := make([]domain.Valuation, 0, len(valuations))
	for _, v := range valuations {
		if keep(v) {
			selected = append(selected, v)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return less(selected[i], selected[j])
	})

	if len(selected) > domain.TopListSize {
		selected = selected[:domain.TopListSize]
	}
	return selected
}

// ComputePerformanceByType aggregates value, cost and gain/loss per asset type.
// Only types present in valuations are returned, in domain.PartitionOrder.
// The percentage is left unset for a type whose cost is zero.
func ComputePerformanceByType(valuations []domain.Valuation) []domain.TypePerformance {
	byType := make(map[domain.AssetType]*domain.TypePerformance)
	for _, v := range valuations {
		p, ok := byType[v.Type]
		if !ok {
			p = &domain.TypePerformance{Type: v.Type, Value: decimal.Zero, Cost: decimal.Zero}
			byType[v.Type] = p
		}
		p.Value = p.Value.Add(v.CurrentValue)
		p.Cost = p.Cost.Add(v.CostBasis)
	}

	result := make([]domain.TypePerformance, 0, len(byType))
	for _, t := range domain.PartitionOrder {
		p, ok := byType[t]
		if !ok {
			continue
		}
		p.GainLoss = p.Value.Sub(p.Cost)
		if p.Cost.IsPositive() {
			p.Percentage = decimal.NewNullDecimal(domain.Percentage(p.GainLoss, p.Cost))
		}
		result = append(result, *p)
	}
	return result
}
