package domain

import "github.com/shopspring/decimal"

// PercentagePlaces is the number of decimal places kept on every percentage field
const PercentagePlaces = 4

var hundred = decimal.NewFromInt(100)

// Valuation is a holding enriched with its market valuation.
// It is derived on every read and never stored.
type Valuation struct {
	Holding

	CurrentPrice       decimal.Decimal
	CurrentValue       decimal.Decimal // Quantity × CurrentPrice
	CostBasis          decimal.Decimal // Quantity × BuyPrice
	GainLoss           decimal.Decimal // CurrentValue - CostBasis
	GainLossPercentage decimal.Decimal

	// LivePrice is true when CurrentPrice came from the quote source
	// rather than the buy-price fallback
	LivePrice bool
}

// Percentage returns part/whole×100 rounded half-up to PercentagePlaces,
// or zero when whole is not strictly positive
func Percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return part.Mul(hundred).DivRound(whole, PercentagePlaces)
}
