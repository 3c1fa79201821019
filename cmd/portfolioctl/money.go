package main

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const displayCurrency = money.USD

// formatMoney renders amount in the display currency, rounded half-up to its minor unit
func formatMoney(amount decimal.Decimal) string {
	cur := money.GetCurrency(displayCurrency)
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), displayCurrency).Display()
}

// formatSignedMoney is formatMoney with an explicit plus sign on gains
func formatSignedMoney(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + formatMoney(amount)
	}
	return formatMoney(amount)
}

// formatPercent renders a percentage already scaled to 100
func formatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}
