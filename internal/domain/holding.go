package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AssetType represents the type of a holding in the portfolio
type AssetType string

const (
	AssetTypeStock      AssetType = "STOCK"
	AssetTypeBond       AssetType = "BOND"
	AssetTypeCash       AssetType = "CASH"
	AssetTypeRealEstate AssetType = "REAL_ESTATE"
	AssetTypeCrypto     AssetType = "CRYPTO"
	AssetTypeETF        AssetType = "ETF"
	AssetTypeMutualFund AssetType = "MUTUAL_FUND"
)

const (
	MaxSymbolLength = 20
	MaxNameLength   = 100
)

// PartitionOrder is the fixed order in which type partitions are enumerated.
// Every listing, lookup and search walks the partitions in this order.
var PartitionOrder = []AssetType{
	AssetTypeStock,
	AssetTypeBond,
	AssetTypeETF,
	AssetTypeMutualFund,
	AssetTypeCrypto,
	AssetTypeRealEstate,
	AssetTypeCash,
}

// IsValid reports whether t belongs to the closed set of asset types
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeStock, AssetTypeBond, AssetTypeCash, AssetTypeRealEstate,
		AssetTypeCrypto, AssetTypeETF, AssetTypeMutualFund:
		return true
	}
	return false
}

// IsTradeable reports whether a live market price is sought for t.
// BOND, CASH and REAL_ESTATE are always valued at their buy price.
func (t AssetType) IsTradeable() bool {
	switch t {
	case AssetTypeStock, AssetTypeETF, AssetTypeCrypto, AssetTypeMutualFund:
		return true
	}
	return false
}

func (t AssetType) String() string { return string(t) }

// ParseAssetType parses a type name case-insensitively
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", &ValidationError{Field: "type", Reason: "unrecognized asset type " + `"` + s + `"`}
	}
	return t, nil
}

// Holding represents one persisted portfolio entry
type Holding struct {
	ID           uuid.UUID
	Symbol       string
	Name         string
	Type         AssetType
	Quantity     decimal.Decimal
	BuyPrice     decimal.Decimal
	PurchaseDate *time.Time // optional, date only
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HoldingDraft carries the caller-supplied fields of a holding before the
// store assigns an ID and timestamps
type HoldingDraft struct {
	Symbol       string
	Name         string
	Type         AssetType
	Quantity     decimal.Decimal
	BuyPrice     decimal.Decimal
	PurchaseDate *time.Time
}

// NormalizeSymbol upper-cases and trims a ticker symbol
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Normalize returns a copy of the draft with symbol upper-cased and trimmed,
// name trimmed and the purchase date truncated to a UTC calendar day
func (d HoldingDraft) Normalize() HoldingDraft {
	d.Symbol = NormalizeSymbol(d.Symbol)
	d.Name = strings.TrimSpace(d.Name)
	if d.PurchaseDate != nil {
		day := TruncateToDate(*d.PurchaseDate)
		d.PurchaseDate = &day
	}
	return d
}

// Validate ensures the draft adheres to domain rules.
// It is expected to be called on a normalized draft.
func (d *HoldingDraft) Validate() error {
	if d.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(d.Symbol) > MaxSymbolLength {
		return &ValidationError{Field: "symbol", Reason: "must be at most 20 characters"}
	}
	if d.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(d.Name) > MaxNameLength {
		return &ValidationError{Field: "name", Reason: "must be at most 100 characters"}
	}
	if !d.Type.IsValid() {
		return &ValidationError{Field: "type", Reason: "unrecognized asset type " + `"` + string(d.Type) + `"`}
	}
	if d.Quantity.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "quantity", Reason: "must be positive"}
	}
	if d.BuyPrice.LessThanOrEqual(decimal.Zero) {
		return &ValidationError{Field: "buyPrice", Reason: "must be positive"}
	}
	return nil
}

// TruncateToDate drops the time-of-day component, keeping the calendar day in UTC
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
