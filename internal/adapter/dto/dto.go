// Package dto holds the boundary representation shared by the REST and gRPC transports.
// Decimals travel as strings so no precision is lost on the wire.
package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

const dateLayout = "2006-01-02"

// HoldingRequest is the payload of create and update calls
type HoldingRequest struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	Type         string          `json:"type"`
	Quantity     decimal.Decimal `json:"quantity"`
	BuyPrice     decimal.Decimal `json:"buyPrice"`
	PurchaseDate string          `json:"purchaseDate,omitempty"`
}

// ToDraft converts the request into a draft. The asset type is passed
// through upper-cased and is checked by the asset service.
func (r HoldingRequest) ToDraft() (domain.HoldingDraft, error) {
	draft := domain.HoldingDraft{
		Symbol:   r.Symbol,
		Name:     r.Name,
		Type:     domain.AssetType(strings.ToUpper(strings.TrimSpace(r.Type))),
		Quantity: r.Quantity,
		BuyPrice: r.BuyPrice,
	}

	if d := strings.TrimSpace(r.PurchaseDate); d != "" {
		date, err := time.Parse(dateLayout, d)
		if err != nil {
			return domain.HoldingDraft{}, &domain.ValidationError{Field: "purchaseDate", Reason: "must be formatted as YYYY-MM-DD"}
		}
		draft.PurchaseDate = &date
	}
	return draft, nil
}

// Holding is a holding with its valuation
type Holding struct {
	ID                 string           `json:"id"`
	Symbol             string           `json:"symbol"`
	Name               string           `json:"name"`
	Type               domain.AssetType `json:"type"`
	Quantity           decimal.Decimal  `json:"quantity"`
	BuyPrice           decimal.Decimal  `json:"buyPrice"`
	PurchaseDate       string           `json:"purchaseDate,omitempty"`
	CurrentPrice       decimal.Decimal  `json:"currentPrice"`
	CurrentValue       decimal.Decimal  `json:"currentValue"`
	CostBasis          decimal.Decimal  `json:"costBasis"`
	GainLoss           decimal.Decimal  `json:"gainLoss"`
	GainLossPercentage decimal.Decimal  `json:"gainLossPercentage"`
	CreatedAt          *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time       `json:"updatedAt,omitempty"`
}

// FromValuation converts a valuation to its boundary form
func FromValuation(v domain.Valuation) Holding {
	h := Holding{
		ID:                 v.ID.String(),
		Symbol:             v.Symbol,
		Name:               v.Name,
		Type:               v.Type,
		Quantity:           v.Quantity,
		BuyPrice:           v.BuyPrice,
		CurrentPrice:       v.CurrentPrice,
		CurrentValue:       v.CurrentValue,
		CostBasis:          v.CostBasis,
		GainLoss:           v.GainLoss,
		GainLossPercentage: v.GainLossPercentage,
	}
	if v.PurchaseDate != nil {
		h.PurchaseDate = v.PurchaseDate.Format(dateLayout)
	}
	if !v.CreatedAt.IsZero() {
		created := v.CreatedAt
		h.CreatedAt = &created
	}
	if !v.UpdatedAt.IsZero() {
		updated := v.UpdatedAt
		h.UpdatedAt = &updated
	}
	return h
}

// FromValuations converts a list of valuations, never returning nil
func FromValuations(vs []domain.Valuation) []Holding {
	res := make([]Holding, 0, len(vs))
	for _, v := range vs {
		res = append(res, FromValuation(v))
	}
	return res
}

// Summary is the portfolio summary
type Summary struct {
	TotalValue              decimal.Decimal            `json:"totalValue"`
	TotalCostBasis          decimal.Decimal            `json:"totalCostBasis"`
	TotalGainLoss           decimal.Decimal            `json:"totalGainLoss"`
	TotalGainLossPercentage decimal.Decimal            `json:"totalGainLossPercentage"`
	TotalAssets             int                        `json:"totalAssets"`
	AssetCountByType        map[string]int             `json:"assetCountByType"`
	AllocationByType        map[string]decimal.Decimal `json:"allocationByType"`
	ValueByType             map[string]decimal.Decimal `json:"valueByType"`
	Assets                  []Holding                  `json:"assets"`
	TopGainers              []Holding                  `json:"topGainers"`
	TopLosers               []Holding                  `json:"topLosers"`
}

// FromSummary converts a portfolio summary to its boundary form
func FromSummary(s *domain.PortfolioSummary) Summary {
	res := Summary{
		TotalValue:              s.TotalValue,
		TotalCostBasis:          s.TotalCostBasis,
		TotalGainLoss:           s.TotalGainLoss,
		TotalGainLossPercentage: s.TotalGainLossPercentage,
		TotalAssets:             s.TotalAssets,
		AssetCountByType:        make(map[string]int, len(s.CountByType)),
		AllocationByType:        Allocation(s.AllocationByType),
		ValueByType:             make(map[string]decimal.Decimal, len(s.ValueByType)),
		Assets:                  FromValuations(s.Holdings),
		TopGainers:              FromValuations(s.TopGainers),
		TopLosers:               FromValuations(s.TopLosers),
	}
	for t, n := range s.CountByType {
		res.AssetCountByType[string(t)] = n
	}
	for t, v := range s.ValueByType {
		res.ValueByType[string(t)] = v
	}
	return res
}

// Allocation converts an allocation map, keyed by type name
func Allocation(allocation map[domain.AssetType]decimal.Decimal) map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal, len(allocation))
	for t, pct := range allocation {
		res[string(t)] = pct
	}
	return res
}

// TypePerformance is the performance of one asset type.
// Percentage is omitted when the cost of the type is zero.
type TypePerformance struct {
	Value      decimal.Decimal  `json:"value"`
	Cost       decimal.Decimal  `json:"cost"`
	GainLoss   decimal.Decimal  `json:"gainLoss"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
}

// Performance converts per-type performance into a map keyed by type name
func Performance(perf []domain.TypePerformance) map[string]TypePerformance {
	res := make(map[string]TypePerformance, len(perf))
	for _, p := range perf {
		tp := TypePerformance{Value: p.Value, Cost: p.Cost, GainLoss: p.GainLoss}
		if p.Percentage.Valid {
			pct := p.Percentage.Decimal
			tp.Percentage = &pct
		}
		res[string(p.Type)] = tp
	}
	return res
}

// ApiResponse is the envelope of every REST response
type ApiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success wraps data in a successful envelope
func Success(message string, data any) ApiResponse {
	return ApiResponse{Success: true, Message: message, Data: data}
}

// Error wraps an error message in a failed envelope
func Error(message string) ApiResponse {
	return ApiResponse{Success: false, Message: message}
}

// News is a headline. Datetime is a unix timestamp in seconds.
type News struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime,omitempty"`
	Headline string `json:"headline"`
	Image    string `json:"image,omitempty"`
	Related  string `json:"related,omitempty"`
	Source   string `json:"source"`
	Summary  string `json:"summary,omitempty"`
	URL      string `json:"url"`
}

// FromNews converts headlines to their boundary form, never returning nil
func FromNews(articles []domain.NewsArticle) []News {
	res := make([]News, 0, len(articles))
	for _, a := range articles {
		n := News{
			ID:       a.ID,
			Category: a.Category,
			Headline: a.Headline,
			Image:    a.Image,
			Related:  a.Related,
			Source:   a.Source,
			Summary:  a.Summary,
			URL:      a.URL,
		}
		if !a.Datetime.IsZero() {
			n.Datetime = a.Datetime.Unix()
		}
		res = append(res, n)
	}
	return res
}
