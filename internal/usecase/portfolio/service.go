package portfolio

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/analytics"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/asset"
	"github.com/TempAcc-hue/Financial-Portfolio/internal/usecase/valuation"
)

// PortfolioService exposes holdings enriched with their valuation and the
// portfolio-level views computed from them. Every read is computed fresh
// from the current store contents.
type PortfolioService struct {
	Assets *asset.AssetService
	Engine *valuation.Engine
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(assets *asset.AssetService, engine *valuation.Engine) *PortfolioService {
	return &PortfolioService{
		Assets: assets,
		Engine: engine,
	}
}

// ListHoldings returns every holding, valued
func (s *PortfolioService) ListHoldings(ctx context.Context) ([]domain.Valuation, error) {
	holdings, err := s.Assets.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.Engine.EnrichAll(ctx, holdings)
}

// GetHolding returns a single holding, valued
func (s *PortfolioService) GetHolding(ctx context.Context, id uuid.UUID) (domain.Valuation, error) {
	holding, err := s.Assets.GetByID(ctx, id)
	if err != nil {
		return domain.Valuation{}, err
	}
	return s.Engine.Enrich(ctx, holding)
}

// ListHoldingsByType returns the holdings of one asset type, valued
func (s *PortfolioService) ListHoldingsByType(ctx context.Context, assetType domain.AssetType) ([]domain.Valuation, error) {
	holdings, err := s.Assets.GetByType(ctx, assetType)
	if err != nil {
		return nil, err
	}
	return s.Engine.EnrichAll(ctx, holdings)
}

// SearchHoldings returns the holdings matching query by symbol or name, valued
func (s *PortfolioService) SearchHoldings(ctx context.Context, query string) ([]domain.Valuation, error) {
	holdings, err := s.Assets.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.Engine.EnrichAll(ctx, holdings)
}

// CreateHolding stores a new holding and returns it valued
func (s *PortfolioService) CreateHolding(ctx context.Context, draft domain.HoldingDraft) (domain.Valuation, error) {
	holding, err := s.Assets.Create(ctx, draft)
	if err != nil {
		return domain.Valuation{}, err
	}
	return s.Engine.Enrich(ctx, holding)
}

// UpdateHolding overwrites an existing holding and returns it valued
func (s *PortfolioService) UpdateHolding(ctx context.Context, id uuid.UUID, draft domain.HoldingDraft) (domain.Valuation, error) {
	holding, err := s.Assets.Update(ctx, id, draft)
	if err != nil {
		return domain.Valuation{}, err
	}
	return s.Engine.Enrich(ctx, holding)
}

// DeleteHolding removes a holding
func (s *PortfolioService) DeleteHolding(ctx context.Context, id uuid.UUID) error {
	return s.Assets.Delete(ctx, id)
}

// GetSummary computes the portfolio summary over every holding
func (s *PortfolioService) GetSummary(ctx context.Context) (*domain.PortfolioSummary, error) {
	valuations, err := s.ListHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to value holdings: %w", err)
	}
	return analytics.ComputeSummary(valuations), nil
}

// GetAllocation returns the share of the total value held in each asset type
func (s *PortfolioService) GetAllocation(ctx context.Context) (map[domain.AssetType]decimal.Decimal, error) {
	summary, err := s.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	return summary.AllocationByType, nil
}

// GetPerformanceByType returns value, cost and gain/loss aggregated per asset type
func (s *PortfolioService) GetPerformanceByType(ctx context.Context) ([]domain.TypePerformance, error) {
	valuations, err := s.ListHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to value holdings: %w", err)
	}
	return analytics.ComputePerformanceByType(valuations), nil
}
