package asset

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// AssetService presents the seven type partitions as one logical collection
type AssetService struct {
	partitions map[domain.AssetType]domain.HoldingRepository
	now        func() time.Time
	log        zerolog.Logger
}

// NewAssetService creates a new AssetService instance.
// Every asset type must have a partition.
func NewAssetService(partitions map[domain.AssetType]domain.HoldingRepository, log zerolog.Logger) (*AssetService, error) {
	for _, t := range domain.PartitionOrder {
		if partitions[t] == nil {
			return nil, fmt.Errorf("missing partition for asset type %s", t)
		}
	}
	return &AssetService{
		partitions: partitions,
		now:        time.Now,
		log:        log.With().Str("component", "asset_service").Logger(),
	}, nil
}

// GetAll returns every holding, partitions concatenated in domain.PartitionOrder
func (s *AssetService) GetAll(ctx context.Context) ([]*domain.Holding, error) {
	all := make([]*domain.Holding, 0)
	for _, t := range domain.PartitionOrder {
		holdings, err := s.partitions[t].FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s holdings: %w", t, err)
		}
		all = append(all, holdings...)
	}
	return all, nil
}

// GetByID returns the first holding with id, scanning partitions in domain.PartitionOrder
func (s *AssetService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	for _, t := range domain.PartitionOrder {
		holding, err := s.partitions[t].FindByID(ctx, id)
		if err == nil {
			return holding, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("failed to get holding from %s partition: %w", t, err)
		}
	}
	return nil, domain.NotFoundError(id)
}

// GetByType returns the holdings of a single partition
func (s *AssetService) GetByType(ctx context.Context, assetType domain.AssetType) ([]*domain.Holding, error) {
	repo, err := s.partition(assetType)
	if err != nil {
		return nil, err
	}

	holdings, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s holdings: %w", assetType, err)
	}
	return holdings, nil
}

// Search returns holdings whose symbol or name contains query, ignoring case.
// Results are deduplicated in first-seen order; a blank query returns everything.
func (s *AssetService) Search(ctx context.Context, query string) ([]*domain.Holding, error) {
	if strings.TrimSpace(query) == "" {
		return s.GetAll(ctx)
	}

	seen := make(map[uuid.UUID]struct{})
	results := make([]*domain.Holding, 0)
	collect := func(holdings []*domain.Holding) {
		for _, h := range holdings {
			if _, dup := seen[h.ID]; dup {
				continue
			}
			seen[h.ID] = struct{}{}
			results = append(results, h)
		}
	}

	for _, t := range domain.PartitionOrder {
		repo := s.partitions[t]

		bySymbol, err := repo.SearchBySymbol(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s holdings by symbol: %w", t, err)
		}
		collect(bySymbol)

		byName, err := repo.SearchByName(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to search %s holdings by name: %w", t, err)
		}
		collect(byName)
	}
	return results, nil
}

// Create validates the draft and stores it in the partition of its type
func (s *AssetService) Create(ctx context.Context, draft domain.HoldingDraft) (*domain.Holding, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	repo, err := s.partition(draft.Type)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	holding := &domain.Holding{
		ID:           uuid.New(),
		Symbol:       draft.Symbol,
		Name:         draft.Name,
		Type:         draft.Type,
		Quantity:     draft.Quantity,
		BuyPrice:     draft.BuyPrice,
		PurchaseDate: draft.PurchaseDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := repo.Save(ctx, holding); err != nil {
		return nil, fmt.Errorf("failed to create holding: %w", err)
	}

	s.log.Info().
		Str("id", holding.ID.String()).
		Str("type", string(holding.Type)).
		Str("symbol", holding.Symbol).
		Msg("created holding")
	return holding, nil
}

// Update overwrites the mutable fields of an existing holding.
// The type of a holding never changes; an empty draft type means "unchanged".
func (s *AssetService) Update(ctx context.Context, id uuid.UUID, draft domain.HoldingDraft) (*domain.Holding, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if draft.Type == "" {
		draft.Type = existing.Type
	}
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if draft.Type != existing.Type {
		return nil, &domain.ValidationError{Field: "type", Reason: fmt.Sprintf("cannot change from %s to %s", existing.Type, draft.Type)}
	}

	repo, err := s.partition(existing.Type)
	if err != nil {
		return nil, err
	}

	existing.Symbol = draft.Symbol
	existing.Name = draft.Name
	existing.Quantity = draft.Quantity
	existing.BuyPrice = draft.BuyPrice
	existing.PurchaseDate = draft.PurchaseDate
	existing.UpdatedAt = s.now().UTC()

	if err := repo.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update holding: %w", err)
	}

	s.log.Info().Str("id", id.String()).Str("symbol", existing.Symbol).Msg("updated holding")
	return existing, nil
}

// Delete removes a holding from its partition
func (s *AssetService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	repo, err := s.partition(existing.Type)
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	s.log.Info().Str("id", id.String()).Str("symbol", existing.Symbol).Msg("deleted holding")
	return nil
}

func (s *AssetService) partition(assetType domain.AssetType) (domain.HoldingRepository, error) {
	if !assetType.IsValid() {
		return nil, &domain.ValidationError{Field: "type", Reason: fmt.Sprintf("unrecognized asset type %q", assetType)}
	}
	return s.partitions[assetType], nil
}
