package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/TempAcc-hue/Financial-Portfolio/internal/domain"
)

// holdingRepository implements domain.HoldingRepository for one type partition.
// Holdings are kept in insertion order, which is the natural storage order of the partition.
type holdingRepository struct {
	mu    sync.RWMutex
	order []uuid.UUID
	byID  map[uuid.UUID]*domain.Holding
}

var _ domain.HoldingRepository = (*holdingRepository)(nil)

// NewHoldingRepository creates an empty in-memory partition. Useful for tests or ephemeral runs.
func NewHoldingRepository() domain.HoldingRepository {
	return &holdingRepository{byID: make(map[uuid.UUID]*domain.Holding)}
}

// NewPartitions creates one empty in-memory partition per asset type
func NewPartitions() map[domain.AssetType]domain.HoldingRepository {
	partitions := make(map[domain.AssetType]domain.HoldingRepository, len(domain.PartitionOrder))
	for _, t := range domain.PartitionOrder {
		partitions[t] = NewHoldingRepository()
	}
	return partitions
}

// FindAll retrieves every holding in insertion order
func (r *holdingRepository) FindAll(ctx context.Context) ([]*domain.Holding, error) {
	return r.filter(func(*domain.Holding) bool { return true }), nil
}

// FindByID retrieves a holding by its ID
func (r *holdingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Holding, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.byID[id]
	if !ok {
		return nil, domain.NotFoundError(id)
	}
	return clone(h), nil
}

// Save inserts or overwrites a holding. An overwrite keeps the original position.
func (r *holdingRepository) Save(ctx context.Context, holding *domain.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[holding.ID]; !exists {
		r.order = append(r.order, holding.ID)
	}
	r.byID[holding.ID] = clone(holding)
	return nil
}

// Delete removes a holding by its ID
func (r *holdingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return domain.NotFoundError(id)
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// SearchBySymbol returns holdings whose symbol contains query, ignoring case
func (r *holdingRepository) SearchBySymbol(ctx context.Context, query string) ([]*domain.Holding, error) {
	q := strings.ToLower(query)
	return r.filter(func(h *domain.Holding) bool {
		return strings.Contains(strings.ToLower(h.Symbol), q)
	}), nil
}

// SearchByName returns holdings whose name contains query, ignoring case
func (r *holdingRepository) SearchByName(ctx context.Context, query string) ([]*domain.Holding, error) {
	q := strings.ToLower(query)
	return r.filter(func(h *domain.Holding) bool {
		return strings.Contains(strings.ToLower(h.Name), q)
	}), nil
}

func (r *holdingRepository) filter(keep func(*domain.Holding) bool) []*domain.Holding {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res := make([]*domain.Holding, 0, len(r.order))
	for _, id := range r.order {
		if h := r.byID[id]; keep(h) {
			res = append(res, clone(h))
		}
	}
	return res
}

func clone(h *domain.Holding) *domain.Holding {
	if h == nil {
		return nil
	}
	cp := *h
	if h.PurchaseDate != nil {
		d := *h.PurchaseDate
		cp.PurchaseDate = &d
	}
	return &cp
}
