package memory

import (
	"context"
	"sync"

	"github.com/flujo/pos-system/internal/core/domain"
)

type PromotionRepository struct {
	mu         sync.RWMutex
	promotions map[string]domain.Promotion
}

func NewPromotionRepository() *PromotionRepository {
	return &PromotionRepository{promotions: make(map[string]domain.Promotion)}
}

func (r *PromotionRepository) Create(_ context.Context, p domain.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.promotions[p.ID] = p
	return nil
}

func (r *PromotionRepository) FindByID(_ context.Context, id string) (*domain.Promotion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.promotions[id]
	if !ok {
		return nil, domain.ErrPromotionNotFound
	}
	return &p, nil
}

func (r *PromotionRepository) Update(_ context.Context, p domain.Promotion) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.promotions[p.ID]; !ok {
		return domain.ErrPromotionNotFound
	}
	r.promotions[p.ID] = p
	return nil
}

func (r *PromotionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.promotions[id]; !ok {
		return domain.ErrPromotionNotFound
	}
	delete(r.promotions, id)
	return nil
}

// ListBetween compares YYYY-MM-DD strings, which order like dates.
func (r *PromotionRepository) ListBetween(_ context.Context, fromDate, toDate string) ([]domain.Promotion, error) {
	r.mu.RLock()
	out := make([]domain.Promotion, 0)
	for _, p := range r.promotions {
		if p.PromotionDate >= fromDate && p.PromotionDate <= toDate {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	domain.SortPromotions(out)
	return out, nil
}
