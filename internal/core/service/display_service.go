package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

// DisplayService assembles what the sales screen shows. Priority, lowest to
// highest: stored flag or cached highlight, then live promotions.
type DisplayService struct {
	categories ports.CategoryRepository
	products   ports.ProductRepository
	promotions ports.PromotionRepository
	cache      ports.HighlightCache
	queue      ports.HighlightQueue
	clock      domain.Clock
	logger     zerolog.Logger
}

func NewDisplayService(
	categories ports.CategoryRepository,
	products ports.ProductRepository,
	promotions ports.PromotionRepository,
	cache ports.HighlightCache,
	queue ports.HighlightQueue,
	clock domain.Clock,
	logger zerolog.Logger,
) *DisplayService {
	return &DisplayService{
		categories: categories,
		products:   products,
		promotions: promotions,
		cache:      cache,
		queue:      queue,
		clock:      clock,
		logger:     logger,
	}
}

// Catalog reads only the highlight cache. Categories without a cached
// suggestion are queued for refresh and shown without one.
func (s *DisplayService) Catalog(ctx context.Context, categoryID string) ([]domain.Product, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("display catalog: %w", err)
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("display catalog: %w", err)
	}

	highlights := make(map[string]domain.Highlight)
	for _, c := range categories {
		if categoryID != "" && c.ID != categoryID {
			continue
		}
		h, err := s.cache.Get(ctx, c.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("category_id", c.ID).Msg("highlight cache read failed")
		}
		if h != nil {
			highlights[c.ID] = *h
			continue
		}
		s.enqueue(c, all)
	}

	products := domain.ApplyHighlights(domain.FilterByCategory(all, categoryID), highlights)

	products, err = applyLivePromotions(ctx, s.promotions, s.clock, products)
	if err != nil {
		return nil, fmt.Errorf("display catalog: %w", err)
	}
	return products, nil
}

// RefreshHighlights asks for a fresh suggestion for every category.
func (s *DisplayService) RefreshHighlights(ctx context.Context) (int, error) {
	all, err := s.products.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh highlights: %w", err)
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("refresh highlights: %w", err)
	}

	accepted := 0
	for _, c := range categories {
		if s.enqueue(c, all) {
			accepted++
		}
	}
	s.logger.Info().Int("categories", len(categories)).Int("accepted", accepted).Msg("highlight refresh requested")
	return accepted, nil
}

func (s *DisplayService) enqueue(c domain.Category, all []domain.Product) bool {
	products := domain.FilterByCategory(all, c.ID)
	if len(products) == 0 {
		return false
	}
	return s.queue.TryEnqueue(ports.HighlightRequest{
		CategoryID:   c.ID,
		CategoryName: c.Name,
		Products:     products,
	})
}
