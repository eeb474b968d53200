package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

// StockService sets absolute stock levels. It is the only writer of
// Product.Stock.
type StockService struct {
	categories ports.CategoryRepository
	products   ports.ProductRepository
	logger     zerolog.Logger
}

func NewStockService(categories ports.CategoryRepository, products ports.ProductRepository, logger zerolog.Logger) *StockService {
	return &StockService{categories: categories, products: products, logger: logger}
}

// UpdateStock writes stock = quantity on every product in the scope. The
// write is all or nothing.
func (s *StockService) UpdateStock(ctx context.Context, in ports.UpdateStockInput) (*ports.UpdateStockResult, error) {
	if in.Quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}

	sel := domain.StockSelector{Scope: in.Scope}
	switch in.Scope {
	case domain.ScopeAll:
	case domain.ScopeCategory:
		if in.CategoryID == "" {
			return nil, domain.ErrCategoryNotFound
		}
		if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		sel.CategoryID = in.CategoryID
	case domain.ScopeSingle:
		if in.ProductID == "" {
			return nil, domain.ErrProductNotFound
		}
		if _, err := s.products.FindByID(ctx, in.ProductID); err != nil {
			return nil, err
		}
		sel.ProductID = in.ProductID
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidScope, in.Scope)
	}

	n, err := s.products.SetStock(ctx, sel, in.Quantity)
	if err != nil {
		return nil, err
	}
	if n == 0 && in.Scope == domain.ScopeCategory {
		return nil, domain.ErrNoMatch
	}

	s.logger.Info().
		Str("scope", string(in.Scope)).
		Str("category_id", in.CategoryID).
		Str("product_id", in.ProductID).
		Int("quantity", in.Quantity).
		Int("updated", n).
		Msg("stock updated")

	return &ports.UpdateStockResult{UpdatedCount: n}, nil
}
