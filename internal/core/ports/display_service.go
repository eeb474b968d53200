package ports

import (
	"context"

	"github.com/flujo/pos-system/internal/core/domain"
)

// DisplayService builds the sales-screen view of the catalog.
type DisplayService interface {
	// Catalog returns products with cached highlights and live promotions
	// applied. It never waits on the highlight collaborator.
	Catalog(ctx context.Context, categoryID string) ([]domain.Product, error)
	// RefreshHighlights queues a new suggestion for every category and
	// returns how many requests were accepted.
	RefreshHighlights(ctx context.Context) (int, error)
}
