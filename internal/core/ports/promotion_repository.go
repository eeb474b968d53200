package ports

import (
	"context"

	"github.com/flujo/pos-system/internal/core/domain"
)

// PromotionRepository stores hour-scoped promotions. Stale promotions are
// never purged.
type PromotionRepository interface {
	Create(ctx context.Context, p domain.Promotion) error
	FindByID(ctx context.Context, id string) (*domain.Promotion, error)
	Update(ctx context.Context, p domain.Promotion) error
	Delete(ctx context.Context, id string) error
	// ListBetween returns promotions whose date lies in [fromDate, toDate]
	// (inclusive, YYYY-MM-DD), most recently created first.
	ListBetween(ctx context.Context, fromDate, toDate string) ([]domain.Promotion, error)
}
