package ports

import (
	"context"

	"github.com/flujo/pos-system/internal/core/domain"
)

// CreatePromotionInput schedules a promotion for today at Hour.
type CreatePromotionInput struct {
	ProductID   string
	ProductName string // optional; filled from the catalog when empty
	Reason      string
	Hour        int
}

// UpdatePromotionInput changes only the fields that are set.
type UpdatePromotionInput struct {
	Reason *string
	Hour   *int
}

// ListPromotionsInput selects a trailing window of days ending today.
// Days == 0 means domain.RecentWindowDays.
type ListPromotionsInput struct {
	Days int
}

type PromotionService interface {
	CreatePromotion(ctx context.Context, in CreatePromotionInput) (*domain.Promotion, error)
	UpdatePromotion(ctx context.Context, id string, in UpdatePromotionInput) (*domain.Promotion, error)
	DeletePromotion(ctx context.Context, id string) error
	ListPromotions(ctx context.Context, in ListPromotionsInput) ([]domain.Promotion, error)
	// LiveCatalog returns the catalog with promotions live right now applied.
	LiveCatalog(ctx context.Context) ([]domain.Product, error)
}
