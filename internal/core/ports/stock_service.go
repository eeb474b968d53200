package ports

import (
	"context"

	"github.com/flujo/pos-system/internal/core/domain"
)

// UpdateStockInput describes an absolute stock write.
type UpdateStockInput struct {
	Scope      domain.StockScope
	Quantity   int
	CategoryID string // required for CATEGORY
	ProductID  string // required for SINGLE
}

// UpdateStockResult reports how many products were written.
type UpdateStockResult struct {
	UpdatedCount int
}

type StockService interface {
	UpdateStock(ctx context.Context, in UpdateStockInput) (*UpdateStockResult, error)
}
