package ports

import (
	"context"
	"time"

	"github.com/flujo/pos-system/internal/core/domain"
)

// HighlightSuggester is the external collaborator that picks one product of
// a category to feature. A nil highlight with a nil error means "no
// suggestion".
type HighlightSuggester interface {
	SuggestHighlight(ctx context.Context, categoryName string, products []domain.Product) (*domain.Highlight, error)
}

// HighlightCache keeps the latest suggestion per category.
type HighlightCache interface {
	Get(ctx context.Context, categoryID string) (*domain.Highlight, error)
	Set(ctx context.Context, categoryID string, h domain.Highlight, ttl time.Duration) error
}

// HighlightRequest asks the refresh workers for a new suggestion.
type HighlightRequest struct {
	CategoryID   string
	CategoryName string
	Products     []domain.Product
}

// HighlightQueue accepts refresh requests without blocking. It reports false
// when the request was dropped.
type HighlightQueue interface {
	TryEnqueue(req HighlightRequest) bool
}
