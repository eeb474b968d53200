package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
)

// UserRepository persists point-of-sale users.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create fails with domain.ErrDuplicateEmail when the email is taken.
	Create(ctx context.Context, user domain.User) error
	// Update replaces the record; fails with domain.ErrUserNotFound or
	// domain.ErrDuplicateEmail.
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) error
}

// CategoryRepository exposes the read-only category table.
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
}

// ProductRepository owns the product table. Implementations return copies;
// mutating a returned product never changes the store.
type ProductRepository interface {
	List(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// SetStock writes stock = quantity on every product the selector matches,
	// all or nothing, and returns how many products were written.
	SetStock(ctx context.Context, sel domain.StockSelector, quantity int) (int, error)
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Product, error)
	SetPromotionFlag(ctx context.Context, id string, promotional bool, reason string) (*domain.Product, error)
}
