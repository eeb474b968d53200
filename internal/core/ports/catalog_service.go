package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
)

// UserInput carries the editable fields of a user.
type UserInput struct {
	Name  string
	Email string
	Role  domain.Role
}

// ProductPromotionInput sets or clears the stored marketing flag.
type ProductPromotionInput struct {
	IsPromotional bool
	Reason        string
}

// CatalogService exposes categories, products and users.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	UpdateProductPrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Product, error)
	SetProductPromotion(ctx context.Context, id string, in ProductPromotionInput) (*domain.Product, error)

	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, in UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}
