package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

type CatalogService struct {
	users      ports.UserRepository
	categories ports.CategoryRepository
	products   ports.ProductRepository
	logger     zerolog.Logger
}

func NewCatalogService(
	users ports.UserRepository,
	categories ports.CategoryRepository,
	products ports.ProductRepository,
	logger zerolog.Logger,
) *CatalogService {
	return &CatalogService{users: users, categories: categories, products: products, logger: logger}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// ListProducts returns the stored catalog, optionally narrowed to one
// category. An unknown category yields an empty list.
func (s *CatalogService) ListProducts(ctx context.Context, categoryID string) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return domain.FilterByCategory(products, categoryID), nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

// UpdateProductPrice changes the list price. Existing tickets keep the price
// they were sold at.
func (s *CatalogService) UpdateProductPrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Product, error) {
	if price.IsNegative() {
		return nil, domain.ErrInvalidPrice
	}
	p, err := s.products.UpdatePrice(ctx, id, domain.RoundMoney(price))
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", id).Str("price", p.Price.StringFixed(2)).Msg("product repriced")
	return p, nil
}

// SetProductPromotion writes the persistent marketing flag. A reason is
// required to set it and is cleared when the flag is removed.
func (s *CatalogService) SetProductPromotion(ctx context.Context, id string, in ports.ProductPromotionInput) (*domain.Product, error) {
	reason := strings.TrimSpace(in.Reason)
	if in.IsPromotional && reason == "" {
		return nil, fmt.Errorf("%w: reason", domain.ErrMissingField)
	}
	if !in.IsPromotional {
		reason = ""
	}
	p, err := s.products.SetPromotionFlag(ctx, id, in.IsPromotional, reason)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", id).Bool("is_promotional", in.IsPromotional).Msg("product promotion flag updated")
	return p, nil
}

func (s *CatalogService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *CatalogService) CreateUser(ctx context.Context, in ports.UserInput) (*domain.User, error) {
	user, err := buildUser(uuid.NewString(), in)
	if err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return &user, nil
}

func (s *CatalogService) UpdateUser(ctx context.Context, id string, in ports.UserInput) (*domain.User, error) {
	user, err := buildUser(id, in)
	if err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", id).Msg("user updated")
	return &user, nil
}

// DeleteUser removes a user. Tickets already issued keep the seller's name.
func (s *CatalogService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

func buildUser(id string, in ports.UserInput) (domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	switch {
	case name == "":
		return domain.User{}, fmt.Errorf("%w: name", domain.ErrMissingField)
	case email == "":
		return domain.User{}, fmt.Errorf("%w: email", domain.ErrMissingField)
	case !in.Role.Valid():
		return domain.User{}, domain.ErrInvalidRole
	}
	return domain.User{ID: id, Name: name, Email: email, Role: in.Role}, nil
}
