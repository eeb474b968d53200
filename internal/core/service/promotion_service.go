package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

const maxPromotionWindowDays = 365

// PromotionService schedules hour-scoped promotions. It never writes to the
// product table; live promotions are overlaid when the catalog is read.
type PromotionService struct {
	promotions ports.PromotionRepository
	products   ports.ProductRepository
	clock      domain.Clock
	logger     zerolog.Logger
}

func NewPromotionService(
	promotions ports.PromotionRepository,
	products ports.ProductRepository,
	clock domain.Clock,
	logger zerolog.Logger,
) *PromotionService {
	return &PromotionService{promotions: promotions, products: products, clock: clock, logger: logger}
}

// CreatePromotion schedules a promotion for today at the given hour.
func (s *PromotionService) CreatePromotion(ctx context.Context, in ports.CreatePromotionInput) (*domain.Promotion, error) {
	if !domain.ValidHour(in.Hour) {
		return nil, domain.ErrInvalidHour
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason", domain.ErrMissingField)
	}
	product, err := s.products.FindByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		name = product.Name
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	now := s.clock.Now()
	promo := domain.Promotion{
		ID:            id.String(),
		ProductID:     product.ID,
		ProductName:   name,
		Reason:        reason,
		PromotionDate: domain.DateOf(now),
		Hour:          in.Hour,
		CreatedAt:     now.UTC(),
	}
	if err := s.promotions.Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}

	s.logger.Info().
		Str("promotion_id", promo.ID).
		Str("product_id", promo.ProductID).
		Str("date", promo.PromotionDate).
		Int("hour", promo.Hour).
		Msg("promotion created")
	return &promo, nil
}

// UpdatePromotion edits reason and/or hour. Only promotions scheduled for
// today may be edited.
func (s *PromotionService) UpdatePromotion(ctx context.Context, id string, in ports.UpdatePromotionInput) (*domain.Promotion, error) {
	promo, err := s.promotions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !promo.EditableAt(s.clock.Now()) {
		return nil, domain.ErrPromotionNotEditable
	}

	if in.Hour != nil {
		if !domain.ValidHour(*in.Hour) {
			return nil, domain.ErrInvalidHour
		}
		promo.Hour = *in.Hour
	}
	if in.Reason != nil {
		reason := strings.TrimSpace(*in.Reason)
		if reason == "" {
			return nil, fmt.Errorf("%w: reason", domain.ErrMissingField)
		}
		promo.Reason = reason
	}

	if err := s.promotions.Update(ctx, *promo); err != nil {
		return nil, err
	}
	s.logger.Info().Str("promotion_id", id).Int("hour", promo.Hour).Msg("promotion updated")
	return promo, nil
}

func (s *PromotionService) DeletePromotion(ctx context.Context, id string) error {
	if err := s.promotions.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("promotion_id", id).Msg("promotion deleted")
	return nil
}

// ListPromotions returns the promotions of the trailing window of days
// ending today, most recent first.
func (s *PromotionService) ListPromotions(ctx context.Context, in ports.ListPromotionsInput) ([]domain.Promotion, error) {
	days := in.Days
	if days == 0 {
		days = domain.RecentWindowDays
	}
	if days < 1 || days > maxPromotionWindowDays {
		return nil, fmt.Errorf("%w: days must be between 1 and %d", domain.ErrInvalidInput, maxPromotionWindowDays)
	}

	now := s.clock.Now()
	promos, err := s.promotions.ListBetween(ctx, domain.WindowStart(now, days), domain.DateOf(now))
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	domain.SortPromotions(promos)
	return promos, nil
}

// LiveCatalog returns the stored catalog with the promotions live at this
// hour applied.
func (s *PromotionService) LiveCatalog(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("live catalog: %w", err)
	}
	out, err := applyLivePromotions(ctx, s.promotions, s.clock, products)
	if err != nil {
		return nil, fmt.Errorf("live catalog: %w", err)
	}
	return out, nil
}

// applyLivePromotions overlays today's promotions whose hour is the current
// one. The sales screen and the live catalog share it.
func applyLivePromotions(ctx context.Context, promotions ports.PromotionRepository, clock domain.Clock, products []domain.Product) ([]domain.Product, error) {
	now := clock.Now()
	today := domain.DateOf(now)
	promos, err := promotions.ListBetween(ctx, today, today)
	if err != nil {
		return nil, err
	}
	return domain.ResolveLive(now, promos, products), nil
}
