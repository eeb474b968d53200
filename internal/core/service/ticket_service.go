package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

const ticketIDPrefix = "TICKET-"

// TicketService turns carts into immutable tickets. It reads products but
// never writes them: selling does not decrement stock.
type TicketService struct {
	tickets  ports.TicketRepository
	users    ports.UserRepository
	products ports.ProductRepository
	window   domain.SalesWindow
	clock    domain.Clock
	logger   zerolog.Logger
}

func NewTicketService(
	tickets ports.TicketRepository,
	users ports.UserRepository,
	products ports.ProductRepository,
	window domain.SalesWindow,
	clock domain.Clock,
	logger zerolog.Logger,
) *TicketService {
	return &TicketService{
		tickets:  tickets,
		users:    users,
		products: products,
		window:   window,
		clock:    clock,
		logger:   logger,
	}
}

// GenerateTicket validates the cart, snapshots prices and stores a COMPLETED
// ticket. If the idempotency key was already used, the existing ticket is
// returned without side effects.
func (s *TicketService) GenerateTicket(ctx context.Context, in ports.GenerateTicketInput) (*ports.TicketResult, error) {
	if in.IdempotencyKey != "" {
		existing, err := s.tickets.FindByIdempotencyKey(ctx, in.IdempotencyKey)
		if err == nil && existing != nil {
			s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("ticket_id", existing.ID).Msg("idempotent replay")
			return &ports.TicketResult{Ticket: *existing, AlreadyExisted: true}, nil
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("generate ticket: %w", err)
		}
	}

	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	now := s.clock.Now()
	if !s.window.Contains(now) {
		return nil, domain.ErrOutsideSalesHours
	}

	items := make([]domain.TicketItem, 0, len(in.Items))
	for _, ci := range in.Items {
		if ci.Quantity < domain.MinQuantity || ci.Quantity > domain.MaxQuantity {
			return nil, domain.ErrInvalidQuantity
		}
		if !domain.ValidHour(ci.SellTime) {
			return nil, domain.ErrInvalidHour
		}
		product, err := s.products.FindByID(ctx, ci.ProductID)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.TicketItem{
			ProductID: product.ID,
			Quantity:  ci.Quantity,
			Price:     product.Price,
			SellTime:  ci.SellTime,
		})
	}

	ticket := domain.Ticket{
		ID:             ticketIDPrefix + uuid.NewString(),
		UserID:         user.ID,
		UserName:       user.Name,
		CreatedAt:      now.UTC(),
		Items:          items,
		Total:          domain.TicketTotal(items),
		Status:         domain.TicketCompleted,
		IdempotencyKey: in.IdempotencyKey,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		// A concurrent request with the same key won the insert.
		if in.IdempotencyKey != "" && errors.Is(err, domain.ErrPreconditionFailed) {
			existing, ferr := s.tickets.FindByIdempotencyKey(ctx, in.IdempotencyKey)
			if ferr == nil && existing != nil {
				s.logger.Info().Str("idempotency_key", in.IdempotencyKey).Str("ticket_id", existing.ID).Msg("idempotent replay after concurrent insert")
				return &ports.TicketResult{Ticket: *existing, AlreadyExisted: true}, nil
			}
		}
		s.logger.Error().Err(err).Msg("failed to create ticket")
		return nil, fmt.Errorf("generate ticket: %w", err)
	}

	s.logger.Info().
		Str("ticket_id", ticket.ID).
		Str("user_id", ticket.UserID).
		Int("items", len(items)).
		Str("total", ticket.Total.StringFixed(2)).
		Msg("ticket generated")

	return &ports.TicketResult{Ticket: ticket}, nil
}

// CancelTicket marks a ticket CANCELLED. Cancelling an already cancelled
// ticket is a no-op that returns it unchanged.
func (s *TicketService) CancelTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketCancelled {
		return ticket, nil
	}
	if !ticket.Status.CanTransitionTo(domain.TicketCancelled) {
		return nil, fmt.Errorf("cancel ticket: %w: status %s", domain.ErrPreconditionFailed, ticket.Status)
	}

	updated, err := s.tickets.SetStatus(ctx, id, domain.TicketCancelled)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("ticket_id", id).Msg("ticket cancelled")
	return updated, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.withCurrentUserName(ctx, ticket, nil)
	return ticket, nil
}

// ListTickets returns matching tickets, most recent first, with the seller's
// current name. Tickets of deleted users keep the name stored at sale time.
func (s *TicketService) ListTickets(ctx context.Context, in ports.ListTicketsInput) ([]domain.Ticket, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, in.Status)
	}
	if in.SellTime != 0 && !domain.ValidHour(in.SellTime) {
		return nil, domain.ErrInvalidHour
	}

	tickets, err := s.tickets.List(ctx, ports.TicketFilter{
		UserID:   in.UserID,
		Status:   in.Status,
		SellTime: in.SellTime,
		From:     in.From,
		To:       in.To,
	})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}

	names := make(map[string]string)
	for i := range tickets {
		s.withCurrentUserName(ctx, &tickets[i], names)
	}
	return tickets, nil
}

func (s *TicketService) withCurrentUserName(ctx context.Context, t *domain.Ticket, seen map[string]string) {
	if name, ok := seen[t.UserID]; ok {
		if name != "" {
			t.UserName = name
		}
		return
	}
	user, err := s.users.FindByID(ctx, t.UserID)
	if err != nil {
		if seen != nil {
			seen[t.UserID] = ""
		}
		return
	}
	t.UserName = user.Name
	if seen != nil {
		seen[t.UserID] = user.Name
	}
}
