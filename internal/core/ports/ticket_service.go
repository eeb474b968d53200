package ports

import (
	"context"
	"time"

	"github.com/flujo/pos-system/internal/core/domain"
)

// GenerateTicketInput carries everything needed to close a sale.
type GenerateTicketInput struct {
	UserID         string
	Items          []domain.CartItem
	IdempotencyKey string
}

// TicketResult is returned by GenerateTicket.
type TicketResult struct {
	Ticket domain.Ticket
	// AlreadyExisted is true when the Idempotency-Key matched an existing ticket.
	AlreadyExisted bool
}

// ListTicketsInput carries the listing filters.
type ListTicketsInput struct {
	UserID   string
	Status   domain.TicketStatus
	SellTime int
	From     time.Time
	To       time.Time
}

type TicketService interface {
	GenerateTicket(ctx context.Context, in GenerateTicketInput) (*TicketResult, error)
	CancelTicket(ctx context.Context, id string) (*domain.Ticket, error)
	GetTicket(ctx context.Context, id string) (*domain.Ticket, error)
	ListTickets(ctx context.Context, in ListTicketsInput) ([]domain.Ticket, error)
}
