package ports

import (
	"context"
	"time"

	"github.com/flujo/pos-system/internal/core/domain"
)

// TicketFilter narrows ListTickets. Zero values disable a filter.
type TicketFilter struct {
	UserID   string
	Status   domain.TicketStatus
	SellTime int // 0 = any hour
	From     time.Time
	To       time.Time
}

// Match applies the filter to a single ticket. Repositories without a query
// language use it directly.
func (f TicketFilter) Match(t domain.Ticket) bool {
	if f.UserID != "" && t.UserID != f.UserID {
		return false
	}
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.SellTime != 0 && !t.HasSellTime(f.SellTime) {
		return false
	}
	if !f.From.IsZero() && t.CreatedAt.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && t.CreatedAt.After(f.To) {
		return false
	}
	return true
}

// TicketRepository is the append-only ticket table. The only permitted
// update is the status flip.
type TicketRepository interface {
	Create(ctx context.Context, t domain.Ticket) error
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Ticket, error)
	// List returns matching tickets, most recent first.
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// SetStatus stores the new status and returns the updated ticket.
	SetStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
}
