package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

// TicketRepository is append-only; the status flip is the one permitted write.
type TicketRepository struct {
	mu      sync.RWMutex
	tickets []domain.Ticket
	byID    map[string]int
	byKey   map[string]int
}

func NewTicketRepository() *TicketRepository {
	return &TicketRepository{
		byID:  make(map[string]int),
		byKey: make(map[string]int),
	}
}

func (r *TicketRepository) Create(_ context.Context, t domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[t.ID]; ok {
		return fmt.Errorf("ticket %s already exists", t.ID)
	}
	if t.IdempotencyKey != "" {
		if _, ok := r.byKey[t.IdempotencyKey]; ok {
			return fmt.Errorf("%w: idempotency key reused", domain.ErrPreconditionFailed)
		}
		r.byKey[t.IdempotencyKey] = len(r.tickets)
	}
	r.byID[t.ID] = len(r.tickets)
	r.tickets = append(r.tickets, t.Clone())
	return nil
}

func (r *TicketRepository) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	t := r.tickets[i].Clone()
	return &t, nil
}

func (r *TicketRepository) FindByIdempotencyKey(_ context.Context, key string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byKey[key]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	t := r.tickets[i].Clone()
	return &t, nil
}

func (r *TicketRepository) List(_ context.Context, filter ports.TicketFilter) ([]domain.Ticket, error) {
	r.mu.RLock()
	out := make([]domain.Ticket, 0)
	for _, t := range r.tickets {
		if filter.Match(t) {
			out = append(out, t.Clone())
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *TicketRepository) SetStatus(_ context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	r.tickets[i].Status = status
	t := r.tickets[i].Clone()
	return &t, nil
}
