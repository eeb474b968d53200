package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TicketStatus represents the lifecycle state of a ticket.
type TicketStatus string

const (
	TicketCompleted TicketStatus = "COMPLETED"
	TicketCancelled TicketStatus = "CANCELLED"
)

// validTicketTransitions defines the allowed state machine transitions.
// CANCELLED is terminal.
var validTicketTransitions = map[TicketStatus][]TicketStatus{
	TicketCompleted: {TicketCancelled},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, allowed := range validTicketTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	return s == TicketCompleted || s == TicketCancelled
}

// CartItem is a pre-sale selection. It never leaves the request that
// carries it.
type CartItem struct {
	ID        string
	ProductID string
	Quantity  int
	SellTime  int
}

// TicketItem is a frozen line of a sale. Price is the product price at the
// moment the ticket was generated.
type TicketItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	SellTime  int             `json:"sell_time"`
}

// Subtotal returns price × quantity rounded to cents.
func (i TicketItem) Subtotal() decimal.Decimal {
	return RoundMoney(i.Price.Mul(decimal.NewFromInt(int64(i.Quantity))))
}

// Ticket is the immutable record of a sale. Only Status may change, and
// only from COMPLETED to CANCELLED.
type Ticket struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	UserName       string          `json:"user_name"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []TicketItem    `json:"items"`
	Total          decimal.Decimal `json:"total"`
	Status         TicketStatus    `json:"status"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// Clone returns a copy that does not share the Items backing array.
func (t Ticket) Clone() Ticket {
	items := make([]TicketItem, len(t.Items))
	copy(items, t.Items)
	t.Items = items
	return t
}

// HasSellTime reports whether any item was sold for the given hour.
func (t Ticket) HasSellTime(hour int) bool {
	for _, it := range t.Items {
		if it.SellTime == hour {
			return true
		}
	}
	return false
}

// TicketTotal sums the rounded subtotals of items. This is the single
// rounding policy used both when a ticket is created and when it is shown.
func TicketTotal(items []TicketItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return RoundMoney(total)
}

// RoundMoney rounds to two decimal places, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
