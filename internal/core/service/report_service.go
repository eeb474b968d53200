package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

// ReportService folds completed tickets into dashboard KPIs.
type ReportService struct {
	tickets ports.TicketRepository
	clock   domain.Clock
}

func NewReportService(tickets ports.TicketRepository, clock domain.Clock) *ReportService {
	return &ReportService{tickets: tickets, clock: clock}
}

// Summary returns earnings and sale counts since the start of the current
// day, week (Sunday) and month in the business time zone.
func (s *ReportService) Summary(ctx context.Context, in ports.SummaryInput) (*ports.SalesSummary, error) {
	if in.SellTime != 0 && !domain.ValidHour(in.SellTime) {
		return nil, domain.ErrInvalidHour
	}

	now := s.clock.Now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	week := day.AddDate(0, 0, -int(day.Weekday()))
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	from := week
	if month.Before(from) {
		from = month
	}
	tickets, err := s.tickets.List(ctx, ports.TicketFilter{
		UserID:   in.UserID,
		Status:   domain.TicketCompleted,
		SellTime: in.SellTime,
		From:     from,
	})
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	summary := &ports.SalesSummary{
		Day:   ports.PeriodMetrics{NetEarnings: decimal.Zero},
		Week:  ports.PeriodMetrics{NetEarnings: decimal.Zero},
		Month: ports.PeriodMetrics{NetEarnings: decimal.Zero},
	}
	for _, t := range tickets {
		accumulate(&summary.Day, t, day)
		accumulate(&summary.Week, t, week)
		accumulate(&summary.Month, t, month)
	}
	return summary, nil
}

func accumulate(m *ports.PeriodMetrics, t domain.Ticket, since time.Time) {
	if t.CreatedAt.Before(since) {
		return
	}
	m.NetEarnings = m.NetEarnings.Add(t.Total)
	m.TotalSales++
}
