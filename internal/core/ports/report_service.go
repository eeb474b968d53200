package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// SummaryInput filters the tickets the KPIs are computed over.
type SummaryInput struct {
	UserID   string
	SellTime int
}

// PeriodMetrics aggregates completed tickets of one period.
type PeriodMetrics struct {
	NetEarnings decimal.Decimal
	TotalSales  int
}

// SalesSummary holds the dashboard KPIs.
type SalesSummary struct {
	Day   PeriodMetrics
	Week  PeriodMetrics
	Month PeriodMetrics
}

type ReportService interface {
	Summary(ctx context.Context, in SummaryInput) (*SalesSummary, error)
}
