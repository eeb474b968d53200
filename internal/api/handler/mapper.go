package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

// --- Request → Service input ---

func toUserInput(req userRequest) ports.UserInput {
	return ports.UserInput{
		Name:  req.Name,
		Email: req.Email,
		Role:  domain.Role(req.Role),
	}
}

func toStockInput(req stockRequest) ports.UpdateStockInput {
	return ports.UpdateStockInput{
		Scope:      domain.StockScope(req.Scope),
		Quantity:   *req.Quantity,
		CategoryID: req.CategoryID,
		ProductID:  req.ProductID,
	}
}

func toCartItems(items []cartItemRequest) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	for i, it := range items {
		out[i] = domain.CartItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			SellTime:  it.SellTime,
		}
	}
	return out
}

// --- Domain → Response ---

func money(d decimal.Decimal) string {
	return domain.RoundMoney(d).StringFixed(2)
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

func toCategoryResponses(cats []domain.Category) []categoryResponse {
	out := make([]categoryResponse, len(cats))
	for i, c := range cats {
		out[i] = categoryResponse{ID: c.ID, Name: c.Name}
	}
	return out
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:              p.ID,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
		Price:           money(p.Price),
		Stock:           p.Stock,
		IsPromotional:   p.IsPromotional,
		PromotionReason: p.PromotionReason,
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

func toPromotionResponse(p domain.Promotion) promotionResponse {
	return promotionResponse{
		ID:            p.ID,
		ProductID:     p.ProductID,
		ProductName:   p.ProductName,
		Reason:        p.Reason,
		PromotionDate: p.PromotionDate,
		Hour:          p.Hour,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toPromotionResponses(ps []domain.Promotion) []promotionResponse {
	out := make([]promotionResponse, len(ps))
	for i, p := range ps {
		out[i] = toPromotionResponse(p)
	}
	return out
}

func toTicketResponse(t domain.Ticket) ticketResponse {
	items := make([]ticketItemResponse, len(t.Items))
	for i, it := range t.Items {
		items[i] = ticketItemResponse{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Price:     money(it.Price),
			Subtotal:  money(it.Subtotal()),
			SellTime:  it.SellTime,
		}
	}
	return ticketResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		UserName:  t.UserName,
		CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
		Items:     items,
		Total:     money(t.Total),
		Status:    string(t.Status),
	}
}

func toTicketResponses(ts []domain.Ticket) []ticketResponse {
	out := make([]ticketResponse, len(ts))
	for i, t := range ts {
		out[i] = toTicketResponse(t)
	}
	return out
}

func toPeriodResponse(m ports.PeriodMetrics) periodResponse {
	return periodResponse{NetEarnings: money(m.NetEarnings), TotalSales: m.TotalSales}
}

func toSummaryResponse(s ports.SalesSummary) summaryResponse {
	return summaryResponse{
		Day:   toPeriodResponse(s.Day),
		Week:  toPeriodResponse(s.Week),
		Month: toPeriodResponse(s.Month),
	}
}
