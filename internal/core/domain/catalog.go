package domain

import "github.com/shopspring/decimal"

// Category groups products on the sales screen. Categories are seed data.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Product is a sellable catalog entry.
//
// Stock is nil when the product is not stock-tracked. IsPromotional and
// PromotionReason hold the persistent marketing flag; a live Promotion
// overrides them at display time without being written back.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	CategoryID      string          `json:"category_id"`
	Price           decimal.Decimal `json:"price"`
	Stock           *int            `json:"stock,omitempty"`
	IsPromotional   bool            `json:"is_promotional"`
	PromotionReason string          `json:"promotion_reason,omitempty"`
}

// Clone returns a deep copy so callers never share the Stock pointer.
func (p Product) Clone() Product {
	if p.Stock != nil {
		s := *p.Stock
		p.Stock = &s
	}
	return p
}

// StockScope selects which products a stock update touches.
type StockScope string

const (
	ScopeAll      StockScope = "ALL"
	ScopeCategory StockScope = "CATEGORY"
	ScopeSingle   StockScope = "SINGLE"
)

// StockSelector is the resolved target of a stock update.
type StockSelector struct {
	Scope      StockScope
	CategoryID string
	ProductID  string
}

// Matches reports whether p falls inside the selector.
func (s StockSelector) Matches(p Product) bool {
	switch s.Scope {
	case ScopeAll:
		return true
	case ScopeCategory:
		return p.CategoryID == s.CategoryID
	case ScopeSingle:
		return p.ID == s.ProductID
	}
	return false
}

// Highlight is a product suggested by the external highlight collaborator.
type Highlight struct {
	ProductID string `json:"productId" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}
