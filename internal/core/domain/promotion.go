package domain

import (
	"sort"
	"time"
)

// Promotion highlights one product during one hour of one calendar day.
type Promotion struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Reason        string    `json:"reason"`
	PromotionDate string    `json:"promotion_date"`
	Hour          int       `json:"hour"`
	CreatedAt     time.Time `json:"created_at"`
}

// IsLiveAt reports whether the promotion is active at now. The date and hour
// are read in now's location, so callers pass an instant already converted
// to the business time zone.
func (p Promotion) IsLiveAt(now time.Time) bool {
	return p.PromotionDate == DateOf(now) && p.Hour == now.Hour()
}

// EditableAt reports whether the promotion may still be changed: only on the
// day it is scheduled for.
func (p Promotion) EditableAt(now time.Time) bool {
	return p.PromotionDate == DateOf(now)
}

// SortPromotions orders most recently created first. Equal timestamps fall
// back to the id, which is time-ordered.
func SortPromotions(ps []Promotion) {
	sort.SliceStable(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.After(ps[j].CreatedAt)
		}
		return ps[i].ID > ps[j].ID
	})
}

// RecentWindowDays is the default span of the "recent promotions" view:
// today and the three days before it.
const RecentWindowDays = 4

// WindowStart returns the first calendar date of a trailing window of days
// ending today.
func WindowStart(now time.Time, days int) string {
	if days < 1 {
		days = 1
	}
	return DateOf(now.AddDate(0, 0, -(days - 1)))
}

// ResolveLive returns a copy of products where every product with a live
// promotion at now is flagged promotional with that promotion's reason.
// Products without a live promotion are returned exactly as stored, so the
// result depends only on (now, promotions, products). When several live
// promotions target one product the most recently created wins.
func ResolveLive(now time.Time, promotions []Promotion, products []Product) []Product {
	live := make(map[string]Promotion)
	for _, p := range promotions {
		if !p.IsLiveAt(now) {
			continue
		}
		cur, ok := live[p.ProductID]
		if !ok || newer(p, cur) {
			live[p.ProductID] = p
		}
	}

	out := make([]Product, len(products))
	for i, prod := range products {
		out[i] = prod.Clone()
		if promo, ok := live[prod.ID]; ok {
			out[i].IsPromotional = true
			out[i].PromotionReason = promo.Reason
		}
	}
	return out
}

func newer(a, b Promotion) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}
