package domain

// ApplyHighlights flags the suggested product of each category as
// promotional. Products that already carry a stored marketing flag keep
// their own reason. The input slice is not modified.
func ApplyHighlights(products []Product, highlights map[string]Highlight) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		out[i] = p.Clone()
		h, ok := highlights[p.CategoryID]
		if !ok || h.ProductID != p.ID || p.IsPromotional {
			continue
		}
		out[i].IsPromotional = true
		out[i].PromotionReason = h.Reason
	}
	return out
}

// FilterByCategory keeps the products of one category; an empty id keeps all.
func FilterByCategory(products []Product, categoryID string) []Product {
	if categoryID == "" {
		return products
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}
