// Package seed holds the reference data the store starts with.
package seed

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
)

const ProductsPerCategory = 36

var categoryNames = []string{
	"Bebidas Calientes", "Bebidas Frías", "Panadería", "Pastelería",
	"Sándwiches", "Ensaladas", "Snacks", "Postres",
}

func Users() []domain.User {
	return []domain.User{
		{ID: "user-1", Name: "Admin User", Email: "admin@flujo.com", Role: domain.RoleAdmin},
		{ID: "user-2", Name: "Alicia Vega", Email: "alicia@flujo.com", Role: domain.RoleSeller},
		{ID: "user-3", Name: "Bruno Soto", Email: "bruno@flujo.com", Role: domain.RoleSeller},
		{ID: "user-4", Name: "Carla Nuez", Email: "carla@flujo.com", Role: domain.RoleSeller},
	}
}

func Categories() []domain.Category {
	out := make([]domain.Category, len(categoryNames))
	for i, name := range categoryNames {
		out[i] = domain.Category{ID: fmt.Sprintf("cat-%d", i+1), Name: name}
	}
	return out
}

// Products returns ProductsPerCategory untracked products per category,
// priced between 2.00 and 15.00. Prices are derived from the position so the
// catalog is the same on every start.
func Products(categories []domain.Category) []domain.Product {
	out := make([]domain.Product, 0, len(categories)*ProductsPerCategory)
	for c, cat := range categories {
		stem := trimLastRune(cat.Name)
		for i := 1; i <= ProductsPerCategory; i++ {
			cents := 200 + ((c+1)*37+i*53)%1301
			out = append(out, domain.Product{
				ID:         fmt.Sprintf("prod-%s-%d", cat.ID, i),
				Name:       fmt.Sprintf("%s #%d", stem, i),
				CategoryID: cat.ID,
				Price:      decimal.New(int64(cents), -2),
			})
		}
	}
	return out
}

func trimLastRune(s string) string {
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
