package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
)

// CategoryRepository is read-only after construction.
type CategoryRepository struct {
	categories []domain.Category
}

func NewCategoryRepository(seed []domain.Category) *CategoryRepository {
	cats := make([]domain.Category, len(seed))
	copy(cats, seed)
	return &CategoryRepository{categories: cats}
}

func (r *CategoryRepository) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id string) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

// ProductRepository keeps products in catalog order with an id index.
type ProductRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[string]int
}

func NewProductRepository(seed []domain.Product) *ProductRepository {
	r := &ProductRepository{
		products: make([]domain.Product, len(seed)),
		index:    make(map[string]int, len(seed)),
	}
	for i, p := range seed {
		r.products[i] = p.Clone()
		r.index[p.ID] = i
	}
	return r
}

func (r *ProductRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, len(r.products))
	for i, p := range r.products {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *ProductRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := r.products[i].Clone()
	return &p, nil
}

// SetStock applies the whole scope under the write lock: readers see either
// none or all of the update.
func (r *ProductRepository) SetStock(_ context.Context, sel domain.StockSelector, quantity int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for i := range r.products {
		if !sel.Matches(r.products[i]) {
			continue
		}
		q := quantity
		r.products[i].Stock = &q
		n++
	}
	return n, nil
}

func (r *ProductRepository) UpdatePrice(_ context.Context, id string, price decimal.Decimal) (*domain.Product, error) {
	return r.modify(id, func(p *domain.Product) { p.Price = price })
}

func (r *ProductRepository) SetPromotionFlag(_ context.Context, id string, promotional bool, reason string) (*domain.Product, error) {
	return r.modify(id, func(p *domain.Product) {
		p.IsPromotional = promotional
		p.PromotionReason = reason
	})
}

func (r *ProductRepository) modify(id string, fn func(*domain.Product)) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	fn(&r.products[i])
	p := r.products[i].Clone()
	return &p, nil
}
