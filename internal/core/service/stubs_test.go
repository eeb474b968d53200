package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	users map[string]domain.User
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if domain.NormalizeEmail(u.Email) == domain.NormalizeEmail(email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) emailTaken(email, exceptID string) bool {
	for _, u := range r.users {
		if u.ID != exceptID && domain.NormalizeEmail(u.Email) == domain.NormalizeEmail(email) {
			return true
		}
	}
	return false
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) error {
	if r.emailTaken(user.Email, "") {
		return domain.ErrDuplicateEmail
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	if r.emailTaken(user.Email, user.ID) {
		return domain.ErrDuplicateEmail
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// Categories and products
// ---------------------------------------------------------------------------

type stubCategoryRepo struct {
	categories []domain.Category
}

func (r *stubCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, len(r.categories))
	copy(out, r.categories)
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

type stubProductRepo struct {
	products   []domain.Product
	setStockN  int // calls to SetStock
	setStockFn func(sel domain.StockSelector) error
}

func (r *stubProductRepo) List(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(r.products))
	for i, p := range r.products {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	for _, p := range r.products {
		if p.ID == id {
			c := p.Clone()
			return &c, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) SetStock(_ context.Context, sel domain.StockSelector, quantity int) (int, error) {
	r.setStockN++
	if r.setStockFn != nil {
		if err := r.setStockFn(sel); err != nil {
			return 0, err
		}
	}
	n := 0
	for i := range r.products {
		if sel.Matches(r.products[i]) {
			q := quantity
			r.products[i].Stock = &q
			n++
		}
	}
	return n, nil
}

func (r *stubProductRepo) UpdatePrice(_ context.Context, id string, price decimal.Decimal) (*domain.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products[i].Price = price
			c := r.products[i].Clone()
			return &c, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *stubProductRepo) SetPromotionFlag(_ context.Context, id string, promotional bool, reason string) (*domain.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products[i].IsPromotional = promotional
			r.products[i].PromotionReason = reason
			c := r.products[i].Clone()
			return &c, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

// seedCatalog builds n categories of perCategory products each, priced 2.50.
func seedCatalog(n, perCategory int) (*stubCategoryRepo, *stubProductRepo) {
	cats := &stubCategoryRepo{}
	prods := &stubProductRepo{}
	for c := 1; c <= n; c++ {
		catID := fmt.Sprintf("cat-%d", c)
		cats.categories = append(cats.categories, domain.Category{ID: catID, Name: fmt.Sprintf("Category %d", c)})
		for i := 1; i <= perCategory; i++ {
			prods.products = append(prods.products, domain.Product{
				ID:         fmt.Sprintf("prod-%s-%d", catID, i),
				Name:       fmt.Sprintf("Item %d", i),
				CategoryID: catID,
				Price:      decimal.RequireFromString("2.50"),
			})
		}
	}
	return cats, prods
}

// ---------------------------------------------------------------------------
// Tickets
// ---------------------------------------------------------------------------

type stubTicketRepo struct {
	byID      map[string]domain.Ticket
	byKey     map[string]string
	createErr error
}

func newStubTicketRepo() *stubTicketRepo {
	return &stubTicketRepo{byID: make(map[string]domain.Ticket), byKey: make(map[string]string)}
}

func (r *stubTicketRepo) Create(_ context.Context, t domain.Ticket) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.byID[t.ID] = t.Clone()
	if t.IdempotencyKey != "" {
		r.byKey[t.IdempotencyKey] = t.ID
	}
	return nil
}

func (r *stubTicketRepo) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	c := t.Clone()
	return &c, nil
}

func (r *stubTicketRepo) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Ticket, error) {
	id, ok := r.byKey[key]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *stubTicketRepo) List(_ context.Context, f ports.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range r.byID {
		if f.Match(t) {
			out = append(out, t.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubTicketRepo) SetStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	t, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTicketNotFound
	}
	t.Status = status
	r.byID[id] = t
	return r.FindByID(ctx, id)
}

// ---------------------------------------------------------------------------
// Promotions
// ---------------------------------------------------------------------------

type stubPromotionRepo struct {
	byID map[string]domain.Promotion
}

func newStubPromotionRepo(ps ...domain.Promotion) *stubPromotionRepo {
	r := &stubPromotionRepo{byID: make(map[string]domain.Promotion)}
	for _, p := range ps {
		r.byID[p.ID] = p
	}
	return r
}

func (r *stubPromotionRepo) Create(_ context.Context, p domain.Promotion) error {
	r.byID[p.ID] = p
	return nil
}

func (r *stubPromotionRepo) FindByID(_ context.Context, id string) (*domain.Promotion, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPromotionNotFound
	}
	return &p, nil
}

func (r *stubPromotionRepo) Update(_ context.Context, p domain.Promotion) error {
	if _, ok := r.byID[p.ID]; !ok {
		return domain.ErrPromotionNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *stubPromotionRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrPromotionNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubPromotionRepo) ListBetween(_ context.Context, from, to string) ([]domain.Promotion, error) {
	var out []domain.Promotion
	for _, p := range r.byID {
		if p.PromotionDate >= from && p.PromotionDate <= to {
			out = append(out, p)
		}
	}
	domain.SortPromotions(out)
	return out, nil
}

// ---------------------------------------------------------------------------
// Highlights
// ---------------------------------------------------------------------------

type stubHighlightCache struct {
	mu      sync.Mutex
	entries map[string]domain.Highlight
	getErr  error
}

func newStubHighlightCache() *stubHighlightCache {
	return &stubHighlightCache{entries: make(map[string]domain.Highlight)}
}

func (c *stubHighlightCache) Get(_ context.Context, categoryID string) (*domain.Highlight, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	h, ok := c.entries[categoryID]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

func (c *stubHighlightCache) Set(_ context.Context, categoryID string, h domain.Highlight, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[categoryID] = h
	return nil
}

type stubHighlightQueue struct {
	requests []ports.HighlightRequest
	reject   bool
}

func (q *stubHighlightQueue) TryEnqueue(req ports.HighlightRequest) bool {
	if q.reject {
		return false
	}
	q.requests = append(q.requests, req)
	return true
}

// at returns a fixed clock at the given UTC date and hour.
func at(year int, month time.Month, day, hour, minute int) domain.FixedClock {
	return domain.FixedClock(time.Date(year, month, day, hour, minute, 0, 0, time.UTC))
}
