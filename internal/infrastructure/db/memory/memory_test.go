package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

func productsFixture(n int) []domain.Product {
	out := make([]domain.Product, n)
	for i := range out {
		out[i] = domain.Product{
			ID:         fmt.Sprintf("p%d", i),
			CategoryID: fmt.Sprintf("c%d", i%2),
			Price:      decimal.NewFromInt(2),
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

func TestProductRepository_ReturnsCopies(t *testing.T) {
	stock := 3
	repo := NewProductRepository([]domain.Product{{ID: "p1", Stock: &stock}})
	ctx := context.Background()

	p, _ := repo.FindByID(ctx, "p1")
	*p.Stock = 99
	p.Name = "mutated"

	again, _ := repo.FindByID(ctx, "p1")
	if *again.Stock != 3 || again.Name != "" {
		t.Fatalf("store was mutated through a returned copy: %+v", again)
	}
	stock = 42
	if third, _ := repo.FindByID(ctx, "p1"); *third.Stock != 3 {
		t.Fatal("store shares the seed's stock pointer")
	}
}

func TestProductRepository_SetStockScopes(t *testing.T) {
	repo := NewProductRepository(productsFixture(10))
	ctx := context.Background()

	n, err := repo.SetStock(ctx, domain.StockSelector{Scope: domain.ScopeCategory, CategoryID: "c1"}, 4)
	if err != nil || n != 5 {
		t.Fatalf("expected 5 updated, got %d (%v)", n, err)
	}
	n, _ = repo.SetStock(ctx, domain.StockSelector{Scope: domain.ScopeSingle, ProductID: "p0"}, 1)
	if n != 1 {
		t.Fatalf("expected 1 updated, got %d", n)
	}

	all, _ := repo.List(ctx)
	for _, p := range all {
		switch {
		case p.ID == "p0":
			if *p.Stock != 1 {
				t.Errorf("p0: expected 1, got %d", *p.Stock)
			}
		case p.CategoryID == "c1":
			if *p.Stock != 4 {
				t.Errorf("%s: expected 4, got %d", p.ID, *p.Stock)
			}
		default:
			if p.Stock != nil {
				t.Errorf("%s should be untouched", p.ID)
			}
		}
	}
}

// Readers must never observe a partially applied ALL update.
func TestProductRepository_SetStockIsAtomicForReaders(t *testing.T) {
	repo := NewProductRepository(productsFixture(288))
	ctx := context.Background()
	if _, err := repo.SetStock(ctx, domain.StockSelector{Scope: domain.ScopeAll}, 0); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			list, _ := repo.List(ctx)
			first := *list[0].Stock
			for _, p := range list {
				if *p.Stock != first {
					select {
					case errs <- fmt.Errorf("mixed stock: %d and %d", first, *p.Stock):
					default:
					}
					return
				}
			}
		}
	}()

	for q := 1; q <= 200; q++ {
		if _, err := repo.SetStock(ctx, domain.StockSelector{Scope: domain.ScopeAll}, q); err != nil {
			t.Fatal(err)
		}
	}
	close(stop)
	wg.Wait()

	select {
	case err := <-errs:
		t.Fatal(err)
	default:
	}
}

func TestProductRepository_UpdatePriceAndFlag(t *testing.T) {
	repo := NewProductRepository(productsFixture(1))
	ctx := context.Background()

	p, err := repo.UpdatePrice(ctx, "p0", decimal.RequireFromString("7.25"))
	if err != nil || p.Price.StringFixed(2) != "7.25" {
		t.Fatalf("unexpected result %+v (%v)", p, err)
	}
	p, err = repo.SetPromotionFlag(ctx, "p0", true, "why not")
	if err != nil || !p.IsPromotional || p.PromotionReason != "why not" {
		t.Fatalf("unexpected result %+v (%v)", p, err)
	}
	if _, err := repo.UpdatePrice(ctx, "missing", decimal.Zero); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func TestUserRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewUserRepository(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := repo.Create(ctx, domain.User{ID: fmt.Sprintf("u%d", i), Name: "X", Email: "Same@flujo.com", Role: domain.RoleSeller})
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			} else if !errors.Is(err, domain.ErrDuplicateEmail) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if ok != 1 {
		t.Fatalf("expected exactly one create to succeed, got %d", ok)
	}
}

func TestUserRepository_CRUD(t *testing.T) {
	repo := NewUserRepository([]domain.User{
		{ID: "user-1", Name: "Admin", Email: "admin@flujo.com", Role: domain.RoleAdmin},
		{ID: "user-2", Name: "Alicia", Email: "alicia@flujo.com", Role: domain.RoleSeller},
	})
	ctx := context.Background()

	u, err := repo.FindByEmail(ctx, " ALICIA@flujo.com ")
	if err != nil || u.ID != "user-2" {
		t.Fatalf("case-insensitive lookup failed: %+v (%v)", u, err)
	}

	if err := repo.Update(ctx, domain.User{ID: "user-2", Name: "A", Email: "admin@FLUJO.com", Role: domain.RoleSeller}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	if err := repo.Update(ctx, domain.User{ID: "user-2", Name: "Ali", Email: "alicia@flujo.com", Role: domain.RoleSeller}); err != nil {
		t.Fatalf("keeping one's own email must be allowed: %v", err)
	}

	if err := repo.Delete(ctx, "user-1"); err != nil {
		t.Fatal(err)
	}
	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].Name != "Ali" {
		t.Fatalf("unexpected users after delete: %+v", list)
	}
	if _, err := repo.FindByID(ctx, "user-1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepository_ListsInCreationOrder(t *testing.T) {
	repo := NewUserRepository([]domain.User{
		{ID: "user-1", Name: "Admin", Email: "admin@flujo.com", Role: domain.RoleAdmin},
	})
	ctx := context.Background()

	for _, u := range []domain.User{
		{ID: "user-f3a9", Name: "Bruno", Email: "bruno@flujo.com", Role: domain.RoleSeller},
		{ID: "user-0c12", Name: "Carla", Email: "carla@flujo.com", Role: domain.RoleSeller},
	} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Update(ctx, domain.User{ID: "user-f3a9", Name: "Bruno M.", Email: "bruno@flujo.com", Role: domain.RoleAdmin}); err != nil {
		t.Fatal(err)
	}

	list, _ := repo.List(ctx)
	var ids []string
	for _, u := range list {
		ids = append(ids, u.ID)
	}
	if fmt.Sprint(ids) != "[user-1 user-f3a9 user-0c12]" {
		t.Fatalf("expected creation order, got %v", ids)
	}
}

// ---------------------------------------------------------------------------
// Tickets
// ---------------------------------------------------------------------------

func TestTicketRepository_ConcurrentCreatesAreNotLost(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := repo.Create(ctx, domain.Ticket{ID: fmt.Sprintf("TICKET-%d", i), Status: domain.TicketCompleted}); err != nil {
				t.Errorf("create %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	list, _ := repo.List(ctx, ports.TicketFilter{})
	if len(list) != 100 {
		t.Fatalf("expected 100 tickets, got %d", len(list))
	}
}

func TestTicketRepository_IdempotencyAndStatus(t *testing.T) {
	repo := NewTicketRepository()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	_ = repo.Create(ctx, domain.Ticket{ID: "a", CreatedAt: base, Status: domain.TicketCompleted, IdempotencyKey: "k"})
	_ = repo.Create(ctx, domain.Ticket{ID: "b", CreatedAt: base.Add(time.Minute), Status: domain.TicketCompleted})

	got, err := repo.FindByIdempotencyKey(ctx, "k")
	if err != nil || got.ID != "a" {
		t.Fatalf("expected ticket a, got %+v (%v)", got, err)
	}
	if err := repo.Create(ctx, domain.Ticket{ID: "c", IdempotencyKey: "k"}); !errors.Is(err, domain.ErrPreconditionFailed) {
		t.Fatalf("expected key reuse to fail, got %v", err)
	}

	if _, err := repo.SetStatus(ctx, "a", domain.TicketCancelled); err != nil {
		t.Fatal(err)
	}
	completed, _ := repo.List(ctx, ports.TicketFilter{Status: domain.TicketCompleted})
	if len(completed) != 1 || completed[0].ID != "b" {
		t.Fatalf("unexpected completed list %+v", completed)
	}
	all, _ := repo.List(ctx, ports.TicketFilter{})
	if all[0].ID != "b" {
		t.Fatalf("expected most recent first, got %s", all[0].ID)
	}
}

// ---------------------------------------------------------------------------
// Promotions and highlights
// ---------------------------------------------------------------------------

func TestPromotionRepository_ListBetween(t *testing.T) {
	repo := NewPromotionRepository()
	ctx := context.Background()
	for _, d := range []string{"2024-04-28", "2024-04-29", "2024-05-02", "2024-05-03"} {
		_ = repo.Create(ctx, domain.Promotion{ID: d, PromotionDate: d})
	}

	got, _ := repo.ListBetween(ctx, "2024-04-29", "2024-05-02")
	if len(got) != 2 {
		t.Fatalf("expected 2 promotions, got %d", len(got))
	}
	if err := repo.Delete(ctx, "nope"); !errors.Is(err, domain.ErrPromotionNotFound) {
		t.Fatalf("expected ErrPromotionNotFound, got %v", err)
	}
}

func TestHighlightCache_Expires(t *testing.T) {
	cache := NewHighlightCache()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	_ = cache.Set(ctx, "c1", domain.Highlight{ProductID: "p1", Reason: "r"}, time.Minute)
	if h, _ := cache.Get(ctx, "c1"); h == nil || h.ProductID != "p1" {
		t.Fatalf("expected cached highlight, got %+v", h)
	}

	now = now.Add(time.Minute)
	if h, _ := cache.Get(ctx, "c1"); h != nil {
		t.Fatalf("expected expiry, got %+v", h)
	}
	if h, _ := cache.Get(ctx, "c2"); h != nil {
		t.Fatal("expected miss")
	}
}
