package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
	"github.com/flujo/pos-system/internal/infrastructure/db/memory"
)

type ticketFixture struct {
	svc      *TicketService
	tickets  *stubTicketRepo
	users    *stubUserRepo
	products *stubProductRepo
}

func newTicketFixture(clock domain.Clock) ticketFixture {
	users := newStubUserRepo(domain.User{ID: "user-2", Name: "Alicia Vega", Email: "alicia@flujo.com", Role: domain.RoleSeller})
	stockA := 10
	products := &stubProductRepo{products: []domain.Product{
		{ID: "A", Name: "Café", CategoryID: "cat-1", Price: decimal.RequireFromString("3.00"), Stock: &stockA},
		{ID: "B", Name: "Té", CategoryID: "cat-1", Price: decimal.RequireFromString("5.00")},
	}}
	tickets := newStubTicketRepo()
	return ticketFixture{
		svc:      NewTicketService(tickets, users, products, domain.DefaultSalesWindow, clock, discardLogger),
		tickets:  tickets,
		users:    users,
		products: products,
	}
}

func sampleCart() []domain.CartItem {
	return []domain.CartItem{
		{ProductID: "A", Quantity: 2, SellTime: 9},
		{ProductID: "B", Quantity: 1, SellTime: 10},
	}
}

func TestTicketService_Generate_TotalsAndSnapshot(t *testing.T) {
	f := newTicketFixture(at(2024, 5, 1, 10, 0))

	res, err := f.svc.GenerateTicket(context.Background(), ports.GenerateTicketInput{UserID: "user-2", Items: sampleCart()})
	if err != nil {
		t.Fatalf("GenerateTicket returned error: %v", err)
	}
	tk := res.Ticket
	if res.AlreadyExisted {
		t.Error("fresh ticket must not be flagged as replay")
	}
	if !strings.HasPrefix(tk.ID, "TICKET-") {
		t.Errorf("unexpected id %q", tk.ID)
	}
	if tk.Total.StringFixed(2) != "11.00" {
		t.Errorf("expected total 11.00, got %s", tk.Total.StringFixed(2))
	}
	if tk.Status != domain.TicketCompleted {
		t.Errorf("expected COMPLETED, got %s", tk.Status)
	}
	if tk.UserName != "Alicia Vega" {
		t.Errorf("expected user name snapshot, got %q", tk.UserName)
	}
	if len(tk.Items) != 2 || tk.Items[0].Quantity != 2 || tk.Items[0].SellTime != 9 || tk.Items[1].ProductID != "B" {
		t.Errorf("items not preserved: %+v", tk.Items)
	}
	if _, ok := f.tickets.byID[tk.ID]; !ok {
		t.Error("ticket not stored")
	}
}

func TestTicketService_Generate_DoesNotTouchStockOrPrice(t *testing.T) {
	f := newTicketFixture(at(2024, 5, 1, 10, 0))

	if _, err := f.svc.GenerateTicket(context.Background(), ports.GenerateTicketInput{UserID: "user-2", Items: sampleCart()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a := f.products.products[0]
	if a.Stock == nil || *a.Stock != 10 {
		t.Errorf("stock changed: %v", a.Stock)
	}
	if f.products.products[1].Stock != nil {
		t.Error("untracked product gained stock")
	}
	if a.Price.StringFixed(2) != "3.00" {
		t.Errorf("price changed: %s", a.Price)
	}
	if f.products.setStockN != 0 {
		t.Errorf("SetStock called %d times", f.products.setStockN)
	}
}

func TestTicketService_TotalSurvivesReprice(t *testing.T) {
	f := newTicketFixture(at(2024, 5, 1, 10, 0))
	ctx := context.Background()

	res, err := f.svc.GenerateTicket(ctx, ports.GenerateTicketInput{UserID: "user-2", Items: sampleCart()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.products.UpdatePrice(ctx, "A", decimal.RequireFromString("9.99")); err != nil {
		t.Fatalf("reprice failed: %v", err)
	}

	got, err := f.svc.GetTicket(ctx, res.Ticket.ID)
	if err != nil {
		t.Fatalf("GetTicket returned error: %v", err)
	}
	if !got.Total.Equal(domain.TicketTotal(got.Items)) {
		t.Errorf("total %s does not reconcile with items", got.Total)
	}
	if got.Total.StringFixed(2) != "11.00" || got.Items[0].Price.StringFixed(2) != "3.00" {
		t.Errorf("snapshot changed after reprice: total %s, price %s", got.Total, got.Items[0].Price)
	}
}

func TestTicketService_Generate_Validation(t *testing.T) {
	f := newTicketFixture(at(2024, 5, 1, 10, 0))

	cases := []struct {
		name string
		in   ports.GenerateTicketInput
		want error
	}{
		{"unknown user", ports.GenerateTicketInput{UserID: "ghost", Items: sampleCart()}, domain.ErrUserNotFound},
		{"empty cart", ports.GenerateTicketInput{UserID: "user-2"}, domain.ErrEmptyCart},
		{"zero quantity", ports.GenerateTicketInput{UserID: "user-2", Items: []domain.CartItem{{ProductID: "A", Quantity: 0, SellTime: 9}}}, domain.ErrInvalidQuantity},
		{"quantity over max", ports.GenerateTicketInput{UserID: "user-2", Items: []domain.CartItem{{ProductID: "A", Quantity: 101, SellTime: 9}}}, domain.ErrInvalidQuantity},
		{"sell time too early", ports.GenerateTicketInput{UserID: "user-2", Items: []domain.CartItem{{ProductID: "A", Quantity: 1, SellTime: 6}}}, domain.ErrInvalidHour},
		{"unknown product", ports.GenerateTicketInput{UserID: "user-2", Items: []domain.CartItem{{ProductID: "Z", Quantity: 1, SellTime: 9}}}, domain.ErrProductNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.GenerateTicket(context.Background(), tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if len(f.tickets.byID) != 0 {
		t.Fatalf("rejected carts must not create tickets, found %d", len(f.tickets.byID))
	}
}

func TestTicketService_Generate_OutsideSalesHours(t *testing.T) {
	for _, hour := range []int{6, 23} {
		f := newTicketFixture(at(2024, 5, 1, hour, 30))
		_, err := f.svc.GenerateTicket(context.Background(), ports.GenerateTicketInput{UserID: "user-2", Items: sampleCart()})
		if !errors.Is(err, domain.ErrOutsideSalesHours) {
			t.Errorf("hour %d: expected ErrOutsideSalesHours, got %v", hour, err)
		}
		if !errors.Is(err, domain.ErrPreconditionFailed) {
			t.Errorf("hour %d: expected precondition-failed kind", hour)
		}
	}
}

func TestTicketService_Generate_IdempotentReplay(t *testing.T) {
	f := newTicketFixture(at(2024, 5, 1, 10, 0))
	ctx := context.Background()
	in := ports.GenerateTicketInput{UserID: "user-2", Items: sampleCart(), IdempotencyKey: "key-1"}

	first, err := f.svc.GenerateTicket(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.svc.GenerateTicket(ctx, in)
	if err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}
	if !second.AlreadyExisted {
		t.Error("expected AlreadyExisted on replay")
	}
	if second.Ticket.ID != first.Ticket.ID {
		t.Errorf("expected same ticket, got %s and %s", first.Ticket.ID, second.Ticket.ID)
	}
	if len(f.tickets.byID) != 1 {
		t.Errorf("expected 1 stored ticket, got %d", len(f.tickets.byID))
	}
}

// gatedProductRepo holds every caller at its first lookup until n callers
// have arrived, so all of them pass the idempotency check before any insert.
type gatedProductRepo struct {
	*stubProductRepo
	n       int
	mu      sync.Mutex
	arrived int
	gate    chan struct{}
}

func (r *gatedProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	r.arrived++
	if r.arrived == r.n {
		close(r.gate)
	}
	r.mu.Unlock()
	<-r.gate
	return r.stubProductRepo.FindByID(ctx, id)
}

func TestTicketService_Generate_ConcurrentSameKey(t *testing.T) {
	const workers = 50
	base := newTicketFixture(at(2024, 5, 1, 10, 0))
	products := &gatedProductRepo{stubProductRepo: base.products, n: workers, gate: make(chan struct{})}
	tickets := memory.NewTicketRepository()
	svc := NewTicketService(tickets, base.users, products, domain.DefaultSalesWindow, at(2024, 5, 1, 10, 0), discardLogger)

	in := ports.GenerateTicketInput{UserID: "user-2", Items: sampleCart(), IdempotencyKey: "same-key"}
	results := make([]*ports.TicketResult, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GenerateTicket(context.Background(), in)
		}(i)
	}
	wg.Wait()

	fresh := 0
	var id string
	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: unexpected error: %v", i, errs[i])
		}
		if !results[i].AlreadyExisted {
			fresh++
		}
		if id == "" {
			id = results[i].Ticket.ID
		} else if results[i].Ticket.ID != id {
			t.Errorf("worker %d got ticket %s, want %s", i, results[i].Ticket.ID, id)
		}
	}
	if fresh != 1 {
		t.Errorf("expected exactly 1 fresh ticket, got %d", fresh)
	}
	all, err := tickets.List(context.Background(), ports.TicketFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 stored ticket, got %d", len(all))
	}
}

func TestTicketService_Generate_CreateErrorIsWrapped(t *testing.T) {
	f := newTicketFixture(at(2024, 5, 1, 10, 0))
	boom := errors.New("disk full")
	f.tickets.createErr = boom

	if _, err := f.svc.GenerateTicket(context.Background(), ports.GenerateTicketInput{UserID: "user-2", Items: sampleCart()}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
}

func TestTicketService_CancelTwice(t *testing.T) {
	f := newTicketFixture(at(2024, 5, 1, 10, 0))
	ctx := context.Background()

	res, err := f.svc.GenerateTicket(ctx, ports.GenerateTicketInput{UserID: "user-2", Items: sampleCart()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, err := f.svc.CancelTicket(ctx, res.Ticket.ID)
		if err != nil {
			t.Fatalf("cancel #%d returned error: %v", i+1, err)
		}
		if got.Status != domain.TicketCancelled {
			t.Fatalf("cancel #%d: expected CANCELLED, got %s", i+1, got.Status)
		}
		if !got.Total.Equal(res.Ticket.Total) || len(got.Items) != len(res.Ticket.Items) {
			t.Fatalf("cancel #%d changed items or total", i+1)
		}
	}

	if _, err := f.svc.CancelTicket(ctx, "TICKET-missing"); !errors.Is(err, domain.ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
}

func TestTicketService_List_FiltersAndNames(t *testing.T) {
	f := newTicketFixture(at(2024, 5, 1, 10, 0))
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	f.tickets.byID["t1"] = domain.Ticket{ID: "t1", UserID: "user-2", UserName: "old name", CreatedAt: base, Status: domain.TicketCompleted,
		Items: []domain.TicketItem{{ProductID: "A", Quantity: 1, SellTime: 9}}}
	f.tickets.byID["t2"] = domain.Ticket{ID: "t2", UserID: "gone", UserName: "Former Seller", CreatedAt: base.Add(time.Hour), Status: domain.TicketCancelled,
		Items: []domain.TicketItem{{ProductID: "B", Quantity: 1, SellTime: 12}}}

	all, err := f.svc.ListTickets(ctx, ports.ListTicketsInput{})
	if err != nil {
		t.Fatalf("ListTickets returned error: %v", err)
	}
	if len(all) != 2 || all[0].ID != "t2" {
		t.Fatalf("expected most recent first, got %+v", all)
	}
	if all[0].UserName != "Former Seller" {
		t.Errorf("deleted user should fall back to snapshot, got %q", all[0].UserName)
	}
	if all[1].UserName != "Alicia Vega" {
		t.Errorf("expected current user name, got %q", all[1].UserName)
	}

	byHour, _ := f.svc.ListTickets(ctx, ports.ListTicketsInput{SellTime: 12})
	if len(byHour) != 1 || byHour[0].ID != "t2" {
		t.Errorf("hour filter: got %+v", byHour)
	}
	byStatus, _ := f.svc.ListTickets(ctx, ports.ListTicketsInput{Status: domain.TicketCompleted})
	if len(byStatus) != 1 || byStatus[0].ID != "t1" {
		t.Errorf("status filter: got %+v", byStatus)
	}

	if _, err := f.svc.ListTickets(ctx, ports.ListTicketsInput{Status: "LOST"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected invalid input for unknown status, got %v", err)
	}
}
