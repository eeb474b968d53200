package mongo

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/flujo/pos-system/internal/core/domain"
)

func TestDecimal128KeepsCents(t *testing.T) {
	for _, s := range []string{"0.10", "3.00", "12.35", "0.00"} {
		v, err := toDecimal128(decimal.RequireFromString(s))
		if err != nil {
			t.Fatalf("%s: encode failed: %v", s, err)
		}
		back, err := fromDecimal128(v)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", s, err)
		}
		if back.StringFixed(2) != s {
			t.Errorf("expected %s, got %s", s, back.StringFixed(2))
		}
	}
}

func TestTicketDocPreservesSnapshot(t *testing.T) {
	in := domain.Ticket{
		ID:        "TICKET-1",
		UserID:    "user-2",
		UserName:  "Alicia Vega",
		CreatedAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Items: []domain.TicketItem{
			{ProductID: "A", Quantity: 2, Price: decimal.RequireFromString("3.00"), SellTime: 9},
		},
		Total:  decimal.RequireFromString("6.00"),
		Status: domain.TicketCompleted,
	}

	doc, err := toTicketDoc(in)
	if err != nil {
		t.Fatalf("toTicketDoc: %v", err)
	}
	out, err := doc.toDomain()
	if err != nil {
		t.Fatalf("toDomain: %v", err)
	}
	if !out.Total.Equal(domain.TicketTotal(out.Items)) {
		t.Errorf("total %s does not reconcile with items", out.Total)
	}
	if out.Items[0].Price.StringFixed(2) != "3.00" || out.Status != domain.TicketCompleted {
		t.Errorf("unexpected ticket %+v", out)
	}
}

func TestProductDocKeepsMissingStock(t *testing.T) {
	doc, err := toProductDoc(domain.Product{ID: "p", Price: decimal.RequireFromString("1.50")}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Position != 3 {
		t.Errorf("expected position 3, got %d", doc.Position)
	}
	p, err := doc.toDomain()
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != nil {
		t.Errorf("untracked product gained stock %d", *p.Stock)
	}
}

func TestUserDocCarriesPosition(t *testing.T) {
	doc := toUserDoc(domain.User{ID: "user-f3a9", Name: "Bruno", Email: " Bruno@Flujo.com", Role: domain.RoleSeller}, 7)
	if doc.Position != 7 || doc.EmailLower != "bruno@flujo.com" {
		t.Fatalf("unexpected doc: %+v", doc)
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := bson.Raw(raw).Lookup("position").Int64(); got != 7 {
		t.Fatalf("expected position 7 on the wire, got %d", got)
	}
}

func TestUserListSortFollowsCreation(t *testing.T) {
	sort := userListSort()
	if len(sort) != 2 || sort[0].Key != "position" || sort[0].Value != 1 || sort[1].Key != "_id" {
		t.Fatalf("users must sort by position then _id, got %v", sort)
	}
}
