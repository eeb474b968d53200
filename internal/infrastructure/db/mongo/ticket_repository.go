package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flujo/pos-system/internal/core/domain"
	"github.com/flujo/pos-system/internal/core/ports"
)

type TicketRepository struct {
	col *mongo.Collection
}

func NewTicketRepository(db *mongo.Database) *TicketRepository {
	return &TicketRepository{col: db.Collection(collectionTickets)}
}

type ticketItemDoc struct {
	ProductID string               `bson:"product_id"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
	SellTime  int                  `bson:"sell_time"`
}

type ticketDoc struct {
	ID             string               `bson:"_id"`
	UserID         string               `bson:"user_id"`
	UserName       string               `bson:"user_name"`
	CreatedAt      time.Time            `bson:"created_at"`
	Items          []ticketItemDoc      `bson:"items"`
	Total          primitive.Decimal128 `bson:"total"`
	Status         string               `bson:"status"`
	IdempotencyKey string               `bson:"idempotency_key,omitempty"`
}

func toTicketDoc(t domain.Ticket) (ticketDoc, error) {
	total, err := toDecimal128(t.Total)
	if err != nil {
		return ticketDoc{}, err
	}
	items := make([]ticketItemDoc, len(t.Items))
	for i, it := range t.Items {
		price, err := toDecimal128(it.Price)
		if err != nil {
			return ticketDoc{}, err
		}
		items[i] = ticketItemDoc{ProductID: it.ProductID, Quantity: it.Quantity, Price: price, SellTime: it.SellTime}
	}
	return ticketDoc{
		ID:             t.ID,
		UserID:         t.UserID,
		UserName:       t.UserName,
		CreatedAt:      t.CreatedAt.UTC(),
		Items:          items,
		Total:          total,
		Status:         string(t.Status),
		IdempotencyKey: t.IdempotencyKey,
	}, nil
}

func (d ticketDoc) toDomain() (domain.Ticket, error) {
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return domain.Ticket{}, err
	}
	items := make([]domain.TicketItem, len(d.Items))
	for i, it := range d.Items {
		price, err := fromDecimal128(it.Price)
		if err != nil {
			return domain.Ticket{}, err
		}
		items[i] = domain.TicketItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: price, SellTime: it.SellTime}
	}
	return domain.Ticket{
		ID:             d.ID,
		UserID:         d.UserID,
		UserName:       d.UserName,
		CreatedAt:      d.CreatedAt.UTC(),
		Items:          items,
		Total:          total,
		Status:         domain.TicketStatus(d.Status),
		IdempotencyKey: d.IdempotencyKey,
	}, nil
}

// Create inserts a new ticket. A reused idempotency key violates the unique
// index and is reported as a failed precondition.
func (r *TicketRepository) Create(ctx context.Context, t domain.Ticket) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toTicketDoc(t)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: idempotency key reused", domain.ErrPreconditionFailed)
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByIdempotencyKey retrieves the ticket created with the given key.
func (r *TicketRepository) FindByIdempotencyKey(ctx context.Context, key string) (*domain.Ticket, error) {
	return r.findOne(ctx, bson.M{"idempotency_key": key})
}

func (r *TicketRepository) findOne(ctx context.Context, filter bson.M) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d ticketDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	t, err := d.toDomain()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepository) List(ctx context.Context, f ports.TicketFilter) ([]domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.SellTime != 0 {
		filter["items.sell_time"] = f.SellTime
	}
	created := bson.M{}
	if !f.From.IsZero() {
		created["$gte"] = f.From.UTC()
	}
	if !f.To.IsZero() {
		created["$lte"] = f.To.UTC()
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	var docs []ticketDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tickets: %w", err)
	}

	out := make([]domain.Ticket, 0, len(docs))
	for _, d := range docs {
		t, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// SetStatus atomically flips the status and returns the updated ticket.
func (r *TicketRepository) SetStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d ticketDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": string(status)}}, opts).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTicketNotFound
		}
		return nil, fmt.Errorf("set ticket status: %w", err)
	}
	t, err := d.toDomain()
	if err != nil {
		return nil, err
	}
	return &t, nil
}
