package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flujo/pos-system/internal/core/domain"
)

type PromotionRepository struct {
	col *mongo.Collection
}

func NewPromotionRepository(db *mongo.Database) *PromotionRepository {
	return &PromotionRepository{col: db.Collection(collectionPromotions)}
}

type promotionDoc struct {
	ID            string    `bson:"_id"`
	ProductID     string    `bson:"product_id"`
	ProductName   string    `bson:"product_name"`
	Reason        string    `bson:"reason"`
	PromotionDate string    `bson:"promotion_date"`
	Hour          int       `bson:"hour"`
	CreatedAt     time.Time `bson:"created_at"`
}

func toPromotionDoc(p domain.Promotion) promotionDoc {
	return promotionDoc{
		ID:            p.ID,
		ProductID:     p.ProductID,
		ProductName:   p.ProductName,
		Reason:        p.Reason,
		PromotionDate: p.PromotionDate,
		Hour:          p.Hour,
		CreatedAt:     p.CreatedAt.UTC(),
	}
}

func (d promotionDoc) toDomain() domain.Promotion {
	return domain.Promotion{
		ID:            d.ID,
		ProductID:     d.ProductID,
		ProductName:   d.ProductName,
		Reason:        d.Reason,
		PromotionDate: d.PromotionDate,
		Hour:          d.Hour,
		CreatedAt:     d.CreatedAt.UTC(),
	}
}

func (r *PromotionRepository) Create(ctx context.Context, p domain.Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toPromotionDoc(p)); err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}
	return nil
}

func (r *PromotionRepository) FindByID(ctx context.Context, id string) (*domain.Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d promotionDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("find promotion: %w", err)
	}
	p := d.toDomain()
	return &p, nil
}

func (r *PromotionRepository) Update(ctx context.Context, p domain.Promotion) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, toPromotionDoc(p))
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPromotionNotFound
	}
	return nil
}

func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPromotionNotFound
	}
	return nil
}

func (r *PromotionRepository) ListBetween(ctx context.Context, fromDate, toDate string) ([]domain.Promotion, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"promotion_date": bson.M{"$gte": fromDate, "$lte": toDate}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	var docs []promotionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode promotions: %w", err)
	}
	out := make([]domain.Promotion, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}
