package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flujo/pos-system/internal/core/domain"
)

type categoryDoc struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection(collectionCategories)}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	out := make([]domain.Category, len(docs))
	for i, d := range docs {
		out[i] = domain.Category{ID: d.ID, Name: d.Name}
	}
	return out, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d categoryDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &domain.Category{ID: d.ID, Name: d.Name}, nil
}

type productDoc struct {
	ID              string               `bson:"_id"`
	Name            string               `bson:"name"`
	CategoryID      string               `bson:"category_id"`
	Price           primitive.Decimal128 `bson:"price"`
	Stock           *int                 `bson:"stock,omitempty"`
	IsPromotional   bool                 `bson:"is_promotional"`
	PromotionReason string               `bson:"promotion_reason,omitempty"`
	Position        int                  `bson:"position"`
}

func toProductDoc(p domain.Product, position int) (productDoc, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDoc{}, err
	}
	return productDoc{
		ID:              p.ID,
		Name:            p.Name,
		CategoryID:      p.CategoryID,
		Price:           price,
		Stock:           p.Stock,
		IsPromotional:   p.IsPromotional,
		PromotionReason: p.PromotionReason,
		Position:        position,
	}, nil
}

func (d productDoc) toDomain() (domain.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		ID:              d.ID,
		Name:            d.Name,
		CategoryID:      d.CategoryID,
		Price:           price,
		Stock:           d.Stock,
		IsPromotional:   d.IsPromotional,
		PromotionReason: d.PromotionReason,
	}, nil
}

// ProductRepository stores products in catalog order (the position field).
type ProductRepository struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{client: db.Client(), col: db.Collection(collectionProducts)}
}

func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "position", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	out := make([]domain.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d productDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	p, err := d.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetStock runs the UpdateMany inside a transaction so a failure part way
// leaves no product written. Requires a replica set.
func (r *ProductRepository) SetStock(ctx context.Context, sel domain.StockSelector, quantity int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	switch sel.Scope {
	case domain.ScopeAll:
	case domain.ScopeCategory:
		filter["category_id"] = sel.CategoryID
	case domain.ScopeSingle:
		filter["_id"] = sel.ProductID
	default:
		return 0, domain.ErrInvalidScope
	}

	session, err := r.client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("set stock: start session: %w", err)
	}
	defer session.EndSession(ctx)

	res, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		upd, err := r.col.UpdateMany(sc, filter, bson.M{"$set": bson.M{"stock": quantity}})
		if err != nil {
			return nil, err
		}
		return int(upd.MatchedCount), nil
	})
	if err != nil {
		return 0, fmt.Errorf("set stock: %w", err)
	}
	return res.(int), nil
}

func (r *ProductRepository) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (*domain.Product, error) {
	v, err := toDecimal128(price)
	if err != nil {
		return nil, err
	}
	return r.update(ctx, id, bson.M{"$set": bson.M{"price": v}})
}

func (r *ProductRepository) SetPromotionFlag(ctx context.Context, id string, promotional bool, reason string) (*domain.Product, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{"is_promotional": promotional, "promotion_reason": reason}})
}

func (r *ProductRepository) update(ctx context.Context, id string, update bson.M) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d productDoc
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	p, err := d.toDomain()
	if err != nil {
		return nil, err
	}
	return &p, nil
}
