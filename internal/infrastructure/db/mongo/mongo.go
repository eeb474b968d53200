package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flujo/pos-system/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

const (
	collectionUsers      = "users"
	collectionCategories = "categories"
	collectionProducts   = "products"
	collectionTickets    = "tickets"
	collectionPromotions = "promotions"
	collectionCounters   = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the indexes every repository relies on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: userListSort()},
		},
		collectionProducts: {
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
			{Keys: bson.D{{Key: "position", Value: 1}}},
		},
		collectionTickets: {
			{Keys: bson.D{{Key: "idempotency_key", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		collectionPromotions: {
			{Keys: bson.D{{Key: "promotion_date", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// SeedIfEmpty loads the reference data into collections that have no
// documents yet. It reports whether anything was inserted.
func SeedIfEmpty(ctx context.Context, db *mongo.Database, users []domain.User, categories []domain.Category, products []domain.Product) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	seeded := false
	insert := func(coll string, docs []interface{}) error {
		if len(docs) == 0 {
			return nil
		}
		n, err := db.Collection(coll).EstimatedDocumentCount(ctx)
		if err != nil {
			return fmt.Errorf("count %s: %w", coll, err)
		}
		if n > 0 {
			return nil
		}
		if _, err := db.Collection(coll).InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("seed %s: %w", coll, err)
		}
		seeded = true
		return nil
	}

	userDocs := make([]interface{}, len(users))
	for i, u := range users {
		userDocs[i] = toUserDoc(u, int64(i+1))
	}
	catDocs := make([]interface{}, len(categories))
	for i, c := range categories {
		catDocs[i] = categoryDoc{ID: c.ID, Name: c.Name}
	}
	productDocs := make([]interface{}, len(products))
	for i, p := range products {
		doc, err := toProductDoc(p, i)
		if err != nil {
			return false, err
		}
		productDocs[i] = doc
	}

	if err := insert(collectionUsers, userDocs); err != nil {
		return seeded, err
	}
	if len(users) > 0 {
		// Users created later must sort after the seeded ones.
		_, err := db.Collection(collectionCounters).UpdateOne(ctx,
			bson.M{"_id": collectionUsers},
			bson.M{"$max": bson.M{"seq": int64(len(users))}},
			options.Update().SetUpsert(true))
		if err != nil {
			return seeded, fmt.Errorf("seed user counter: %w", err)
		}
	}
	if err := insert(collectionCategories, catDocs); err != nil {
		return seeded, err
	}
	if err := insert(collectionProducts, productDocs); err != nil {
		return seeded, err
	}
	return seeded, nil
}

// nextPosition atomically increments the named counter and returns the new
// value, starting at 1.
func nextPosition(ctx context.Context, counters *mongo.Collection, name string) (int64, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next %s position: %w", name, err)
	}
	return doc.Seq, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.StringFixed(2))
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %s: %w", v, err)
	}
	return d, nil
}
