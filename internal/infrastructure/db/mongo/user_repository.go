package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/flujo/pos-system/internal/core/domain"
)

// UserRepository relies on the unique email_lower index for uniqueness.
// Users list in creation order, tracked by a position taken from the
// counters collection.
type UserRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col:      db.Collection(collectionUsers),
		counters: db.Collection(collectionCounters),
	}
}

type userDoc struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	Email      string `bson:"email"`
	EmailLower string `bson:"email_lower"`
	Role       string `bson:"role"`
	Position   int64  `bson:"position"`
}

func toUserDoc(u domain.User, position int64) userDoc {
	return userDoc{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		EmailLower: domain.NormalizeEmail(u.Email),
		Role:       string(u.Role),
		Position:   position,
	}
}

// userListSort orders by creation; _id only breaks ties left by documents
// written before positions existed.
func userListSort() bson.D {
	return bson.D{{Key: "position", Value: 1}, {Key: "_id", Value: 1}}
}

func (d userDoc) toDomain() domain.User {
	return domain.User{ID: d.ID, Name: d.Name, Email: d.Email, Role: domain.Role(d.Role)}
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(userListSort()))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	out := make([]domain.User, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email_lower": domain.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	u := doc.toDomain()
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pos, err := nextPosition(ctx, r.counters, collectionUsers)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if _, err := r.col.InsertOne(ctx, toUserDoc(user, pos)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// $set keeps the stored position.
	doc := toUserDoc(user, 0)
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"name":        doc.Name,
		"email":       doc.Email,
		"email_lower": doc.EmailLower,
		"role":        doc.Role,
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
