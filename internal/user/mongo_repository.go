package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the name of the users collection.
const Collection = "users"

// DatabaseProvider hands out the document database, connecting lazily.
type DatabaseProvider interface {
	Database(ctx context.Context) (*mongo.Database, error)
}

// MongoRepository implements Repository on a MongoDB collection.
type MongoRepository struct {
	db DatabaseProvider
}

// NewMongoRepository creates a Repository backed by the given database provider.
func NewMongoRepository(db DatabaseProvider) *MongoRepository {
	return &MongoRepository{db: db}
}

func (r *MongoRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(Collection), nil
}

// List retrieves all users sorted by creation time descending.
func (r *MongoRepository) List(ctx context.Context) ([]User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.D{{Key: "password_hash", Value: 0}})

	cur, err := coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer cur.Close(ctx)

	users := []User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decoding users: %w", err)
	}

	for i := range users {
		users[i].PasswordHash = ""
	}

	return users, nil
}

// GetBySubject retrieves a single user by its identity-provider subject.
func (r *MongoRepository) GetBySubject(ctx context.Context, subject string) (*User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}

	opts := options.FindOne().SetProjection(bson.D{{Key: "password_hash", Value: 0}})

	var u User
	err = coll.FindOne(ctx, bson.D{{Key: "auth0_id", Value: subject}}, opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &u, nil
}

// UpsertFromLogin refreshes profile fields and last_login, inserting the
// record with the default role on first login.
func (r *MongoRepository) UpsertFromLogin(ctx context.Context, p LoginProfile, at time.Time) (*User, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("syncing user: %w", err)
	}

	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "name", Value: p.Name},
			{Key: "email", Value: p.Email},
			{Key: "picture", Value: p.Picture},
			{Key: "email_verified", Value: p.EmailVerified},
			{Key: "last_login", Value: at},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "auth0_id", Value: p.Subject},
			{Key: "role", Value: RoleUser},
			{Key: "created_at", Value: at},
		}},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After).
		SetProjection(bson.D{{Key: "password_hash", Value: 0}})

	var u User
	err = coll.FindOneAndUpdate(ctx, bson.D{{Key: "auth0_id", Value: p.Subject}}, update, opts).Decode(&u)
	if err != nil {
		return nil, fmt.Errorf("syncing user: %w", err)
	}

	return &u, nil
}

// NormalizeRoles assigns defaultRole to records whose role is missing or invalid.
func (r *MongoRepository) NormalizeRoles(ctx context.Context, valid []string, defaultRole string) (RoleRepair, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return RoleRepair{}, fmt.Errorf("normalizing roles: %w", err)
	}

	filter := bson.D{{Key: "role", Value: bson.D{{Key: "$nin", Value: valid}}}}
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "role", Value: defaultRole}}}}

	res, err := coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return RoleRepair{}, fmt.Errorf("normalizing roles: %w", err)
	}

	return RoleRepair{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}
