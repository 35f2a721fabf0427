package adapter

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"findmystuff/internal/infrastructure/storage/port"
	account "findmystuff/internal/pkg/account/domain"
	conversation "findmystuff/internal/pkg/conversation/domain"
	posting "findmystuff/internal/pkg/posting/domain"
)

// MongoStore backs the storage port with MongoDB. Ids are the application's
// own uuid strings stored in _id; atomicity per operation comes from the
// server's per-document guarantees.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore wraps an already-connected client. dbName defaults are the
// caller's concern (config).
func NewMongoStore(client *mongo.Client, dbName string) (*MongoStore, error) {
	if client == nil {
		return nil, errors.New("mongostore: nil client")
	}
	if dbName == "" {
		return nil, errors.New("mongostore: database name is required")
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

var _ port.Store = (*MongoStore)(nil)

func (s *MongoStore) Users() port.Collection[account.User] {
	return &mongoCollection[account.User]{coll: s.db.Collection("users")}
}

func (s *MongoStore) Postings() port.Collection[posting.Posting] {
	return &mongoCollection[posting.Posting]{coll: s.db.Collection("postings")}
}

func (s *MongoStore) Conversations() port.Collection[conversation.Conversation] {
	return &mongoCollection[conversation.Conversation]{coll: s.db.Collection("conversations")}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection[T port.Entity] struct {
	coll *mongo.Collection
}

func (c *mongoCollection[T]) All(ctx context.Context) ([]T, error) {
	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongostore: find: %w", err)
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongostore: decode: %w", err)
	}
	return out, nil
}

func (c *mongoCollection[T]) FindByID(ctx context.Context, id string) (T, error) {
	var doc T
	err := c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, port.ErrNotFound
	}
	if err != nil {
		return doc, fmt.Errorf("mongostore: find by id: %w", err)
	}
	return doc, nil
}

// Find honors the predicate contract by fetching and filtering client-side.
// Collections here are small enough that pushing the filter into a server
// query is not worth breaking the uniform contract for.
func (c *mongoCollection[T]) Find(ctx context.Context, pred func(T) bool) ([]T, error) {
	all, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []T
	for _, item := range all {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (c *mongoCollection[T]) Insert(ctx context.Context, doc T) error {
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongostore: insert: %w", err)
	}
	return nil
}

func (c *mongoCollection[T]) Update(ctx context.Context, id string, doc T) error {
	res, err := c.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc)
	if err != nil {
		return fmt.Errorf("mongostore: replace: %w", err)
	}
	if res.MatchedCount == 0 {
		return port.ErrNotFound
	}
	return nil
}

func (c *mongoCollection[T]) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("mongostore: delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return port.ErrNotFound
	}
	return nil
}
