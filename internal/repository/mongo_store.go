package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names used by the document store
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// MongoStore is a document Store backed by MongoDB
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a Store over a MongoDB database
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Users() UserRepository {
	return NewMongoUserRepository(s.db.Collection(UsersCollection))
}

func (s *MongoStore) Tasks() TaskRepository {
	return NewMongoTaskRepository(s.db.Collection(TasksCollection))
}

// Transaction runs fn directly. Multi-document transactions need a replica
// set, so writes inside fn are applied one by one and are not rolled back.
func (s *MongoStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return fn(s)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.db.Client().Ping(ctx, readpref.Primary())
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(ErrDuplicateKey, err)
	default:
		return err
	}
}
