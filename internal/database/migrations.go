package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoIndex struct {
	collection string
	name       string
	keys       bson.D
	unique     bool
}

// mongoIndexes mirrors the constraints the relational schema gets from its tags
var mongoIndexes = []mongoIndex{
	{"users", "idx_users_email", bson.D{{Key: "email", Value: 1}}, true},
	{"users", "idx_users_tokens", bson.D{{Key: "tokens.token", Value: 1}}, false},
	{"tasks", "idx_tasks_owner", bson.D{{Key: "owner", Value: 1}}, false},
	{"tasks", "idx_tasks_owner_completed", bson.D{{Key: "owner", Value: 1}, {Key: "completed", Value: 1}}, false},
}

// EnsureIndexes creates the document store indexes. Creating an index that
// already exists with the same definition is a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, idx := range mongoIndexes {
		model := mongo.IndexModel{
			Keys:    idx.keys,
			Options: options.Index().SetName(idx.name).SetUnique(idx.unique),
		}

		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		slog.Debug("ensured index", "collection", idx.collection, "index", idx.name)
	}

	return nil
}
