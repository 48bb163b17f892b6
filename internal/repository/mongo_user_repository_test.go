package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/task-manager-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func userDoc(id, email string, tokens ...string) bson.D {
	arr := bson.A{}
	for _, token := range tokens {
		arr = append(arr, bson.D{{Key: "token", Value: token}})
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Andrew"},
		{Key: "email", Value: email},
		{Key: "age", Value: 27},
		{Key: "password", Value: "hash"},
		{Key: "tokens", Value: arr},
	}
}

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create embeds an empty token list", func(mt *mtest.T) {
		users := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &models.User{Name: "Andrew", Email: "andrew@example.com", Password: "hash"}
		require.NoError(mt, users.Create(ctx, user))
		assert.NotEmpty(mt, user.ID)
		assert.False(mt, user.CreatedAt.IsZero())

		evt := mt.GetStartedEvent()
		require.Equal(mt, "insert", evt.CommandName)
		doc := evt.Command.Lookup("documents", "0")
		assert.Equal(mt, user.ID, doc.Document().Lookup("_id").StringValue())
		assert.Equal(mt, bsontype.Array, doc.Document().Lookup("tokens").Type)
	})

	mt.Run("create maps duplicate email", func(mt *mtest.T) {
		users := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: email_1",
		}))

		err := users.Create(ctx, &models.User{Name: "Other", Email: "andrew@example.com", Password: "hash"})
		require.ErrorIs(mt, err, ErrDuplicateKey)
	})

	mt.Run("find by id and token", func(mt *mtest.T) {
		users := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			userDoc("u1", "andrew@example.com", "t1", "t2")))

		user, err := users.FindByIDAndToken(ctx, "u1", "t1")
		require.NoError(mt, err)
		assert.Equal(mt, "u1", user.ID)
		assert.Equal(mt, "andrew@example.com", user.Email)
		assert.True(mt, user.HasToken("t2"))

		evt := mt.GetStartedEvent()
		require.Equal(mt, "find", evt.CommandName)
		assert.Equal(mt, "u1", evt.Command.Lookup("filter", "_id").StringValue())
		assert.Equal(mt, "t1", evt.Command.Lookup("filter", "tokens.token").StringValue())
	})

	mt.Run("revoked token is not found", func(mt *mtest.T) {
		users := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := users.FindByIDAndToken(ctx, "u1", "revoked")
		require.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("token updates", func(mt *mtest.T) {
		users := NewMongoUserRepository(mt.Coll)
		matched := mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		)
		mt.AddMockResponses(matched, matched, matched)

		require.NoError(mt, users.AddToken(ctx, "u1", "t1"))
		update := mt.GetStartedEvent().Command.Lookup("updates", "0")
		assert.Equal(mt, "u1", update.Document().Lookup("q", "_id").StringValue())
		assert.Equal(mt, "t1", update.Document().Lookup("u", "$push", "tokens", "token").StringValue())

		require.NoError(mt, users.RemoveToken(ctx, "u1", "t1"))
		update = mt.GetStartedEvent().Command.Lookup("updates", "0")
		assert.Equal(mt, "t1", update.Document().Lookup("u", "$pull", "tokens", "token").StringValue())

		require.NoError(mt, users.ClearTokens(ctx, "u1"))
		update = mt.GetStartedEvent().Command.Lookup("updates", "0")
		cleared := update.Document().Lookup("u", "$set", "tokens")
		require.Equal(mt, bsontype.Array, cleared.Type)
		values, err := cleared.Array().Values()
		require.NoError(mt, err)
		assert.Empty(mt, values)
	})

	mt.Run("update of a missing user is not found", func(mt *mtest.T) {
		users := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		require.ErrorIs(mt, users.AddToken(ctx, "missing", "t1"), ErrNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		users := NewMongoUserRepository(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		require.NoError(mt, users.Delete(ctx, "u1"))
		require.ErrorIs(mt, users.Delete(ctx, "u1"), ErrNotFound)
	})
}
