package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/task-manager-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoUserRepository is a MongoDB implementation of UserRepository.
// Session tokens are embedded in the user document.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new UserRepository over the users collection
func NewMongoUserRepository(coll *mongo.Collection) UserRepository {
	return &MongoUserRepository{coll: coll}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Tokens == nil {
		user.Tokens = []models.UserToken{}
	}

	_, err := r.coll.InsertOne(ctx, user)
	return translateMongoError(err)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByIDAndToken(ctx context.Context, id, token string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id, "tokens.token": token})
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	return r.updateOne(ctx, user.ID, bson.M{"$set": bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"age":       user.Age,
		"password":  user.Password,
		"updatedAt": user.UpdatedAt,
	}})
}

func (r *MongoUserRepository) AddToken(ctx context.Context, userID, token string) error {
	return r.updateOne(ctx, userID, bson.M{
		"$push": bson.M{"tokens": models.UserToken{Token: token, CreatedAt: time.Now().UTC()}},
	})
}

func (r *MongoUserRepository) RemoveToken(ctx context.Context, userID, token string) error {
	return r.updateOne(ctx, userID, bson.M{
		"$pull": bson.M{"tokens": bson.M{"token": token}},
	})
}

func (r *MongoUserRepository) ClearTokens(ctx context.Context, userID string) error {
	return r.updateOne(ctx, userID, bson.M{
		"$set": bson.M{"tokens": []models.UserToken{}},
	})
}

func (r *MongoUserRepository) SetAvatar(ctx context.Context, userID string, avatar []byte) error {
	update := bson.M{"$set": bson.M{"avatar": avatar, "updatedAt": time.Now().UTC()}}
	if avatar == nil {
		update = bson.M{
			"$unset": bson.M{"avatar": ""},
			"$set":   bson.M{"updatedAt": time.Now().UTC()},
		}
	}
	return r.updateOne(ctx, userID, update)
}

func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateMongoError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) updateOne(ctx context.Context, id string, update bson.M) error {
	result, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return translateMongoError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
