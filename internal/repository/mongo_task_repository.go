package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/task-manager-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var taskSortKeys = map[string]string{
	SortFieldDescription: "description",
	SortFieldCompleted:   "completed",
	SortFieldCreatedAt:   "createdAt",
	SortFieldUpdatedAt:   "updatedAt",
}

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewMongoTaskRepository creates a new TaskRepository over the tasks collection
func NewMongoTaskRepository(coll *mongo.Collection) TaskRepository {
	return &MongoTaskRepository{coll: coll}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, task)
	return translateMongoError(err)
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoTaskRepository) FindOwned(ctx context.Context, id, owner string) (*models.Task, error) {
	return r.findOne(ctx, bson.M{"_id": id, "owner": owner})
}

func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query, opts := taskListQuery(filter)

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, translateMongoError(err)
	}

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, translateMongoError(err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	result, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": task.ID, "owner": task.Owner},
		bson.M{"$set": bson.M{
			"description": task.Description,
			"completed":   task.Completed,
			"updatedAt":   task.UpdatedAt,
		}},
	)
	if err != nil {
		return translateMongoError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) DeleteOwned(ctx context.Context, id, owner string) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id, "owner": owner}).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

func (r *MongoTaskRepository) DeleteByOwner(ctx context.Context, owner string) (int64, error) {
	result, err := r.coll.DeleteMany(ctx, bson.M{"owner": owner})
	if err != nil {
		return 0, translateMongoError(err)
	}
	return result.DeletedCount, nil
}

func (r *MongoTaskRepository) findOne(ctx context.Context, filter bson.M) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOne(ctx, filter).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

// taskListQuery builds the owner-scoped filter and find options for List.
func taskListQuery(filter TaskFilter) (bson.M, *options.FindOptions) {
	query := bson.M{"owner": filter.Owner}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}

	opts := options.Find()
	if filter.Sort != nil {
		if key, ok := taskSortKeys[filter.Sort.Field]; ok {
			direction := 1
			if filter.Sort.Desc {
				direction = -1
			}
			opts.SetSort(bson.D{{Key: key, Value: direction}})
		}
	}
	if filter.Skip > 0 {
		opts.SetSkip(int64(filter.Skip))
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	return query, opts
}
