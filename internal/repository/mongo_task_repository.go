package repository

import (
	"context"
	"time"

	"github.com/yukikurage/intern-management-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTaskRepository is a MongoDB implementation of TaskRepository.
// Ownership is the owner field of the task document, so every transfer is a
// single-document update.
type MongoTaskRepository struct {
	collection *mongo.Collection
}

func NewMongoTaskRepository(collection *mongo.Collection) TaskRepository {
	return &MongoTaskRepository{collection: collection}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, task)
	return translateMongoError(err)
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

func taskFilterDocument(filter TaskFilter) bson.M {
	doc := bson.M{}
	owner := bson.M{}
	if filter.Owner != nil {
		owner["$eq"] = *filter.Owner
	}
	if filter.ExcludeOwner != nil {
		owner["$ne"] = *filter.ExcludeOwner
	}
	if len(owner) > 0 {
		doc["owner"] = owner
	}
	if filter.Status != nil {
		doc["status"] = *filter.Status
	}
	if filter.ProjectID != nil {
		doc["project_id"] = *filter.ProjectID
	}
	return doc
}

func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	tasks := []models.Task{}
	cursor, err := r.collection.Find(ctx, taskFilterDocument(filter), opts)
	if err != nil {
		return nil, translateMongoError(err)
	}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, translateMongoError(err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) UpdateStatus(ctx context.Context, id string, status models.TaskStatus, owner *string) error {
	filter := bson.M{"_id": id, "status": bson.M{"$ne": status}}
	if owner != nil {
		filter["owner"] = *owner
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"status": status, "updated_at": time.Now().UTC()},
	})
	if err != nil {
		return translateMongoError(err)
	}
	if result.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Claim(ctx context.Context, id, claimant string) error {
	filter := bson.M{
		"_id":    id,
		"status": models.TaskStatusUndone,
		"owner":  bson.M{"$ne": claimant},
	}

	result, err := r.collection.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{
			"owner":      claimant,
			"status":     models.TaskStatusTaken,
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return translateMongoError(err)
	}
	if result.ModifiedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, id string, update TaskUpdate) (*models.Task, error) {
	return r.findOneAndUpdate(ctx, id, taskUpdateDocument(update, time.Now().UTC()))
}

// taskUpdateDocument sets only the provided fields so concurrent single-field
// writes to the same task survive.
func taskUpdateDocument(update TaskUpdate, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if update.Header != nil {
		set["header"] = *update.Header
	}
	if update.Details != nil {
		set["details"] = *update.Details
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.Owner != nil {
		set["owner"] = *update.Owner
	}

	doc := bson.M{"$set": set}
	if update.ProjectID != nil {
		set["project_id"] = *update.ProjectID
	} else if update.ClearProject {
		doc["$unset"] = bson.M{"project_id": ""}
	}
	return doc
}

func (r *MongoTaskRepository) SetProject(ctx context.Context, id, projectID string) (*models.Task, error) {
	return r.findOneAndUpdate(ctx, id, bson.M{
		"$set": bson.M{"project_id": projectID, "updated_at": time.Now().UTC()},
	})
}

func (r *MongoTaskRepository) findOneAndUpdate(ctx context.Context, id string, update bson.M) (*models.Task, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var task models.Task
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateMongoError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
