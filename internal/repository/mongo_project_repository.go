package repository

import (
	"context"
	"time"

	"github.com/yukikurage/intern-management-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProjectRepository is a MongoDB implementation of ProjectRepository
type MongoProjectRepository struct {
	collection *mongo.Collection
	tasks      *mongo.Collection
}

func NewMongoProjectRepository(collection, tasks *mongo.Collection) ProjectRepository {
	return &MongoProjectRepository{collection: collection, tasks: tasks}
}

func (r *MongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now().UTC()
	project.CreatedAt = now
	project.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, project)
	return translateMongoError(err)
}

func (r *MongoProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project); err != nil {
		return nil, translateMongoError(err)
	}
	return &project, nil
}

func (r *MongoProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	projects := []models.Project{}
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, translateMongoError(err)
	}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, translateMongoError(err)
	}
	return projects, nil
}

func (r *MongoProjectRepository) Update(ctx context.Context, project *models.Project) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{
		"name":        project.Name,
		"description": project.Description,
		"status":      project.Status,
		"updated_at":  time.Now().UTC(),
	}}

	var updated models.Project
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": project.ID}, update, opts).Decode(&updated); err != nil {
		return translateMongoError(err)
	}
	*project = updated
	return nil
}

// Delete removes the project, then detaches its tasks. The two writes are not
// transactional: a failure in between leaves tasks pointing at a missing project.
func (r *MongoProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateMongoError(err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}

	_, err = r.tasks.UpdateMany(ctx, bson.M{"project_id": id}, bson.M{
		"$unset": bson.M{"project_id": ""},
		"$set":   bson.M{"updated_at": time.Now().UTC()},
	})
	return translateMongoError(err)
}
