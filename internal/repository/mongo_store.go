package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names in the document store.
const (
	UsersCollection    = "users"
	TasksCollection    = "tasks"
	ProjectsCollection = "projects"
)

// NewMongoStore wires the MongoDB repositories over one database.
func NewMongoStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Users:    NewMongoUserRepository(db.Collection(UsersCollection)),
		Tasks:    NewMongoTaskRepository(db.Collection(TasksCollection)),
		Projects: NewMongoProjectRepository(db.Collection(ProjectsCollection), db.Collection(TasksCollection)),
		close: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	}
}

func translateMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
