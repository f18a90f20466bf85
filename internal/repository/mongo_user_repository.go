package repository

import (
	"context"
	"time"

	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository is a MongoDB implementation of UserRepository
type MongoUserRepository struct {
	collection *mongo.Collection
}

func NewMongoUserRepository(collection *mongo.Collection) UserRepository {
	return &MongoUserRepository{collection: collection}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, user)
	return translateMongoError(err)
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"email": user.Email}, bson.M{
		"$set": bson.M{
			"name":            user.Name,
			"surname":         user.Surname,
			"phone":           user.Phone,
			"school":          user.School,
			"department":      user.Department,
			"gender":          user.Gender,
			"birthdate":       user.Birthdate,
			"profile_picture": user.ProfilePicture,
			"updated_at":      time.Now().UTC(),
		},
	})
	if err != nil {
		return translateMongoError(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) ListByRole(ctx context.Context, role models.Role, page utils.PaginationParams) ([]models.User, int64, error) {
	filter := bson.M{"role": role}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateMongoError(err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	if !page.Unbounded() {
		opts.SetSkip(int64(page.Offset)).SetLimit(int64(page.Limit))
	}

	users := []models.User{}
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translateMongoError(err)
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, translateMongoError(err)
	}
	return users, total, nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, translateMongoError(err)
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, translateMongoError(err)
	}
	return users, nil
}
