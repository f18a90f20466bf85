package repository

import (
	"context"

	"github.com/yukikurage/intern-management-api/internal/database"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/utils"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(ctx context.Context, user *models.User) error {
	return translateGormError(r.db.WithContext(ctx).Create(user).Error)
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &user, nil
}

// UpdateProfile overwrites the editable profile fields
func (r *GormUserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", user.Email).
		Updates(map[string]interface{}{
			"name":            user.Name,
			"surname":         user.Surname,
			"phone":           user.Phone,
			"school":          user.School,
			"department":      user.Department,
			"gender":          user.Gender,
			"birthdate":       user.Birthdate,
			"profile_picture": user.ProfilePicture,
		}).Error
	return translateGormError(err)
}

// ListByRole lists one page of users with the given role
func (r *GormUserRepository) ListByRole(ctx context.Context, role models.Role, page utils.PaginationParams) ([]models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translateGormError(err)
	}

	var users []models.User
	if err := query.Order("email ASC").Scopes(database.Paginate(page)).Find(&users).Error; err != nil {
		return nil, 0, translateGormError(err)
	}
	return users, total, nil
}

// List lists all users ordered by email
func (r *GormUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("email ASC").Find(&users).Error; err != nil {
		return nil, translateGormError(err)
	}
	return users, nil
}
