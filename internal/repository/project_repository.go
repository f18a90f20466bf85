package repository

import (
	"context"

	"github.com/yukikurage/intern-management-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Create creates a new project
func (r *GormProjectRepository) Create(ctx context.Context, project *models.Project) error {
	return translateGormError(r.db.WithContext(ctx).Create(project).Error)
}

// FindByID finds a project by ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	return findProject(r.db.WithContext(ctx), id)
}

func findProject(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := db.Where("id = ?", id).First(&project).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &project, nil
}

// List lists all projects
func (r *GormProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	projects := []models.Project{}
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&projects).Error; err != nil {
		return nil, translateGormError(err)
	}
	return projects, nil
}

// Update replaces the mutable fields of a project and reloads it
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findProject(tx, project.ID); err != nil {
			return err
		}

		if err := tx.Model(&models.Project{}).Where("id = ?", project.ID).Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
			"status":      project.Status,
		}).Error; err != nil {
			return translateGormError(err)
		}

		updated, err := findProject(tx, project.ID)
		if err != nil {
			return err
		}
		*project = *updated
		return nil
	})
}

// Delete deletes a project and detaches its tasks in a transaction
func (r *GormProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&models.Project{})
		if result.Error != nil {
			return translateGormError(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		if err := tx.Model(&models.Task{}).
			Where("project_id = ?", id).
			Update("project_id", nil).Error; err != nil {
			return translateGormError(err)
		}
		return nil
	})
}
