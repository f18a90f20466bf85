package repository

import (
	"context"

	"github.com/yukikurage/intern-management-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(ctx context.Context, task *models.Task) error {
	return translateGormError(r.db.WithContext(ctx).Create(task).Error)
}

// FindByID finds a task by ID
func (r *GormTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	return findTask(r.db.WithContext(ctx), id)
}

func findTask(db *gorm.DB, id string) (*models.Task, error) {
	var task models.Task
	if err := db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateGormError(err)
	}
	return &task, nil
}

// List retrieves tasks matching the filter
func (r *GormTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := r.db.WithContext(ctx).Model(&models.Task{})

	if filter.Owner != nil {
		query = query.Where("tasks.owner = ?", *filter.Owner)
	}
	if filter.ExcludeOwner != nil {
		query = query.Where("tasks.owner <> ?", *filter.ExcludeOwner)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		query = query.Where("tasks.project_id = ?", *filter.ProjectID)
	}

	tasks := []models.Task{}
	if err := query.Order("tasks.created_at ASC, tasks.id ASC").Find(&tasks).Error; err != nil {
		return nil, translateGormError(err)
	}
	return tasks, nil
}

// UpdateStatus sets the status of a single task in place
func (r *GormTaskRepository) UpdateStatus(ctx context.Context, id string, status models.TaskStatus, owner *string) error {
	// status <> ? keeps "nothing changed" reported as not found on every dialect
	query := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND status <> ?", id, status)
	if owner != nil {
		query = query.Where("owner = ?", *owner)
	}

	result := query.Update("status", status)
	if result.Error != nil {
		return translateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Claim transfers an undone task to the claimant in one conditional update
func (r *GormTaskRepository) Claim(ctx context.Context, id, claimant string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ? AND status = ? AND owner <> ?", id, models.TaskStatusUndone, claimant).
		Updates(map[string]interface{}{
			"owner":  claimant,
			"status": models.TaskStatusTaken,
		})
	if result.Error != nil {
		return translateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Update writes the provided fields inside a transaction. Fields absent from
// the update keep whatever value concurrent writers stored.
func (r *GormTaskRepository) Update(ctx context.Context, id string, update TaskUpdate) (*models.Task, error) {
	if update.Empty() {
		return r.FindByID(ctx, id)
	}

	var task *models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Task{}).Where("id = ?", id).Updates(taskUpdateColumns(update))
		if result.Error != nil {
			return translateGormError(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}

		var err error
		task, err = findTask(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func taskUpdateColumns(update TaskUpdate) map[string]interface{} {
	columns := map[string]interface{}{}
	if update.Header != nil {
		columns["header"] = *update.Header
	}
	if update.Details != nil {
		columns["details"] = *update.Details
	}
	if update.Status != nil {
		columns["status"] = *update.Status
	}
	if update.Owner != nil {
		columns["owner"] = *update.Owner
	}
	if update.ProjectID != nil {
		columns["project_id"] = *update.ProjectID
	} else if update.ClearProject {
		columns["project_id"] = nil
	}
	return columns
}

// SetProject sets the project reference of a task
func (r *GormTaskRepository) SetProject(ctx context.Context, id, projectID string) (*models.Task, error) {
	var task *models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findTask(tx, id); err != nil {
			return err
		}

		if err := tx.Model(&models.Task{}).Where("id = ?", id).Update("project_id", projectID).Error; err != nil {
			return translateGormError(err)
		}

		var err error
		task, err = findTask(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete soft deletes a task
func (r *GormTaskRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Task{})
	if result.Error != nil {
		return translateGormError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
