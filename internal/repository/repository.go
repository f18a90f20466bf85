package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/utils"
)

var (
	// ErrNotFound is returned when no record matches, or when a conditional update modifies nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned on unique-key violations.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByEmail finds a user by identity
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// UpdateProfile overwrites the editable profile fields of the user with the given email
	UpdateProfile(ctx context.Context, user *models.User) error

	// ListByRole lists one page of users with a role ordered by email, plus the total count
	ListByRole(ctx context.Context, role models.Role, page utils.PaginationParams) ([]models.User, int64, error)

	// List lists all users
	List(ctx context.Context) ([]models.User, error)
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	Owner        *string
	ExcludeOwner *string
	Status       *models.TaskStatus
	ProjectID    *string
}

// TaskUpdate carries the fields of a task update. Nil fields are left
// untouched by the write; ClearProject detaches the task from its project.
type TaskUpdate struct {
	Header       *string
	Details      *string
	Status       *models.TaskStatus
	Owner        *string
	ProjectID    *string
	ClearProject bool
}

// Empty reports whether the update would write nothing.
func (u TaskUpdate) Empty() bool {
	return u.Header == nil && u.Details == nil && u.Status == nil && u.Owner == nil && u.ProjectID == nil && !u.ClearProject
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(ctx context.Context, task *models.Task) error

	// FindByID finds a task by ID
	FindByID(ctx context.Context, id string) (*models.Task, error)

	// List retrieves tasks matching filter ordered by creation time
	List(ctx context.Context, filter TaskFilter) ([]models.Task, error)

	// UpdateStatus sets the status of one task; owner scopes the match when non-nil.
	// Returns ErrNotFound when nothing was modified, including an unchanged value.
	UpdateStatus(ctx context.Context, id string, status models.TaskStatus, owner *string) error

	// Claim hands an undone task not owned by claimant over to claimant and marks it taken
	Claim(ctx context.Context, id, claimant string) error

	// Update writes only the provided fields of an existing task in one atomic
	// statement and returns the stored result
	Update(ctx context.Context, id string, update TaskUpdate) (*models.Task, error)

	// SetProject sets the project reference of an existing task
	SetProject(ctx context.Context, id, projectID string) (*models.Task, error)

	// Delete deletes a task
	Delete(ctx context.Context, id string) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// Create creates a new project
	Create(ctx context.Context, project *models.Project) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id string) (*models.Project, error)

	// List lists all projects
	List(ctx context.Context) ([]models.Project, error)

	// Update replaces name, description and status of a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project and clears task references to it
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories of one storage backend with its lifecycle.
type Store struct {
	Users    UserRepository
	Tasks    TaskRepository
	Projects ProjectRepository

	close func(ctx context.Context) error
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}
