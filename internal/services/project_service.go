package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/repository"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrInvalidProjectName = errors.New("project name cannot be empty")
)

// ProjectService provides business logic for project operations.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	taskRepo    repository.TaskRepository
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
	}
}

// ProjectInput represents the writable fields of a project.
type ProjectInput struct {
	Name        string
	Description string
	Status      string
}

// CreateProject creates a new project.
func (s *ProjectService) CreateProject(ctx context.Context, input ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: input.Description,
		Status:      input.Status,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// UpdateProject replaces name, description and status of a project.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID string, input ProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}

	project := &models.Project{
		ID:          projectID,
		Name:        name,
		Description: input.Description,
		Status:      input.Status,
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project and detaches its tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID string) error {
	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// ListProjects returns every project.
func (s *ProjectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a single project.
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// ListProjectTasks returns the tasks that reference a project.
func (s *ProjectService) ListProjectTasks(ctx context.Context, projectID string) ([]models.Task, error) {
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{ProjectID: &projectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list project tasks: %w", err)
	}
	return tasks, nil
}

// AssignTask points a task at a project. Any authenticated caller may do this.
func (s *ProjectService) AssignTask(ctx context.Context, projectID, taskID string) (*models.Task, error) {
	if taskID == "" {
		return nil, missingField("task_id")
	}
	if _, err := s.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.SetProject(ctx, taskID, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to assign task to project: %w", err)
	}
	return task, nil
}
