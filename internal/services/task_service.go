package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yukikurage/intern-management-api/internal/logging"
	"github.com/yukikurage/intern-management-api/internal/models"
	"github.com/yukikurage/intern-management-api/internal/repository"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidStatus    = errors.New("unknown task status")
	ErrUnknownOwner     = errors.New("owner is not a registered user")
	ErrUnknownProject   = errors.New("project does not exist")
	ErrNoFieldsToUpdate = errors.New("at least one field is required")
	ErrTaskNotClaimable = errors.New("task is not available to claim")
	ErrCallerRequired   = errors.New("caller is required")
)

// TaskService owns task creation, status changes and ownership.
type TaskService struct {
	taskRepo    repository.TaskRepository
	userRepo    repository.UserRepository
	projectRepo repository.ProjectRepository
	logger      logging.Logger
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, userRepo repository.UserRepository, projectRepo repository.ProjectRepository, logger logging.Logger) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		userRepo:    userRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Header    string
	Details   string
	Status    models.TaskStatus
	Owner     string
	ProjectID *string
}

// UpdateStatusInput represents input for a status change
type UpdateStatusInput struct {
	TaskID string
	Status models.TaskStatus
	Caller *models.User
}

// UpdateTaskInput represents a full update. Nil fields keep their stored
// value; an empty ProjectID detaches the task from its project.
type UpdateTaskInput struct {
	Header    *string
	Details   *string
	Status    *models.TaskStatus
	Owner     *string
	ProjectID *string
}

// CreateTask validates the input and stores a task with a generated ID
func (s *TaskService) CreateTask(ctx context.Context, input CreateTaskInput) (*models.Task, error) {
	header := strings.TrimSpace(input.Header)
	details := strings.TrimSpace(input.Details)
	owner := NormalizeEmail(input.Owner)

	switch {
	case header == "":
		return nil, missingField("header")
	case details == "":
		return nil, missingField("details")
	case input.Status == "":
		return nil, missingField("status")
	case owner == "":
		return nil, missingField("owner")
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.ensureOwner(ctx, owner); err != nil {
		return nil, err
	}
	projectID, err := s.resolveProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}

	task := &models.Task{
		ID:        uuid.NewString(),
		Header:    header,
		Details:   details,
		Status:    input.Status,
		Owner:     owner,
		ProjectID: projectID,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListForCaller returns the caller's own tasks for interns and every task for admins
func (s *TaskService) ListForCaller(ctx context.Context, caller *models.User) ([]models.Task, error) {
	if caller == nil {
		return nil, ErrCallerRequired
	}

	filter := repository.TaskFilter{}
	if !caller.IsAdmin() {
		filter.Owner = &caller.Email
	}

	tasks, err := s.taskRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListUnclaimed returns undone tasks owned by someone other than the caller
func (s *TaskService) ListUnclaimed(ctx context.Context, caller string) ([]models.Task, error) {
	status := models.TaskStatusUndone
	excluded := NormalizeEmail(caller)

	tasks, err := s.taskRepo.List(ctx, repository.TaskFilter{
		Status:       &status,
		ExcludeOwner: &excluded,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list unclaimed tasks: %w", err)
	}
	return tasks, nil
}

// ClaimTask makes the caller the owner of an undone task and marks it taken
func (s *TaskService) ClaimTask(ctx context.Context, taskID, caller string) (*models.Task, error) {
	claimant := NormalizeEmail(caller)

	if err := s.taskRepo.Claim(ctx, taskID, claimant); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if _, findErr := s.taskRepo.FindByID(ctx, taskID); errors.Is(findErr, repository.ErrNotFound) {
				return nil, ErrTaskNotFound
			}
			return nil, ErrTaskNotClaimable
		}
		return nil, fmt.Errorf("failed to claim task: %w", err)
	}

	s.logger.Info(ctx, "task claimed", "task_id", taskID, "owner", claimant)
	return s.GetTask(ctx, taskID)
}

// UpdateStatus sets the status of one task. Interns only reach their own
// tasks; admins reach any task. Modifying nothing is reported as not found.
func (s *TaskService) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Task, error) {
	if input.Caller == nil {
		return nil, ErrCallerRequired
	}
	if input.TaskID == "" {
		return nil, missingField("task_id")
	}
	if input.Status == "" {
		return nil, missingField("status")
	}
	if !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	var owner *string
	if !input.Caller.IsAdmin() {
		owner = &input.Caller.Email
	}

	if err := s.taskRepo.UpdateStatus(ctx, input.TaskID, input.Status, owner); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	return s.GetTask(ctx, input.TaskID)
}

// UpdateTask writes the provided fields of a task, possibly moving it to a
// new owner, in a single atomic write. Fields left nil are not written.
func (s *TaskService) UpdateTask(ctx context.Context, taskID string, input UpdateTaskInput) (*models.Task, error) {
	if input.Header == nil && input.Details == nil && input.Status == nil && input.Owner == nil && input.ProjectID == nil {
		return nil, ErrNoFieldsToUpdate
	}

	current, err := s.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	var update repository.TaskUpdate
	if input.Header != nil {
		header := strings.TrimSpace(*input.Header)
		if header == "" {
			return nil, missingField("header")
		}
		update.Header = &header
	}
	if input.Details != nil {
		details := strings.TrimSpace(*input.Details)
		if details == "" {
			return nil, missingField("details")
		}
		update.Details = &details
	}
	if input.Status != nil {
		if *input.Status == "" {
			return nil, missingField("status")
		}
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		update.Status = input.Status
	}
	if input.Owner != nil {
		owner := NormalizeEmail(*input.Owner)
		if owner == "" {
			return nil, missingField("owner")
		}
		if err := s.ensureOwner(ctx, owner); err != nil {
			return nil, err
		}
		update.Owner = &owner
	}
	if input.ProjectID != nil {
		projectID, err := s.resolveProject(ctx, input.ProjectID)
		if err != nil {
			return nil, err
		}
		update.ProjectID = projectID
		update.ClearProject = projectID == nil
	}

	task, err := s.taskRepo.Update(ctx, taskID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if task.Owner != current.Owner {
		s.logger.Info(ctx, "task reassigned", "task_id", taskID, "from", current.Owner, "to", task.Owner)
	}
	return task, nil
}

// DeleteTask deletes a task from whichever user owns it
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// GetTask returns a task regardless of its owner
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureOwner verifies that the owner is a registered user
func (s *TaskService) ensureOwner(ctx context.Context, email string) error {
	if _, err := s.userRepo.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownOwner
		}
		return fmt.Errorf("failed to verify owner: %w", err)
	}
	return nil
}

// resolveProject validates an optional project reference; empty means none
func (s *TaskService) resolveProject(ctx context.Context, projectID *string) (*string, error) {
	if projectID == nil || strings.TrimSpace(*projectID) == "" {
		return nil, nil
	}

	id := strings.TrimSpace(*projectID)
	if _, err := s.projectRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownProject
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}
	return &id, nil
}
