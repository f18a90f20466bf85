package dto

import (
	"time"

	"github.com/yukikurage/intern-management-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID        string            `json:"id"`
	Header    string            `json:"header"`
	Details   string            `json:"details"`
	Status    models.TaskStatus `json:"status"`
	Owner     string            `json:"owner"`
	ProjectID *string           `json:"project_id"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CreateTaskRequest is the body of POST /addTask
type CreateTaskRequest struct {
	Header    string            `json:"header" binding:"required"`
	Details   string            `json:"details" binding:"required"`
	Status    models.TaskStatus `json:"status" binding:"required"`
	Owner     string            `json:"owner" binding:"required,email"`
	ProjectID *string           `json:"project_id"`
}

// UpdateTaskStatusRequest is the body of PUT /update_task_status
type UpdateTaskStatusRequest struct {
	TaskID string            `json:"task_id" binding:"required,uuid"`
	Status models.TaskStatus `json:"status" binding:"required"`
}

// UpdateTaskRequest is the body of PUT /update_task/:id. Omitted fields are kept.
type UpdateTaskRequest struct {
	Header    *string            `json:"header"`
	Details   *string            `json:"details"`
	Status    *models.TaskStatus `json:"status"`
	Owner     *string            `json:"owner" binding:"omitempty,email"`
	ProjectID *string            `json:"project_id"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:        task.ID,
		Header:    task.Header,
		Details:   task.Details,
		Status:    task.Status,
		Owner:     task.Owner,
		ProjectID: task.ProjectID,
		CreatedAt: task.CreatedAt,
		UpdatedAt: task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of tasks, never returning nil
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	items := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		items[i] = ToTaskDTO(task)
	}
	return items
}
