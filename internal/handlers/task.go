package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/intern-management-api/internal/dto"
	apierrors "github.com/yukikurage/intern-management-api/internal/errors"
	"github.com/yukikurage/intern-management-api/internal/middleware"
	"github.com/yukikurage/intern-management-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns the caller's tasks, or every task for admins
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListForCaller(c.Request.Context(), user)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListUnclaimedTasks returns undone tasks the caller could claim
func (h *TaskHandler) ListUnclaimedTasks(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	tasks, err := h.taskService.ListUnclaimed(c.Request.Context(), identity)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ClaimTask makes the caller the owner of an undone task
func (h *TaskHandler) ClaimTask(c *gin.Context) {
	identity, exists := middleware.GetIdentity(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	task, err := h.taskService.ClaimTask(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// CreateTask creates a task for the given owner
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Header:    req.Header,
		Details:   req.Details,
		Status:    req.Status,
		Owner:     req.Owner,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// UpdateTaskStatus sets the status of one task
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), services.UpdateStatusInput{
		TaskID: req.TaskID,
		Status: req.Status,
		Caller: user,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task status updated successfully",
		"task":    dto.ToTaskDTO(*task),
	})
}

// UpdateTask replaces the provided fields of a task, including its owner
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), services.UpdateTaskInput{
		Header:    req.Header,
		Details:   req.Details,
		Status:    req.Status,
		Owner:     req.Owner,
		ProjectID: req.ProjectID,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// GetTask returns a single task
func (h *TaskHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

func respondTaskError(c *gin.Context, err error) {
	if respondValidationError(c, err) {
		return
	}

	switch {
	case errors.Is(err, services.ErrUnknownOwner),
		errors.Is(err, services.ErrUnknownProject):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrCallerRequired):
		apierrors.Unauthorized(c, "Not authenticated")
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrTaskNotClaimable):
		apierrors.Conflict(c, err.Error())
	default:
		internalError(c, err)
	}
}
