package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/amanmukri03/trello-backend/internal/dto"
	apierrors "github.com/amanmukri03/trello-backend/internal/errors"
	"github.com/amanmukri03/trello-backend/internal/middleware"
	"github.com/amanmukri03/trello-backend/internal/models"
	"github.com/amanmukri03/trello-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a new task. assignedTo is an identity string (email or
// name); an unknown identity leaves the task unassigned.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	type CreateTaskRequest struct {
		Title       string          `json:"title" binding:"required"`
		Description string          `json:"description"`
		BoardID     uint64          `json:"boardId" binding:"required"`
		ColumnID    uint64          `json:"columnId" binding:"required"`
		AssignedTo  string          `json:"assignedTo"`
		Priority    models.Priority `json:"priority"`
		DueDate     *time.Time      `json:"dueDate"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Missing required fields!")
		return
	}

	task, err := h.taskService.Create(services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		BoardID:     req.BoardID,
		ColumnID:    req.ColumnID,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CreatorID:   userID,
		Role:        role,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns a board's tasks, role-filtered: Members only see their
// assigned tasks. The path parameter is the board id.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid board id")
		return
	}

	tasks, err := h.taskService.List(boardID, userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// UpdateTask patches a task within the caller's permitted field set.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task id")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string          `json:"title"`
		Description *string          `json:"description"`
		ColumnID    *uint64          `json:"columnId"`
		AssignedTo  *string          `json:"assignedTo"`
		Priority    *models.Priority `json:"priority"`
		DueDate     *time.Time       `json:"dueDate"`
		IsCompleted *bool            `json:"isCompleted"`
		CompletedAt *time.Time       `json:"completedAt"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(taskID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ColumnID:    req.ColumnID,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		IsCompleted: req.IsCompleted,
		CompletedAt: req.CompletedAt,
	}, userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task. Admin/Manager only.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	role, exists := middleware.GetUserRole(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task id")
		return
	}

	if err := h.taskService.Delete(taskID, role); err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}

// StartTimer opens a work session on the task.
func (h *TaskHandler) StartTimer(c *gin.Context) {
	h.controlTimer(c, h.taskService.StartTimer)
}

// StopTimer closes the open work session.
func (h *TaskHandler) StopTimer(c *gin.Context) {
	h.controlTimer(c, h.taskService.StopTimer)
}

func (h *TaskHandler) controlTimer(c *gin.Context, control func(taskID, userID uint64, role models.Role) (*models.Task, error)) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task id")
		return
	}

	task, err := control(taskID, userID, role)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// GetTimerStatus returns the live timer reading for polling clients.
func (h *TaskHandler) GetTimerStatus(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid task id")
		return
	}

	status, err := h.taskService.TimerStatus(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskMissingFields),
		errors.Is(err, services.ErrInvalidPriority):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrTaskRoleDenied),
		errors.Is(err, services.ErrTaskPermissionDenied),
		errors.Is(err, services.ErrTaskFieldNotAllowed):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrBoardNotFound),
		errors.Is(err, services.ErrAssigneeNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
