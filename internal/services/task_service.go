package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/amanmukri03/trello-backend/internal/dto"
	"github.com/amanmukri03/trello-backend/internal/models"
	"github.com/amanmukri03/trello-backend/internal/policy"
	"github.com/amanmukri03/trello-backend/internal/realtime"
	"github.com/amanmukri03/trello-backend/internal/repository"
	"github.com/amanmukri03/trello-backend/internal/timer"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskMissingFields    = errors.New("title, boardId and columnId are required")
	ErrTaskRoleDenied       = errors.New("only Admin and Manager can perform this action")
	ErrTaskPermissionDenied = errors.New("you don't have permission to modify this task")
	ErrTaskFieldNotAllowed  = errors.New("members can only move tasks between columns and change completion state")
	ErrInvalidPriority      = errors.New("invalid priority")
	ErrAssigneeNotFound     = errors.New("assigned user not found")
)

// taskPreloads are the relations populated on every task response.
var taskPreloads = []string{"Assignee", "Creator", "Sessions"}

// AssigneeRef is the resolved form of the polymorphic assignedTo input:
// either an entity id or an identity string (email or name, exact match).
type AssigneeRef struct {
	UserID   uint64
	Identity string
}

// ParseAssigneeRef classifies raw assignee input. A positive integer is
// treated as an entity id, anything else as an identity to resolve.
func ParseAssigneeRef(raw string) AssigneeRef {
	trimmed := strings.TrimSpace(raw)
	if id, err := strconv.ParseUint(trimmed, 10, 64); err == nil && id > 0 {
		return AssigneeRef{UserID: id}
	}
	return AssigneeRef{Identity: trimmed}
}

// TaskService handles task business logic: policy checks, assignee
// resolution, board membership upkeep, the work timer and broadcasting.
type TaskService struct {
	taskRepo    repository.TaskRepository
	boardRepo   repository.BoardRepository
	userRepo    repository.UserRepository
	broadcaster realtime.Broadcaster
	now         func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.TaskRepository, boardRepo repository.BoardRepository, userRepo repository.UserRepository, broadcaster realtime.Broadcaster) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		boardRepo:   boardRepo,
		userRepo:    userRepo,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

// CreateTaskInput represents input for creating a task. AssignedTo is an
// identity string; an unresolved identity leaves the task unassigned.
type CreateTaskInput struct {
	Title       string
	Description string
	BoardID     uint64
	ColumnID    uint64
	AssignedTo  string
	Priority    models.Priority
	DueDate     *time.Time
	CreatorID   uint64
	Role        models.Role
}

// Create creates a task and broadcasts it to the board's subscribers.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	if !policy.CanCreateTask(input.Role) {
		return nil, ErrTaskRoleDenied
	}
	if strings.TrimSpace(input.Title) == "" || input.BoardID == 0 || input.ColumnID == 0 {
		return nil, ErrTaskMissingFields
	}

	if input.Priority == "" {
		input.Priority = models.PriorityMedium
	}
	if !input.Priority.Valid() {
		return nil, ErrInvalidPriority
	}

	var assigneeID *uint64
	if identity := strings.TrimSpace(input.AssignedTo); identity != "" {
		user, err := s.userRepo.FindByIdentity(identity)
		switch {
		case err == nil:
			if err := s.ensureBoardMember(input.BoardID, user.ID); err != nil {
				return nil, err
			}
			assigneeID = &user.ID
		case errors.Is(err, gorm.ErrRecordNotFound):
			// The task is still created, just unassigned.
			log.Printf("task create: no user matches assignee %q", identity)
		default:
			return nil, fmt.Errorf("failed to resolve assignee: %w", err)
		}
	}

	task := &models.Task{
		Title:        input.Title,
		Description:  input.Description,
		BoardID:      input.BoardID,
		ColumnID:     input.ColumnID,
		AssignedToID: assigneeID,
		CreatedByID:  input.CreatorID,
		Priority:     input.Priority,
		DueDate:      input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	created, err := s.taskRepo.FindByID(task.ID, taskPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	s.broadcaster.Publish(created.BoardID, realtime.EventTaskCreated, dto.ToTaskDTO(*created))

	return created, nil
}

// List returns a board's tasks. Admin and Manager see every task, a Member
// sees only tasks assigned to them.
func (s *TaskService) List(boardID, userID uint64, role models.Role) ([]models.Task, error) {
	if _, err := s.boardRepo.FindByID(boardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	filter := repository.TaskFilter{BoardID: boardID}
	if !role.IsElevated() {
		filter.AssignedUserID = &userID
	}

	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// UpdateTaskInput represents a task patch; nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	ColumnID    *uint64
	AssignedTo  *string
	Priority    *models.Priority
	DueDate     *time.Time
	IsCompleted *bool
	CompletedAt *time.Time
}

// fields lists the attributes the patch touches, for policy gating.
func (in UpdateTaskInput) fields() []policy.TaskField {
	var fields []policy.TaskField
	if in.Title != nil {
		fields = append(fields, policy.FieldTitle)
	}
	if in.Description != nil {
		fields = append(fields, policy.FieldDescription)
	}
	if in.ColumnID != nil {
		fields = append(fields, policy.FieldColumnID)
	}
	if in.AssignedTo != nil {
		fields = append(fields, policy.FieldAssignedTo)
	}
	if in.Priority != nil {
		fields = append(fields, policy.FieldPriority)
	}
	if in.DueDate != nil {
		fields = append(fields, policy.FieldDueDate)
	}
	if in.IsCompleted != nil {
		fields = append(fields, policy.FieldIsCompleted)
	}
	if in.CompletedAt != nil {
		fields = append(fields, policy.FieldCompletedAt)
	}
	return fields
}

// Update patches a task. Members are restricted to column moves and
// completion changes; a patch touching anything else is rejected whole.
// Unlike creation, an unresolved assignee here is an error.
func (s *TaskService) Update(taskID uint64, input UpdateTaskInput, userID uint64, role models.Role) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanUpdateTask(role, task, userID) {
		return nil, ErrTaskPermissionDenied
	}
	if denied := policy.DisallowedFields(role, input.fields()); len(denied) > 0 {
		return nil, ErrTaskFieldNotAllowed
	}

	if input.AssignedTo != nil && role.IsElevated() {
		user, err := s.resolveAssignee(ParseAssigneeRef(*input.AssignedTo))
		if err != nil {
			return nil, err
		}
		if err := s.ensureBoardMember(task.BoardID, user.ID); err != nil {
			return nil, err
		}
		task.AssignedToID = &user.ID
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTaskMissingFields
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.ColumnID != nil {
		task.ColumnID = *input.ColumnID
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}
	if input.CompletedAt != nil {
		task.CompletedAt = input.CompletedAt
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	updated, err := s.taskRepo.FindByID(task.ID, taskPreloads...)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}

	s.broadcaster.Publish(updated.BoardID, realtime.EventTaskUpdated, dto.ToTaskDTO(*updated))

	return updated, nil
}

// Delete removes a task and broadcasts its id to the board's subscribers.
func (s *TaskService) Delete(taskID uint64, role models.Role) error {
	if !policy.CanDeleteTask(role) {
		return ErrTaskRoleDenied
	}

	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to find task: %w", err)
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	s.broadcaster.Publish(task.BoardID, realtime.EventTaskDeleted, task.ID)

	return nil
}

// StartTimer opens a work session on the task. Starting a running timer is
// a no-op. Timer changes are not broadcast; clients poll TimerStatus.
func (s *TaskService) StartTimer(taskID, userID uint64, role models.Role) (*models.Task, error) {
	task, err := s.findForTimer(taskID, userID, role)
	if err != nil {
		return nil, err
	}

	if timer.Start(task, s.now()) {
		if err := s.taskRepo.UpdateWithSessions(task); err != nil {
			return nil, fmt.Errorf("failed to save timer: %w", err)
		}
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// StopTimer closes the open work session and accumulates its duration.
// Stopping a stopped timer is a no-op.
func (s *TaskService) StopTimer(taskID, userID uint64, role models.Role) (*models.Task, error) {
	task, err := s.findForTimer(taskID, userID, role)
	if err != nil {
		return nil, err
	}

	if timer.Stop(task, s.now()) {
		if err := s.taskRepo.UpdateWithSessions(task); err != nil {
			return nil, fmt.Errorf("failed to save timer: %w", err)
		}
	}

	return s.taskRepo.FindByID(task.ID, taskPreloads...)
}

// TimerStatus returns the live timer reading, including the running
// session's elapsed time. Read-only.
func (s *TaskService) TimerStatus(taskID uint64) (*dto.TimerStatusDTO, error) {
	task, err := s.taskRepo.FindByID(taskID, "Sessions")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return &dto.TimerStatusDTO{
		IsRunning:    task.Timer.IsRunning,
		TotalSeconds: timer.CurrentDuration(task, s.now()),
		Sessions:     dto.ToSessionDTOs(task.Sessions),
		StartedAt:    task.Timer.StartedAt,
	}, nil
}

// findForTimer loads a task with its sessions and checks timer permission.
func (s *TaskService) findForTimer(taskID, userID uint64, role models.Role) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID, "Sessions")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if !policy.CanControlTimer(role, task, userID) {
		return nil, ErrTaskPermissionDenied
	}

	return task, nil
}

// resolveAssignee looks up the referenced user. Used on update, where an
// unresolved reference is an error; creation tolerates it instead.
func (s *TaskService) resolveAssignee(ref AssigneeRef) (*models.User, error) {
	var (
		user *models.User
		err  error
	)

	if ref.UserID != 0 {
		user, err = s.userRepo.FindByID(ref.UserID)
	} else {
		if ref.Identity == "" {
			return nil, ErrAssigneeNotFound
		}
		user, err = s.userRepo.FindByIdentity(ref.Identity)
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssigneeNotFound
		}
		return nil, fmt.Errorf("failed to resolve assignee: %w", err)
	}

	return user, nil
}

// ensureBoardMember adds the user to the board's membership; assignment
// implies membership, and the store ignores duplicates.
func (s *TaskService) ensureBoardMember(boardID, userID uint64) error {
	member := &models.BoardMember{
		BoardID:  boardID,
		UserID:   userID,
		JoinedAt: s.now(),
	}
	if err := s.boardRepo.AddMember(member); err != nil {
		return fmt.Errorf("failed to add assignee to board members: %w", err)
	}
	return nil
}
