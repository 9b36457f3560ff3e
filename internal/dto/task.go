package dto

import (
	"time"

	"github.com/amanmukri03/trello-backend/internal/models"
)

// UserDTO represents a user reference in API responses.
type UserDTO struct {
	ID    uint64      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role,omitempty"`
}

// ToUserDTO converts a user for responses without exposing credentials.
func ToUserDTO(u models.User) UserDTO {
	return UserDTO{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// SessionDTO represents one work interval of a task's timer.
type SessionDTO struct {
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	DurationSeconds int64      `json:"durationSeconds"`
}

// TimerDTO is the task timer with its session history assembled.
type TimerDTO struct {
	IsRunning    bool         `json:"isRunning"`
	StartedAt    *time.Time   `json:"startedAt"`
	TotalSeconds int64        `json:"totalSeconds"`
	Sessions     []SessionDTO `json:"sessions"`
}

// TimerStatusDTO is the live timer reading returned by the status endpoint.
// TotalSeconds includes the running session's elapsed time.
type TimerStatusDTO struct {
	IsRunning    bool         `json:"isRunning"`
	TotalSeconds int64        `json:"totalSeconds"`
	Sessions     []SessionDTO `json:"sessions"`
	StartedAt    *time.Time   `json:"startedAt"`
}

// TaskDTO represents a task in API responses and broadcast events, with
// assignee and creator display fields populated.
type TaskDTO struct {
	ID          uint64          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	BoardID     uint64          `json:"boardId"`
	ColumnID    uint64          `json:"columnId"`
	AssignedTo  *uint64         `json:"assignedTo"`
	CreatedBy   uint64          `json:"createdBy"`
	Priority    models.Priority `json:"priority"`
	DueDate     *time.Time      `json:"dueDate"`
	Timer       TimerDTO        `json:"timer"`
	IsCompleted bool            `json:"isCompleted"`
	CompletedAt *time.Time      `json:"completedAt"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Assignee    *UserDTO        `json:"assignee,omitempty"`
	Creator     *UserDTO        `json:"creator,omitempty"`
}

// ToSessionDTOs converts a task's session log.
func ToSessionDTOs(sessions []models.TimerSession) []SessionDTO {
	out := make([]SessionDTO, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, SessionDTO{
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			DurationSeconds: s.DurationSeconds,
		})
	}
	return out
}

// ToTaskDTO converts a task loaded with its relations.
func ToTaskDTO(t models.Task) TaskDTO {
	dto := TaskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		BoardID:     t.BoardID,
		ColumnID:    t.ColumnID,
		AssignedTo:  t.AssignedToID,
		CreatedBy:   t.CreatedByID,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Timer: TimerDTO{
			IsRunning:    t.Timer.IsRunning,
			StartedAt:    t.Timer.StartedAt,
			TotalSeconds: t.Timer.TotalSeconds,
			Sessions:     ToSessionDTOs(t.Sessions),
		},
		IsCompleted: t.IsCompleted,
		CompletedAt: t.CompletedAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}

	if t.Assignee != nil {
		assignee := ToUserDTO(*t.Assignee)
		assignee.Role = ""
		dto.Assignee = &assignee
	}
	if t.Creator.ID != 0 {
		creator := ToUserDTO(t.Creator)
		dto.Creator = &creator
	}

	return dto
}

// ToTaskDTOs converts a task list.
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(t))
	}
	return out
}
