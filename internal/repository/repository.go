package repository

import (
	"github.com/amanmukri03/trello-backend/internal/models"
)

// BoardRepository defines the interface for board data access
type BoardRepository interface {
	// Create creates a new board
	Create(board *models.Board) error

	// FindByID finds a board by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Board, error)

	// ListForMember retrieves boards the user is a member of
	ListForMember(userID uint64) ([]models.Board, error)

	// ListWithTasksAssignedTo retrieves boards carrying at least one task
	// assigned to the user
	ListWithTasksAssignedTo(userID uint64) ([]models.Board, error)

	// Update updates a board
	Update(board *models.Board) error

	// DeleteCascade removes a board together with its columns, tasks, timer
	// sessions and memberships in a single transaction
	DeleteCascade(id uint64) error

	// AddMember adds a member to a board; adding an existing member is a no-op
	AddMember(member *models.BoardMember) error

	// FindMember finds a specific board member
	FindMember(boardID, userID uint64) (*models.BoardMember, error)
}

// ColumnRepository defines the interface for column data access
type ColumnRepository interface {
	// Create creates a new column
	Create(column *models.Column) error

	// FindByID finds a column by ID
	FindByID(id uint64) (*models.Column, error)

	// ListByBoard retrieves a board's columns ordered by creation time
	ListByBoard(boardID uint64) ([]models.Column, error)

	// Update updates a column
	Update(column *models.Column) error

	// Delete soft deletes a column
	Delete(id uint64) error
}

// TaskFilter holds filtering options for listing tasks on a board
type TaskFilter struct {
	BoardID        uint64
	AssignedUserID *uint64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// List retrieves tasks ordered by creation time
	List(filter TaskFilter) ([]models.Task, error)

	// Update updates a task's own columns
	Update(task *models.Task) error

	// UpdateWithSessions updates the task and persists the most recent timer
	// session in the same transaction
	UpdateWithSessions(task *models.Task) error

	// Delete soft deletes a task and its timer sessions
	Delete(id uint64) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// FindByIdentity finds a user whose email or name exactly matches the
	// given identity string
	FindByIdentity(identity string) (*models.User, error)
}
