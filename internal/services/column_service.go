package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amanmukri03/trello-backend/internal/models"
	"github.com/amanmukri03/trello-backend/internal/realtime"
	"github.com/amanmukri03/trello-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrColumnNotFound     = errors.New("column not found")
	ErrColumnNameRequired = errors.New("column name and boardId are required")
)

// ColumnService handles column business logic. Role gating for column
// mutations happens at the route level; every successful mutation is
// broadcast to the board's subscribers.
type ColumnService struct {
	columnRepo  repository.ColumnRepository
	boardRepo   repository.BoardRepository
	broadcaster realtime.Broadcaster
}

// NewColumnService creates a new ColumnService.
func NewColumnService(columnRepo repository.ColumnRepository, boardRepo repository.BoardRepository, broadcaster realtime.Broadcaster) *ColumnService {
	return &ColumnService{
		columnRepo:  columnRepo,
		boardRepo:   boardRepo,
		broadcaster: broadcaster,
	}
}

// CreateColumnInput represents input for creating a column.
type CreateColumnInput struct {
	Name    string
	BoardID uint64
	Order   int
}

// Create adds a column to a board and broadcasts it.
func (s *ColumnService) Create(input CreateColumnInput) (*models.Column, error) {
	if strings.TrimSpace(input.Name) == "" || input.BoardID == 0 {
		return nil, ErrColumnNameRequired
	}

	if _, err := s.boardRepo.FindByID(input.BoardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	column := &models.Column{
		Name:    input.Name,
		BoardID: input.BoardID,
		Order:   input.Order,
	}

	if err := s.columnRepo.Create(column); err != nil {
		return nil, fmt.Errorf("failed to create column: %w", err)
	}

	s.broadcaster.Publish(column.BoardID, realtime.EventColumnCreated, column)

	return column, nil
}

// List returns a board's columns ordered by creation time.
func (s *ColumnService) List(boardID uint64) ([]models.Column, error) {
	columns, err := s.columnRepo.ListByBoard(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	return columns, nil
}

// UpdateColumnInput represents a column patch; nil fields are left unchanged.
type UpdateColumnInput struct {
	Name  *string
	Order *int
}

// Update patches a column and broadcasts the new state.
func (s *ColumnService) Update(columnID uint64, input UpdateColumnInput) (*models.Column, error) {
	column, err := s.columnRepo.FindByID(columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrColumnNotFound
		}
		return nil, fmt.Errorf("failed to find column: %w", err)
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrColumnNameRequired
		}
		column.Name = *input.Name
	}
	if input.Order != nil {
		column.Order = *input.Order
	}

	if err := s.columnRepo.Update(column); err != nil {
		return nil, fmt.Errorf("failed to update column: %w", err)
	}

	s.broadcaster.Publish(column.BoardID, realtime.EventColumnUpdated, column)

	return column, nil
}

// Delete removes a column and broadcasts its id.
func (s *ColumnService) Delete(columnID uint64) error {
	column, err := s.columnRepo.FindByID(columnID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrColumnNotFound
		}
		return fmt.Errorf("failed to find column: %w", err)
	}

	if err := s.columnRepo.Delete(columnID); err != nil {
		return fmt.Errorf("failed to delete column: %w", err)
	}

	s.broadcaster.Publish(column.BoardID, realtime.EventColumnDeleted, column.ID)

	return nil
}
