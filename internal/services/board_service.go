package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amanmukri03/trello-backend/internal/models"
	"github.com/amanmukri03/trello-backend/internal/policy"
	"github.com/amanmukri03/trello-backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrBoardNotFound         = errors.New("board not found")
	ErrBoardNameRequired     = errors.New("board name is required")
	ErrBoardRoleDenied       = errors.New("only Admin and Manager can create boards")
	ErrBoardPermissionDenied = errors.New("only the board creator can perform this action")
)

// BoardService handles board business logic.
type BoardService struct {
	boardRepo repository.BoardRepository
	now       func() time.Time
}

// NewBoardService creates a new BoardService.
func NewBoardService(boardRepo repository.BoardRepository) *BoardService {
	return &BoardService{
		boardRepo: boardRepo,
		now:       time.Now,
	}
}

// CreateBoardInput represents input for creating a board.
type CreateBoardInput struct {
	Name        string
	Description string
	CreatorID   uint64
	Role        models.Role
}

// Create creates a board whose creator is its first member.
func (s *BoardService) Create(input CreateBoardInput) (*models.Board, error) {
	if !policy.CanCreateBoard(input.Role) {
		return nil, ErrBoardRoleDenied
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrBoardNameRequired
	}

	board := &models.Board{
		Name:        input.Name,
		Description: input.Description,
		CreatedByID: input.CreatorID,
	}

	if err := s.boardRepo.Create(board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	member := &models.BoardMember{
		BoardID:  board.ID,
		UserID:   input.CreatorID,
		JoinedAt: s.now(),
	}
	if err := s.boardRepo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add creator to board: %w", err)
	}

	return s.boardRepo.FindByID(board.ID, "Creator", "Members", "Members.User")
}

// List returns the boards visible to a user: boards they are a member of,
// plus boards where they have at least one assigned task without being a
// member. The union is de-duplicated by board id.
func (s *BoardService) List(userID uint64) ([]models.Board, error) {
	memberBoards, err := s.boardRepo.ListForMember(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list member boards: %w", err)
	}

	assignedBoards, err := s.boardRepo.ListWithTasksAssignedTo(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned boards: %w", err)
	}

	seen := make(map[uint64]struct{}, len(memberBoards))
	boards := make([]models.Board, 0, len(memberBoards)+len(assignedBoards))
	for _, b := range memberBoards {
		seen[b.ID] = struct{}{}
		boards = append(boards, b)
	}
	for _, b := range assignedBoards {
		if _, exists := seen[b.ID]; exists {
			continue
		}
		seen[b.ID] = struct{}{}
		boards = append(boards, b)
	}

	return boards, nil
}

// UpdateBoardInput represents a board patch; nil fields are left unchanged.
type UpdateBoardInput struct {
	Name        *string
	Description *string
}

// Update renames or re-describes a board. Only the creator may do this.
func (s *BoardService) Update(boardID uint64, input UpdateBoardInput, userID uint64) (*models.Board, error) {
	board, err := s.boardRepo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBoardNotFound
		}
		return nil, fmt.Errorf("failed to find board: %w", err)
	}

	if !policy.CanMutateBoard(board, userID) {
		return nil, ErrBoardPermissionDenied
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, ErrBoardNameRequired
		}
		board.Name = *input.Name
	}
	if input.Description != nil {
		board.Description = *input.Description
	}

	if err := s.boardRepo.Update(board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	return board, nil
}

// Delete removes a board and cascades to its columns, tasks and timer
// sessions. Only the creator may delete.
func (s *BoardService) Delete(boardID, userID uint64) error {
	board, err := s.boardRepo.FindByID(boardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBoardNotFound
		}
		return fmt.Errorf("failed to find board: %w", err)
	}

	if !policy.CanMutateBoard(board, userID) {
		return ErrBoardPermissionDenied
	}

	if err := s.boardRepo.DeleteCascade(boardID); err != nil {
		return fmt.Errorf("failed to delete board: %w", err)
	}

	return nil
}
