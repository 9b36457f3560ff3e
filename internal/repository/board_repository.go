package repository

import (
	"github.com/amanmukri03/trello-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBoardRepository is a GORM implementation of BoardRepository
type GormBoardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new BoardRepository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &GormBoardRepository{db: db}
}

// Create creates a new board
func (r *GormBoardRepository) Create(board *models.Board) error {
	return r.db.Create(board).Error
}

// FindByID finds a board by ID with optional preloading
func (r *GormBoardRepository) FindByID(id uint64, preload ...string) (*models.Board, error) {
	var board models.Board
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&board, id).Error; err != nil {
		return nil, err
	}

	return &board, nil
}

// ListForMember retrieves boards the user is a member of
func (r *GormBoardRepository) ListForMember(userID uint64) ([]models.Board, error) {
	var boards []models.Board

	memberSubQuery := r.db.Model(&models.BoardMember{}).
		Select("1").
		Where("board_members.board_id = boards.id").
		Where("board_members.user_id = ?", userID)

	err := r.db.Model(&models.Board{}).
		Where("EXISTS (?)", memberSubQuery).
		Preload("Creator").
		Order("boards.created_at").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}

	return boards, nil
}

// ListWithTasksAssignedTo retrieves boards carrying at least one task
// assigned to the user
func (r *GormBoardRepository) ListWithTasksAssignedTo(userID uint64) ([]models.Board, error) {
	var boards []models.Board

	taskSubQuery := r.db.Model(&models.Task{}).
		Select("1").
		Where("tasks.board_id = boards.id").
		Where("tasks.assigned_to_id = ?", userID)

	err := r.db.Model(&models.Board{}).
		Where("EXISTS (?)", taskSubQuery).
		Preload("Creator").
		Order("boards.created_at").
		Find(&boards).Error
	if err != nil {
		return nil, err
	}

	return boards, nil
}

// Update updates a board
func (r *GormBoardRepository) Update(board *models.Board) error {
	return r.db.Omit(clause.Associations).Save(board).Error
}

// DeleteCascade removes a board together with its columns, tasks, timer
// sessions and memberships in a single transaction
func (r *GormBoardRepository) DeleteCascade(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("board_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TimerSession{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.Column{}).Error; err != nil {
			return err
		}

		if err := tx.Where("board_id = ?", id).Delete(&models.BoardMember{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Board{}, id).Error
	})
}

// AddMember adds a member to a board; adding an existing member is a no-op
func (r *GormBoardRepository) AddMember(member *models.BoardMember) error {
	return r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member).Error
}

// FindMember finds a specific board member
func (r *GormBoardRepository) FindMember(boardID, userID uint64) (*models.BoardMember, error) {
	var member models.BoardMember
	if err := r.db.Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}
