package repository

import (
	"github.com/amanmukri03/trello-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormColumnRepository is a GORM implementation of ColumnRepository
type GormColumnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new ColumnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &GormColumnRepository{db: db}
}

// Create creates a new column
func (r *GormColumnRepository) Create(column *models.Column) error {
	return r.db.Create(column).Error
}

// FindByID finds a column by ID
func (r *GormColumnRepository) FindByID(id uint64) (*models.Column, error) {
	var column models.Column
	if err := r.db.First(&column, id).Error; err != nil {
		return nil, err
	}
	return &column, nil
}

// ListByBoard retrieves a board's columns ordered by creation time
func (r *GormColumnRepository) ListByBoard(boardID uint64) ([]models.Column, error) {
	var columns []models.Column
	err := r.db.
		Where("board_id = ?", boardID).
		Order("created_at").
		Find(&columns).Error
	if err != nil {
		return nil, err
	}
	return columns, nil
}

// Update updates a column
func (r *GormColumnRepository) Update(column *models.Column) error {
	return r.db.Omit(clause.Associations).Save(column).Error
}

// Delete soft deletes a column
func (r *GormColumnRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Column{}, id).Error
}
