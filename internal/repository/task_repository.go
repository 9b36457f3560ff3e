package repository

import (
	"github.com/amanmukri03/trello-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks ordered by creation time
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.board_id = ?", filter.BoardID)

	if filter.AssignedUserID != nil {
		query = query.Where("tasks.assigned_to_id = ?", *filter.AssignedUserID)
	}

	err := query.
		Preload("Assignee").
		Preload("Creator").
		Preload("Sessions").
		Order("tasks.created_at").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update updates a task's own columns
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// UpdateWithSessions updates the task and persists the most recent timer
// session in the same transaction. Only the last session can change: a
// start appends an open session, a stop closes it.
func (r *GormTaskRepository) UpdateWithSessions(task *models.Task) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}

		if n := len(task.Sessions); n > 0 {
			last := &task.Sessions[n-1]
			last.TaskID = task.ID
			if err := tx.Save(last).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete soft deletes a task and its timer sessions
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TimerSession{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, id).Error
	})
}
