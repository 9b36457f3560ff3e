package models

import (
	"time"

	"gorm.io/gorm"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
	PriorityUrgent Priority = "Urgent"
)

// Valid reports whether the priority is one of the known levels.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Timer is the work-timer sub-record embedded in a task. TotalSeconds only
// counts closed sessions; the live increment of a running session is
// computed on read.
type Timer struct {
	IsRunning    bool       `gorm:"column:timer_is_running;not null;default:false" json:"isRunning"`
	StartedAt    *time.Time `gorm:"column:timer_started_at" json:"startedAt"`
	TotalSeconds int64      `gorm:"column:timer_total_seconds;not null;default:0" json:"totalSeconds"`
}

// TimerSession is one contiguous interval during which a task's timer was
// running. An open session has a nil EndTime.
type TimerSession struct {
	ID              uint64         `gorm:"primarykey" json:"id"`
	TaskID          uint64         `gorm:"not null;index" json:"taskId"`
	StartTime       time.Time      `gorm:"not null" json:"startTime"`
	EndTime         *time.Time     `json:"endTime"`
	DurationSeconds int64          `gorm:"not null;default:0" json:"durationSeconds"`
	CreatedAt       time.Time      `json:"createdAt"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Task Task `gorm:"foreignKey:TaskID" json:"-"`
}

type Task struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `gorm:"type:text" json:"description"`
	BoardID      uint64         `gorm:"not null;index:idx_tasks_board_column" json:"boardId"`
	ColumnID     uint64         `gorm:"not null;index:idx_tasks_board_column" json:"columnId"`
	AssignedToID *uint64        `gorm:"index" json:"assignedTo"`
	CreatedByID  uint64         `gorm:"not null;index" json:"createdBy"`
	Priority     Priority       `gorm:"type:varchar(20);not null;default:'Medium'" json:"priority"`
	DueDate      *time.Time     `json:"dueDate"`
	Timer        Timer          `gorm:"embedded" json:"timer"`
	IsCompleted  bool           `gorm:"not null;default:false" json:"isCompleted"`
	CompletedAt  *time.Time     `json:"completedAt"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Assignee *User          `gorm:"foreignKey:AssignedToID" json:"assignee,omitempty"`
	Creator  User           `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	Board    Board          `gorm:"foreignKey:BoardID" json:"-"`
	Sessions []TimerSession `gorm:"foreignKey:TaskID" json:"-"`
}
