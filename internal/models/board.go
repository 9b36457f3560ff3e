package models

import (
	"time"

	"gorm.io/gorm"
)

type Board struct {
	ID          uint64         `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedByID uint64         `gorm:"not null;index" json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Creator User          `gorm:"foreignKey:CreatedByID" json:"creator,omitempty"`
	Members []BoardMember `gorm:"foreignKey:BoardID" json:"members,omitempty"`
	Columns []Column      `gorm:"foreignKey:BoardID" json:"-"`
	Tasks   []Task        `gorm:"foreignKey:BoardID" json:"-"`
}
