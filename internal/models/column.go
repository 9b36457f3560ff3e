package models

import (
	"time"

	"gorm.io/gorm"
)

type Column struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	Name    string `gorm:"type:varchar(255);not null" json:"name"`
	BoardID uint64 `gorm:"not null;index" json:"boardId"`
	// "order" is a reserved word in SQL, hence the column name.
	Order     int            `gorm:"column:sort_order;not null;default:0" json:"order"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Board Board `gorm:"foreignKey:BoardID" json:"-"`
	Tasks []Task `gorm:"foreignKey:ColumnID" json:"-"`
}
