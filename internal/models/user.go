package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleMember  Role = "Member"
)

// IsElevated reports whether the role carries board-wide management rights.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleManager
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

type User struct {
	ID           uint64         `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"type:varchar(255);not null" json:"name"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role           `gorm:"type:varchar(20);not null;default:'Member'" json:"role"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	CreatedBoards []Board       `gorm:"foreignKey:CreatedByID" json:"-"`
	CreatedTasks  []Task        `gorm:"foreignKey:CreatedByID" json:"-"`
	AssignedTasks []Task        `gorm:"foreignKey:AssignedToID" json:"-"`
	Memberships   []BoardMember `gorm:"foreignKey:UserID" json:"-"`
}
