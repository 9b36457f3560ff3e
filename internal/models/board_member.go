package models

import "time"

// BoardMember links a user to a board. Membership is a set: adding an
// existing member is a no-op at the store level.
type BoardMember struct {
	BoardID  uint64    `gorm:"primarykey" json:"boardId"`
	UserID   uint64    `gorm:"primarykey" json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`

	// Relations
	Board Board `gorm:"foreignKey:BoardID" json:"-"`
	User  User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
