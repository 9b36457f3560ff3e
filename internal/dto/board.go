package dto

import (
	"time"

	"github.com/amanmukri03/trello-backend/internal/models"
)

// BoardDTO represents a board in API responses.
type BoardDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedBy   uint64    `json:"createdBy"`
	Creator     *UserDTO  `json:"creator,omitempty"`
	Members     []UserDTO `json:"members,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToBoardDTO converts a board loaded with its relations.
func ToBoardDTO(b models.Board) BoardDTO {
	dto := BoardDTO{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		CreatedBy:   b.CreatedByID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}

	if b.Creator.ID != 0 {
		creator := ToUserDTO(b.Creator)
		creator.Role = ""
		dto.Creator = &creator
	}

	for _, m := range b.Members {
		if m.User.ID == 0 {
			continue
		}
		member := ToUserDTO(m.User)
		member.Role = ""
		dto.Members = append(dto.Members, member)
	}

	return dto
}

// ToBoardDTOs converts a board list.
func ToBoardDTOs(boards []models.Board) []BoardDTO {
	out := make([]BoardDTO, 0, len(boards))
	for _, b := range boards {
		out = append(out, ToBoardDTO(b))
	}
	return out
}
