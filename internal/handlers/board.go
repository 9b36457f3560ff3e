package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/amanmukri03/trello-backend/internal/dto"
	apierrors "github.com/amanmukri03/trello-backend/internal/errors"
	"github.com/amanmukri03/trello-backend/internal/middleware"
	"github.com/amanmukri03/trello-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// BoardHandler coordinates board HTTP handlers.
type BoardHandler struct {
	boardService *services.BoardService
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(boardService *services.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// CreateBoard creates a new board owned by the caller.
func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	role, _ := middleware.GetUserRole(c)

	type CreateBoardRequest struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.Create(services.CreateBoardInput{
		Name:        req.Name,
		Description: req.Description,
		CreatorID:   userID,
		Role:        role,
	})
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToBoardDTO(*board))
}

// ListBoards returns the boards visible to the caller: memberships plus
// boards where they have assigned work.
func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	boards, err := h.boardService.List(userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTOs(boards))
}

// UpdateBoard renames or re-describes a board. Creator only.
func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid board id")
		return
	}

	type UpdateBoardRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req UpdateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	board, err := h.boardService.Update(boardID, services.UpdateBoardInput{
		Name:        req.Name,
		Description: req.Description,
	}, userID)
	if err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToBoardDTO(*board))
}

// DeleteBoard deletes a board and everything on it. Creator only.
func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid board id")
		return
	}

	if err := h.boardService.Delete(boardID, userID); err != nil {
		respondBoardError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Board deleted successfully",
	})
}

func respondBoardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrBoardNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrBoardRoleDenied),
		errors.Is(err, services.ErrBoardPermissionDenied):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
