package handlers

import (
	"errors"
	"net/http"
	"strconv"

	apierrors "github.com/amanmukri03/trello-backend/internal/errors"
	"github.com/amanmukri03/trello-backend/internal/services"
	"github.com/gin-gonic/gin"
)

// ColumnHandler coordinates column HTTP handlers. Role gating for mutations
// is applied on the routes.
type ColumnHandler struct {
	columnService *services.ColumnService
}

// NewColumnHandler creates a new ColumnHandler.
func NewColumnHandler(columnService *services.ColumnService) *ColumnHandler {
	return &ColumnHandler{
		columnService: columnService,
	}
}

// CreateColumn adds a column to a board.
func (h *ColumnHandler) CreateColumn(c *gin.Context) {
	type CreateColumnRequest struct {
		Name    string `json:"name" binding:"required"`
		BoardID uint64 `json:"boardId" binding:"required"`
		Order   int    `json:"order"`
	}

	var req CreateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Name and boardId are required")
		return
	}

	column, err := h.columnService.Create(services.CreateColumnInput{
		Name:    req.Name,
		BoardID: req.BoardID,
		Order:   req.Order,
	})
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusCreated, column)
}

// ListColumns returns a board's columns ordered by creation time. The path
// parameter is the board id.
func (h *ColumnHandler) ListColumns(c *gin.Context) {
	boardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid board id")
		return
	}

	columns, err := h.columnService.List(boardID)
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, columns)
}

// UpdateColumn patches a column.
func (h *ColumnHandler) UpdateColumn(c *gin.Context) {
	columnID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid column id")
		return
	}

	type UpdateColumnRequest struct {
		Name  *string `json:"name"`
		Order *int    `json:"order"`
	}

	var req UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	column, err := h.columnService.Update(columnID, services.UpdateColumnInput{
		Name:  req.Name,
		Order: req.Order,
	})
	if err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, column)
}

// DeleteColumn removes a column.
func (h *ColumnHandler) DeleteColumn(c *gin.Context) {
	columnID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid column id")
		return
	}

	if err := h.columnService.Delete(columnID); err != nil {
		respondColumnError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Column deleted successfully",
	})
}

func respondColumnError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrColumnNameRequired):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrColumnNotFound),
		errors.Is(err, services.ErrBoardNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
