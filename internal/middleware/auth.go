package middleware

import (
	"github.com/amanmukri03/trello-backend/internal/constants"
	apierrors "github.com/amanmukri03/trello-backend/internal/errors"
	"github.com/amanmukri03/trello-backend/internal/models"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAuth checks if the user is authenticated via session
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)
		userRole := session.Get(constants.ContextKeyUserRole)

		if userID == nil || userRole == nil {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		// Store identity in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserRole, userRole)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserRole retrieves the current user's role from context
func GetUserRole(c *gin.Context) (models.Role, bool) {
	userRole, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return "", false
	}

	switch v := userRole.(type) {
	case models.Role:
		return v, true
	case string:
		return models.Role(v), true
	default:
		return "", false
	}
}
