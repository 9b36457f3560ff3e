package middleware

import (
	apierrors "github.com/amanmukri03/trello-backend/internal/errors"
	"github.com/amanmukri03/trello-backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RequireRoles gates a route to the given roles. It runs after RequireAuth
// and is the first filter; services still apply their own policy checks.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	allowed := make(map[models.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, exists := GetUserRole(c)
		if !exists || !allowed[role] {
			apierrors.Forbidden(c, "You don't have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}
