package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/utils"
)

// RequireSuperAdmin gates console endpoints behind the super_admin role.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("no role found"))
			c.Abort()
			return
		}

		if role != models.RoleSuperAdmin {
			utils.RespondError(c, http.StatusForbidden, errors.New("super admin access required"))
			c.Abort()
			return
		}

		c.Next()
	}
}
