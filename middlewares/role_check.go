package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/praditya/boardgame-venue/utils"
)

// RequireRole -> batasi akses ke role tertentu. Owner selalu lolos.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		switch role {
		case "owner":
			if operatorRole != "owner" {
				utils.RespondError(c, http.StatusForbidden, fmt.Errorf("owner access required"))
				c.Abort()
				return
			}
		case "admin":
			if operatorRole != "admin" && operatorRole != "owner" {
				utils.RespondError(c, http.StatusForbidden, fmt.Errorf("admin access required"))
				c.Abort()
				return
			}
		case "staff":
			if operatorRole != "staff" && operatorRole != "admin" && operatorRole != "owner" {
				utils.RespondError(c, http.StatusForbidden, fmt.Errorf("staff access required"))
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
