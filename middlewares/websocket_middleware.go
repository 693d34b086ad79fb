package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/tay1862/mefood-tay-sub002/utils"
)

// WebSocketAuthMiddleware authenticates the events endpoint. Browsers cannot
// set headers on websocket upgrades, so the token rides a query parameter.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("owner_id", claims.OwnerID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
