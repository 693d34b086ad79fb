package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tay1862/mefood-tay-sub002/utils"
)

// AuthMiddleware validates the bearer token and puts the caller's identity
// on the context: user_id, owner_id (tenant scope) and role.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, err)
			c.Abort()
			return
		}

		if claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid user ID in token"))
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("owner_id", claims.OwnerID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// ActorID reads the authenticated user id from the context.
func ActorID(c *gin.Context) uint {
	v, _ := c.Get("user_id")
	id, _ := v.(uint)
	return id
}

// OwnerScope reads the tenant scope from the context. Every query a handler
// runs is filtered by this id.
func OwnerScope(c *gin.Context) uint {
	v, _ := c.Get("owner_id")
	id, _ := v.(uint)
	return id
}
