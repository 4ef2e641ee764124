package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medisecure/medisecure-backend/internal/domain/user"
)

// RequireAuthenticated rejects requests that carried no valid token.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := ClaimsFromContext(c); !ok {
			abortUnauthenticated(c)
			return
		}
		c.Next()
	}
}

// RequireRoles allows only callers whose role is in the given set.
// No identity means 401; a known identity with the wrong role means 403.
func RequireRoles(required ...user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			abortUnauthenticated(c)
			return
		}

		role, err := user.ParseRole(claims.Role)
		if err != nil || !role.In(required...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "You do not have permission to perform this action",
				},
			})
			return
		}
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": "Missing or invalid access token",
		},
	})
}
