package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tieubaoca/feasibility-be/types"
	"github.com/tieubaoca/feasibility-be/utils"
)

const AdminContextKey = "admin"

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, types.ErrorResponse{
		Status: types.STATUS_ERROR,
		Error:  message,
	})
}

// AdminAuthMiddleware only lets requests carrying a valid admin bearer token
// through. The claims are stored under AdminContextKey.
func AdminAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := utils.ParseAdminToken(secret, parts[1])
		if err != nil {
			abortUnauthorized(c, "Invalid admin token")
			return
		}
		if claims.Role != utils.ROLE_ADMIN {
			abortUnauthorized(c, "Admin role required")
			return
		}

		c.Set(AdminContextKey, claims)
		c.Next()
	}
}
