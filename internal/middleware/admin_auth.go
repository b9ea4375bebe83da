package middleware

import (
	"net/http"

	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/utils"
	"promptversioning-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole lets the request through only when the user loaded by
// AuthMiddleware has one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userVal, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}
		user, ok := userVal.(models.User)
		if !ok {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Unauthorized"))
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		logger.L().Warn("role check failed",
			zap.Uint("user_id", user.ID),
			zap.String("role", user.Role),
			zap.Strings("required", roles),
			zap.String("path", c.Request.URL.Path))
		c.JSON(http.StatusForbidden, utils.NewErrorResponse(http.StatusForbidden, "Forbidden: insufficient role"))
		c.Abort()
	}
}
