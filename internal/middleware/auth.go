package middleware

import (
	"context"
	"net/http"

	"promptversioning-backend/internal/auth"
	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/repository"
	"promptversioning-backend/internal/services"
	"promptversioning-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

const authContextKey = "authContext"

func AuthMiddleware(users *services.UserService, denylist *services.TokenDenylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := utils.ExtractToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, err.Error()))
			c.Abort()
			return
		}

		isDenylisted, err := denylist.IsDenylisted(c.Request.Context(), tokenString)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to check token status"))
			c.Abort()
			return
		}
		if isDenylisted {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Token has been revoked"))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(users.JWTSecret(), tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Invalid or expired token"))
			c.Abort()
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "Invalid user ID in token"))
			c.Abort()
			return
		}
		userID := uint(userIDFloat)

		user, err := users.FindUserByID(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, utils.NewErrorResponse(http.StatusUnauthorized, "User not found"))
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// OwnerResolver reports who created a resource, scoped to the request.
type OwnerResolver func(ctx context.Context, resource, id string) (owner string, ok bool)

// TemplateOwners resolves template ownership through repo.
func TemplateOwners(repo repository.TemplateRepository) OwnerResolver {
	return func(ctx context.Context, resource, id string) (string, bool) {
		tpl, err := repo.GetByID(ctx, id)
		if err != nil {
			return "", false
		}
		return tpl.CreatedBy, true
	}
}

// Authorization turns the "user" set by AuthMiddleware into an
// auth.AuthContext for the versioning services. Requests without a user get
// the anonymous context.
func Authorization(owners OwnerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		var a auth.AuthContext = auth.Anonymous()
		if userVal, exists := c.Get("user"); exists {
			if user, ok := userVal.(models.User); ok {
				ctx := c.Request.Context()
				var lookup auth.OwnerLookup
				if owners != nil {
					lookup = func(resource, id string) (string, bool) {
						return owners(ctx, resource, id)
					}
				}
				a = auth.NewUserContext(&user, lookup)
			}
		}
		c.Set(authContextKey, a)
		c.Next()
	}
}

// CurrentAuth returns the request's auth.AuthContext, anonymous when
// Authorization did not run.
func CurrentAuth(c *gin.Context) auth.AuthContext {
	if v, exists := c.Get(authContextKey); exists {
		if a, ok := v.(auth.AuthContext); ok {
			return a
		}
	}
	return auth.Anonymous()
}
