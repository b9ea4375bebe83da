package api

import (
	"net/http"

	"promptversioning-backend/internal/api/v1/auth"
	"promptversioning-backend/internal/api/v1/prompts"
	"promptversioning-backend/internal/api/v1/templates"
	"promptversioning-backend/internal/middleware"
	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/repository"
	"promptversioning-backend/internal/services"
	"promptversioning-backend/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Templates  repository.TemplateRepository
	Versioning *services.VersioningService
	Prompts    *services.PromptService
	Users      *services.UserService
	Denylist   *services.TokenDenylist
	// AllowOrigins defaults to the local frontend origins.
	AllowOrigins []string
}

func NewRouter(deps Dependencies) *gin.Engine {
	utils.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())

	origins := deps.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.NewSuccessResponse("ok", nil))
	})

	requireAuth := middleware.AuthMiddleware(deps.Users, deps.Denylist)
	templateHandler := templates.NewHandler(deps.Versioning, deps.Prompts)

	v1 := router.Group("/api/v1")
	{
		auth.RegisterRoutes(v1, auth.NewHandler(deps.Users, deps.Denylist), requireAuth)

		authorized := v1.Group("/")
		authorized.Use(requireAuth, middleware.Authorization(middleware.TemplateOwners(deps.Templates)))
		{
			templates.RegisterRoutes(authorized, templateHandler)
			prompts.RegisterRoutes(authorized, prompts.NewHandler(deps.Prompts))
		}

		admin := v1.Group("/admin")
		admin.Use(requireAuth, middleware.RequireRole(models.RoleAdmin), middleware.Authorization(middleware.TemplateOwners(deps.Templates)))
		{
			templates.RegisterAdminRoutes(admin, templateHandler)
		}
	}

	return router
}
