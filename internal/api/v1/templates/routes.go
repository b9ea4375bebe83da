package templates

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	tpl := router.Group("/templates")
	{
		tpl.POST("", h.CreateTemplate)
		tpl.GET("/:id", h.GetTemplate)
		tpl.GET("/:id/versions", h.ListVersions)
		tpl.POST("/:id/versions", h.CreateVersion)
		tpl.GET("/:id/validate", h.ValidateUpdate)
		tpl.GET("/:id/affected-prompts", h.AffectedPrompts)
		tpl.POST("/:id/deprecate", h.DeprecateTemplate)
	}
}

// RegisterAdminRoutes mounts the maintenance endpoints. The caller guards the
// group with an admin role check.
func RegisterAdminRoutes(router *gin.RouterGroup, h *Handler) {
	router.POST("/templates/:id/migration-check", h.MigrationCheck)
}
