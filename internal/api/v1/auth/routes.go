package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the account endpoints. requireAuth guards logout.
func RegisterRoutes(router *gin.RouterGroup, h *Handler, requireAuth gin.HandlerFunc) {
	auth := router.Group("/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/logout", requireAuth, h.Logout)
}
