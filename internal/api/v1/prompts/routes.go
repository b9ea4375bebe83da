package prompts

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	p := router.Group("/prompts")
	{
		p.POST("", h.CreatePrompt)
		p.GET("", h.ListPrompts)
		p.GET("/:id", h.GetPrompt)
	}
}
