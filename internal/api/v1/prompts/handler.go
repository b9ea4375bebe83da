package prompts

import (
	"net/http"

	"promptversioning-backend/internal/middleware"
	"promptversioning-backend/internal/services"
	"promptversioning-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	prompts *services.PromptService
}

func NewHandler(prompts *services.PromptService) *Handler {
	return &Handler{prompts: prompts}
}

// CreatePrompt godoc
// @Summary Create a prompt
// @Description Bind a prompt to a template version, the current one by default. Every parameter of that version needs a value.
// @Tags prompts
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CreatePromptRequest true "Create Prompt Request"
// @Success 201 {object} utils.Response{data=models.Prompt}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /prompts [post]
func (h *Handler) CreatePrompt(c *gin.Context) {
	var req CreatePromptRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	prompt, err := h.prompts.CreatePrompt(c.Request.Context(), middleware.CurrentAuth(c), services.CreatePromptInput{
		Name:            req.Name,
		TemplateID:      req.TemplateID,
		TemplateVersion: req.TemplateVersion,
		Parameters:      req.Parameters,
		AutoUpdate:      req.AutoUpdate,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Prompt created successfully", prompt))
}

// GetPrompt godoc
// @Summary Get a prompt
// @Tags prompts
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Prompt ID"
// @Success 200 {object} utils.Response{data=models.Prompt}
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /prompts/{id} [get]
func (h *Handler) GetPrompt(c *gin.Context) {
	prompt, err := h.prompts.GetPrompt(c.Request.Context(), middleware.CurrentAuth(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", prompt))
}

// ListPrompts godoc
// @Summary List prompts of a template
// @Tags prompts
// @Produce json
// @Security ApiKeyAuth
// @Param template_id query string true "Template ID"
// @Success 200 {object} utils.Response{data=PromptListResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /prompts [get]
func (h *Handler) ListPrompts(c *gin.Context) {
	templateID := c.Query("template_id")
	if templateID == "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "template_id is required"))
		return
	}

	items, err := h.prompts.ListByTemplate(c.Request.Context(), middleware.CurrentAuth(c), templateID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", PromptListResponse{
		Total: len(items),
		Items: items,
	}))
}
