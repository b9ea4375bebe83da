package templates

import (
	"net/http"

	"promptversioning-backend/internal/middleware"
	"promptversioning-backend/internal/services"
	"promptversioning-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	versions *services.VersioningService
	prompts  *services.PromptService
}

func NewHandler(versions *services.VersioningService, prompts *services.PromptService) *Handler {
	return &Handler{versions: versions, prompts: prompts}
}

// CreateTemplate godoc
// @Summary Create a template
// @Description Create a template and its initial 1.0.0 version
// @Tags templates
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body CreateTemplateRequest true "Create Template Request"
// @Success 201 {object} utils.Response{data=models.Template}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /templates [post]
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req CreateTemplateRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	tpl, err := h.versions.CreateTemplate(c.Request.Context(), middleware.CurrentAuth(c), req.Name, req.Content)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Template created successfully", tpl))
}

// GetTemplate godoc
// @Summary Get a template
// @Tags templates
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Template ID"
// @Success 200 {object} utils.Response{data=models.Template}
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /templates/{id} [get]
func (h *Handler) GetTemplate(c *gin.Context) {
	tpl, err := h.versions.GetTemplate(c.Request.Context(), middleware.CurrentAuth(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", tpl))
}

// ListVersions godoc
// @Summary List template versions
// @Description Retained versions of a template, oldest first
// @Tags templates
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Template ID"
// @Success 200 {object} utils.Response{data=VersionListResponse}
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /templates/{id}/versions [get]
func (h *Handler) ListVersions(c *gin.Context) {
	versions, err := h.versions.ListVersions(c.Request.Context(), middleware.CurrentAuth(c), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", VersionListResponse{
		Total: len(versions),
		Items: versions,
	}))
}

// CreateVersion godoc
// @Summary Create a template version
// @Description Store new content for a template. The version number is derived from the parameter changes.
// @Tags templates
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Template ID"
// @Param request body CreateVersionRequest true "Create Version Request"
// @Success 201 {object} utils.Response{data=models.TemplateVersion}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /templates/{id}/versions [post]
func (h *Handler) CreateVersion(c *gin.Context) {
	var req CreateVersionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	version, err := h.versions.CreateNewVersion(c.Request.Context(), middleware.CurrentAuth(c), c.Param("id"), req.Content, req.ChangeDescription)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Version created successfully", version))
}

// ValidateUpdate godoc
// @Summary Validate a version update
// @Description Check whether moving between two versions of a template is backward compatible
// @Tags templates
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Template ID"
// @Param from query string true "Current version"
// @Param to query string true "Proposed version"
// @Success 200 {object} utils.Response{data=versioning.UpdateValidation}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /templates/{id}/validate [get]
func (h *Handler) ValidateUpdate(c *gin.Context) {
	result, err := h.versions.ValidateUpdate(c.Request.Context(), middleware.CurrentAuth(c), c.Param("id"), c.Query("from"), c.Query("to"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", result))
}

// AffectedPrompts godoc
// @Summary Find affected prompts
// @Description Classify every prompt of a template against a target version, the current one by default
// @Tags templates
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Template ID"
// @Param version query string false "Target version"
// @Success 200 {object} utils.Response{data=versioning.TemplateUpdateNotification}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /templates/{id}/affected-prompts [get]
func (h *Handler) AffectedPrompts(c *gin.Context) {
	ctx := c.Request.Context()
	a := middleware.CurrentAuth(c)
	templateID := c.Param("id")

	version := c.Query("version")
	if version == "" {
		tpl, err := h.versions.GetTemplate(ctx, a, templateID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		version = tpl.Version
	}

	notification, err := h.versions.FindAffectedPrompts(ctx, a, templateID, version)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Success", notification))
}

// DeprecateTemplate godoc
// @Summary Deprecate a template
// @Description Soft-delete a template, optionally naming its replacement
// @Tags templates
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Template ID"
// @Param request body DeprecateTemplateRequest false "Deprecate Template Request"
// @Success 200 {object} utils.Response{data=models.Template}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /templates/{id}/deprecate [post]
func (h *Handler) DeprecateTemplate(c *gin.Context) {
	var req DeprecateTemplateRequest
	if c.Request.ContentLength > 0 && !utils.BindAndValidate(c, &req) {
		return
	}

	tpl, err := h.versions.DeprecateTemplate(c.Request.Context(), middleware.CurrentAuth(c), c.Param("id"), req.ReplacedByTemplateID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Template deprecated successfully", tpl))
}

// MigrationCheck godoc
// @Summary Run a migration check
// @Description Analyse the template's prompts against a version and stamp them as checked
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Template ID"
// @Param version query string true "Target version"
// @Success 200 {object} utils.Response{data=versioning.TemplateUpdateNotification}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/templates/{id}/migration-check [post]
func (h *Handler) MigrationCheck(c *gin.Context) {
	notification, err := h.prompts.RecordMigrationCheck(c.Request.Context(), middleware.CurrentAuth(c), c.Param("id"), c.Query("version"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Migration check recorded", notification))
}
