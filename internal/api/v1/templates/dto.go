package templates

import "promptversioning-backend/internal/models"

type CreateTemplateRequest struct {
	Name    string `json:"name" binding:"required,max=255"`
	Content string `json:"content" binding:"required"`
}

type CreateVersionRequest struct {
	Content           string `json:"content" binding:"required"`
	ChangeDescription string `json:"change_description" binding:"max=1000"`
}

type DeprecateTemplateRequest struct {
	ReplacedByTemplateID *string `json:"replaced_by_template_id" binding:"omitempty,uuid"`
}

type VersionListResponse struct {
	Total int                      `json:"total"`
	Items []models.TemplateVersion `json:"items"`
}
