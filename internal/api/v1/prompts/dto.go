package prompts

import "promptversioning-backend/internal/models"

type CreatePromptRequest struct {
	Name            string                 `json:"name" binding:"required,max=255"`
	TemplateID      string                 `json:"template_id" binding:"required"`
	TemplateVersion string                 `json:"template_version" binding:"omitempty,semver"`
	Parameters      map[string]interface{} `json:"parameters" binding:"omitempty,dive,keys,parametername,endkeys"`
	AutoUpdate      bool                   `json:"auto_update"`
}

type PromptListResponse struct {
	Total int             `json:"total"`
	Items []models.Prompt `json:"items"`
}
