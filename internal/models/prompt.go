package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Prompt is an instantiation of a template bound to one template version.
type Prompt struct {
	ID                 string            `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name               string            `gorm:"not null" json:"name"`
	TemplateID         string            `gorm:"type:varchar(36);index;not null" json:"template_id"`
	TemplateVersion    string            `gorm:"type:varchar(32);not null" json:"template_version"`
	Parameters         datatypes.JSONMap `json:"parameters"`
	AutoUpdate         bool              `gorm:"not null;default:false" json:"auto_update"`
	LastMigrationCheck *time.Time        `json:"last_migration_check,omitempty"`
	CreatedBy          string            `json:"created_by"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

func (p *Prompt) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
