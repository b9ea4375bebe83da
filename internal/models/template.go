package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Template is a named, versioned piece of text with {{parameter}} placeholders.
// Version always mirrors the most recent TemplateVersion of the template.
type Template struct {
	ID                   string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name                 string     `gorm:"index;not null" json:"name"`
	Content              string     `gorm:"type:text;not null" json:"content"`
	Version              string     `gorm:"type:varchar(32);not null" json:"version"`
	IsDeprecated         bool       `gorm:"index;not null;default:false" json:"is_deprecated"`
	CreatedBy            string     `gorm:"index" json:"created_by"`
	LastModifiedBy       string     `json:"last_modified_by,omitempty"`
	DeprecatedAt         *time.Time `json:"deprecated_at,omitempty"`
	ReplacedByTemplateID *string    `gorm:"type:varchar(36)" json:"replaced_by_template_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (t *Template) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TemplateVersion is an immutable snapshot of a template's content. Sequence
// increases by one for every snapshot appended to a template, so the latest
// version is the row with the highest sequence.
type TemplateVersion struct {
	ID                string                      `gorm:"type:varchar(36);primaryKey" json:"id"`
	TemplateID        string                      `gorm:"type:varchar(36);not null;uniqueIndex:idx_template_version;uniqueIndex:idx_template_sequence" json:"template_id"`
	Sequence          int                         `gorm:"not null;uniqueIndex:idx_template_sequence" json:"sequence"`
	Version           string                      `gorm:"type:varchar(32);not null;uniqueIndex:idx_template_version" json:"version"`
	Content           string                      `gorm:"type:text;not null" json:"content"`
	Parameters        datatypes.JSONSlice[string] `json:"parameters"`
	Author            string                      `json:"author"`
	ChangeDescription string                      `json:"change_description"`
	CreatedAt         time.Time                   `json:"created_at"`
}

func (v *TemplateVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
