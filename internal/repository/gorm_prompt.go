package repository

import (
	"context"
	"errors"
	"time"

	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/versioning"

	"gorm.io/gorm"
)

type GormPromptRepository struct {
	db *gorm.DB
}

func NewGormPromptRepository(db *gorm.DB) *GormPromptRepository {
	return &GormPromptRepository{db: db}
}

func (r *GormPromptRepository) Create(ctx context.Context, p *models.Prompt) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *GormPromptRepository) GetByID(ctx context.Context, id string) (*models.Prompt, error) {
	var p models.Prompt
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &versioning.NotFoundError{Resource: versioning.ResourcePrompt, ID: id}
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPromptRepository) ListByTemplate(ctx context.Context, templateID string) ([]models.Prompt, error) {
	var prompts []models.Prompt
	if err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("created_at asc").
		Find(&prompts).Error; err != nil {
		return nil, err
	}
	return prompts, nil
}

func (r *GormPromptRepository) MarkMigrationChecked(ctx context.Context, ids []string, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Prompt{}).
		Where("id IN ?", ids).
		Update("last_migration_check", at).Error
}
