package repository

import (
	"context"
	"errors"
	"time"

	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/versioning"

	"gorm.io/gorm"
)

type GormTemplateRepository struct {
	db *gorm.DB
}

func NewGormTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

func (r *GormTemplateRepository) Create(ctx context.Context, t *models.Template) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *GormTemplateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	var t models.Template
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &versioning.NotFoundError{Resource: versioning.ResourceTemplate, ID: id}
		}
		return nil, err
	}
	return &t, nil
}

func (r *GormTemplateRepository) Update(ctx context.Context, t *models.Template) error {
	result := r.db.WithContext(ctx).Model(&models.Template{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"name":             t.Name,
		"content":          t.Content,
		"version":          t.Version,
		"last_modified_by": t.LastModifiedBy,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &versioning.NotFoundError{Resource: versioning.ResourceTemplate, ID: t.ID}
	}
	return nil
}

func (r *GormTemplateRepository) Deprecate(ctx context.Context, id string, replacedBy *string, by string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Template{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_deprecated":           true,
		"deprecated_at":           &now,
		"replaced_by_template_id": replacedBy,
		"last_modified_by":        by,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &versioning.NotFoundError{Resource: versioning.ResourceTemplate, ID: id}
	}
	return nil
}

func (r *GormTemplateRepository) GetVersions(ctx context.Context, templateID string) ([]models.TemplateVersion, error) {
	var versions []models.TemplateVersion
	if err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("sequence asc").
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

func (r *GormTemplateRepository) GetVersion(ctx context.Context, templateID, version string) (*models.TemplateVersion, error) {
	var v models.TemplateVersion
	err := r.db.WithContext(ctx).
		Where("template_id = ? AND version = ?", templateID, version).
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &versioning.NotFoundError{Resource: versioning.ResourceTemplateVersion, ID: templateID + "@" + version}
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormTemplateRepository) LatestVersion(ctx context.Context, templateID string) (*models.TemplateVersion, error) {
	var v models.TemplateVersion
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("sequence desc").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &versioning.NotFoundError{Resource: versioning.ResourceTemplateVersion, ID: templateID + "@latest"}
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormTemplateRepository) CreateVersion(ctx context.Context, v *models.TemplateVersion) error {
	var maxSeq int
	if err := r.db.WithContext(ctx).
		Model(&models.TemplateVersion{}).
		Where("template_id = ?", v.TemplateID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&maxSeq).Error; err != nil {
		return err
	}
	v.Sequence = maxSeq + 1
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *GormTemplateRepository) TrimVersions(ctx context.Context, templateID string, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.TemplateVersion{}).
		Where("template_id = ?", templateID).
		Order("sequence desc").
		Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) <= keep {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Where("id IN ?", ids[keep:]).Delete(&models.TemplateVersion{})
	return result.RowsAffected, result.Error
}

func (r *GormTemplateRepository) Transaction(ctx context.Context, op string, fn func(repo TemplateRepository) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormTemplateRepository{db: tx})
	})
	if err != nil {
		return &versioning.TransactionError{Op: op, Err: err}
	}
	return nil
}
