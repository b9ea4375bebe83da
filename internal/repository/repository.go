// Package repository defines the storage contracts used by the versioning
// service together with gorm and redis-backed implementations.
package repository

import (
	"context"
	"time"

	"promptversioning-backend/internal/models"
)

// TemplateRepository stores templates and their append-only version history.
//
// Lookups of unknown ids or versions return *versioning.NotFoundError.
type TemplateRepository interface {
	Create(ctx context.Context, t *models.Template) error
	GetByID(ctx context.Context, id string) (*models.Template, error)
	Update(ctx context.Context, t *models.Template) error
	Deprecate(ctx context.Context, id string, replacedBy *string, by string) error

	// GetVersions returns the retained versions oldest first.
	GetVersions(ctx context.Context, templateID string) ([]models.TemplateVersion, error)
	GetVersion(ctx context.Context, templateID, version string) (*models.TemplateVersion, error)
	LatestVersion(ctx context.Context, templateID string) (*models.TemplateVersion, error)
	// CreateVersion appends v to the template's history and assigns its sequence.
	CreateVersion(ctx context.Context, v *models.TemplateVersion) error
	// TrimVersions deletes all but the keep most recent versions and reports
	// how many were removed.
	TrimVersions(ctx context.Context, templateID string, keep int) (int64, error)

	// Transaction runs fn against a repository bound to a single transaction.
	// A non-nil error from fn rolls back every write made through that
	// repository and is returned wrapped in *versioning.TransactionError.
	Transaction(ctx context.Context, op string, fn func(repo TemplateRepository) error) error
}

// PromptRepository exposes the prompt subsystem's storage.
type PromptRepository interface {
	Create(ctx context.Context, p *models.Prompt) error
	GetByID(ctx context.Context, id string) (*models.Prompt, error)
	ListByTemplate(ctx context.Context, templateID string) ([]models.Prompt, error)
	MarkMigrationChecked(ctx context.Context, ids []string, at time.Time) error
}
