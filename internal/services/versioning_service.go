package services

import (
	"context"
	"strings"

	"promptversioning-backend/internal/auth"
	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/repository"
	"promptversioning-backend/internal/versioning"
	"promptversioning-backend/pkg/logger"

	"go.uber.org/zap"
)

// DefaultVersionRetention is the number of snapshots kept per template.
const DefaultVersionRetention = 5

// VersioningService enforces permissions and coordinates template version
// history with the versioning analysis.
type VersioningService struct {
	templates repository.TemplateRepository
	prompts   repository.PromptRepository
	retention int
}

type VersioningOption func(*VersioningService)

// WithRetention overrides how many versions are kept per template. Values
// below one are ignored.
func WithRetention(n int) VersioningOption {
	return func(s *VersioningService) {
		if n > 0 {
			s.retention = n
		}
	}
}

func NewVersioningService(templates repository.TemplateRepository, prompts repository.PromptRepository, opts ...VersioningOption) *VersioningService {
	s := &VersioningService{
		templates: templates,
		prompts:   prompts,
		retention: DefaultVersionRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func authorize(a auth.AuthContext, action auth.Action, resourceID string) error {
	if a == nil || !a.IsAuthenticated() {
		return &versioning.AuthenticationError{}
	}
	p := auth.Permission{Action: action, Resource: versioning.ResourceTemplate, ResourceID: resourceID}
	if !a.HasPermission(p) {
		return &versioning.PermissionDeniedError{
			UserID:     a.UserID(),
			Action:     string(action),
			Resource:   p.Resource,
			ResourceID: resourceID,
		}
	}
	return nil
}

// CreateTemplate stores a new template together with its 1.0.0 snapshot.
func (s *VersioningService) CreateTemplate(ctx context.Context, a auth.AuthContext, name, content string) (*models.Template, error) {
	if err := authorize(a, auth.ActionCreate, ""); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &versioning.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(content) == "" {
		return nil, &versioning.ValidationError{Field: "content", Message: "must not be empty"}
	}

	tpl := &models.Template{
		Name:           name,
		Content:        content,
		Version:        versioning.InitialVersion,
		CreatedBy:      a.UserID(),
		LastModifiedBy: a.UserID(),
	}
	err := s.templates.Transaction(ctx, "create_template", func(tx repository.TemplateRepository) error {
		if err := tx.Create(ctx, tpl); err != nil {
			return err
		}
		return tx.CreateVersion(ctx, &models.TemplateVersion{
			TemplateID:        tpl.ID,
			Version:           versioning.InitialVersion,
			Content:           content,
			Parameters:        versioning.UniqueParameters(content),
			Author:            a.UserID(),
			ChangeDescription: "Initial version",
		})
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("template created",
		zap.String("template_id", tpl.ID),
		zap.String("version", tpl.Version),
		zap.String("user_id", a.UserID()))
	return tpl, nil
}

// CreateNewVersion appends a snapshot of content to the template's history,
// deriving its version from the changes against the latest snapshot, and
// trims the history to the retention limit.
func (s *VersioningService) CreateNewVersion(ctx context.Context, a auth.AuthContext, templateID, content, changeDescription string) (*models.TemplateVersion, error) {
	if err := authorize(a, auth.ActionUpdate, templateID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, &versioning.ValidationError{Field: "content", Message: "must not be empty"}
	}

	var (
		created *models.TemplateVersion
		changes versioning.TemplateChanges
		trimmed int64
	)
	err := s.templates.Transaction(ctx, "create_version", func(tx repository.TemplateRepository) error {
		tpl, err := tx.GetByID(ctx, templateID)
		if err != nil {
			return err
		}
		if tpl.IsDeprecated {
			return &versioning.ValidationError{Field: "template", Message: "template " + templateID + " is deprecated"}
		}

		prev := tpl.Version
		latest, err := tx.LatestVersion(ctx, templateID)
		switch {
		case err == nil:
			prev = latest.Version
			changes = versioning.DiffContent(latest.Content, content)
		case versioning.IsNotFound(err):
			changes = versioning.TemplateChanges{
				ParameterChanges: versioning.ParameterChanges{Added: []string{}, Removed: []string{}, Modified: []string{}},
				ContentDiff:      content,
			}
		default:
			return err
		}

		next, err := versioning.NextVersion(prev, changes)
		if err != nil {
			return err
		}

		created = &models.TemplateVersion{
			TemplateID:        templateID,
			Version:           next,
			Content:           content,
			Parameters:        versioning.UniqueParameters(content),
			Author:            a.UserID(),
			ChangeDescription: changeDescription,
		}
		if err := tx.CreateVersion(ctx, created); err != nil {
			return err
		}

		tpl.Content = content
		tpl.Version = next
		tpl.LastModifiedBy = a.UserID()
		if err := tx.Update(ctx, tpl); err != nil {
			return err
		}

		trimmed, err = tx.TrimVersions(ctx, templateID, s.retention)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("template version created",
		zap.String("template_id", templateID),
		zap.String("version", created.Version),
		zap.Bool("breaking", changes.BreakingChanges),
		zap.Strings("added", changes.ParameterChanges.Added),
		zap.Strings("removed", changes.ParameterChanges.Removed),
		zap.Strings("modified", changes.ParameterChanges.Modified),
		zap.Int64("trimmed", trimmed),
		zap.String("user_id", a.UserID()))
	return created, nil
}

// ValidateUpdate reports whether moving from fromVersion to toVersion of a
// template is backward compatible.
func (s *VersioningService) ValidateUpdate(ctx context.Context, a auth.AuthContext, templateID, fromVersion, toVersion string) (*versioning.UpdateValidation, error) {
	if err := authorize(a, auth.ActionRead, templateID); err != nil {
		return nil, err
	}
	from, to, err := s.versionPair(ctx, templateID, fromVersion, toVersion)
	if err != nil {
		return nil, err
	}

	result := versioning.ValidateUpdate(templateID, from, to)
	return &result, nil
}

// FindAffectedPrompts classifies every prompt bound to the template against
// the given version. Version history is read past the cache so trimmed
// versions are never reported as retained.
func (s *VersioningService) FindAffectedPrompts(ctx context.Context, a auth.AuthContext, templateID, version string) (*versioning.TemplateUpdateNotification, error) {
	if err := authorize(a, auth.ActionRead, templateID); err != nil {
		return nil, err
	}
	ctx = repository.BypassCache(ctx)
	if _, err := versioning.ParseVersion(version); err != nil {
		return nil, err
	}
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return nil, err
	}
	target, err := s.templates.GetVersion(ctx, templateID, version)
	if err != nil {
		return nil, err
	}
	versions, err := s.templates.GetVersions(ctx, templateID)
	if err != nil {
		return nil, err
	}
	prompts, err := s.prompts.ListByTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]*models.TemplateVersion, len(versions))
	for i := range versions {
		byVersion[versions[i].Version] = &versions[i]
	}
	notification := versioning.AnalyzePrompts(templateID, target, prompts, func(v string) (*models.TemplateVersion, bool) {
		tv, ok := byVersion[v]
		return tv, ok
	})
	return &notification, nil
}

func (s *VersioningService) GetTemplate(ctx context.Context, a auth.AuthContext, templateID string) (*models.Template, error) {
	if err := authorize(a, auth.ActionRead, templateID); err != nil {
		return nil, err
	}
	return s.templates.GetByID(ctx, templateID)
}

// ListVersions returns the retained versions of a template, oldest first.
func (s *VersioningService) ListVersions(ctx context.Context, a auth.AuthContext, templateID string) ([]models.TemplateVersion, error) {
	if err := authorize(a, auth.ActionRead, templateID); err != nil {
		return nil, err
	}
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return nil, err
	}
	return s.templates.GetVersions(ctx, templateID)
}

// DeprecateTemplate soft-deletes a template, optionally pointing callers at
// its replacement. Prompts bound to it keep working.
func (s *VersioningService) DeprecateTemplate(ctx context.Context, a auth.AuthContext, templateID string, replacedBy *string) (*models.Template, error) {
	if err := authorize(a, auth.ActionDelete, templateID); err != nil {
		return nil, err
	}
	if replacedBy != nil && *replacedBy == templateID {
		return nil, &versioning.ValidationError{Field: "replaced_by_template_id", Message: "a template cannot replace itself"}
	}

	var tpl *models.Template
	err := s.templates.Transaction(ctx, "deprecate_template", func(tx repository.TemplateRepository) error {
		current, err := tx.GetByID(ctx, templateID)
		if err != nil {
			return err
		}
		if current.IsDeprecated {
			return &versioning.ValidationError{Field: "template", Message: "template " + templateID + " is already deprecated"}
		}
		if replacedBy != nil {
			if _, err := tx.GetByID(ctx, *replacedBy); err != nil {
				return err
			}
		}
		if err := tx.Deprecate(ctx, templateID, replacedBy, a.UserID()); err != nil {
			return err
		}
		tpl, err = tx.GetByID(ctx, templateID)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.L().Info("template deprecated",
		zap.String("template_id", templateID),
		zap.Stringp("replaced_by", replacedBy),
		zap.String("user_id", a.UserID()))
	return tpl, nil
}

func (s *VersioningService) versionPair(ctx context.Context, templateID, fromVersion, toVersion string) (*models.TemplateVersion, *models.TemplateVersion, error) {
	for _, v := range []string{fromVersion, toVersion} {
		if _, err := versioning.ParseVersion(v); err != nil {
			return nil, nil, err
		}
	}
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return nil, nil, err
	}
	from, err := s.templates.GetVersion(ctx, templateID, fromVersion)
	if err != nil {
		return nil, nil, err
	}
	to, err := s.templates.GetVersion(ctx, templateID, toVersion)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
