package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"promptversioning-backend/internal/auth"
	"promptversioning-backend/internal/models"
	"promptversioning-backend/internal/repository"
	"promptversioning-backend/internal/versioning"
	"promptversioning-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	PromptCacheKeyPrefix = "prompt:id:"
	PromptCacheDuration  = 24 * time.Hour
)

// PromptService owns prompts: template instantiations bound to one version.
type PromptService struct {
	prompts    repository.PromptRepository
	templates  repository.TemplateRepository
	versioning *VersioningService
	cache      *redis.Client
}

// NewPromptService builds the prompt subsystem. cache may be nil.
func NewPromptService(prompts repository.PromptRepository, templates repository.TemplateRepository, vs *VersioningService, cache *redis.Client) *PromptService {
	return &PromptService{prompts: prompts, templates: templates, versioning: vs, cache: cache}
}

type CreatePromptInput struct {
	Name       string
	TemplateID string
	// TemplateVersion defaults to the template's current version.
	TemplateVersion string
	Parameters      map[string]interface{}
	AutoUpdate      bool
}

// CreatePrompt binds a new prompt to a template version. Every parameter the
// version references needs a value and no others are accepted.
func (s *PromptService) CreatePrompt(ctx context.Context, a auth.AuthContext, in CreatePromptInput) (*models.Prompt, error) {
	if err := authorize(a, auth.ActionRead, in.TemplateID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, &versioning.ValidationError{Field: "name", Message: "must not be empty"}
	}

	tpl, err := s.templates.GetByID(ctx, in.TemplateID)
	if err != nil {
		return nil, err
	}
	if tpl.IsDeprecated {
		return nil, &versioning.ValidationError{Field: "template_id", Message: "template " + tpl.ID + " is deprecated"}
	}

	version := in.TemplateVersion
	if version == "" {
		version = tpl.Version
	}
	tv, err := s.templates.GetVersion(ctx, tpl.ID, version)
	if err != nil {
		return nil, err
	}
	if err := checkParameters(versioning.UniqueParameters(tv.Content), in.Parameters); err != nil {
		return nil, err
	}

	prompt := &models.Prompt{
		Name:            in.Name,
		TemplateID:      tpl.ID,
		TemplateVersion: tv.Version,
		Parameters:      datatypes.JSONMap(in.Parameters),
		AutoUpdate:      in.AutoUpdate,
		CreatedBy:       a.UserID(),
	}
	if err := s.prompts.Create(ctx, prompt); err != nil {
		return nil, err
	}

	logger.L().Info("prompt created",
		zap.String("prompt_id", prompt.ID),
		zap.String("template_id", prompt.TemplateID),
		zap.String("version", prompt.TemplateVersion))
	return prompt, nil
}

// GetPrompt retrieves a prompt by id, using the cache when configured.
func (s *PromptService) GetPrompt(ctx context.Context, a auth.AuthContext, id string) (*models.Prompt, error) {
	if a == nil || !a.IsAuthenticated() {
		return nil, &versioning.AuthenticationError{}
	}

	cacheKey := PromptCacheKeyPrefix + id
	if s.cache != nil {
		val, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var prompt models.Prompt
			if err := json.Unmarshal([]byte(val), &prompt); err == nil {
				if err := authorize(a, auth.ActionRead, prompt.TemplateID); err != nil {
					return nil, err
				}
				return &prompt, nil
			}
		}
	}

	prompt, err := s.prompts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(a, auth.ActionRead, prompt.TemplateID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(prompt); err == nil {
			s.cache.Set(ctx, cacheKey, data, PromptCacheDuration)
		}
	}
	return prompt, nil
}

func (s *PromptService) ListByTemplate(ctx context.Context, a auth.AuthContext, templateID string) ([]models.Prompt, error) {
	if err := authorize(a, auth.ActionRead, templateID); err != nil {
		return nil, err
	}
	return s.prompts.ListByTemplate(ctx, templateID)
}

// RecordMigrationCheck analyses the template's prompts against version and
// stamps each of them with the time of the check.
func (s *PromptService) RecordMigrationCheck(ctx context.Context, a auth.AuthContext, templateID, version string) (*versioning.TemplateUpdateNotification, error) {
	notification, err := s.versioning.FindAffectedPrompts(ctx, a, templateID, version)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(notification.AffectedPrompts))
	for _, ap := range notification.AffectedPrompts {
		ids = append(ids, ap.PromptID)
	}
	if err := s.prompts.MarkMigrationChecked(ctx, ids, time.Now()); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ids)
	return notification, nil
}

func (s *PromptService) invalidate(ctx context.Context, ids []string) {
	if s.cache == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, PromptCacheKeyPrefix+id)
	}
	s.cache.Del(ctx, keys...)
}

func checkParameters(expected []string, values map[string]interface{}) error {
	var missing, unknown []string
	want := make(map[string]struct{}, len(expected))
	for _, name := range expected {
		want[name] = struct{}{}
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range values {
		if _, ok := want[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)

	switch {
	case len(missing) > 0:
		return &versioning.ValidationError{Field: "parameters", Message: fmt.Sprintf("missing values for %s", strings.Join(missing, ", "))}
	case len(unknown) > 0:
		return &versioning.ValidationError{Field: "parameters", Message: fmt.Sprintf("unknown parameters %s", strings.Join(unknown, ", "))}
	}
	return nil
}
