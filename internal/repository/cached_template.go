package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"promptversioning-backend/internal/models"
	"promptversioning-backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const templateCacheKeyPrefix = "template:"

func templateCacheKey(id string) string {
	return templateCacheKeyPrefix + id
}

func versionsCacheKey(id string) string {
	return fmt.Sprintf("%s%s:versions", templateCacheKeyPrefix, id)
}

type bypassCacheKey struct{}

// BypassCache marks ctx so CachedTemplateRepository reads go straight to the
// wrapped repository and leave redis untouched.
func BypassCache(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

func cacheBypassed(ctx context.Context) bool {
	bypass, _ := ctx.Value(bypassCacheKey{}).(bool)
	return bypass
}

// CachedTemplateRepository serves template and version-history reads from
// redis and invalidates them on every write. Cache failures are logged and
// fall through to the wrapped repository.
//
// Invalidation is cache-aside: a read that loaded rows before a write
// committed can store them after the write invalidated the key, and they
// stay until the TTL expires. Callers that need committed state use
// BypassCache.
type CachedTemplateRepository struct {
	inner  TemplateRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedTemplateRepository(inner TemplateRepository, client *redis.Client, ttl time.Duration) *CachedTemplateRepository {
	return &CachedTemplateRepository{inner: inner, client: client, ttl: ttl}
}

func (r *CachedTemplateRepository) Create(ctx context.Context, t *models.Template) error {
	if err := r.inner.Create(ctx, t); err != nil {
		return err
	}
	r.invalidate(ctx, t.ID)
	return nil
}

func (r *CachedTemplateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	var cached models.Template
	if r.get(ctx, templateCacheKey(id), &cached) {
		return &cached, nil
	}

	t, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, templateCacheKey(id), t)
	return t, nil
}

func (r *CachedTemplateRepository) Update(ctx context.Context, t *models.Template) error {
	if err := r.inner.Update(ctx, t); err != nil {
		return err
	}
	r.invalidate(ctx, t.ID)
	return nil
}

func (r *CachedTemplateRepository) Deprecate(ctx context.Context, id string, replacedBy *string, by string) error {
	if err := r.inner.Deprecate(ctx, id, replacedBy, by); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedTemplateRepository) GetVersions(ctx context.Context, templateID string) ([]models.TemplateVersion, error) {
	var cached []models.TemplateVersion
	if r.get(ctx, versionsCacheKey(templateID), &cached) {
		return cached, nil
	}

	versions, err := r.inner.GetVersions(ctx, templateID)
	if err != nil {
		return nil, err
	}
	r.set(ctx, versionsCacheKey(templateID), versions)
	return versions, nil
}

// GetVersion and LatestVersion are answered from the cached history when it
// is present.
func (r *CachedTemplateRepository) GetVersion(ctx context.Context, templateID, version string) (*models.TemplateVersion, error) {
	var cached []models.TemplateVersion
	if r.get(ctx, versionsCacheKey(templateID), &cached) {
		for i := range cached {
			if cached[i].Version == version {
				return &cached[i], nil
			}
		}
	}
	return r.inner.GetVersion(ctx, templateID, version)
}

func (r *CachedTemplateRepository) LatestVersion(ctx context.Context, templateID string) (*models.TemplateVersion, error) {
	var cached []models.TemplateVersion
	if r.get(ctx, versionsCacheKey(templateID), &cached) && len(cached) > 0 {
		return &cached[len(cached)-1], nil
	}
	return r.inner.LatestVersion(ctx, templateID)
}

func (r *CachedTemplateRepository) CreateVersion(ctx context.Context, v *models.TemplateVersion) error {
	if err := r.inner.CreateVersion(ctx, v); err != nil {
		return err
	}
	r.invalidate(ctx, v.TemplateID)
	return nil
}

func (r *CachedTemplateRepository) TrimVersions(ctx context.Context, templateID string, keep int) (int64, error) {
	n, err := r.inner.TrimVersions(ctx, templateID, keep)
	if err != nil {
		return n, err
	}
	r.invalidate(ctx, templateID)
	return n, nil
}

// Transaction bypasses the cache inside the transaction and drops the cached
// entries of every template written once it commits.
func (r *CachedTemplateRepository) Transaction(ctx context.Context, op string, fn func(repo TemplateRepository) error) error {
	var touched []string
	err := r.inner.Transaction(ctx, op, func(tx TemplateRepository) error {
		return fn(&recordingRepository{TemplateRepository: tx, touched: &touched})
	})
	if err != nil {
		return err
	}
	r.invalidate(ctx, touched...)
	return nil
}

func (r *CachedTemplateRepository) get(ctx context.Context, key string, dest interface{}) bool {
	if cacheBypassed(ctx) {
		return false
	}
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.L().Warn("template cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logger.L().Warn("template cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (r *CachedTemplateRepository) set(ctx context.Context, key string, value interface{}) {
	if cacheBypassed(ctx) {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		logger.L().Warn("template cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (r *CachedTemplateRepository) invalidate(ctx context.Context, ids ...string) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids)*2)
	for _, id := range ids {
		keys = append(keys, templateCacheKey(id), versionsCacheKey(id))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		logger.L().Warn("template cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// recordingRepository notes which templates a transaction wrote to.
type recordingRepository struct {
	TemplateRepository
	touched *[]string
}

func (r *recordingRepository) mark(id string) {
	*r.touched = append(*r.touched, id)
}

func (r *recordingRepository) Create(ctx context.Context, t *models.Template) error {
	err := r.TemplateRepository.Create(ctx, t)
	r.mark(t.ID)
	return err
}

func (r *recordingRepository) Update(ctx context.Context, t *models.Template) error {
	r.mark(t.ID)
	return r.TemplateRepository.Update(ctx, t)
}

func (r *recordingRepository) Deprecate(ctx context.Context, id string, replacedBy *string, by string) error {
	r.mark(id)
	return r.TemplateRepository.Deprecate(ctx, id, replacedBy, by)
}

func (r *recordingRepository) CreateVersion(ctx context.Context, v *models.TemplateVersion) error {
	r.mark(v.TemplateID)
	return r.TemplateRepository.CreateVersion(ctx, v)
}

func (r *recordingRepository) TrimVersions(ctx context.Context, templateID string, keep int) (int64, error) {
	r.mark(templateID)
	return r.TemplateRepository.TrimVersions(ctx, templateID, keep)
}

func (r *recordingRepository) Transaction(ctx context.Context, op string, fn func(repo TemplateRepository) error) error {
	return r.TemplateRepository.Transaction(ctx, op, func(tx TemplateRepository) error {
		return fn(&recordingRepository{TemplateRepository: tx, touched: r.touched})
	})
}
