package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"promptversioning-backend/internal/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type UserService struct {
	db        *gorm.DB
	cache     *redis.Client
	jwtSecret string
}

// NewUserService builds the account service. cache may be nil.
func NewUserService(db *gorm.DB, cache *redis.Client, jwtSecret string) *UserService {
	return &UserService{db: db, cache: cache, jwtSecret: jwtSecret}
}

func (s *UserService) JWTSecret() string {
	return s.jwtSecret
}

func (s *UserService) FindUserByID(ctx context.Context, userID uint) (models.User, error) {
	cacheKey := fmt.Sprintf("user:%d", userID)
	if s.cache != nil {
		val, err := s.cache.Get(ctx, cacheKey).Result()
		if err == nil {
			var user models.User
			if err := json.Unmarshal([]byte(val), &user); err == nil {
				return user, nil
			}
		}
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return user, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			s.cache.Set(ctx, cacheKey, data, time.Hour)
		}
	}
	return user, nil
}
