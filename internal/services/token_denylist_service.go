package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const denylistPrefix = "denylist:"

// TokenDenylist records revoked tokens until they would have expired. Without
// a redis client the entries live in process memory and are lost on restart.
type TokenDenylist struct {
	client *redis.Client

	mu    sync.Mutex
	local map[string]time.Time
	now   func() time.Time
}

func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client, local: make(map[string]time.Time), now: time.Now}
}

func (d *TokenDenylist) Add(ctx context.Context, tokenString string, expiration time.Duration) error {
	if d.client != nil {
		return d.client.Set(ctx, denylistPrefix+tokenString, 1, expiration).Err()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for token, expiresAt := range d.local {
		if !now.Before(expiresAt) {
			delete(d.local, token)
		}
	}
	if expiration > 0 {
		d.local[tokenString] = now.Add(expiration)
	}
	return nil
}

func (d *TokenDenylist) IsDenylisted(ctx context.Context, tokenString string) (bool, error) {
	if d.client == nil {
		d.mu.Lock()
		defer d.mu.Unlock()
		expiresAt, ok := d.local[tokenString]
		if !ok {
			return false, nil
		}
		if !d.now().Before(expiresAt) {
			delete(d.local, tokenString)
			return false, nil
		}
		return true, nil
	}

	val, err := d.client.Get(ctx, denylistPrefix+tokenString).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return val != "", nil
}
