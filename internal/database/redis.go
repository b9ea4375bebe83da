package database

import (
	"context"

	"promptversioning-backend/config"

	"github.com/go-redis/redis/v8"
)

// ConnectRedis opens a client for the configured redis and pings it.
func ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisFullAddr(),
		Password: cfg.RedisPassword,
		DB:       0, // use default DB
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
