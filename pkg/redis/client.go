package redis

import (
	"github.com/redis/go-redis/v9"

	"planassist/internal/config"
)

// NewClient builds a go-redis client from the configured address.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}
