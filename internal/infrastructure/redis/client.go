// Package redisinfra wraps the ephemeral key-value store holding
// one-time codes and pending-registration payloads. Every key carries a
// fixed TTL; the store itself is the only expiry mechanism.
package redisinfra

import (
	"time"

	"github.com/go-fest-api/internal/config"
	"github.com/redis/go-redis/v9"
)

// TTL applied to every ephemeral key from its last write.
const keyTTL = 600 * time.Second

func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}
