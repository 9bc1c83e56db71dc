package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fitness-records/internal/utils"
)

// RedisRegistry stores revocations in Redis so they survive restarts and are
// shared by every replica.  Keys are <prefix>:<sha256(token)> and expire
// together with the token they describe.
type RedisRegistry struct {
	rdb    redis.Cmdable
	prefix string
	now    func() time.Time
}

func NewRedisRegistry(rdb redis.Cmdable, prefix string) *RedisRegistry {
	if prefix == "" {
		prefix = "revoked"
	}
	return &RedisRegistry{rdb: rdb, prefix: prefix, now: time.Now}
}

func (r *RedisRegistry) key(token string) string {
	return r.prefix + ":" + utils.HashToken(token)
}

// Revoke writes the marker with the token's remaining lifetime as TTL.  A
// token that has already expired is rejected by verification, so nothing is
// stored for it.
func (r *RedisRegistry) Revoke(ctx context.Context, token string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return r.rdb.Set(ctx, r.key(token), 1, ttl).Err()
}

func (r *RedisRegistry) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
