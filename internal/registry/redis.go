package registry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Registry shared by every API instance pointed at the same server.
//
// Tokens are stored as sha256 digests, one key per token, expiring together with
// the token itself. Raw token strings never reach Redis.
type Redis struct {
	rdb    redis.Cmdable
	prefix string
	now    func() time.Time
}

func NewRedis(rdb redis.Cmdable, prefix string) *Redis {
	if prefix == "" {
		prefix = "refresh"
	}
	return &Redis{rdb: rdb, prefix: prefix, now: time.Now}
}

func (r *Redis) Register(ctx context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return errors.New("registry: empty token")
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		// Already expired; it could never verify, so there is nothing to keep.
		return nil
	}
	if err := r.rdb.Set(ctx, r.key(token), 1, ttl).Err(); err != nil {
		return fmt.Errorf("registry: register: %w", err)
	}
	return nil
}

func (r *Redis) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := r.rdb.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("registry: revoke: %w", err)
	}
	return nil
}

func (r *Redis) IsValid(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	n, err := r.rdb.Exists(ctx, r.key(token)).Result()
	if err != nil {
		return false, fmt.Errorf("registry: lookup: %w", err)
	}
	return n == 1, nil
}

func (r *Redis) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return r.prefix + ":" + hex.EncodeToString(sum[:])
}
