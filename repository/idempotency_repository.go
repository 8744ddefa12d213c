package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyRepository maps checkout idempotency keys to created order
// ids, so a retried checkout returns the original order instead of
// double-selling stock.
type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, orderID string, ttl time.Duration) error
}

type RedisIdempotencyRepository struct {
	client *redis.Client
}

func NewIdempotencyRepository(client *redis.Client) *RedisIdempotencyRepository {
	return &RedisIdempotencyRepository{client: client}
}

func (r *RedisIdempotencyRepository) key(key string) string {
	return "idem:checkout:" + key
}

// Get returns the stored order id, or "" when the key is unknown.
func (r *RedisIdempotencyRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *RedisIdempotencyRepository) Set(ctx context.Context, key, orderID string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), orderID, ttl).Err()
}
