package repositories

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSessionRepository keeps issued refresh tokens in Redis so a token
// survives process restarts and expires on its own.
type RedisSessionRepository struct {
	client *redis.Client
}

func NewRedisSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

func (r *RedisSessionRepository) Save(ctx context.Context, token, username string, ttl time.Duration) error {
	return r.client.Set(ctx, "session:"+token, username, ttl).Err()
}

func (r *RedisSessionRepository) Find(ctx context.Context, token string) (string, error) {
	username, err := r.client.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return username, nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, "session:"+token).Err()
}
