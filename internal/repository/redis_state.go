package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStateRepo implements StateRepo on Redis string keys, letting several
// machines share one editing session.
type RedisStateRepo struct {
	client *redis.Client
	prefix string
}

// NewRedisStateRepo connects to redisURL and verifies the connection.
func NewRedisStateRepo(ctx context.Context, redisURL, prefix string) (*RedisStateRepo, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisStateRepoWithClient(client, prefix), nil
}

func NewRedisStateRepoWithClient(client *redis.Client, prefix string) *RedisStateRepo {
	if prefix == "" {
		prefix = "journeyctl:"
	}
	return &RedisStateRepo{client: client, prefix: prefix}
}

func (r *RedisStateRepo) key(k string) string {
	return r.prefix + k
}

func (r *RedisStateRepo) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("state %q: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading state %q: %w", key, err)
	}
	return val, nil
}

func (r *RedisStateRepo) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("writing state %q: %w", key, err)
	}
	return nil
}

func (r *RedisStateRepo) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("deleting state %q: %w", key, err)
	}
	return nil
}

// PutAll writes every key inside MULTI/EXEC.
func (r *RedisStateRepo) PutAll(ctx context.Context, values map[string][]byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, r.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing state batch: %w", err)
	}
	return nil
}

func (r *RedisStateRepo) Close() error {
	return r.client.Close()
}
