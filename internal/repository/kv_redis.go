package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisKeyValueStore struct {
	client *redis.Client
	prefix string
}

func NewRedisKeyValueStore(client *redis.Client, prefix string) KeyValueStore {
	return &redisKeyValueStore{
		client: client,
		prefix: prefix,
	}
}

func (that *redisKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	response, err := that.client.Get(ctx, that.prefix+key).Result()

	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}

	if err != nil {
		return "", fmt.Errorf("failed to get key %s: %w", key, err)
	}

	return response, nil
}

func (that *redisKeyValueStore) Set(ctx context.Context, key, value string) error {
	if err := that.client.Set(ctx, that.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}

	return nil
}

func (that *redisKeyValueStore) Delete(ctx context.Context, key string) error {
	if err := that.client.Del(ctx, that.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}
