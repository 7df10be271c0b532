package cache

import (
	"context"
	"fmt"
	"time"

	"leetcoders/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap/zapcore"
)

type RedisCache struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRedisCache(addr, password string, db int, log *logger.Logger) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{client: client, logger: log}
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		r.log(zapcore.ErrorLevel, "Failed to set key", key, err)
		return fmt.Errorf("failed to set key %s in cache: %w", key, err)
	}
	r.log(zapcore.DebugLevel, "Key set", key, nil)
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		r.log(zapcore.DebugLevel, "Cache miss", key, nil)
		return nil, nil
	}
	if err != nil {
		r.log(zapcore.ErrorLevel, "Failed to get key", key, err)
		return nil, fmt.Errorf("failed to get key %s from cache: %w", key, err)
	}
	r.log(zapcore.DebugLevel, "Cache hit", key, nil)
	return val, nil
}

func (r *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.log(zapcore.ErrorLevel, "Failed to delete keys", fmt.Sprint(keys), err)
		return fmt.Errorf("failed to delete keys %v from cache: %w", keys, err)
	}
	return nil
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence of key %s in cache: %w", key, err)
	}
	return result > 0, nil
}

func (r *RedisCache) log(level zapcore.Level, msg, key string, err error) {
	r.logger.Log(level, "", msg, map[string]any{"cacheKey": key}, "CACHE", err)
}
