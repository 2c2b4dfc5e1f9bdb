package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisHash is the redis hash holding every key of the store.
const DefaultRedisHash = "bookshelf"

var _ KeyValueStore = (*redisKVStore)(nil) // ensure redisKVStore implements KeyValueStore.

type redisKVStore struct {
	logger *zap.Logger
	client *redis.Client
	hash   string
}

// NewRedisKVStore provides a redis-based key-value store. Each key is a
// field of a single redis hash.
func NewRedisKVStore(logger *zap.Logger, client *redis.Client, hash string) KeyValueStore {
	if hash == "" {
		hash = DefaultRedisHash
	}
	return &redisKVStore{
		logger: logger,
		client: client,
		hash:   hash,
	}
}

// GetRedisClient provides a ready to use redis client.
func GetRedisClient(config *RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", config.Host, config.Port),
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		PoolSize:     config.PoolSize,
		PoolTimeout:  config.PoolTimeout,
		Password:     config.Password,
		Username:     config.Username,
		DB:           config.DatabaseIndex,
	})

	// test connection.
	if pong, err := client.Ping(context.Background()).Result(); pong != "PONG" || err != nil {
		return client, fmt.Errorf("test connection failed: %v", err)
	}
	return client, nil
}

// Close shuts down the redis client.
func (rs *redisKVStore) Close() error {
	return rs.client.Close()
}

// Get retrieves the value of the key.
func (rs *redisKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := rs.client.HGet(ctx, rs.hash, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	}
	return value, err
}

// Set inserts or replaces the value of the key.
func (rs *redisKVStore) Set(ctx context.Context, key string, value []byte) error {
	return rs.client.HSet(ctx, rs.hash, key, value).Err()
}

// Delete removes the key. Deleting a missing key is not an error.
func (rs *redisKVStore) Delete(ctx context.Context, key string) error {
	return rs.client.HDel(ctx, rs.hash, key).Err()
}
