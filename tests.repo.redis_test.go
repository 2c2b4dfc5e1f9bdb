package main

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startRedisDockerContainer(t *testing.T) (string, func()) {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker is not available: %v", err)
	}

	err = pool.Client.Ping()
	if err != nil {
		t.Skipf("could not connect to docker: %v", err)
	}

	resource, err := pool.Run("redis", "7.0.10-alpine", nil)
	if err != nil {
		t.Fatalf("Failed to start redis: %+v", err)
	}

	// build address the container is listening on
	addr := net.JoinHostPort("localhost", resource.GetPort("6379/tcp"))

	// ensure to wait for the container to be ready
	err = pool.Retry(func() error {
		client := redis.NewClient(&redis.Options{Addr: addr})
		defer client.Close()
		return client.Ping(context.Background()).Err()
	})
	if err != nil {
		t.Fatalf("Failed to ping Redis: %+v", err)
	}

	destroyFunc := func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Failed to purge resource: %+v", err)
		}
	}

	return addr, destroyFunc
}

func TestRedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	addr, destroyFunc := startRedisDockerContainer(t)
	defer destroyFunc()

	host, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	client, err := GetRedisClient(&RedisConfig{Host: host, Port: port, DialTimeout: 5 * time.Second})
	require.NoError(t, err)

	t.Run("key value store", func(t *testing.T) {
		kv := NewRedisKVStore(zap.NewNop(), client, "test.bookshelf")
		testKeyValueStore(t, kv)
	})

	t.Run("queue", func(t *testing.T) {
		ctx := context.Background()
		q := NewRedisQueue(client, "test.queue")
		at := NewMockClocker().Now()
		require.NoError(t, q.Push(ctx, Snapshot{Key: "k1", Value: []byte("v1"), At: at}))
		require.NoError(t, q.Push(ctx, Snapshot{Key: "k2", Value: []byte("v2"), At: at}))

		snap, err := q.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, "k1", snap.Key)
		assert.Equal(t, []byte("v1"), snap.Value)
		assert.True(t, at.Equal(snap.At))

		snap, err = q.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, "k2", snap.Key)
	})

	require.NoError(t, client.Close())
}
