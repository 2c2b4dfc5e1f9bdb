package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryQueue(t *testing.T) {
	ctx := context.Background()

	t.Run("fifo", func(t *testing.T) {
		q := NewMemoryQueue()
		require.NoError(t, q.Push(ctx, Snapshot{Key: "a"}))
		require.NoError(t, q.Push(ctx, Snapshot{Key: "b"}))

		first, err := q.Pop(ctx)
		require.NoError(t, err)
		second, err := q.Pop(ctx)
		require.NoError(t, err)
		assert.Equal(t, "a", first.Key)
		assert.Equal(t, "b", second.Key)
	})

	t.Run("pop waits for a push", func(t *testing.T) {
		q := NewMemoryQueue()
		go func() {
			time.Sleep(20 * time.Millisecond)
			_ = q.Push(ctx, Snapshot{Key: "late"})
		}()
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		snap, err := q.Pop(pctx)
		require.NoError(t, err)
		assert.Equal(t, "late", snap.Key)
	})

	t.Run("pop stops with the context", func(t *testing.T) {
		q := NewMemoryQueue()
		pctx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
		defer cancel()
		_, err := q.Pop(pctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestBackupConsumer(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := NewMemoryQueue()
	backup := NewMemoryKVStore()
	primary := NewMemoryKVStore()
	se := NewStorageEngine(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler(), primary, queue)

	done := make(chan error, 1)
	go func() {
		done <- NewBackupConsumer(zap.NewNop(), queue, backup).Consume(ctx)
	}()

	require.True(t, se.SaveBooks(ctx, sampleBooks()))
	require.True(t, se.SaveUserSettings(ctx, SettingsPatch{ReadingGoal: ptr(7)}))

	assert.Eventually(t, func() bool {
		_, errB := backup.Get(ctx, DefaultCollectionKey)
		_, errS := backup.Get(ctx, DefaultSettingsKey)
		return errB == nil && errS == nil
	}, 2*time.Second, 10*time.Millisecond)

	want, err := primary.Get(ctx, DefaultCollectionKey)
	require.NoError(t, err)
	got, err := backup.Get(ctx, DefaultCollectionKey)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// a backup store restores the whole state.
	restored := NewStorageEngine(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler(), backup, nil)
	assert.Equal(t, sampleBooks(), restored.LoadBooks(ctx))
	assert.Equal(t, 7, restored.LoadUserSettings(ctx).ReadingGoal)

	// removals reach the backup too.
	require.True(t, se.ClearAll(ctx))
	assert.Eventually(t, func() bool {
		_, errB := backup.Get(ctx, DefaultCollectionKey)
		_, errS := backup.Get(ctx, DefaultSettingsKey)
		return errors.Is(errB, ErrKeyNotFound) && errors.Is(errS, ErrKeyNotFound)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop with its context")
	}
}

func TestBackupConsumerKeepsGoingAfterFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue := NewMemoryQueue()
	backup := NewMockKeyValueStore()
	calls := make(chan string, 4)
	backup.SetFunc = func(_ context.Context, key string, _ []byte) error {
		calls <- key
		if key == "bad" {
			return errors.New("disk full")
		}
		return nil
	}

	go func() {
		_ = NewBackupConsumer(zap.NewNop(), queue, backup).Consume(ctx)
	}()

	require.NoError(t, queue.Push(ctx, Snapshot{Key: "bad"}))
	require.NoError(t, queue.Push(ctx, Snapshot{Key: "good"}))

	for _, want := range []string{"bad", "good"} {
		select {
		case key := <-calls:
			assert.Equal(t, want, key)
		case <-time.After(2 * time.Second):
			t.Fatalf("snapshot %s was not consumed", want)
		}
	}
}
