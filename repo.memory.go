package main

import (
	"context"
	"sync"
)

var _ KeyValueStore = (*memoryKVStore)(nil) // ensure memoryKVStore implements KeyValueStore.

// memoryKVStore keeps every key in process memory. Nothing survives a restart.
type memoryKVStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKVStore provides an empty in-memory key-value store.
func NewMemoryKVStore() KeyValueStore {
	return &memoryKVStore{data: make(map[string][]byte)}
}

func (ms *memoryKVStore) Get(_ context.Context, key string) ([]byte, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	value, found := ms.data[key]
	if !found {
		return nil, ErrKeyNotFound
	}
	return append([]byte{}, value...), nil
}

func (ms *memoryKVStore) Set(_ context.Context, key string, value []byte) error {
	ms.mu.Lock()
	ms.data[key] = append([]byte{}, value...)
	ms.mu.Unlock()
	return nil
}

func (ms *memoryKVStore) Delete(_ context.Context, key string) error {
	ms.mu.Lock()
	delete(ms.data, key)
	ms.mu.Unlock()
	return nil
}

func (ms *memoryKVStore) Close() error {
	return nil
}
