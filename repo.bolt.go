package main

import (
	"context"
	"fmt"

	"github.com/boltdb/bolt"
	"go.uber.org/zap"
)

var _ KeyValueStore = (*boltKVStore)(nil) // ensure boltKVStore implements KeyValueStore.

type boltKVStore struct {
	logger *zap.Logger
	client *bolt.DB
	bucket []byte
}

// GetBoltDBClient setup the database and the bucket then provides a ready to use client.
func GetBoltDBClient(config *BoltDBConfig) (*bolt.DB, error) {
	db, err := bolt.Open(config.FilePath, 0o600, &bolt.Options{Timeout: config.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, errB := tx.CreateBucketIfNotExists([]byte(config.BucketName)); errB != nil {
			return fmt.Errorf("failed to create %s bucket: %w", config.BucketName, errB)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up bucket: %w", err)
	}
	return db, nil
}

// NewBoltKVStore provides a bolt-based key-value store on the configured bucket.
func NewBoltKVStore(logger *zap.Logger, config *BoltDBConfig, client *bolt.DB) KeyValueStore {
	return &boltKVStore{
		logger: logger,
		client: client,
		bucket: []byte(config.BucketName),
	}
}

// Close shuts down the bolt database.
func (bs *boltKVStore) Close() error {
	return bs.client.Close()
}

// Get retrieves the value of the key. The returned slice is a copy
// since bolt values are only valid during the transaction.
func (bs *boltKVStore) Get(_ context.Context, key string) ([]byte, error) {
	var value []byte
	err := bs.client.View(func(tx *bolt.Tx) error {
		result := tx.Bucket(bs.bucket).Get([]byte(key))
		if result == nil {
			return ErrKeyNotFound
		}
		value = append([]byte{}, result...)
		return nil
	})
	return value, err
}

// Set inserts or replaces the value of the key.
func (bs *boltKVStore) Set(_ context.Context, key string, value []byte) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bs.bucket).Put([]byte(key), value)
	})
}

// Delete removes the key. Deleting a missing key is not an error.
func (bs *boltKVStore) Delete(_ context.Context, key string) error {
	return bs.client.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bs.bucket).Delete([]byte(key))
	})
}
