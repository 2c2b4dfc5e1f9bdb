package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

var _ KeyValueStore = (*sqliteKVStore)(nil) // ensure sqliteKVStore implements KeyValueStore.

// KeyValueEntry is the single table of the sqlite store.
type KeyValueEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     []byte
	UpdatedAt time.Time
}

func (KeyValueEntry) TableName() string {
	return "kv_entries"
}

type sqliteKVStore struct {
	logger *zap.Logger
	db     *gorm.DB
}

// GetSQLiteClient opens the sqlite database file and migrates the schema.
func GetSQLiteClient(config *SQLiteConfig) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(config.FilePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open the database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get the database handle: %w", err)
	}
	// sqlite allows a single writer.
	sqlDB.SetMaxOpenConns(1)

	if err = db.AutoMigrate(&KeyValueEntry{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database migration failed: %w", err)
	}
	return db, nil
}

// NewSQLiteKVStore provides a sqlite-based key-value store.
func NewSQLiteKVStore(logger *zap.Logger, db *gorm.DB) KeyValueStore {
	return &sqliteKVStore{logger: logger, db: db}
}

// Close shuts down the underlying database connection.
func (ss *sqliteKVStore) Close() error {
	sqlDB, err := ss.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get retrieves the value of the key.
func (ss *sqliteKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry KeyValueEntry
	err := ss.db.WithContext(ctx).Where(&KeyValueEntry{Key: key}).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry.Value, nil
}

// Set inserts or replaces the value of the key.
func (ss *sqliteKVStore) Set(ctx context.Context, key string, value []byte) error {
	entry := KeyValueEntry{Key: key, Value: value}
	return ss.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&entry).Error
}

// Delete removes the key. Deleting a missing key is not an error.
func (ss *sqliteKVStore) Delete(ctx context.Context, key string) error {
	return ss.db.WithContext(ctx).Where(&KeyValueEntry{Key: key}).Delete(&KeyValueEntry{}).Error
}
