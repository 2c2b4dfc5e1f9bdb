package main

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a KeyValueStore when the key was never set.
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the persistent key-value backend. Values are
// opaque bytes, each key holds a whole document.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// BookStorage defines the persistence operations on the book collection
// and the user settings. Implementations never return Go errors: failures
// are reported as a false result or a failed ImportResult.
type BookStorage interface {
	LoadBooks(ctx context.Context) []Book
	SaveBooks(ctx context.Context, books []Book) bool
	SaveBook(ctx context.Context, book Book) bool
	DeleteBook(ctx context.Context, id string) bool
	LoadUserSettings(ctx context.Context) UserSettings
	SaveUserSettings(ctx context.Context, patch SettingsPatch) bool
	ExportData(ctx context.Context) ([]byte, bool)
	ImportData(ctx context.Context, data []byte) ImportResult
	ClearAll(ctx context.Context) bool
}
