package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Default keys of the two persisted documents.
const (
	DefaultCollectionKey = "bookCollection"
	DefaultSettingsKey   = "bookUserSettings"
)

// Messages reported by ImportData.
const (
	MsgImportSucceeded     = "data imported successfully"
	MsgImportNothing       = "no data to import"
	MsgImportInvalidFormat = "invalid format"
)

var _ BookStorage = (*StorageEngine)(nil) // ensure StorageEngine implements BookStorage.

// ImportResult reports the outcome of a data import.
type ImportResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataEnvelope is the export/import document.
type DataEnvelope struct {
	Books      []Book       `json:"books"`
	Settings   UserSettings `json:"settings"`
	ExportedAt time.Time    `json:"exportedAt"`
}

// StorageEngine persists the whole book collection and the user settings
// as two JSON documents of a key-value store. Every write replaces the
// full document.
type StorageEngine struct {
	logger        *zap.Logger
	clock         Clocker
	ids           UIDHandler
	kv            KeyValueStore
	queue         Queuer
	collectionKey string
	settingsKey   string
}

// NewStorageEngine provides a storage engine on top of the given store. The
// queue is optional: when set, each successful write is published to it.
func NewStorageEngine(logger *zap.Logger, config *StorageConfig, clock Clocker, ids UIDHandler, kv KeyValueStore, queue Queuer) *StorageEngine {
	se := &StorageEngine{
		logger:        logger,
		clock:         clock,
		ids:           ids,
		kv:            kv,
		queue:         queue,
		collectionKey: DefaultCollectionKey,
		settingsKey:   DefaultSettingsKey,
	}
	if config != nil && config.CollectionKey != "" {
		se.collectionKey = config.CollectionKey
	}
	if config != nil && config.SettingsKey != "" {
		se.settingsKey = config.SettingsKey
	}
	return se
}

// write stores the value and publishes a snapshot when a queue is set.
func (se *StorageEngine) write(ctx context.Context, key string, value []byte) bool {
	if err := se.kv.Set(ctx, key, value); err != nil {
		se.logger.Error("storage: failed to write key", zap.String("key", key), zap.Error(err))
		return false
	}
	se.publish(ctx, Snapshot{Key: key, Value: value})
	return true
}

// publish pushes the snapshot to the queue, if any.
func (se *StorageEngine) publish(ctx context.Context, snap Snapshot) {
	if se.queue == nil {
		return
	}
	snap.At = se.clock.Now().UTC()
	if err := se.queue.Push(ctx, snap); err != nil {
		se.logger.Error("storage: failed to publish snapshot", zap.String("key", snap.Key), zap.Error(err))
	}
}

// LoadBooks reads the persisted collection. A missing, unreadable
// or corrupt collection is returned as an empty one.
func (se *StorageEngine) LoadBooks(ctx context.Context) []Book {
	books := []Book{}
	data, err := se.kv.Get(ctx, se.collectionKey)
	if errors.Is(err, ErrKeyNotFound) {
		return books
	}
	if err != nil {
		se.logger.Error("storage: failed to read books", zap.String("key", se.collectionKey), zap.Error(err))
		return books
	}
	if err = json.Unmarshal(data, &books); err != nil {
		se.logger.Error("storage: corrupt books data", zap.String("key", se.collectionKey), zap.Error(err))
		return []Book{}
	}
	if books == nil {
		books = []Book{}
	}
	return books
}

// SaveBooks serializes and stores the full collection.
func (se *StorageEngine) SaveBooks(ctx context.Context, books []Book) bool {
	if books == nil {
		books = []Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		se.logger.Error("storage: failed to serialize books", zap.Int("count", len(books)), zap.Error(err))
		return false
	}
	return se.write(ctx, se.collectionKey, data)
}

// SaveBook inserts the book or replaces the stored one with the same id.
// A replaced book keeps its stored creation time and updatedAt never goes
// below createdAt.
func (se *StorageEngine) SaveBook(ctx context.Context, book Book) bool {
	books := se.LoadBooks(ctx)
	now := se.clock.Now().UTC()
	if book.ID == "" {
		book.ID = se.ids.Generate(BookIDPrefix)
	}

	for i := range books {
		if books[i].ID != book.ID {
			continue
		}
		book.CreatedAt = books[i].CreatedAt
		book.UpdatedAt = laterOf(now, book.CreatedAt)
		books[i] = book
		return se.SaveBooks(ctx, books)
	}

	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = laterOf(now, book.CreatedAt)
	books = append(books, book)
	return se.SaveBooks(ctx, books)
}

func laterOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return b
	}
	return a
}

// DeleteBook removes the book with the given id, if any, and stores the rest.
func (se *StorageEngine) DeleteBook(ctx context.Context, id string) bool {
	books := se.LoadBooks(ctx)
	kept := make([]Book, 0, len(books))
	for _, b := range books {
		if b.ID != id {
			kept = append(kept, b)
		}
	}
	return se.SaveBooks(ctx, kept)
}

// LoadUserSettings reads the settings. Missing keys of the stored
// document keep their default values.
func (se *StorageEngine) LoadUserSettings(ctx context.Context) UserSettings {
	settings := DefaultUserSettings()
	data, err := se.kv.Get(ctx, se.settingsKey)
	if errors.Is(err, ErrKeyNotFound) {
		return settings
	}
	if err != nil {
		se.logger.Error("storage: failed to read settings", zap.String("key", se.settingsKey), zap.Error(err))
		return settings
	}
	if err = json.Unmarshal(data, &settings); err != nil {
		se.logger.Error("storage: corrupt settings data", zap.String("key", se.settingsKey), zap.Error(err))
		return DefaultUserSettings()
	}
	return settings
}

// SaveUserSettings merges the patch over the current settings and stores the result.
func (se *StorageEngine) SaveUserSettings(ctx context.Context, patch SettingsPatch) bool {
	if err := patch.Validate(); err != nil {
		se.logger.Error("storage: invalid settings", zap.Error(err))
		return false
	}
	settings := se.LoadUserSettings(ctx).Merge(patch)
	data, err := json.Marshal(settings)
	if err != nil {
		se.logger.Error("storage: failed to serialize settings", zap.Error(err))
		return false
	}
	return se.write(ctx, se.settingsKey, data)
}

// ExportData produces the indented JSON envelope of all persisted data.
func (se *StorageEngine) ExportData(ctx context.Context) ([]byte, bool) {
	envelope := DataEnvelope{
		Books:      se.LoadBooks(ctx),
		Settings:   se.LoadUserSettings(ctx),
		ExportedAt: se.clock.Now().UTC(),
	}
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		se.logger.Error("storage: failed to serialize export", zap.Error(err))
		return nil, false
	}
	return data, true
}

func isPresent(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// ImportData applies the books and settings sections of an export envelope.
// Each section is written only when present. Both sections are fully
// decoded and checked before the first write.
func (se *StorageEngine) ImportData(ctx context.Context, data []byte) ImportResult {
	var raw struct {
		Books    json.RawMessage `json:"books"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		se.logger.Error("storage: import rejected", zap.Error(err))
		return ImportResult{Success: false, Message: MsgImportInvalidFormat}
	}

	hasBooks, hasSettings := isPresent(raw.Books), isPresent(raw.Settings)
	if !hasBooks && !hasSettings {
		return ImportResult{Success: true, Message: MsgImportNothing}
	}

	var books []Book
	if hasBooks {
		if err := json.Unmarshal(raw.Books, &books); err != nil {
			se.logger.Error("storage: import rejected: books section", zap.Error(err))
			return ImportResult{Success: false, Message: MsgImportInvalidFormat}
		}
		var err error
		books, err = NormalizeBooks(books, se.clock.Now().UTC(), se.ids)
		if err != nil {
			se.logger.Error("storage: import rejected: invalid books", zap.Error(err))
			return ImportResult{Success: false, Message: fmt.Sprintf("%s: %v", MsgImportInvalidFormat, err)}
		}
	}

	var patch SettingsPatch
	if hasSettings {
		if err := json.Unmarshal(raw.Settings, &patch); err != nil {
			se.logger.Error("storage: import rejected: settings section", zap.Error(err))
			return ImportResult{Success: false, Message: MsgImportInvalidFormat}
		}
		if err := patch.Validate(); err != nil {
			se.logger.Error("storage: import rejected: invalid settings", zap.Error(err))
			return ImportResult{Success: false, Message: fmt.Sprintf("%s: %v", MsgImportInvalidFormat, err)}
		}
	}

	if hasBooks && !se.SaveBooks(ctx, books) {
		return ImportResult{Success: false, Message: "failed to save imported books"}
	}
	if hasSettings && !se.SaveUserSettings(ctx, patch) {
		return ImportResult{Success: false, Message: "failed to save imported settings"}
	}

	se.logger.Info("storage: data imported",
		zap.Bool("import.books", hasBooks),
		zap.Int("import.count", len(books)),
		zap.Bool("import.settings", hasSettings),
	)
	return ImportResult{Success: true, Message: MsgImportSucceeded}
}

// ClearAll removes both persisted documents. Each removal is published
// so the backup drops the key too.
func (se *StorageEngine) ClearAll(ctx context.Context) bool {
	ok := true
	for _, key := range []string{se.collectionKey, se.settingsKey} {
		if err := se.kv.Delete(ctx, key); err != nil && !errors.Is(err, ErrKeyNotFound) {
			se.logger.Error("storage: failed to delete key", zap.String("key", key), zap.Error(err))
			ok = false
			continue
		}
		se.publish(ctx, Snapshot{Key: key, Deleted: true})
	}
	return ok
}
