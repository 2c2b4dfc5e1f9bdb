package main

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

// This file contains mocks definitions needed to perform unit tests.

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns the mocked time.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// Advance moves the mocked time forward.
func (mck *MockClocker) Advance(d time.Duration) {
	mck.MockNow = mck.MockNow.Add(d)
}

// MockUIDHandler implements a fake UIDHandler with predictable sequential ids.
type MockUIDHandler struct {
	mu   sync.Mutex
	next int
}

func NewMockUIDHandler() *MockUIDHandler {
	return &MockUIDHandler{}
}

// Generate returns prefix:0, prefix:1 and so on.
func (muid *MockUIDHandler) Generate(prefix string) string {
	muid.mu.Lock()
	defer muid.mu.Unlock()
	id := prefix + ":" + strconv.Itoa(muid.next)
	muid.next++
	return id
}

// MockKeyValueStore wraps an in-memory store and lets tests
// override any operation.
type MockKeyValueStore struct {
	KeyValueStore
	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{KeyValueStore: NewMemoryKVStore()}
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return m.KeyValueStore.Get(ctx, key)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value []byte) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}
	return m.KeyValueStore.Set(ctx, key, value)
}

func (m *MockKeyValueStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	return m.KeyValueStore.Delete(ctx, key)
}

// MockBookStorage implements BookStorage with overridable operations.
// Operations without a mock behave like an empty and healthy storage.
type MockBookStorage struct {
	LoadBooksFunc        func(ctx context.Context) []Book
	SaveBooksFunc        func(ctx context.Context, books []Book) bool
	LoadUserSettingsFunc func(ctx context.Context) UserSettings
	SaveUserSettingsFunc func(ctx context.Context, patch SettingsPatch) bool
	ExportDataFunc       func(ctx context.Context) ([]byte, bool)
	ImportDataFunc       func(ctx context.Context, data []byte) ImportResult
}

func (m *MockBookStorage) LoadBooks(ctx context.Context) []Book {
	if m.LoadBooksFunc != nil {
		return m.LoadBooksFunc(ctx)
	}
	return []Book{}
}

func (m *MockBookStorage) SaveBooks(ctx context.Context, books []Book) bool {
	if m.SaveBooksFunc != nil {
		return m.SaveBooksFunc(ctx, books)
	}
	return true
}

func (m *MockBookStorage) SaveBook(ctx context.Context, book Book) bool {
	return m.SaveBooks(ctx, []Book{book})
}

func (m *MockBookStorage) DeleteBook(ctx context.Context, _ string) bool {
	return m.SaveBooks(ctx, []Book{})
}

func (m *MockBookStorage) LoadUserSettings(ctx context.Context) UserSettings {
	if m.LoadUserSettingsFunc != nil {
		return m.LoadUserSettingsFunc(ctx)
	}
	return DefaultUserSettings()
}

func (m *MockBookStorage) SaveUserSettings(ctx context.Context, patch SettingsPatch) bool {
	if m.SaveUserSettingsFunc != nil {
		return m.SaveUserSettingsFunc(ctx, patch)
	}
	return true
}

func (m *MockBookStorage) ExportData(ctx context.Context) ([]byte, bool) {
	if m.ExportDataFunc != nil {
		return m.ExportDataFunc(ctx)
	}
	return []byte(`{"books":[]}`), true
}

func (m *MockBookStorage) ImportData(ctx context.Context, data []byte) ImportResult {
	if m.ImportDataFunc != nil {
		return m.ImportDataFunc(ctx, data)
	}
	return ImportResult{Success: true, Message: MsgImportSucceeded}
}

func (m *MockBookStorage) ClearAll(_ context.Context) bool {
	return true
}

// MockSeedProvider returns the configured books or error.
type MockSeedProvider struct {
	Books []Book
	Err   error
	Calls int
}

func (m *MockSeedProvider) Seeds(_ context.Context) ([]Book, error) {
	m.Calls++
	return m.Books, m.Err
}

// newTestStorage returns a storage engine over an in-memory store.
func newTestStorage(clock Clocker, kv KeyValueStore) *StorageEngine {
	return NewStorageEngine(zap.NewNop(), nil, clock, NewMockUIDHandler(), kv, nil)
}

// newTestManager returns a book manager over an in-memory storage.
func newTestManager(t interface{ Helper() }, clock Clocker) (*BookManager, *StorageEngine) {
	t.Helper()
	storage := newTestStorage(clock, NewMemoryKVStore())
	return NewBookManager(context.Background(), zap.NewNop(), clock, NewMockUIDHandler(), storage), storage
}

func ptr[T any](v T) *T {
	return &v
}
