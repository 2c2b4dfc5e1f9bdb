package main

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrStorageFailure = errors.New("failed to persist the book collection")
)

var _ BookServiceProvider = (*BookManager)(nil) // ensure BookManager implements BookServiceProvider.

type BookServiceProvider interface {
	AddBook(ctx context.Context, in BookInput) (Book, error)
	UpdateBook(ctx context.Context, id string, in BookInput) (Book, error)
	DeleteBook(ctx context.Context, id string) (Book, error)
	GetAllBooks() []Book
	GetBookByID(id string) (Book, bool)
	SearchBooks(query string) []Book
	GetStats() BookStats
	GetBooksByGenre(genre string) []Book
	GetBooksByStatus(status string) []Book
	ReplaceAll(ctx context.Context, books []Book) (int, error)
	Import(ctx context.Context, data []byte) ImportResult
	ClearAll(ctx context.Context) error
	Reset(ctx context.Context) error
	Reload(ctx context.Context)
	Initialize(ctx context.Context, seeds SeedProvider) (int, error)
}

// BookManager owns the in-memory book collection and keeps it in sync
// with the storage after every mutation. A mutation is committed in
// memory only once the storage accepted it.
type BookManager struct {
	logger  *zap.Logger
	clock   Clocker
	ids     UIDHandler
	storage BookStorage

	mu    sync.RWMutex
	books []Book
}

// NewBookManager provides a book manager loaded with the persisted collection.
func NewBookManager(ctx context.Context, logger *zap.Logger, clock Clocker, ids UIDHandler, storage BookStorage) *BookManager {
	return &BookManager{
		logger:  logger,
		clock:   clock,
		ids:     ids,
		storage: storage,
		books:   storage.LoadBooks(ctx),
	}
}

// newID generates an id not used by any book of the collection.
// The caller must hold the lock.
func (bm *BookManager) newID() string {
	for {
		id := bm.ids.Generate(BookIDPrefix)
		if bm.indexOf(id) == -1 {
			return id
		}
	}
}

// indexOf expects the caller to hold the lock.
func (bm *BookManager) indexOf(id string) int {
	for i := range bm.books {
		if bm.books[i].ID == id {
			return i
		}
	}
	return -1
}

// commit persists the next collection and makes it current on success.
// The caller must hold the write lock.
func (bm *BookManager) commit(ctx context.Context, next []Book) error {
	if !bm.storage.SaveBooks(ctx, next) {
		return ErrStorageFailure
	}
	bm.books = next
	return nil
}

func (bm *BookManager) copyBooks() []Book {
	out := make([]Book, len(bm.books))
	copy(out, bm.books)
	return out
}

// AddBook creates a book from the input, fills the missing fields with
// their defaults and appends it to the collection. The input is not validated.
func (bm *BookManager) AddBook(ctx context.Context, in BookInput) (Book, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	book := NewBook(bm.newID(), in, bm.clock.Now().UTC())
	next := append(bm.copyBooks(), book)
	if err := bm.commit(ctx, next); err != nil {
		bm.logger.Error("manager: failed to add book", zap.String("book.id", book.ID), zap.Error(err))
		return Book{}, err
	}
	bm.logger.Info("manager: book added", zap.String("book.id", book.ID), zap.String("book.title", book.Title))
	return book, nil
}

// UpdateBook writes the provided fields over the stored book. The id and
// the creation time are preserved and the update time is refreshed.
func (bm *BookManager) UpdateBook(ctx context.Context, id string, in BookInput) (Book, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	idx := bm.indexOf(id)
	if idx == -1 {
		return Book{}, ErrBookNotFound
	}

	book := bm.books[idx].Merge(in)
	if book.Genre == "" {
		book.Genre = DefaultGenre
	}
	book.UpdatedAt = bm.clock.Now().UTC()
	if book.UpdatedAt.Before(book.CreatedAt) {
		book.UpdatedAt = book.CreatedAt
	}

	next := bm.copyBooks()
	next[idx] = book
	if err := bm.commit(ctx, next); err != nil {
		bm.logger.Error("manager: failed to update book", zap.String("book.id", id), zap.Error(err))
		return Book{}, err
	}
	bm.logger.Info("manager: book updated", zap.String("book.id", id))
	return book, nil
}

// DeleteBook removes the book and returns it.
func (bm *BookManager) DeleteBook(ctx context.Context, id string) (Book, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	idx := bm.indexOf(id)
	if idx == -1 {
		return Book{}, ErrBookNotFound
	}

	removed := bm.books[idx]
	next := make([]Book, 0, len(bm.books)-1)
	next = append(next, bm.books[:idx]...)
	next = append(next, bm.books[idx+1:]...)
	if err := bm.commit(ctx, next); err != nil {
		bm.logger.Error("manager: failed to delete book", zap.String("book.id", id), zap.Error(err))
		return Book{}, err
	}
	bm.logger.Info("manager: book deleted", zap.String("book.id", id), zap.String("book.title", removed.Title))
	return removed, nil
}

// GetAllBooks returns a copy of the collection.
func (bm *BookManager) GetAllBooks() []Book {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return bm.copyBooks()
}

func (bm *BookManager) GetBookByID(id string) (Book, bool) {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	if idx := bm.indexOf(id); idx != -1 {
		return bm.books[idx], true
	}
	return Book{}, false
}

func (bm *BookManager) filter(keep func(Book) bool) []Book {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	result := []Book{}
	for _, b := range bm.books {
		if keep(b) {
			result = append(result, b)
		}
	}
	return result
}

// SearchBooks matches the query against title, author and genre, ignoring case.
func (bm *BookManager) SearchBooks(query string) []Book {
	term := strings.ToLower(query)
	return bm.filter(func(b Book) bool {
		return matchesSearch(b, term, false)
	})
}

func (bm *BookManager) GetBooksByGenre(genre string) []Book {
	return bm.filter(func(b Book) bool {
		return b.Genre == genre
	})
}

func (bm *BookManager) GetBooksByStatus(status string) []Book {
	st := QueryStatus(status)
	return bm.filter(func(b Book) bool {
		return b.Status == st
	})
}

func (bm *BookManager) GetStats() BookStats {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return ComputeBookStats(bm.books)
}

// ReplaceAll swaps the whole collection with the given books once they
// are normalized and valid.
func (bm *BookManager) ReplaceAll(ctx context.Context, books []Book) (int, error) {
	books, err := NormalizeBooks(books, bm.clock.Now().UTC(), bm.ids)
	if err != nil {
		return 0, err
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()
	if err = bm.commit(ctx, books); err != nil {
		return 0, err
	}
	bm.logger.Info("manager: collection replaced", zap.Int("count", len(books)))
	return len(books), nil
}

// Import applies an export document through the storage and reloads the
// collection. The lock is held across both steps so no concurrent mutation
// is overwritten by the imported books.
func (bm *BookManager) Import(ctx context.Context, data []byte) ImportResult {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	result := bm.storage.ImportData(ctx, data)
	if result.Success {
		bm.books = bm.storage.LoadBooks(ctx)
	}
	return result
}

// Reset removes the books and the user settings.
func (bm *BookManager) Reset(ctx context.Context) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if !bm.storage.ClearAll(ctx) {
		return ErrStorageFailure
	}
	bm.books = []Book{}
	bm.logger.Info("manager: all data removed")
	return nil
}

// ClearAll empties the collection. The user settings are kept.
func (bm *BookManager) ClearAll(ctx context.Context) error {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if err := bm.commit(ctx, []Book{}); err != nil {
		return err
	}
	bm.logger.Info("manager: collection cleared")
	return nil
}

// Reload replaces the in-memory collection with the persisted one.
func (bm *BookManager) Reload(ctx context.Context) {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	bm.books = bm.storage.LoadBooks(ctx)
}

// Initialize populates an empty collection from the seed provider and
// returns the number of books added. It does nothing when the collection
// already holds books or when no provider is given.
func (bm *BookManager) Initialize(ctx context.Context, seeds SeedProvider) (int, error) {
	if seeds == nil {
		return 0, nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()
	if len(bm.books) > 0 {
		return 0, nil
	}

	books, err := seeds.Seeds(ctx)
	if err != nil {
		return 0, err
	}
	if len(books) == 0 {
		return 0, nil
	}

	books, err = NormalizeBooks(books, bm.clock.Now().UTC(), bm.ids)
	if err != nil {
		return 0, err
	}
	if err = bm.commit(ctx, books); err != nil {
		return 0, err
	}
	bm.logger.Info("manager: collection seeded", zap.Int("count", len(books)))
	return len(books), nil
}
