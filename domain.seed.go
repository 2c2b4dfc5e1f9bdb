package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// SeedProvider supplies the sample books of a first run.
type SeedProvider interface {
	Seeds(ctx context.Context) ([]Book, error)
}

var (
	_ SeedProvider = DefaultSeedProvider{}
	_ SeedProvider = (*FileSeedProvider)(nil)
	_ SeedProvider = (*FallbackSeedProvider)(nil)
)

// DefaultSeedProvider serves a small built-in selection of books.
type DefaultSeedProvider struct{}

func (DefaultSeedProvider) Seeds(_ context.Context) ([]Book, error) {
	return []Book{
		{
			Title: "1984", Author: "George Orwell", Year: 1949, Genre: "Novel", Pages: 328,
			Status: StatusRead, Rating: 5, Description: "A landmark of dystopian fiction.",
		},
		{
			Title: "Crime and Punishment", Author: "Fyodor Dostoevsky", Year: 1866, Genre: "Novel", Pages: 671,
			Status: StatusRead, Rating: 5, Description: "A cornerstone of Russian literature.",
		},
		{
			Title: "The Disconnected", Author: "Oğuz Atay", Year: 1972, Genre: "Novel", Pages: 724,
			Status: StatusReading, Rating: 5, Description: "A summit of modern Turkish literature.",
		},
		{
			Title: "The Alchemist", Author: "Paulo Coelho", Year: 1988, Genre: "Novel", Pages: 176,
			Status: StatusRead, Rating: 4.5, Description: "An inspiring tale about following one's own legend.",
		},
		{
			Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", Year: 1954, Genre: "Fantasy", Pages: 1178,
			Status: StatusReading, Rating: 5, Description: "The masterpiece of fantasy literature.",
		},
		{
			Title: "Sapiens", Author: "Yuval Noah Harari", Year: 2011, Genre: "History", Pages: 443,
			Status: StatusToRead, Description: "A different look at the history of humankind.",
		},
	}, nil
}

// FileSeedProvider reads the books from a JSON or a parquet file. A JSON
// file holds either an array of books or an export envelope.
type FileSeedProvider struct {
	Path string
}

func (fp *FileSeedProvider) Seeds(_ context.Context) ([]Book, error) {
	if strings.EqualFold(filepath.Ext(fp.Path), ".parquet") {
		return ReadBooksParquetFile(fp.Path)
	}

	data, err := os.ReadFile(fp.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return DecodeBooksJSON(data)
}

// DecodeBooksJSON accepts a bare array of books or an object holding
// them under the `books` key.
func DecodeBooksJSON(data []byte) ([]Book, error) {
	var books []Book
	errA := json.Unmarshal(data, &books)
	if errA == nil {
		return books, nil
	}

	var envelope struct {
		Books []Book `json:"books"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || envelope.Books == nil {
		return nil, fmt.Errorf("invalid books document: %w", errA)
	}
	return envelope.Books, nil
}

// FallbackSeedProvider returns the books of the first provider that succeeds.
type FallbackSeedProvider struct {
	logger    *zap.Logger
	providers []SeedProvider
}

func NewFallbackSeedProvider(logger *zap.Logger, providers ...SeedProvider) *FallbackSeedProvider {
	return &FallbackSeedProvider{logger: logger, providers: providers}
}

func (fp *FallbackSeedProvider) Seeds(ctx context.Context) ([]Book, error) {
	errs := make([]error, 0, len(fp.providers))
	for i, p := range fp.providers {
		books, err := p.Seeds(ctx)
		if err == nil {
			return books, nil
		}
		fp.logger.Warn("seed: provider failed, trying next", zap.Int("provider", i), zap.Error(err))
		errs = append(errs, err)
	}
	return nil, errors.Join(append([]error{errors.New("no seed provider succeeded")}, errs...)...)
}

// NewSeedProvider builds the provider matching the seed configuration.
// It returns nil when seeding is disabled. A seed file falls back to the
// built-in books when it cannot be read.
func NewSeedProvider(logger *zap.Logger, config *SeedConfig) SeedProvider {
	switch config.Source {
	case SeedSourceNone:
		return nil
	case SeedSourceFile:
		return NewFallbackSeedProvider(logger, &FileSeedProvider{Path: config.FilePath}, DefaultSeedProvider{})
	default:
		return DefaultSeedProvider{}
	}
}

// NormalizeBooks fills the missing generated fields of external books,
// then validates them and rejects duplicate ids. It fails on the first
// invalid book and returns a new slice.
func NormalizeBooks(books []Book, now time.Time, ids UIDHandler) ([]Book, error) {
	out := make([]Book, 0, len(books))
	seen := make(map[string]struct{}, len(books))
	for i, b := range books {
		if strings.TrimSpace(b.ID) == "" {
			b.ID = ids.Generate(BookIDPrefix)
		}
		b.Title = strings.TrimSpace(b.Title)
		b.Author = strings.TrimSpace(b.Author)
		if b.Year == 0 {
			b.Year = now.Year()
		}
		if strings.TrimSpace(b.Genre) == "" {
			b.Genre = DefaultGenre
		}
		if b.Status == "" {
			b.Status = StatusToRead
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = now
		}
		if b.UpdatedAt.IsZero() {
			b.UpdatedAt = now
		}
		if b.UpdatedAt.Before(b.CreatedAt) {
			b.UpdatedAt = b.CreatedAt
		}

		if res := b.Validate(); !res.IsValid {
			return nil, fmt.Errorf("book %d (%s): %s", i, b.Title, strings.Join(res.Errors, ", "))
		}
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("book %d (%s): duplicate id %s", i, b.Title, b.ID)
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	return out, nil
}
