package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDefaultSeedProvider(t *testing.T) {
	books, err := DefaultSeedProvider{}.Seeds(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 6)

	normalized, err := NormalizeBooks(books, NewMockClocker().Now(), NewIDsHandler())
	require.NoError(t, err)
	for _, b := range normalized {
		assert.True(t, b.Validate().IsValid, b.Title)
		assert.NotEmpty(t, b.ID)
	}
}

func TestDecodeBooksJSON(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		books, err := DecodeBooksJSON([]byte(`[{"title":"T","author":"A"}]`))
		require.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("envelope", func(t *testing.T) {
		books, err := DecodeBooksJSON([]byte(`{"books":[{"title":"T","author":"A"},{"title":"U","author":"B"}]}`))
		require.NoError(t, err)
		assert.Len(t, books, 2)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := DecodeBooksJSON([]byte(`{"settings":{}}`))
		assert.Error(t, err)
		_, err = DecodeBooksJSON([]byte(`garbage`))
		assert.Error(t, err)
	})
}

func TestNormalizeBooks(t *testing.T) {
	now := NewMockClocker().Now()

	t.Run("fills generated fields", func(t *testing.T) {
		books, err := NormalizeBooks([]Book{{Title: " T ", Author: "A"}}, now, NewMockUIDHandler())
		require.NoError(t, err)
		require.Len(t, books, 1)
		b := books[0]
		assert.Equal(t, "b:0", b.ID)
		assert.Equal(t, "T", b.Title)
		assert.Equal(t, now.Year(), b.Year)
		assert.Equal(t, DefaultGenre, b.Genre)
		assert.Equal(t, StatusToRead, b.Status)
		assert.Equal(t, now, b.CreatedAt)
		assert.Equal(t, now, b.UpdatedAt)
	})

	t.Run("update time never precedes creation", func(t *testing.T) {
		books, err := NormalizeBooks([]Book{{Title: "T", Author: "A", CreatedAt: now, UpdatedAt: now.Add(-time.Hour)}}, now, NewMockUIDHandler())
		require.NoError(t, err)
		assert.Equal(t, now, books[0].UpdatedAt)
	})

	t.Run("duplicate ids", func(t *testing.T) {
		_, err := NormalizeBooks([]Book{{ID: "x", Title: "T", Author: "A"}, {ID: "x", Title: "U", Author: "B"}}, now, NewMockUIDHandler())
		assert.ErrorContains(t, err, "duplicate id x")
	})

	t.Run("invalid book", func(t *testing.T) {
		_, err := NormalizeBooks([]Book{{Title: "T", Author: "A", Rating: 9}}, now, NewMockUIDHandler())
		assert.ErrorContains(t, err, "rating must be between 0 and 5")
	})

	t.Run("input untouched", func(t *testing.T) {
		in := []Book{{Title: "T", Author: "A"}}
		_, err := NormalizeBooks(in, now, NewMockUIDHandler())
		require.NoError(t, err)
		assert.Empty(t, in[0].ID)
	})
}

func TestFileSeedProvider(t *testing.T) {
	dir := t.TempDir()

	t.Run("json file", func(t *testing.T) {
		path := filepath.Join(dir, "seed.json")
		require.NoError(t, os.WriteFile(path, []byte(`[{"title":"T","author":"A"}]`), 0o600))
		books, err := (&FileSeedProvider{Path: path}).Seeds(context.Background())
		require.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("parquet file", func(t *testing.T) {
		path := filepath.Join(dir, "seed.parquet")
		f, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, WriteBooksParquet(f, sampleBooks()))
		require.NoError(t, f.Close())

		books, err := (&FileSeedProvider{Path: path}).Seeds(context.Background())
		require.NoError(t, err)
		assert.Equal(t, sampleBooks(), books)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := (&FileSeedProvider{Path: filepath.Join(dir, "none.json")}).Seeds(context.Background())
		assert.Error(t, err)
	})
}

func TestFallbackSeedProvider(t *testing.T) {
	failing := &MockSeedProvider{Err: errors.New("unreachable")}
	working := &MockSeedProvider{Books: []Book{{Title: "T", Author: "A"}}}

	t.Run("first success wins", func(t *testing.T) {
		fp := NewFallbackSeedProvider(zap.NewNop(), failing, working)
		books, err := fp.Seeds(context.Background())
		require.NoError(t, err)
		assert.Len(t, books, 1)
	})

	t.Run("all fail", func(t *testing.T) {
		fp := NewFallbackSeedProvider(zap.NewNop(), failing, failing)
		_, err := fp.Seeds(context.Background())
		assert.Error(t, err)
		assert.ErrorContains(t, err, "unreachable")
	})
}

func TestNewSeedProvider(t *testing.T) {
	assert.Nil(t, NewSeedProvider(zap.NewNop(), &SeedConfig{Source: SeedSourceNone}))
	assert.IsType(t, DefaultSeedProvider{}, NewSeedProvider(zap.NewNop(), &SeedConfig{Source: SeedSourceDefault}))

	// an unreadable seed file falls back to the built-in books.
	sp := NewSeedProvider(zap.NewNop(), &SeedConfig{Source: SeedSourceFile, FilePath: "/does/not/exist.json"})
	books, err := sp.Seeds(context.Background())
	require.NoError(t, err)
	assert.Len(t, books, 6)
}
