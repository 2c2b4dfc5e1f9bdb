package main

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleBooks() []Book {
	base := NewMockClocker().Now()
	return []Book{
		{ID: "b:1", Title: "1984", Author: "George Orwell", Year: 1949, Genre: "Novel", Status: StatusRead, Rating: 5, CreatedAt: base, UpdatedAt: base},
		{ID: "b:2", Title: "Dune", Author: "Frank Herbert", Year: 1965, Genre: "Science Fiction", Status: StatusReading, Rating: 4, CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour), Description: "desert planet"},
		{ID: "b:3", Title: "Émile", Author: "Jean-Jacques Rousseau", Year: 1762, Genre: "Essay", Status: StatusToRead, CreatedAt: base.Add(2 * time.Hour), UpdatedAt: base.Add(2 * time.Hour)},
		{ID: "b:4", Title: "Anna Karenina", Author: "Leo Tolstoy", Year: 1878, Genre: "Novel", Status: StatusRead, Rating: 4.5, CreatedAt: base.Add(3 * time.Hour), UpdatedAt: base.Add(3 * time.Hour)},
	}
}

func bookIDs(books []Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func TestFilterBooks(t *testing.T) {
	books := sampleBooks()

	t.Run("no filter sorts newest first", func(t *testing.T) {
		assert.Equal(t, []string{"b:4", "b:3", "b:2", "b:1"}, bookIDs(FilterBooks(books, FilterSpec{})))
	})

	t.Run("all keyword disables filters", func(t *testing.T) {
		got := FilterBooks(books, FilterSpec{Status: FilterAll, Genre: FilterAll})
		assert.Len(t, got, 4)
	})

	t.Run("status", func(t *testing.T) {
		assert.Equal(t, []string{"b:4", "b:1"}, bookIDs(FilterBooks(books, FilterSpec{Status: "read"})))
		assert.Equal(t, []string{"b:3"}, bookIDs(FilterBooks(books, FilterSpec{Status: "unread"})))
		// the match is exact.
		assert.Empty(t, FilterBooks(books, FilterSpec{Status: "READ"}))
		assert.Empty(t, FilterBooks(books, FilterSpec{Status: " read"}))
	})

	t.Run("genre and year", func(t *testing.T) {
		assert.Equal(t, []string{"b:4", "b:1"}, bookIDs(FilterBooks(books, FilterSpec{Genre: "Novel"})))
		assert.Equal(t, []string{"b:2"}, bookIDs(FilterBooks(books, FilterSpec{Year: 1965})))
	})

	t.Run("search ignores case and covers description", func(t *testing.T) {
		assert.Equal(t, []string{"b:1"}, bookIDs(FilterBooks(books, FilterSpec{Search: "ORWELL"})))
		assert.Equal(t, []string{"b:2"}, bookIDs(FilterBooks(books, FilterSpec{Search: "desert"})))
		assert.Empty(t, FilterBooks(books, FilterSpec{Search: "nothing like this"}))
	})

	t.Run("search 19 then rating sort", func(t *testing.T) {
		got := FilterBooks(books, FilterSpec{Search: "19", Sort: SortByRating})
		assert.Equal(t, []string{"b:1"}, bookIDs(got))
	})

	t.Run("sort by rating", func(t *testing.T) {
		got := FilterBooks(books, FilterSpec{Sort: SortByRating})
		assert.Equal(t, []string{"b:1", "b:4", "b:2", "b:3"}, bookIDs(got))
	})

	t.Run("sort by year", func(t *testing.T) {
		got := FilterBooks(books, FilterSpec{Sort: SortByYear})
		assert.Equal(t, []string{"b:2", "b:1", "b:4", "b:3"}, bookIDs(got))
	})

	t.Run("sort by title uses collation", func(t *testing.T) {
		got := FilterBooks(books, FilterSpec{Sort: SortByTitle})
		assert.Equal(t, []string{"b:1", "b:4", "b:2", "b:3"}, bookIDs(got))
	})

	t.Run("idempotent and input untouched", func(t *testing.T) {
		spec := FilterSpec{Status: "read", Sort: SortByTitle}
		once := FilterBooks(books, spec)
		twice := FilterBooks(once, spec)
		assert.Equal(t, once, twice)
		assert.Equal(t, sampleBooks(), books)
	})

	t.Run("empty collection", func(t *testing.T) {
		got := FilterBooks(nil, FilterSpec{Sort: SortByRating})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestParseFilterSpec(t *testing.T) {
	t.Run("full query", func(t *testing.T) {
		q := url.Values{}
		q.Set("status", "read")
		q.Set("genre", "Novel")
		q.Set("year", "1949")
		q.Set("search", "orwell")
		q.Set("sort", "Rating")
		spec, err := ParseFilterSpec(q)
		require.NoError(t, err)
		assert.Equal(t, FilterSpec{Status: "read", Genre: "Novel", Year: 1949, Search: "orwell", Sort: SortByRating}, spec)
	})

	t.Run("year all", func(t *testing.T) {
		spec, err := ParseFilterSpec(url.Values{"year": {"all"}})
		require.NoError(t, err)
		assert.Zero(t, spec.Year)
	})

	t.Run("invalid year", func(t *testing.T) {
		_, err := ParseFilterSpec(url.Values{"year": {"nineteen"}})
		assert.Error(t, err)
	})

	t.Run("invalid sort", func(t *testing.T) {
		_, err := ParseFilterSpec(url.Values{"sort": {"pages"}})
		assert.Error(t, err)
	})
}
