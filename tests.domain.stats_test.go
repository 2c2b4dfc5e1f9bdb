package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAverageRating(t *testing.T) {
	assert.Zero(t, AverageRating(nil))
	assert.Zero(t, AverageRating([]Book{{Rating: 0}, {Rating: 0}}))
	// unrated books are ignored.
	assert.Equal(t, 4.5, AverageRating([]Book{{Rating: 5}, {Rating: 4}, {Rating: 0}}))
	assert.Equal(t, 4.33, AverageRating([]Book{{Rating: 5}, {Rating: 4}, {Rating: 4}}))
}

func TestComputeStatistics(t *testing.T) {
	stats := ComputeStatistics(sampleBooks())
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Read)
	assert.Equal(t, 1, stats.Reading)
	assert.Equal(t, 1, stats.ToRead)
	assert.Equal(t, 4.5, stats.AverageRating)
	assert.Equal(t, map[string]int{"Novel": 2, "Science Fiction": 1, "Essay": 1}, stats.ByGenre)
	assert.Equal(t, map[int]int{1949: 1, 1965: 1, 1762: 1, 1878: 1}, stats.ByYear)
	assert.Equal(t, stats.Total, stats.Read+stats.Reading+stats.ToRead)

	empty := ComputeStatistics([]Book{})
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.AverageRating)
	assert.Empty(t, empty.ByGenre)
}

func TestComputeBookStats(t *testing.T) {
	stats := ComputeBookStats(sampleBooks())
	assert.Equal(t, BookStats{Total: 4, Read: 2, Reading: 1, Unread: 1, Categories: 3, AverageRating: 4.5}, stats)
}

func TestBuildReadingReport(t *testing.T) {
	books := sampleBooks()
	report := BuildReadingReport(books, UserSettings{ReadingGoal: 4})

	assert.Equal(t, []string{"b:1", "b:4", "b:2"}, bookIDs(report.TopRated))
	assert.Equal(t, []string{"b:4", "b:3", "b:2", "b:1"}, bookIDs(report.RecentlyAdded))
	assert.Equal(t, "Novel", report.MostCommonGenre)
	assert.Equal(t, 2, report.MostCommonGenreCount)
	assert.Equal(t, 16, report.EstimatedReadingHours)
	assert.Equal(t, 50.0, report.ReadPercentage)
	assert.Equal(t, 4, report.ReadingGoal)
	assert.Equal(t, 50.0, report.GoalProgress)

	t.Run("lists are capped", func(t *testing.T) {
		many := make([]Book, 0, 8)
		base := NewMockClocker().Now()
		for i := 0; i < 8; i++ {
			many = append(many, Book{ID: "b", Genre: "Novel", Rating: 5, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		}
		r := BuildReadingReport(many, DefaultUserSettings())
		assert.Len(t, r.TopRated, 5)
		assert.Len(t, r.RecentlyAdded, 5)
		assert.Equal(t, base.Add(7*time.Minute), r.RecentlyAdded[0].CreatedAt)
	})

	t.Run("empty collection and no goal", func(t *testing.T) {
		r := BuildReadingReport([]Book{}, UserSettings{})
		assert.Empty(t, r.TopRated)
		assert.Empty(t, r.RecentlyAdded)
		assert.Zero(t, r.ReadPercentage)
		assert.Zero(t, r.GoalProgress)
		assert.Equal(t, "", r.MostCommonGenre)
	})

	t.Run("genre tie goes to the first name", func(t *testing.T) {
		r := BuildReadingReport([]Book{{Genre: "Poetry"}, {Genre: "Essay"}}, UserSettings{})
		assert.Equal(t, "Essay", r.MostCommonGenre)
		assert.Equal(t, 1, r.MostCommonGenreCount)
	})
}

func TestStatisticsScenario(t *testing.T) {
	now := NewMockClocker().Now()
	books := []Book{
		NewBook("b:1", BookInput{Title: ptr("1984"), Author: ptr("George Orwell"), Year: ptr(1949), Rating: ptr(4.0)}, now),
		NewBook("b:2", BookInput{Title: ptr("Dune"), Author: ptr("Frank Herbert"), Year: ptr(1965), Rating: ptr(0.0)}, now.Add(time.Minute)),
	}

	found := FilterBooks(books, FilterSpec{Search: "dune"})
	assert.Equal(t, []string{"b:2"}, bookIDs(found))

	stats := ComputeStatistics(books)
	assert.Equal(t, 2, stats.Total)
	assert.Zero(t, stats.Read)
	assert.Equal(t, 4.0, stats.AverageRating)
	assert.Equal(t, map[int]int{1949: 1, 1965: 1}, stats.ByYear)

	// rating order holds whatever the insertion order.
	rated := FilterBooks([]Book{books[1], books[0]}, FilterSpec{Sort: SortByRating})
	assert.Equal(t, []string{"b:1", "b:2"}, bookIDs(rated))
}
