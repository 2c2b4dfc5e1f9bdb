package main

import (
	"math"
	"sort"
)

const (
	reportListSize      = 5
	topRatedThreshold   = 4.0
	hoursPerReadingBook = 8
)

// BookStats is the compact summary served by the book manager.
type BookStats struct {
	Total         int     `json:"total"`
	Read          int     `json:"read"`
	Reading       int     `json:"reading"`
	Unread        int     `json:"unread"`
	Categories    int     `json:"categories"`
	AverageRating float64 `json:"averageRating"`
}

// CollectionStats holds the aggregated view of a collection.
// It is always recomputed and never persisted.
type CollectionStats struct {
	Total         int            `json:"total"`
	Read          int            `json:"read"`
	Reading       int            `json:"reading"`
	ToRead        int            `json:"toread"`
	AverageRating float64        `json:"averageRating"`
	ByGenre       map[string]int `json:"byGenre"`
	ByYear        map[int]int    `json:"byYear"`
}

// ReadingReport is the detailed report built on top of the statistics.
type ReadingReport struct {
	TopRated              []Book  `json:"topRated"`
	RecentlyAdded         []Book  `json:"recentlyAdded"`
	MostCommonGenre       string  `json:"mostCommonGenre"`
	MostCommonGenreCount  int     `json:"mostCommonGenreCount"`
	EstimatedReadingHours int     `json:"estimatedReadingHours"`
	ReadPercentage        float64 `json:"readPercentage"`
	ReadingGoal           int     `json:"readingGoal"`
	GoalProgress          float64 `json:"goalProgress"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AverageRating computes the mean rating of rated books only, rounded
// to two decimals. It returns 0 when no book has been rated.
func AverageRating(books []Book) float64 {
	var sum float64
	var rated int
	for _, b := range books {
		if b.Rating > 0 {
			sum += b.Rating
			rated++
		}
	}
	if rated == 0 {
		return 0
	}
	return round2(sum / float64(rated))
}

// ComputeStatistics aggregates the collection in a single pass.
func ComputeStatistics(books []Book) CollectionStats {
	stats := CollectionStats{
		Total:         len(books),
		AverageRating: AverageRating(books),
		ByGenre:       make(map[string]int),
		ByYear:        make(map[int]int),
	}
	for _, b := range books {
		switch b.Status {
		case StatusRead:
			stats.Read++
		case StatusReading:
			stats.Reading++
		case StatusToRead:
			stats.ToRead++
		}
		stats.ByGenre[b.Genre]++
		stats.ByYear[b.Year]++
	}
	return stats
}

// ComputeBookStats builds the manager summary. Categories is the
// number of distinct genres.
func ComputeBookStats(books []Book) BookStats {
	full := ComputeStatistics(books)
	return BookStats{
		Total:         full.Total,
		Read:          full.Read,
		Reading:       full.Reading,
		Unread:        full.ToRead,
		Categories:    len(full.ByGenre),
		AverageRating: full.AverageRating,
	}
}

// BuildReadingReport computes the detailed report of the collection
// against the user reading goal.
func BuildReadingReport(books []Book, settings UserSettings) ReadingReport {
	stats := ComputeStatistics(books)
	report := ReadingReport{
		TopRated:              []Book{},
		EstimatedReadingHours: stats.Read * hoursPerReadingBook,
		ReadingGoal:           settings.ReadingGoal,
	}

	for _, b := range books {
		if b.Rating >= topRatedThreshold {
			report.TopRated = append(report.TopRated, b)
		}
	}
	SortBooks(report.TopRated, SortByRating)
	if len(report.TopRated) > reportListSize {
		report.TopRated = report.TopRated[:reportListSize]
	}

	report.RecentlyAdded = append([]Book{}, books...)
	SortBooks(report.RecentlyAdded, SortByDate)
	if len(report.RecentlyAdded) > reportListSize {
		report.RecentlyAdded = report.RecentlyAdded[:reportListSize]
	}

	report.MostCommonGenre, report.MostCommonGenreCount = mostCommon(stats.ByGenre)

	if stats.Total > 0 {
		report.ReadPercentage = round2(float64(stats.Read) / float64(stats.Total) * 100)
	}
	if settings.ReadingGoal > 0 {
		report.GoalProgress = round2(float64(stats.Read) / float64(settings.ReadingGoal) * 100)
	}
	return report
}

// mostCommon returns the key with the highest count. Ties go
// to the alphabetically first key.
func mostCommon(counts map[string]int) (string, int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var best string
	var top int
	for _, k := range keys {
		if counts[k] > top {
			best, top = k, counts[k]
		}
	}
	return best, top
}
