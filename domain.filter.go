package main

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey defines the ordering applied by FilterBooks.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByTitle  SortKey = "title"
	SortByYear   SortKey = "year"
	SortByRating SortKey = "rating"
)

// FilterAll disables a status or genre filter.
const FilterAll = "all"

// FilterSpec describes which books to keep and how to order them.
// Zero values mean "no filter" and the default date ordering.
type FilterSpec struct {
	Status string  `json:"status"`
	Genre  string  `json:"genre"`
	Year   int     `json:"year"`
	Search string  `json:"search"`
	Sort   SortKey `json:"sort"`
}

// ParseFilterSpec builds a FilterSpec from query parameters. The year
// is always converted to an integer so comparisons never mix types.
func ParseFilterSpec(q url.Values) (FilterSpec, error) {
	spec := FilterSpec{
		Status: q.Get("status"),
		Genre:  q.Get("genre"),
		Search: q.Get("search"),
		Sort:   SortKey(strings.ToLower(strings.TrimSpace(q.Get("sort")))),
	}

	if y := strings.TrimSpace(q.Get("year")); y != "" && y != FilterAll {
		year, err := strconv.Atoi(y)
		if err != nil {
			return spec, fmt.Errorf("invalid year filter %q", y)
		}
		spec.Year = year
	}

	switch spec.Sort {
	case "", SortByDate, SortByTitle, SortByYear, SortByRating:
	default:
		return spec, fmt.Errorf("invalid sort key %q", spec.Sort)
	}
	return spec, nil
}

func isAll(v string) bool {
	return v == "" || v == FilterAll
}

// FilterBooks returns the books matching every filter of the FilterSpec,
// ordered by its sort key. The input slice is never modified.
func FilterBooks(books []Book, spec FilterSpec) []Book {
	term := strings.ToLower(strings.TrimSpace(spec.Search))
	status := QueryStatus(spec.Status)

	result := make([]Book, 0, len(books))
	for _, b := range books {
		if term != "" && !matchesSearch(b, term, true) {
			continue
		}
		if !isAll(spec.Genre) && b.Genre != spec.Genre {
			continue
		}
		if !isAll(spec.Status) && b.Status != status {
			continue
		}
		if spec.Year != 0 && b.Year != spec.Year {
			continue
		}
		result = append(result, b)
	}

	SortBooks(result, spec.Sort)
	return result
}

// matchesSearch expects an already lower-cased term.
func matchesSearch(b Book, term string, withDescription bool) bool {
	if strings.Contains(strings.ToLower(b.Title), term) ||
		strings.Contains(strings.ToLower(b.Author), term) ||
		strings.Contains(strings.ToLower(b.Genre), term) {
		return true
	}
	return withDescription && strings.Contains(strings.ToLower(b.Description), term)
}

// SortBooks orders the books in place. The sort is stable.
func SortBooks(books []Book, key SortKey) {
	switch key {
	case SortByTitle:
		c := collate.New(language.Und)
		sort.SliceStable(books, func(i, j int) bool {
			return c.CompareString(books[i].Title, books[j].Title) < 0
		})
	case SortByYear:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].Year > books[j].Year
		})
	case SortByRating:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].Rating > books[j].Rating
		})
	default:
		sort.SliceStable(books, func(i, j int) bool {
			return books[i].CreatedAt.After(books[j].CreatedAt)
		})
	}
}
