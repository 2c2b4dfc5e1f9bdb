package main

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Status represents the reading state of a book.
type Status string

const (
	StatusToRead  Status = "toread"
	StatusReading Status = "reading"
	StatusRead    Status = "read"
)

const (
	DefaultGenre = "Other"
	MinBookYear  = 1000
	MaxRating    = 5.0
)

// ParseStatus normalizes a raw status value. The legacy `unread`
// value is an alias of `toread`.
func ParseStatus(s string) Status {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "unread" {
		return StatusToRead
	}
	return Status(s)
}

// QueryStatus maps a status used for lookups. Only the legacy alias is
// mapped, any other value must match exactly.
func QueryStatus(s string) Status {
	if s == "unread" {
		return StatusToRead
	}
	return Status(s)
}

// Book represents a book entity of the collection.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"notblank"`
	Author      string    `json:"author" validate:"notblank"`
	Year        int       `json:"year" validate:"bookyear"`
	Genre       string    `json:"genre"`
	Status      Status    `json:"status" validate:"oneof=toread reading read"`
	Rating      float64   `json:"rating" validate:"gte=0,lte=5"`
	Pages       int       `json:"pages" validate:"gte=0"`
	CoverURL    string    `json:"coverUrl"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UnmarshalJSON accepts the `category` and `notes` field names used by
// older sample files in addition to `genre` and `description`.
func (b *Book) UnmarshalJSON(data []byte) error {
	type bookAlias Book
	aux := struct {
		*bookAlias
		Category string `json:"category"`
		Notes    string `json:"notes"`
	}{bookAlias: (*bookAlias)(b)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if b.Genre == "" {
		b.Genre = aux.Category
	}
	if b.Description == "" {
		b.Description = aux.Notes
	}
	b.Status = ParseStatus(string(b.Status))
	return nil
}

// BookInput holds the user editable fields of a book. A nil field
// means "not provided". There is no way to express id or timestamps.
type BookInput struct {
	Title       *string  `json:"title,omitempty"`
	Author      *string  `json:"author,omitempty"`
	Year        *int     `json:"year,omitempty"`
	Genre       *string  `json:"genre,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	Pages       *int     `json:"pages,omitempty"`
	CoverURL    *string  `json:"coverUrl,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// UnmarshalJSON maps the `category` and `notes` aliases.
func (in *BookInput) UnmarshalJSON(data []byte) error {
	type inputAlias BookInput
	aux := struct {
		*inputAlias
		Category *string `json:"category"`
		Notes    *string `json:"notes"`
	}{inputAlias: (*inputAlias)(in)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if in.Genre == nil {
		in.Genre = aux.Category
	}
	if in.Description == nil {
		in.Description = aux.Notes
	}
	return nil
}

// NewBook builds a book from the given input and fills every
// missing optional field with its default value.
func NewBook(id string, in BookInput, now time.Time) Book {
	b := Book{
		ID:        id,
		Year:      now.Year(),
		Genre:     DefaultGenre,
		Status:    StatusToRead,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b = b.Merge(in)
	if b.Year == 0 {
		b.Year = now.Year()
	}
	if b.Genre == "" {
		b.Genre = DefaultGenre
	}
	if b.Status == "" {
		b.Status = StatusToRead
	}
	return b
}

// Merge returns a copy of the book with every provided field of the input
// written over it. Only editable fields are listed here, so id and
// timestamps always survive a merge.
func (b Book) Merge(in BookInput) Book {
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	if in.Year != nil {
		b.Year = *in.Year
	}
	if in.Genre != nil {
		b.Genre = strings.TrimSpace(*in.Genre)
	}
	if in.Status != nil {
		b.Status = ParseStatus(*in.Status)
	}
	if in.Rating != nil {
		b.Rating = *in.Rating
	}
	if in.Pages != nil {
		b.Pages = *in.Pages
	}
	if in.CoverURL != nil {
		b.CoverURL = *in.CoverURL
	}
	if in.Description != nil {
		b.Description = *in.Description
	}
	return b
}

// ValidationResult is the outcome of a book validation.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("notblank", validateNotBlank)
	_ = validate.RegisterValidation("bookyear", validateBookYear)
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateBookYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	return year >= MinBookYear && year <= int64(MaxBookYear())
}

// MaxBookYear is the latest publication year accepted.
func MaxBookYear() int {
	return time.Now().Year() + 5
}

// Validate checks the book fields and reports one message per invalid field.
func (b Book) Validate() ValidationResult {
	result := ValidationResult{IsValid: true, Errors: []string{}}
	err := validate.Struct(b)
	if err == nil {
		return result
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		result.IsValid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	for _, fe := range verrs {
		result.Errors = append(result.Errors, validationMessage(fe))
	}
	result.IsValid = false
	return result
}

func validationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "notblank":
		return fmt.Sprintf("%s is required", field)
	case "bookyear":
		return fmt.Sprintf("%s must be between %d and %d", field, MinBookYear, MaxBookYear())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte", "lte":
		if field == "rating" {
			return fmt.Sprintf("%s must be between 0 and %g", field, MaxRating)
		}
		return fmt.Sprintf("%s must not be negative", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Genres returns the predefined list of genres. Books may
// carry any other genre value.
func Genres() []string {
	return []string{
		"Novel",
		"Science Fiction",
		"Fantasy",
		"History",
		"Biography",
		"Self-Help",
		"Crime",
		"Adventure",
		"Children",
		"Poetry",
		"Essay",
		DefaultGenre,
	}
}

// RatingStars splits a rating into full, half and empty stars on a 5 stars scale.
func RatingStars(rating float64) (full, half, empty int) {
	rating = math.Max(0, math.Min(MaxRating, rating))
	full = int(math.Floor(rating))
	if rating-float64(full) >= 0.5 {
		half = 1
	}
	empty = int(MaxRating) - full - half
	return full, half, empty
}

// RatingLabel renders the rating as a stars string.
func RatingLabel(rating float64) string {
	full, half, empty := RatingStars(rating)
	return strings.Repeat("★", full) + strings.Repeat("½", half) + strings.Repeat("☆", empty)
}
