package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
)

// bookRow is the parquet layout of a book. Times are kept as RFC3339
// strings so that files stay readable by any parquet tool.
type bookRow struct {
	ID          string  `parquet:"id"`
	Title       string  `parquet:"title"`
	Author      string  `parquet:"author"`
	Year        int64   `parquet:"year"`
	Genre       string  `parquet:"genre"`
	Status      string  `parquet:"status"`
	Rating      float64 `parquet:"rating"`
	Pages       int64   `parquet:"pages"`
	CoverURL    string  `parquet:"cover_url"`
	Description string  `parquet:"description"`
	CreatedAt   string  `parquet:"created_at"`
	UpdatedAt   string  `parquet:"updated_at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

func toBookRow(b Book) bookRow {
	return bookRow{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Year:        int64(b.Year),
		Genre:       b.Genre,
		Status:      string(b.Status),
		Rating:      b.Rating,
		Pages:       int64(b.Pages),
		CoverURL:    b.CoverURL,
		Description: b.Description,
		CreatedAt:   formatTime(b.CreatedAt),
		UpdatedAt:   formatTime(b.UpdatedAt),
	}
}

func (r bookRow) toBook() (Book, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return Book{}, fmt.Errorf("book %s: invalid created_at: %w", r.ID, err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return Book{}, fmt.Errorf("book %s: invalid updated_at: %w", r.ID, err)
	}
	return Book{
		ID:          r.ID,
		Title:       r.Title,
		Author:      r.Author,
		Year:        int(r.Year),
		Genre:       r.Genre,
		Status:      ParseStatus(r.Status),
		Rating:      r.Rating,
		Pages:       int(r.Pages),
		CoverURL:    r.CoverURL,
		Description: r.Description,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

// WriteBooksParquet writes the books as a single parquet file.
func WriteBooksParquet(out io.Writer, books []Book) error {
	rows := make([]bookRow, len(books))
	for i, b := range books {
		rows[i] = toBookRow(b)
	}

	writer := parquet.NewGenericWriter[bookRow](out)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ReadBooksParquet reads every book of a parquet file.
func ReadBooksParquet(in io.ReaderAt, size int64) ([]Book, error) {
	pf, err := parquet.OpenFile(in, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[bookRow](pf)
	defer reader.Close()

	books := make([]Book, 0, pf.NumRows())
	rows := make([]bookRow, 128) // read in batches
	for {
		n, err := reader.Read(rows)
		for _, row := range rows[:n] {
			book, errB := row.toBook()
			if errB != nil {
				return nil, errB
			}
			books = append(books, book)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return books, nil
}

// ReadBooksParquetFile opens the file at path and reads its books.
func ReadBooksParquetFile(path string) ([]Book, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return ReadBooksParquet(file, info.Size())
}
