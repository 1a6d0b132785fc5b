package importers

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookreviews/internal/entities"
)

// maxReportedProblems caps how many row problems CatalogError prints.
const maxReportedProblems = 10

// CatalogError lists every invalid row of a rejected catalog.
type CatalogError struct {
	Problems []string
}

func (e *CatalogError) Error() string {
	shown := e.Problems
	if len(shown) > maxReportedProblems {
		shown = shown[:maxReportedProblems]
	}
	msg := fmt.Sprintf("catalog has %d invalid rows: %s", len(e.Problems), strings.Join(shown, "; "))
	if len(e.Problems) > len(shown) {
		msg += fmt.Sprintf("; and %d more", len(e.Problems)-len(shown))
	}
	return msg
}

// BookStore is the persistence the loader writes to.
type BookStore interface {
	CreateBooks(ctx context.Context, books []entities.Book) (int, error)
}

// CatalogLoader turns a catalog CSV into books and stores them in one batch.
type CatalogLoader struct {
	store  BookStore
	logger logrus.FieldLogger
}

// NewCatalogLoader creates a loader writing to store.
func NewCatalogLoader(store BookStore, logger logrus.FieldLogger) *CatalogLoader {
	return &CatalogLoader{store: store, logger: logger}
}

// Prepare parses and converts the catalog without writing anything.
// Any invalid row rejects the whole catalog with a *CatalogError.
func (l *CatalogLoader) Prepare(r io.Reader) ([]entities.Book, error) {
	rows, problems, err := ParseCatalog(r)
	if err != nil {
		return nil, err
	}

	books := make([]entities.Book, 0, len(rows))
	for _, row := range rows {
		year, err := strconv.Atoi(row.Year)
		if err != nil {
			problems = append(problems, fmt.Sprintf("Line %d: year %q is not a number", row.Line, row.Year))
			continue
		}
		books = append(books, entities.Book{
			ISBN:   row.ISBN,
			Title:  row.Title,
			Author: row.Author,
			Year:   year,
		})
	}

	if len(problems) > 0 {
		return nil, &CatalogError{Problems: problems}
	}
	return books, nil
}

// Load prepares the catalog and inserts every book in a single transaction.
// Nothing is written unless every row is valid and every insert succeeds.
func (l *CatalogLoader) Load(ctx context.Context, r io.Reader) (int, error) {
	books, err := l.Prepare(r)
	if err != nil {
		return 0, err
	}

	for _, book := range books {
		l.logger.WithFields(logrus.Fields{
			"isbn":   book.ISBN,
			"title":  book.Title,
			"author": book.Author,
			"year":   book.Year,
		}).Debug("queued book")
	}

	inserted, err := l.store.CreateBooks(ctx, books)
	if err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}

	l.logger.WithField("count", inserted).Info("catalog loaded")
	return inserted, nil
}
