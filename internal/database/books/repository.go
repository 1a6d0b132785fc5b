// Package books provides database operations for the book catalog.
package books

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/entities"
)

var (
	ErrBookNotFound       = errors.New("book not found")
	ErrInvalidSearchField = errors.New("invalid search field")
	ErrDuplicateISBN      = errors.New("duplicate isbn")
)

// SearchField selects which column a search term is matched against.
type SearchField string

const (
	SearchByISBN   SearchField = "isbn"
	SearchByTitle  SearchField = "title"
	SearchByAuthor SearchField = "author"
	SearchByYear   SearchField = "year"
	SearchByAll    SearchField = "all"
)

var searchConditions = map[SearchField]string{
	SearchByISBN:   "UPPER(isbn) LIKE UPPER(@term)",
	SearchByTitle:  "UPPER(title) LIKE UPPER(@term)",
	SearchByAuthor: "UPPER(author) LIKE UPPER(@term)",
	SearchByYear:   "CAST(year AS VARCHAR) LIKE @term",
	SearchByAll: "UPPER(isbn) LIKE UPPER(@term) OR UPPER(title) LIKE UPPER(@term) " +
		"OR UPPER(author) LIKE UPPER(@term) OR CAST(year AS VARCHAR) LIKE @term",
}

// ParseSearchField validates a field selector coming from a form.
func ParseSearchField(s string) (SearchField, error) {
	field := SearchField(s)
	if _, ok := searchConditions[field]; !ok {
		return "", ErrInvalidSearchField
	}
	return field, nil
}

// batchSize bounds the number of rows per INSERT statement during bulk loads.
const batchSize = 500

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByISBN retrieves a book by its exact ISBN.
func (r *Repository) GetBookByISBN(ctx context.Context, isbn string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).
		Where("isbn = @isbn", map[string]any{"isbn": isbn}).
		First(&book).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book %q: %w", isbn, err)
	}
	return &book, nil
}

// GetBookByID retrieves a book by ID.
func (r *Repository) GetBookByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.WithContext(ctx).First(&book, id).Error
	if err != nil {
		if database.IsNotFound(err) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return &book, nil
}

// Search returns books whose field contains term, case-insensitively.
// SearchByAll matches any of the four columns; each book appears at most once.
func (r *Repository) Search(ctx context.Context, field SearchField, term string) ([]entities.Book, error) {
	condition, ok := searchConditions[field]
	if !ok {
		return nil, ErrInvalidSearchField
	}

	var books []entities.Book
	err := r.db.WithContext(ctx).
		Where(condition, map[string]any{"term": "%" + term + "%"}).
		Order("id").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("search books by %s: %w", field, err)
	}
	return books, nil
}

// CreateBooks inserts all books in one transaction. Either every row is
// committed or none is.
func (r *Repository) CreateBooks(ctx context.Context, books []entities.Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&books, batchSize).Error
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %v", ErrDuplicateISBN, err)
		}
		return 0, fmt.Errorf("create books: %w", err)
	}
	return len(books), nil
}

// Count returns the number of books in the catalog.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Book{}).Count(&count).Error
	return count, err
}
