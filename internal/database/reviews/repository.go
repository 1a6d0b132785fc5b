// Package reviews provides database operations for book reviews.
package reviews

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/bookreviews/internal/entities"
)

const listForBookQuery = `SELECT users.username, reviews.review_text, reviews.review_score
FROM users
JOIN reviews ON reviews.users_id = users.id
WHERE reviews.books_id = @books_id
ORDER BY reviews.id`

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateReview inserts a review and commits.
// A user may review the same book more than once.
func (r *Repository) CreateReview(ctx context.Context, review *entities.Review) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Book", "User").Create(review).Error
	})
	if err != nil {
		return fmt.Errorf("create review for book %d: %w", review.BookID, err)
	}
	return nil
}

// ListForBook returns every review of a book together with the reviewer's username.
func (r *Repository) ListForBook(ctx context.Context, bookID uint) ([]entities.BookReview, error) {
	var reviews []entities.BookReview
	err := r.db.WithContext(ctx).
		Raw(listForBookQuery, map[string]any{"books_id": bookID}).
		Scan(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("list reviews for book %d: %w", bookID, err)
	}
	return reviews, nil
}

// HasReviewed reports whether the user has at least one review for the book.
func (r *Repository) HasReviewed(ctx context.Context, userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Review{}).
		Where("users_id = @users_id AND books_id = @books_id",
			map[string]any{"users_id": userID, "books_id": bookID}).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check review for user %d book %d: %w", userID, bookID, err)
	}
	return count > 0, nil
}
