package http

import (
	"context"
	"net/http"

	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/database"
	"github.com/mrlokans/bookreviews/internal/database/books"
	"github.com/mrlokans/bookreviews/internal/database/reviews"
	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/ratings"
)

// This file consolidates the interfaces HTTP controllers depend on.
// Each controller takes only the narrow interface it uses.

// BookStore provides read access to the catalog.
type BookStore interface {
	GetBookByISBN(ctx context.Context, isbn string) (*entities.Book, error)
	Search(ctx context.Context, field books.SearchField, term string) ([]entities.Book, error)
}

// ReviewStore reads and writes reviews.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *entities.Review) error
	ListForBook(ctx context.Context, bookID uint) ([]entities.BookReview, error)
	HasReviewed(ctx context.Context, userID, bookID uint) (bool, error)
}

// Accounts registers and authenticates users.
type Accounts interface {
	Register(ctx context.Context, username, password, confirm string) (*entities.User, error)
	Authenticate(ctx context.Context, username, password string) (*entities.User, error)
}

// Sessions is the per-visitor state handlers read and change.
type Sessions interface {
	LogIn(r *http.Request, user *entities.User) error
	LogOut(r *http.Request) error
	SetCurrentBook(r *http.Request, bookID uint)
	CurrentBook(r *http.Request) uint
	ClearCurrentBook(r *http.Request)
}

// RatingsLookup fetches third-party rating summaries.
type RatingsLookup interface {
	Lookup(ctx context.Context, isbn string) (*ratings.Summary, error)
}

// Pinger checks that the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ BookStore     = (*books.Repository)(nil)
	_ ReviewStore   = (*reviews.Repository)(nil)
	_ Accounts      = (*auth.Service)(nil)
	_ Sessions      = (*auth.SessionManager)(nil)
	_ RatingsLookup = (*ratings.Client)(nil)
	_ Pinger        = (*database.Database)(nil)
)
