package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookreviews/internal/auth"
	"github.com/mrlokans/bookreviews/internal/database/books"
	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/logging"
)

// BooksController serves the book page and accepts reviews.
type BooksController struct {
	books    BookStore
	reviews  ReviewStore
	ratings  RatingsLookup
	sessions Sessions
	logger   logrus.FieldLogger
}

func NewBooksController(books BookStore, reviews ReviewStore, ratings RatingsLookup, sessions Sessions, logger logrus.FieldLogger) *BooksController {
	return &BooksController{
		books:    books,
		reviews:  reviews,
		ratings:  ratings,
		sessions: sessions,
		logger:   logger,
	}
}

// loadBook fetches the book named in the path, responding itself on failure.
func (controller *BooksController) loadBook(c *gin.Context) (*entities.Book, bool) {
	book, err := controller.books.GetBookByISBN(c.Request.Context(), c.Param("isbn"))
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			renderError(c, http.StatusNotFound, msgBookNotFound)
			return nil, false
		}
		respondInternalError(c, controller.logger, err, "load book")
		return nil, false
	}
	return book, true
}

// BookPage shows the book, its reviews and third-party ratings, and remembers
// the book in the session so a review can be submitted for it.
func (controller *BooksController) BookPage(c *gin.Context) {
	ctx := c.Request.Context()

	book, ok := controller.loadBook(c)
	if !ok {
		return
	}
	controller.sessions.SetCurrentBook(c.Request, book.ID)

	bookReviews, err := controller.reviews.ListForBook(ctx, book.ID)
	if err != nil {
		respondInternalError(c, controller.logger, err, "list reviews")
		return
	}

	reviewed, err := controller.reviews.HasReviewed(ctx, auth.GetUserID(c), book.ID)
	if err != nil {
		respondInternalError(c, controller.logger, err, "check review status")
		return
	}

	data := gin.H{
		"Book":             book,
		"Reviews":          bookReviews,
		"ReviewsExist":     len(bookReviews) > 0,
		"ReviewStatus":     reviewed,
		"RatingsAvailable": false,
	}

	summary, err := controller.ratings.Lookup(ctx, book.ISBN)
	if err != nil {
		logging.FromContext(controller.logger, c).
			WithError(err).
			WithField("isbn", book.ISBN).
			Warn("ratings lookup failed")
	} else {
		data["RatingsAvailable"] = true
		data["Rating"] = summary.AverageRating
		data["NumRatings"] = summary.RatingsCount
	}

	render(c, http.StatusOK, "page", data)
}

// SubmitReview stores a review for the book the user last opened.
func (controller *BooksController) SubmitReview(c *gin.Context) {
	text := strings.TrimSpace(c.PostForm("review_text"))
	rawScore := strings.TrimSpace(c.PostForm("review_score"))
	if text == "" || rawScore == "" {
		renderError(c, http.StatusOK, msgReviewRequired)
		return
	}

	score, err := strconv.Atoi(rawScore)
	if err != nil || score < entities.MinReviewScore || score > entities.MaxReviewScore {
		renderError(c, http.StatusOK, msgScoreOutOfRange)
		return
	}

	book, ok := controller.loadBook(c)
	if !ok {
		return
	}

	if current := controller.sessions.CurrentBook(c.Request); current == 0 || current != book.ID {
		renderError(c, http.StatusBadRequest, msgOpenBookFirst)
		return
	}

	review := &entities.Review{
		ReviewText:  text,
		ReviewScore: score,
		BookID:      book.ID,
		UserID:      auth.GetUserID(c),
	}
	if err := controller.reviews.CreateReview(c.Request.Context(), review); err != nil {
		respondInternalError(c, controller.logger, err, "create review")
		return
	}
	controller.sessions.ClearCurrentBook(c.Request)

	render(c, http.StatusOK, "submitted", gin.H{
		"ReviewText":  review.ReviewText,
		"ReviewScore": review.ReviewScore,
		"ISBN":        book.ISBN,
	})
}
