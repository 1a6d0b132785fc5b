package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookreviews/internal/database/books"
	"github.com/mrlokans/bookreviews/internal/logging"
)

// BookResponse is the JSON shape of GET /api/:isbn.
type BookResponse struct {
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Year         int     `json:"year"`
	ISBN         string  `json:"isbn"`
	ReviewCount  int     `json:"review_count"`
	AverageScore float64 `json:"average_score"`
}

type APIController struct {
	books   BookStore
	ratings RatingsLookup
	logger  logrus.FieldLogger
}

func NewAPIController(books BookStore, ratings RatingsLookup, logger logrus.FieldLogger) *APIController {
	return &APIController{
		books:   books,
		ratings: ratings,
		logger:  logger,
	}
}

// GetBook returns catalog data joined with third-party ratings.
// An unknown ISBN answers 200 with an error message, which existing clients rely on.
func (controller *APIController) GetBook(c *gin.Context) {
	ctx := c.Request.Context()

	book, err := controller.books.GetBookByISBN(ctx, c.Param("isbn"))
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			c.JSON(http.StatusOK, MessageResponse{Message: apiMsgBookNotFound})
			return
		}
		logging.FromContext(controller.logger, c).WithError(err).Error("internal error (api book lookup)")
		c.JSON(http.StatusInternalServerError, MessageResponse{Message: "error - " + msgInternal})
		return
	}

	summary, err := controller.ratings.Lookup(ctx, book.ISBN)
	if err != nil {
		logging.FromContext(controller.logger, c).
			WithError(err).
			WithField("isbn", book.ISBN).
			Warn("ratings lookup failed")
		c.JSON(http.StatusBadGateway, MessageResponse{Message: apiMsgRatingsUnavailable})
		return
	}

	c.JSON(http.StatusOK, BookResponse{
		Title:        book.Title,
		Author:       book.Author,
		Year:         book.Year,
		ISBN:         book.ISBN,
		ReviewCount:  summary.RatingsCount,
		AverageScore: summary.AverageRating,
	})
}
