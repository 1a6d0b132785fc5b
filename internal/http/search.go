package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mrlokans/bookreviews/internal/database/books"
)

type SearchController struct {
	books  BookStore
	logger logrus.FieldLogger
}

func NewSearchController(books BookStore, logger logrus.FieldLogger) *SearchController {
	return &SearchController{
		books:  books,
		logger: logger,
	}
}

func (controller *SearchController) SearchPage(c *gin.Context) {
	render(c, http.StatusOK, "search", nil)
}

// Search matches the term as a case-insensitive substring of the chosen field.
func (controller *SearchController) Search(c *gin.Context) {
	term := strings.TrimSpace(c.PostForm("search_term"))
	if term == "" {
		renderError(c, http.StatusOK, msgSearchTermRequired)
		return
	}

	field, err := books.ParseSearchField(c.PostForm("search_field"))
	if err != nil {
		renderError(c, http.StatusOK, msgInvalidSearchField)
		return
	}

	results, err := controller.books.Search(c.Request.Context(), field, term)
	if err != nil {
		if errors.Is(err, books.ErrInvalidSearchField) {
			renderError(c, http.StatusOK, msgInvalidSearchField)
			return
		}
		respondInternalError(c, controller.logger, err, "search")
		return
	}

	if len(results) == 0 {
		renderError(c, http.StatusOK, msgNoResults)
		return
	}

	render(c, http.StatusOK, "results", gin.H{
		"Results": results,
		"Counter": len(results),
	})
}
